// Package model defines the value types shared across the EOD data client.
//
// Conventions:
//   - Instruments are (code, exchange) pairs rendered as "CODE.EXCHANGE"
//   - Provider payloads are passed through untyped as Record values
//   - Dates are calendar dates in YYYY-MM-DD form, without a time zone
package model
