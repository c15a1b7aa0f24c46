// Package api provides the EOD Historical Data REST client.
//
// Endpoints (relative to https://eodhistoricaldata.com/api):
//   - /exchanges/{EXCHANGE}       symbols listed on an exchange
//   - /real-time/{CODE.EXCHANGE}  delayed real-time quote, s= for extra symbols
//   - /eod/{CODE.EXCHANGE}        end-of-day history, from/to/period/order
//
// Every request carries the api_token and fmt=json query parameters.
// Calls are synchronous; batched quotes are fetched one partition at a time.
package api
