// Package store writes provider records to TimescaleDB.
//
// Writers:
//   - QuoteWriter: real-time quotes into the quotes table, tagged with a poll run ID
//   - BarWriter:   end-of-day bars for one instrument into the eod_bars table
//
// Both writers are append-only and use pgx.Batch with ON CONFLICT DO NOTHING.
// Prices are stored as NUMERIC and carried as shopspring decimals so no
// precision is lost between the provider and the database.
package store
