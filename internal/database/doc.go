// Package database provides the TimescaleDB connection pool and schema.
//
// Tables:
//   - quotes:   real-time quote snapshots written by the gatherer
//   - eod_bars: end-of-day bars written by eodctl sync
//
// Both tables are append-only; duplicate keys are ignored on insert.
package database
