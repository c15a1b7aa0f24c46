// Package poller periodically fetches real-time quotes for a watchlist.
//
// Each cycle issues one batched real-time request sequence and hands the
// resulting records to a SnapshotHandler tagged with a fresh run ID.
// A failed cycle is logged and counted; the next tick starts a new cycle.
package poller
