// Package stream implements the EOD Historical Data live-feed WebSocket client.
//
// A Client holds one connection to a single feed (us, us-quote, forex, crypto).
// Symbols are added and removed with Subscribe and Unsubscribe; every frame the
// server sends, including the authorization status, is delivered on Messages
// with the local receive time.
package stream
