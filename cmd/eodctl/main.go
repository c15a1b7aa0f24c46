// eodctl queries the EOD Historical Data API from the command line.
//
// Usage:
//
//	EOD_API_KEY=... eodctl quote AAPL.US VOD.LSE
//	eodctl --config configs/eod.yaml eod AAPL.US --from 2024-01-01
//
// Results are written to stdout as JSON; logs go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
