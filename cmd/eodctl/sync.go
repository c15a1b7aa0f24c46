package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/eod-data/internal/api"
	"github.com/rickgao/eod-data/internal/database"
	"github.com/rickgao/eod-data/internal/store"
)

// syncResult is the per-instrument summary printed by sync.
type syncResult struct {
	Instrument string `json:"instrument"`
	Fetched    int    `json:"fetched"`
	Inserted   int    `json:"inserted"`
	Conflicts  int    `json:"conflicts"`
	Skipped    int    `json:"skipped"`
}

func newSyncCmd(a *app) *cobra.Command {
	var (
		opts        api.EndOfDayOptions
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "sync <CODE.EXCHANGE>...",
		Short: "Store end-of-day bars in TimescaleDB",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be >= 1, got %d", concurrency)
			}
			instruments, err := parseInstruments(args)
			if err != nil {
				return err
			}
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			if err := a.cfg.ValidateDatabase(); err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := database.Connect(ctx, a.cfg.Database.Timescale)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.EnsureSchema(ctx, pool); err != nil {
				return err
			}

			writer := store.NewBarWriter(pool, a.logger)
			opts.Order = api.OrderAscending

			results := make([]syncResult, len(instruments))

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(concurrency)
			for i, inst := range instruments {
				g.Go(func() error {
					records, err := client.EndOfDay(gctx, inst, opts)
					if err != nil {
						return err
					}
					res, err := writer.Write(gctx, inst, records)
					if err != nil {
						return err
					}

					results[i] = syncResult{
						Instrument: inst.String(),
						Fetched:    len(records),
						Inserted:   res.Inserted,
						Conflicts:  res.Conflicts,
						Skipped:    res.Skipped,
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			a.logger.Info("sync complete", "instruments", len(instruments), "inserted", writer.Stats().Inserts)
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	addEODFlags(cmd, &opts)
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "instruments fetched in parallel")
	return cmd
}
