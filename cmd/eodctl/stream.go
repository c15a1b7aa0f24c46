package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/eod-data/internal/model"
	"github.com/rickgao/eod-data/internal/stream"
)

func newStreamCmd(a *app) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "stream <us|us-quote|forex|crypto> <SYMBOL>...",
		Short: "Print live-feed messages as JSON lines",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := stream.ParseFeed(args[0])
			if err != nil {
				return err
			}
			if err := a.load(cmd); err != nil {
				return err
			}

			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			cfg := stream.DefaultConfig()
			cfg.BaseURL = a.cfg.API.WSURL
			cfg.Feed = feed
			cfg.APIToken = a.cfg.API.APIToken

			client := stream.NewClient(cfg, a.logger)
			if err := client.Connect(ctx); err != nil {
				return err
			}
			defer client.Close()

			if err := client.Subscribe(args[1:]...); err != nil {
				return err
			}
			a.logger.Info("streaming", "feed", feed, "symbols", client.Symbols())

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-client.Errors():
					return err
				case msg := <-client.Messages():
					rec, err := msg.Record()
					if err != nil {
						a.logger.Warn("dropping undecodable frame", "bytes", len(msg.Data), "error", err)
						continue
					}
					line := struct {
						ReceivedAt time.Time    `json:"received_at"`
						Data       model.Record `json:"data"`
					}{msg.ReceivedAt, rec}
					if err := enc.Encode(line); err != nil {
						return err
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (default: until interrupted)")
	return cmd
}
