package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickgao/eod-data/internal/api"
	"github.com/rickgao/eod-data/internal/model"
)

func newExchangeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exchange <CODE>",
		Short: "List the symbols traded on an exchange",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			records, err := client.ExchangeSymbols(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			name, _ := model.ExchangeName(args[0])
			a.logger.Info("exchange symbols", "exchange", args[0], "name", name, "symbols", len(records))
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
}

func newQuoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <CODE.EXCHANGE>...",
		Short: "Fetch real-time quotes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd)
			if err != nil {
				return err
			}

			instruments, err := parseInstruments(args)
			if err != nil {
				return err
			}

			if len(instruments) == 1 {
				record, err := client.RealTime(cmd.Context(), instruments[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), record)
			}

			batch, err := model.NewBatch(instruments)
			if err != nil {
				return err
			}
			records, err := client.RealTimeBatch(cmd.Context(), batch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
}

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.json|->",
		Short: "Fetch real-time quotes for a JSON list of {code, exchange_code} objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			batch, err := model.ParseBatch(data)
			if err != nil {
				return err
			}

			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			records, err := client.RealTimeBatch(cmd.Context(), batch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
}

func newEODCmd(a *app) *cobra.Command {
	var opts api.EndOfDayOptions

	cmd := &cobra.Command{
		Use:   "eod <CODE.EXCHANGE>",
		Short: "Fetch end-of-day history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := model.ParseInstrument(args[0])
			if err != nil {
				return err
			}
			client, err := a.client(cmd)
			if err != nil {
				return err
			}
			records, err := client.EndOfDay(cmd.Context(), inst, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
	addEODFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.Period, "period", "", "bar period: d, w or m")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order: a or d")
	return cmd
}

func addEODFlags(cmd *cobra.Command, opts *api.EndOfDayOptions) {
	cmd.Flags().StringVar(&opts.From, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.To, "to", "", "last date, YYYY-MM-DD")
}

func parseInstruments(args []string) ([]model.Instrument, error) {
	instruments := make([]model.Instrument, 0, len(args))
	for _, s := range args {
		inst, err := model.ParseInstrument(s)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		instruments = append(instruments, inst)
	}
	return instruments, nil
}

// readInput reads a file, or stdin when name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}
