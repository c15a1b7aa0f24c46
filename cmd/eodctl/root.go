package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rickgao/eod-data/internal/api"
	"github.com/rickgao/eod-data/internal/config"
	"github.com/rickgao/eod-data/internal/logging"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "eodctl",
		Short:         "Query the EOD Historical Data API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config file (default: environment only)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newExchangeCmd(a),
		newQuoteCmd(a),
		newBatchCmd(a),
		newEODCmd(a),
		newStreamCmd(a),
		newSyncCmd(a),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration once. Without --config only the environment is used.
func (a *app) load(cmd *cobra.Command) error {
	if a.cfg != nil {
		return nil
	}

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadAndValidate(a.configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return nil
}

// client loads the configuration and builds an API client from it.
func (a *app) client(cmd *cobra.Command) (*api.Client, error) {
	if err := a.load(cmd); err != nil {
		return nil, err
	}
	return api.NewClient(
		a.cfg.API.BaseURL,
		a.cfg.API.APIToken,
		api.WithTimeout(a.cfg.API.Timeout),
		api.WithBatchSize(a.cfg.API.BatchSize),
		api.WithLogger(a.logger),
	)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
