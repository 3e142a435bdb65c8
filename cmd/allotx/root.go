package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ukaji3/allotx-go/internal/config"
	"github.com/ukaji3/allotx-go/internal/logging"
	"github.com/ukaji3/allotx-go/pkg/allotx"
	"github.com/ukaji3/allotx-go/pkg/allotx/parser"
)

// app carries state shared by subcommands after PersistentPreRunE.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "allotx",
		Short: "Extract allotment tables from Excel and CSV files",
		Long: `allotx reads loosely formatted spreadsheets (.xlsx, .xls, .csv) that mix
key/value header metadata with one or more tables, and outputs JSON with
the header information and the records of every detected table.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./allotx.yaml or ~/.allotx/allotx.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// options builds extraction options from config.
func (a *app) options() (allotx.Options, error) {
	scope, ok := parser.ParseHeaderScope(a.cfg.Extract.HeaderScope)
	if !ok {
		return allotx.Options{}, fmt.Errorf("invalid header scope: %s (must be outside or all)", a.cfg.Extract.HeaderScope)
	}

	opts := allotx.DefaultOptions()
	opts.HeaderScope = scope
	opts.MaxFileSize = a.cfg.Extract.MaxFileSize
	return opts, nil
}
