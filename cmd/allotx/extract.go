package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/allotx-go/pkg/allotx"
	"github.com/ukaji3/allotx-go/pkg/allotx/output"
)

type extractFlags struct {
	outputPath  string
	outDir      string
	format      string
	pretty      bool
	headerScope string
	maxSize     int64
	jobs        int
}

func newExtractCmd(a *app) *cobra.Command {
	f := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract [input.xlsx|input.xls|input.csv]...",
		Short: "Extract header information and tables to JSON",
		Long: `Extract reads each input file and writes its result document. A single
input is written to --output or stdout; several inputs need --out-dir,
which receives one <name>.json per input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, f, args)
		},
	}

	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "Directory for per-input output files")
	cmd.Flags().StringVar(&f.format, "format", "json", "Output format: json or yaml")
	cmd.Flags().BoolVar(&f.pretty, "pretty", true, "Pretty-print JSON output")
	cmd.Flags().StringVar(&f.headerScope, "header-scope", "", "Rows that may hold header entries: outside or all")
	cmd.Flags().Int64Var(&f.maxSize, "max-size", 0, "Maximum input size in bytes (0: no limit)")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "Number of files extracted concurrently")

	return cmd
}

func runExtract(cmd *cobra.Command, a *app, f *extractFlags, paths []string) error {
	if cmd.Flags().Changed("header-scope") {
		a.cfg.Extract.HeaderScope = f.headerScope
	}
	if cmd.Flags().Changed("max-size") {
		a.cfg.Extract.MaxFileSize = f.maxSize
	}
	if cmd.Flags().Changed("jobs") {
		a.cfg.Extract.Jobs = f.jobs
	}

	format, err := output.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if len(paths) > 1 && f.outDir == "" {
		return errors.New("several inputs need --out-dir")
	}
	if f.outputPath != "" && f.outDir != "" {
		return errors.New("--output and --out-dir are mutually exclusive")
	}

	opts, err := a.options()
	if err != nil {
		return err
	}

	results, err := allotx.ExtractFiles(cmd.Context(), paths, opts, a.cfg.Extract.Jobs)
	if err != nil {
		return fmt.Errorf("extraction cancelled: %w", err)
	}

	failed := 0
	for _, fr := range results {
		if fr.Result.Failed() {
			failed++
			a.logger.Warn("extraction failed", "file", fr.Path, "message", fr.Result.Message)
		} else {
			a.logger.Debug("extraction complete", "file", fr.Path, "tables", len(fr.Result.Tables))
		}
	}

	if f.outDir != "" {
		if err := writeResultFiles(results, f.outDir, format, f.pretty); err != nil {
			return fmt.Errorf("failed to write result files: %w", err)
		}
	} else if err := writeResult(cmd, results[0], f.outputPath, format, f.pretty); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return nil
}

func writeResult(cmd *cobra.Command, fr allotx.FileResult, path string, format output.Format, pretty bool) error {
	if path == "" {
		return output.Write(cmd.OutOrStdout(), format, fr.Result, pretty)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	defer out.Close()

	if err := output.Write(out, format, fr.Result, pretty); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return out.Close()
}

func writeResultFiles(results []allotx.FileResult, dir string, format output.Format, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, fr := range results {
		base := filepath.Base(fr.Path)
		name := strings.TrimSuffix(base, filepath.Ext(base)) + "." + string(format)

		out, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := output.Write(out, format, fr.Result, pretty); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	}

	return nil
}
