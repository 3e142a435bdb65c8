package main

import (
	"github.com/spf13/cobra"

	"github.com/ukaji3/allotx-go/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		outDir   string
		existing bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Extract spreadsheets as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("out-dir") {
				a.cfg.Watch.OutDir = outDir
			}

			opts, err := a.options()
			if err != nil {
				return err
			}

			w, err := watch.New(watch.Config{
				Dir:     args[0],
				OutDir:  a.cfg.Watch.OutDir,
				Options: opts,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}

			if existing {
				if err := w.ProcessExisting(); err != nil {
					return err
				}
			}
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for result files (default: the watched directory)")
	cmd.Flags().BoolVar(&existing, "existing", false, "Also extract files already in the directory")

	return cmd
}
