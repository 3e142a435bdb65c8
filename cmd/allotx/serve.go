package main

import (
	"github.com/spf13/cobra"

	"github.com/ukaji3/allotx-go/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host        string
		port        string
		maxUploadMB int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP API",
		Long: `Serve starts an HTTP API. POST a multipart upload (field "file") to
/api/extract to receive the result document; add ?download=true to receive
it as extracted_allotments.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if cmd.Flags().Changed("max-upload-mb") {
				a.cfg.Server.MaxUploadMB = maxUploadMB
			}

			opts, err := a.options()
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Host:           a.cfg.Server.Host,
				Port:           a.cfg.Server.Port,
				MaxUploadBytes: a.cfg.Server.MaxUploadMB << 20,
				Options:        opts,
				Logger:         a.logger,
			})
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Address to bind to (default: 127.0.0.1)")
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (default: 8080)")
	cmd.Flags().Int64Var(&maxUploadMB, "max-upload-mb", 0, "Maximum upload size in MB (default: 32)")

	return cmd
}
