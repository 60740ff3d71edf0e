package main

import (
	"github.com/spf13/cobra"

	"pdfpipe/internal/config"
	"pdfpipe/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP upload-and-ingest daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		p, closer, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer()

		return server.New(p, cfg.TmpDir).ListenAndServe(cfg.Port)
	},
}
