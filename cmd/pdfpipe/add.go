package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"pdfpipe/internal/config"
)

var addCmd = &cobra.Command{
	Use:   "add <pdf> [metadata]",
	Short: "Extract one PDF and hand the text to the ingestion tool",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		p, closer, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer()

		res, err := p.Run(cmd.Context(), args[0], optionalArg(args, 1))
		if err != nil {
			return err
		}
		if res.Deduped {
			log.Printf("already ingested, skipped: %s", args[0])
		} else {
			log.Printf("ingested %s in %s", args[0], res.Duration.Round(time.Millisecond))
		}
		return nil
	},
}
