package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"pdfpipe/internal/config"
	"pdfpipe/internal/source"
)

var indexCmd = &cobra.Command{
	Use:   "index <dir> [metadata]",
	Short: "Ingest every PDF under a directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		p, closer, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer()

		files, err := source.ListLocal(args[0], source.DefaultExts)
		if err != nil {
			return fmt.Errorf("load files: %w", err)
		}
		metadata := optionalArg(args, 1)

		failed := 0
		for _, f := range files {
			log.Println("Ingesting:", f)
			res, err := p.Run(cmd.Context(), f, metadata)
			if err != nil {
				log.Println("skip file:", f, "err:", err)
				failed++
				continue
			}
			if res.Deduped {
				log.Println("already ingested, skipped:", f)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(files))
		}
		log.Printf("Ingested %d files.", len(files))
		return nil
	},
}
