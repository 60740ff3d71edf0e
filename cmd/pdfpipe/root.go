package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"pdfpipe/internal/config"
	"pdfpipe/internal/dedupe"
	"pdfpipe/internal/extract"
	"pdfpipe/internal/ingest"
	"pdfpipe/internal/journal"
	"pdfpipe/internal/pipeline"
	"pdfpipe/internal/runner"
)

var rootCmd = &cobra.Command{
	Use:   "pdfpipe",
	Short: "Extract text from PDFs and feed it to an ingestion tool",
	Long: `pdfpipe runs pdftotext against a PDF, writes the text to a scoped
temporary file, hands the file to an external ingestion tool, and removes
the temporary file whether or not the handoff succeeded.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(driveCmd)
	rootCmd.AddCommand(serveCmd)
}

// buildPipeline wires the runner from config. The returned closer releases
// the journal's connection pool.
func buildPipeline(ctx context.Context, cfg config.Config) (*pipeline.Runner, func(), error) {
	execRunner := &runner.ExecRunner{}

	engines := []extract.Engine{
		extract.NewPdftotext(cfg.PdftotextBin, execRunner),
		&extract.Layer{},
	}
	if cfg.OCR {
		engines = append(engines, extract.NewOCR(cfg.PdftoppmBin, execRunner))
	}

	var ledger dedupe.Ledger
	if cfg.RedisAddr != "" {
		if rl := dedupe.NewRedisLedger(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rl != nil {
			ledger = rl
		}
	}

	jrnl, err := journal.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := jrnl.Init(ctx); err != nil {
		log.Printf("Warning: journal init failed: %v", err)
	}

	p := &pipeline.Runner{
		Extractor:   extract.NewChain(engines...),
		Ingester:    ingest.New(cfg.IngestBin, execRunner),
		Ledger:      ledger,
		Journal:     jrnl,
		TmpDir:      cfg.TmpDir,
		StepTimeout: cfg.StepTimeout,
	}
	return p, func() { jrnl.Close() }, nil
}

// optionalArg returns a pointer to args[i] when present, nil otherwise, so an
// omitted CLI argument stays "absent" rather than becoming an empty string.
func optionalArg(args []string, i int) *string {
	if len(args) > i {
		return &args[i]
	}
	return nil
}
