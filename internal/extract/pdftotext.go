package extract

import (
	"context"
	"fmt"
	"os"

	"pdfpipe/internal/runner"
)

// Pdftotext extracts text with the poppler pdftotext CLI.
type Pdftotext struct {
	bin    string
	runner runner.CommandRunner
}

// NewPdftotext creates the engine. If bin is empty, "pdftotext" is used.
func NewPdftotext(bin string, r runner.CommandRunner) *Pdftotext {
	if bin == "" {
		bin = "pdftotext"
	}
	return &Pdftotext{bin: bin, runner: r}
}

func (p *Pdftotext) Name() string { return "pdftotext" }

// ExtractTo runs pdftotext against src, writing plain text to dst.
func (p *Pdftotext) ExtractTo(ctx context.Context, src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return &ExtractionError{Tool: p.Name(), Err: fmt.Errorf("input not readable: %w", err)}
	}
	if _, err := p.runner.Run(ctx, p.bin, "-q", "-enc", "UTF-8", src, dst); err != nil {
		return &ExtractionError{Tool: p.Name(), Err: err}
	}
	return nil
}
