package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/otiai10/gosseract/v2"

	"pdfpipe/internal/runner"
)

// OCR handles scanned PDFs: pages are rasterized with pdftoppm (poppler) and
// each page image goes through tesseract.
type OCR struct {
	pdftoppmBin string
	runner      runner.CommandRunner
}

// NewOCR creates the engine. If bin is empty, "pdftoppm" is used.
func NewOCR(bin string, r runner.CommandRunner) *OCR {
	if bin == "" {
		bin = "pdftoppm"
	}
	return &OCR{pdftoppmBin: bin, runner: r}
}

func (o *OCR) Name() string { return "ocr" }

func (o *OCR) ExtractTo(ctx context.Context, src, dst string) error {
	prefix := filepath.Join(os.TempDir(), "pdfpipe-page-"+uuid.NewString())
	if _, err := o.runner.Run(ctx, o.pdftoppmBin, "-png", src, prefix); err != nil {
		return &ExtractionError{Tool: o.Name(), Err: fmt.Errorf("pdftoppm convert failed: %w", err)}
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return &ExtractionError{Tool: o.Name(), Err: err}
	}
	defer func() {
		for _, p := range pages {
			_ = os.Remove(p)
		}
	}()
	if len(pages) == 0 {
		return &ExtractionError{Tool: o.Name(), Err: errors.New("pdftoppm produced no pages")}
	}

	var combined strings.Builder
	for _, page := range pages {
		text, err := runTesseract(page)
		if err != nil {
			continue
		}
		combined.WriteString(text)
		combined.WriteString("\n")
	}

	text := strings.TrimSpace(combined.String())
	if text == "" {
		return &ExtractionError{Tool: o.Name(), Err: errors.New("ocr produced no text")}
	}
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return &ExtractionError{Tool: o.Name(), Err: err}
	}
	return nil
}

func runTesseract(imgPath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetImage(imgPath); err != nil {
		return "", err
	}
	text, err := client.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
