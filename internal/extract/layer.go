package extract

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// Layer reads the PDF's embedded text layer in-process. Scanned documents
// have no text layer, so an empty result is a failure and the chain moves on.
type Layer struct{}

func (l *Layer) Name() string { return "text-layer" }

func (l *Layer) ExtractTo(_ context.Context, src, dst string) error {
	f, r, err := pdf.Open(src)
	if err != nil {
		return &ExtractionError{Tool: l.Name(), Err: err}
	}
	defer f.Close()

	b, err := r.GetPlainText()
	if err != nil {
		return &ExtractionError{Tool: l.Name(), Err: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, b); err != nil {
		return &ExtractionError{Tool: l.Name(), Err: err}
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return &ExtractionError{Tool: l.Name(), Err: errors.New("no text layer")}
	}
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return &ExtractionError{Tool: l.Name(), Err: err}
	}
	return nil
}
