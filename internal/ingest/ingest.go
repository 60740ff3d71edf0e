// Package ingest invokes the external ingestion tool. The tool owns all
// storage and indexing semantics; this package only builds its argv and
// surfaces its failures.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"pdfpipe/internal/runner"
)

// IngestionError reports a failed ingestion tool invocation.
type IngestionError struct {
	Tool string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest (%s): %v", e.Tool, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Tool wraps the external ingestion command.
type Tool struct {
	bin    string
	runner runner.CommandRunner
	stdout io.Writer
}

// New creates a Tool. If bin is empty, "ingest" is used.
func New(bin string, r runner.CommandRunner) *Tool {
	if bin == "" {
		bin = "ingest"
	}
	return &Tool{bin: bin, runner: r, stdout: os.Stdout}
}

// Add runs `<bin> add <textPath> [metadata]`. A nil metadata means the
// argument is absent entirely; a non-nil value is forwarded byte-for-byte,
// empty string included. The tool's stdout is forwarded to the caller.
func (t *Tool) Add(ctx context.Context, textPath string, metadata *string) error {
	args := []string{"add", textPath}
	if metadata != nil {
		args = append(args, *metadata)
	}

	out, err := t.runner.Run(ctx, t.bin, args...)
	if len(out) > 0 {
		_, _ = t.stdout.Write(out)
	}
	if err != nil {
		return &IngestionError{Tool: t.bin, Err: err}
	}
	return nil
}
