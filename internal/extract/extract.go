// Package extract turns PDF documents into plain text files. Engines share a
// single contract: read the source PDF, write its text to the destination path.
package extract

import (
	"context"
	"errors"
	"fmt"
)

// Engine writes the text content of the PDF at src to the file at dst.
type Engine interface {
	Name() string
	ExtractTo(ctx context.Context, src, dst string) error
}

// ExtractionError reports a failed extraction attempt. It wraps the underlying
// cause so callers can recover the tool's exit status.
type ExtractionError struct {
	Tool string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract (%s): %v", e.Tool, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Chain tries each engine in order and stops at the first success.
type Chain struct {
	Engines []Engine
}

func NewChain(engines ...Engine) *Chain {
	return &Chain{Engines: engines}
}

func (c *Chain) Name() string { return "chain" }

// ExtractTo runs the engines in order. When every engine fails the returned
// error joins all of their failures.
func (c *Chain) ExtractTo(ctx context.Context, src, dst string) error {
	if len(c.Engines) == 0 {
		return &ExtractionError{Tool: c.Name(), Err: errors.New("no engines configured")}
	}
	var errs []error
	for _, eng := range c.Engines {
		if err := eng.ExtractTo(ctx, src, dst); err != nil {
			errs = append(errs, err)
			continue
		}
		return nil
	}
	return &ExtractionError{Tool: c.Name(), Err: errors.Join(errs...)}
}
