// Package pipeline orchestrates one ingestion run: extract the PDF's text
// into a scoped temporary file, hand the file to the ingestion tool, and
// remove the file on every exit path.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"pdfpipe/internal/dedupe"
	"pdfpipe/internal/journal"
)

// Extractor writes the text of the PDF at src to dst.
type Extractor interface {
	ExtractTo(ctx context.Context, src, dst string) error
}

// Ingester hands an extracted text file to the ingestion tool.
type Ingester interface {
	Add(ctx context.Context, textPath string, metadata *string) error
}

// Runner performs pipeline runs. Ledger and Journal are optional.
type Runner struct {
	Extractor Extractor
	Ingester  Ingester
	Ledger    dedupe.Ledger
	Journal   *journal.Journal

	// TmpDir is where the temporary text artifact lives; empty means the
	// system default.
	TmpDir string

	// StepTimeout bounds each external invocation; zero disables.
	StepTimeout time.Duration
}

// Result describes a finished run.
type Result struct {
	RunID    string
	Input    string
	Metadata *string
	Deduped  bool
	Duration time.Duration
}

// Statuses recorded in the journal.
const (
	StatusOK            = "ok"
	StatusDeduped       = "deduped"
	StatusExtractFailed = "extract_failed"
	StatusIngestFailed  = "ingest_failed"
)

// Run executes the extract-then-ingest sequence for one input. The temporary
// artifact is removed before Run returns, success or failure; a removal
// failure is logged and never masks the primary outcome.
func (r *Runner) Run(ctx context.Context, input string, metadata *string) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString(), Input: input, Metadata: metadata}

	tmp, err := os.CreateTemp(r.TmpDir, "pdfpipe-*.txt")
	if err != nil {
		return res, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: failed to remove temp file %s: %v", tmpPath, err)
		}
	}()

	if err := r.step(ctx, func(ctx context.Context) error {
		return r.Extractor.ExtractTo(ctx, input, tmpPath)
	}); err != nil {
		res.Duration = time.Since(start)
		r.record(res, StatusExtractFailed, err)
		return res, err
	}

	var digest string
	if r.Ledger != nil {
		digest, err = dedupe.HashFile(tmpPath)
		if err != nil {
			log.Printf("Warning: failed to hash %s: %v", tmpPath, err)
			digest = ""
		}
	}
	if digest != "" {
		seen, err := r.Ledger.Seen(ctx, digest)
		if err != nil {
			log.Printf("Warning: dedupe lookup failed: %v", err)
		} else if seen {
			res.Deduped = true
			res.Duration = time.Since(start)
			r.record(res, StatusDeduped, nil)
			return res, nil
		}
	}

	if err := r.step(ctx, func(ctx context.Context) error {
		return r.Ingester.Add(ctx, tmpPath, metadata)
	}); err != nil {
		res.Duration = time.Since(start)
		r.record(res, StatusIngestFailed, err)
		return res, err
	}

	if digest != "" {
		if err := r.Ledger.Record(ctx, digest); err != nil {
			log.Printf("Warning: failed to record digest: %v", err)
		}
	}

	res.Duration = time.Since(start)
	r.record(res, StatusOK, nil)
	return res, nil
}

func (r *Runner) step(ctx context.Context, f func(context.Context) error) error {
	if r.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.StepTimeout)
		defer cancel()
	}
	return f(ctx)
}

// record writes the run to the journal, best effort.
func (r *Runner) record(res Result, status string, runErr error) {
	if r.Journal == nil {
		return
	}
	e := journal.Entry{
		ID:       res.RunID,
		Input:    res.Input,
		Status:   status,
		Duration: res.Duration,
	}
	if res.Metadata != nil {
		e.Metadata = *res.Metadata
	}
	if runErr != nil {
		e.Error = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Journal.Record(ctx, e); err != nil {
		log.Printf("Warning: failed to journal run %s: %v", res.RunID, err)
	}
}
