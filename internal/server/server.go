// Package server exposes the pipeline over HTTP for uploaders that cannot
// shell out to the CLI.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfpipe/internal/pipeline"
)

// Prometheus metrics
var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdfpipe_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"status"},
	)
	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "pdfpipe_run_duration_seconds",
			Help: "Duration of pipeline runs",
		},
	)
	dedupeHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pdfpipe_dedupe_hits_total",
			Help: "Runs skipped because the extracted text was already ingested",
		},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(dedupeHitsTotal)
}

type ingestResponse struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	Deduped bool   `json:"deduped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server handles upload-and-ingest requests.
type Server struct {
	pipeline  *pipeline.Runner
	uploadDir string
}

// New creates a Server. Uploads are staged under uploadDir; empty means the
// system temp directory.
func New(p *pipeline.Runner, uploadDir string) *Server {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	return &Server{pipeline: p, uploadDir: uploadDir}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ingest", s.handleIngest).Methods("POST")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true,"service":"pdfpipe"}`))
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		runDuration.Observe(time.Since(start).Seconds())
	}()

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		runsTotal.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	src, header, err := r.FormFile("file")
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer src.Close()

	// metadata is only forwarded when the field was actually submitted
	var metadata *string
	if vals, ok := r.MultipartForm.Value["metadata"]; ok && len(vals) > 0 {
		metadata = &vals[0]
	}

	runDir := filepath.Join(s.uploadDir, uuid.NewString())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		runsTotal.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := os.RemoveAll(runDir); err != nil {
			log.Printf("Warning: failed to remove upload dir %s: %v", runDir, err)
		}
	}()

	dstPath := filepath.Join(runDir, filepath.Base(header.Filename))
	dst, err := os.Create(dstPath)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		runsTotal.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dst.Close()

	res, err := s.pipeline.Run(r.Context(), dstPath, metadata)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, ingestResponse{
			RunID:  res.RunID,
			Status: "failed",
			Error:  err.Error(),
		})
		return
	}

	status := "ok"
	if res.Deduped {
		status = "deduped"
		dedupeHitsTotal.Inc()
	}
	runsTotal.WithLabelValues(status).Inc()
	writeJSON(w, http.StatusOK, ingestResponse{
		RunID:   res.RunID,
		Status:  status,
		Deduped: res.Deduped,
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe runs the server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) ListenAndServe(port string) error {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("pdfpipe listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced to shutdown: %w", err)
	}
	log.Println("Server exited")
	return nil
}
