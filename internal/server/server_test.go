package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfpipe/internal/pipeline"
)

type stubExtractor struct {
	err error
}

func (s *stubExtractor) ExtractTo(_ context.Context, _, dst string) error {
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(dst, []byte("hello world"), 0o644)
}

type stubIngester struct {
	metadata []*string
	calls    int
}

func (s *stubIngester) Add(_ context.Context, _ string, metadata *string) error {
	s.calls++
	s.metadata = append(s.metadata, metadata)
	return nil
}

func newTestServer(t *testing.T, ext pipeline.Extractor, ing pipeline.Ingester) *Server {
	t.Helper()
	p := &pipeline.Runner{Extractor: ext, Ingester: ing, TmpDir: t.TempDir()}
	return New(p, t.TempDir())
}

func multipartUpload(t *testing.T, metadata *string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "sample.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 stub"))
	require.NoError(t, err)

	if metadata != nil {
		require.NoError(t, mw.WriteField("metadata", *metadata))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{}, &stubIngester{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestIngestUpload(t *testing.T) {
	ing := &stubIngester{}
	srv := newTestServer(t, &stubExtractor{}, ing)

	meta := "invoices"
	body, contentType := multipartUpload(t, &meta)
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "ok", resp.Status)

	require.Equal(t, 1, ing.calls)
	require.NotNil(t, ing.metadata[0])
	assert.Equal(t, "invoices", *ing.metadata[0])
}

func TestIngestUploadWithoutMetadata(t *testing.T) {
	ing := &stubIngester{}
	srv := newTestServer(t, &stubExtractor{}, ing)

	body, contentType := multipartUpload(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, ing.calls)
	assert.Nil(t, ing.metadata[0], "absent form field must stay absent")
}

func TestIngestMissingFileField(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{}, &stubIngester{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("metadata", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestPipelineFailure(t *testing.T) {
	ing := &stubIngester{}
	srv := newTestServer(t, &stubExtractor{err: errors.New("extraction blew up")}, ing)

	body, contentType := multipartUpload(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, ing.calls)

	var resp ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp.Status)
	assert.Contains(t, resp.Error, "extraction blew up")
}
