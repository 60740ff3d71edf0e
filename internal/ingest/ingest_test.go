package ingest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls [][]string
	out   []byte
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func TestAddWithoutMetadata(t *testing.T) {
	fr := &fakeRunner{}
	tool := New("", fr)

	require.NoError(t, tool.Add(context.Background(), "/tmp/extracted.txt", nil))
	require.Len(t, fr.calls, 1)
	assert.Equal(t, []string{"ingest", "add", "/tmp/extracted.txt"}, fr.calls[0],
		"omitted metadata must not appear in the argv at all")
}

func TestAddWithMetadata(t *testing.T) {
	fr := &fakeRunner{}
	tool := New("main.py", fr)

	meta := "invoices"
	require.NoError(t, tool.Add(context.Background(), "/tmp/extracted.txt", &meta))
	assert.Equal(t, []string{"main.py", "add", "/tmp/extracted.txt", "invoices"}, fr.calls[0])
}

func TestAddForwardsMetadataVerbatim(t *testing.T) {
	fr := &fakeRunner{}
	tool := New("", fr)

	meta := "  tag with spaces & $pecials\t"
	require.NoError(t, tool.Add(context.Background(), "x.txt", &meta))
	assert.Equal(t, meta, fr.calls[0][3])
}

func TestAddEmptyStringMetadataIsStillAnArgument(t *testing.T) {
	fr := &fakeRunner{}
	tool := New("", fr)

	meta := ""
	require.NoError(t, tool.Add(context.Background(), "x.txt", &meta))
	assert.Equal(t, []string{"ingest", "add", "x.txt", ""}, fr.calls[0])
}

func TestAddToolFailure(t *testing.T) {
	cause := errors.New("exit status 2")
	fr := &fakeRunner{err: cause}
	tool := New("", fr)

	err := tool.Add(context.Background(), "x.txt", nil)
	require.Error(t, err)

	var inErr *IngestionError
	require.ErrorAs(t, err, &inErr)
	assert.ErrorIs(t, err, cause)
}

func TestAddForwardsToolStdout(t *testing.T) {
	var buf bytes.Buffer
	fr := &fakeRunner{out: []byte("Added 42 characters.\n")}
	tool := &Tool{bin: "ingest", runner: fr, stdout: &buf}

	require.NoError(t, tool.Add(context.Background(), "x.txt", nil))
	assert.Equal(t, "Added 42 characters.\n", buf.String())
}
