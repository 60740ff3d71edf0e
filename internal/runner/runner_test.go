package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesStdout(t *testing.T) {
	r := &ExecRunner{}
	out, err := r.Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestExecRunnerErrorCarriesStderrAndExitCode(t *testing.T) {
	r := &ExecRunner{}
	_, err := r.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oops")
	assert.Equal(t, 3, ExitCode(err))
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := &ExecRunner{}
	_, err := r.Run(context.Background(), "pdfpipe-no-such-binary")
	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
}

func TestExecRunnerContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := &ExecRunner{}
	_, err := r.Run(ctx, "sh", "-c", "sleep 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExitCodeWithoutExitError(t *testing.T) {
	assert.Equal(t, -1, ExitCode(errors.New("plain failure")))
}
