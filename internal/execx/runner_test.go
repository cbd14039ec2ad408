package execx

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkRecorder struct {
	mu    sync.Mutex
	lines []string
	errs  []bool
}

func (s *sinkRecorder) sink(line string, stderr bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	s.errs = append(s.errs, stderr)
}

func TestRunCapturesTrimmedStdout(t *testing.T) {
	r := NewRunner(0, nil)
	out, err := r.Run(context.Background(), "sh", []string{"-c", "echo hello; echo world"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", out)
}

func TestRunStreamsLinesToSink(t *testing.T) {
	r := NewRunner(0, nil)
	rec := &sinkRecorder{}
	_, err := r.Run(context.Background(), "sh", []string{"-c", "echo out1; echo err1 1>&2; echo out2"}, rec.sink)
	require.NoError(t, err)

	var stdout, stderr []string
	for i, l := range rec.lines {
		if rec.errs[i] {
			stderr = append(stderr, l)
		} else {
			stdout = append(stdout, l)
		}
	}
	assert.Equal(t, []string{"out1", "out2"}, stdout)
	assert.Equal(t, []string{"err1"}, stderr)
}

func TestRunNonzeroExitCarriesStderr(t *testing.T) {
	r := NewRunner(0, nil)
	_, err := r.Run(context.Background(), "sh", []string{"-c", "echo boom 1>&2; exit 3"}, nil)
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

func TestRunNonzeroExitEmptyStderr(t *testing.T) {
	r := NewRunner(0, nil)
	_, err := r.Run(context.Background(), "sh", []string{"-c", "exit 1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
}

func TestRunSpawnFailure(t *testing.T) {
	r := NewRunner(0, nil)
	_, err := r.Run(context.Background(), "/no/such/binary-xyz", nil, nil)
	require.Error(t, err)
}

func TestRunHonorsTimeout(t *testing.T) {
	// sh forks sleep here, so the timeout must take down the whole process
	// group or the pipe stays open and Run blocks for the full sleep.
	r := NewRunner(100*time.Millisecond, nil)
	start := time.Now()
	_, err := r.Run(context.Background(), "sh", []string{"-c", "sleep 5"}, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunKillsForkedChildrenOnCancel(t *testing.T) {
	r := NewRunner(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	_, err := r.Run(ctx, "sh", []string{"-c", "sleep 5 & sleep 5 & wait"}, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunKeepsStderrPastScannerCap(t *testing.T) {
	// One line over the 1MB line cap aborts line splitting; the trailing
	// error text must still reach the captured stderr.
	r := NewRunner(0, nil)
	script := `head -c 1200000 /dev/zero | tr "\0" x >&2; echo >&2; echo "disk full" >&2; exit 1`
	_, err := r.Run(context.Background(), "sh", []string{"-c", script}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
