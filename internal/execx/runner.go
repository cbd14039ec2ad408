// Package execx runs external command-line tools, streaming their output
// line by line to a caller-supplied sink while capturing it for the result.
package execx

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// LineSink receives one line of tool output as it is produced.
// stderr reports which channel the line arrived on.
type LineSink func(line string, stderr bool)

// Runner spawns external tools with an optional per-invocation timeout.
type Runner struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewRunner creates a runner. timeout of 0 leaves invocations unbounded.
func NewRunner(timeout time.Duration, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{timeout: timeout, logger: logger}
}

// Run executes name with args, stdin disabled. Every line of stdout/stderr
// is forwarded to sink as it arrives and captured in full. On exit 0 the
// trimmed captured stdout is returned. On a nonzero exit the error message
// is the captured stderr, or a generic failure message when stderr was
// empty. A spawn failure returns the underlying error directly. There are
// no retries: one failed invocation fails the enclosing operation.
//
// The tool runs in its own process group and cancellation kills the whole
// group: yt-dlp and ffmpeg fork helpers, and a surviving grandchild holding
// the pipe write-ends would otherwise keep Run blocked past the timeout.
func (r *Runner) Run(ctx context.Context, name string, args []string, sink LineSink) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = 5 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", err
	}
	r.logger.Debug("tool started", zap.String("bin", name), zap.Strings("args", args))

	var outBuf, errBuf strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)
	go pump(stdout, &outBuf, false, sink, &wg)
	go pump(stderr, &errBuf, true, sink, &wg)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg == "" {
			msg = fmt.Sprintf("%s: command failed", name)
		}
		r.logger.Debug("tool failed", zap.String("bin", name), zap.Error(err))
		return "", fmt.Errorf("%s", msg)
	}
	return strings.TrimSpace(outBuf.String()), nil
}

// pump copies lines from one stream into the capture buffer and the sink.
// A line past the scanner cap aborts line splitting; the rest of the stream
// is still drained raw into the capture so error text survives.
func pump(r io.Reader, buf *strings.Builder, isErr bool, sink LineSink, wg *sync.WaitGroup) {
	defer wg.Done()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		buf.WriteString(line)
		buf.WriteByte('\n')
		if sink != nil {
			sink(line, isErr)
		}
	}
	if sc.Err() != nil {
		_, _ = io.Copy(buf, r)
	}
}
