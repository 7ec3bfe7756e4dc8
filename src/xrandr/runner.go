package xrandr

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"xrandream/src/geometry"
)

const (
	// DefaultTimeout bounds a single xrandr invocation. xrandr normally
	// returns within milliseconds; a hung X connection should not wedge
	// the event loop.
	DefaultTimeout = 10 * time.Second

	// maxOutputSize caps captured stdout/stderr per invocation.
	maxOutputSize = 256 * 1024
)

// Runner executes the real xrandr binary.
type Runner struct {
	path    string
	timeout time.Duration
}

// NewRunner creates a Runner. path may be a bare command name (resolved
// via PATH) or an absolute path; empty means "xrandr". timeout <= 0 uses
// DefaultTimeout.
func NewRunner(path string, timeout time.Duration) *Runner {
	if path == "" {
		path = "xrandr"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{path: path, timeout: timeout}
}

// Check verifies the xrandr binary is reachable.
func (r *Runner) Check() error {
	if _, err := exec.LookPath(r.path); err != nil {
		return fmt.Errorf("xrandr not found (%s): %w", r.path, err)
	}
	return nil
}

func (r *Runner) ListMonitors(ctx context.Context) ([]Monitor, error) {
	out, err := r.run(ctx, "--listmonitors")
	if err != nil {
		return nil, err
	}
	return ParseListMonitors(out)
}

func (r *Runner) SetMonitor(ctx context.Context, name string, rect geometry.Rect) error {
	_, err := r.run(ctx, SetMonitorArgs(name, rect)...)
	return err
}

func (r *Runner) DelMonitor(ctx context.Context, name string) error {
	_, err := r.run(ctx, DelMonitorArgs(name)...)
	return err
}

func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{buf: &stdout, limit: maxOutputSize}
	cmd.Stderr = &limitedWriter{buf: &stderr, limit: maxOutputSize}

	start := time.Now()
	err := cmd.Run()
	log.Printf("xrandr %s: took %v, err=%v", strings.Join(args, " "), time.Since(start), err)

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("xrandr %s timed out after %v", args[0], r.timeout)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = "no error output"
			}
			return "", fmt.Errorf("xrandr %s failed (exit %d): %s", args[0], exitErr.ExitCode(), msg)
		}
		return "", fmt.Errorf("xrandr %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

// limitedWriter caps the bytes retained from a child process. Writes past
// the cap are silently discarded so the process never sees a short write.
type limitedWriter struct {
	buf     *bytes.Buffer
	limit   int
	written int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.written >= w.limit {
		return len(p), nil
	}
	remaining := w.limit - w.written
	chunk := p
	if len(chunk) > remaining {
		chunk = chunk[:remaining]
	}
	n, err := w.buf.Write(chunk)
	w.written += n
	return len(p), err
}
