// Package executor runs approved commands under a timeout watchdog. It is the
// only component of the pipeline that mutates the host.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/ports"
)

// ShellExecutor runs commands through the host shell in their own process
// group so the watchdog can terminate the whole tree.
type ShellExecutor struct {
	shell string
	log   ports.Logger
}

// NewShellExecutor builds an executor; shell defaults to $SHELL, then /bin/sh.
func NewShellExecutor(shell string, log ports.Logger) *ShellExecutor {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &ShellExecutor{shell: shell, log: log}
}

// Execute implements ports.CommandExecutor. It never returns an error:
// spawn failures, non-zero exits, and timeouts are all mapped into the
// result, so the caller always has something to record.
func (e *ShellExecutor) Execute(ctx context.Context, command, workingDir string, timeout time.Duration) domain.ExecutionResult {
	if timeout <= 0 {
		timeout = domain.DefaultExecutionTimeoutSeconds * time.Second
	}

	cmd := exec.Command(e.shell, "-c", command)
	cmd.Dir = workingDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr captureBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return domain.ExecutionResult{
			ExitCode:   domain.ExitCodeSpawnFailure,
			Stderr:     err.Error(),
			DurationMS: time.Since(start).Milliseconds(),
		}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	timedOut := false
	select {
	case waitErr = <-done:
	case <-timer.C:
		timedOut = true
		e.killGroup(cmd.Process.Pid, command)
		waitErr = e.awaitKilled(done)
	case <-ctx.Done():
		timedOut = true
		e.killGroup(cmd.Process.Pid, command)
		waitErr = e.awaitKilled(done)
	}

	result := domain.ExecutionResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
		TimedOut:   timedOut,
	}

	switch {
	case timedOut:
		result.ExitCode = domain.ExitCodeTimeout
	case waitErr == nil:
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = domain.ExitCodeSpawnFailure
			if result.Stderr == "" {
				result.Stderr = waitErr.Error()
			}
		}
	}
	return result
}

// killGroup terminates the process group so descendants do not outlive the
// watchdog.
func (e *ShellExecutor) killGroup(pid int, command string) {
	if e.log != nil {
		e.log.Warn("execution timeout, killing process group", map[string]interface{}{
			"pid":     pid,
			"command": command,
		})
	}
	if pgid, err := syscall.Getpgid(pid); err == nil {
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
		return
	}
	_ = syscall.Kill(pid, syscall.SIGKILL)
}

// awaitKilled collects the Wait result after a kill, bounded by the grace
// period so a wedged wait cannot hang the pipeline.
func (e *ShellExecutor) awaitKilled(done <-chan error) error {
	select {
	case err := <-done:
		return err
	case <-time.After(domain.WatchdogGracePeriod):
		return errors.New("process did not exit within grace period")
	}
}

// captureBuffer serializes pipe writes against the final read. When a kill
// fails within the grace period the Wait goroutine may still be copying
// output while the result is assembled.
type captureBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *captureBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *captureBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ ports.CommandExecutor = (*ShellExecutor)(nil)
