package execution

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phuslu/log"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestRunner_Run(t *testing.T) {
	logger := &log.Logger{Level: log.ErrorLevel}
	dir := t.TempDir()

	t.Run("captures output and zero exit", func(t *testing.T) {
		exe := writeScript(t, dir, "ok", "echo '[PASS] works'\nexit 0\n")
		runner := NewRunner(5*time.Second, logger)

		outcome := runner.Run(context.Background(), exe)
		if outcome.ExitCode != 0 {
			t.Errorf("expected exit 0, got %d", outcome.ExitCode)
		}
		if !strings.Contains(outcome.Output, "[PASS] works") {
			t.Errorf("missing output, got %q", outcome.Output)
		}
		if outcome.TimedOut {
			t.Error("unexpected timeout")
		}
	})

	t.Run("captures non-zero exit", func(t *testing.T) {
		exe := writeScript(t, dir, "abort", "exit 134\n")
		runner := NewRunner(5*time.Second, logger)

		outcome := runner.Run(context.Background(), exe)
		if outcome.ExitCode != 134 {
			t.Errorf("expected exit 134, got %d", outcome.ExitCode)
		}
	})

	t.Run("timeout terminates the process", func(t *testing.T) {
		// sleep runs as a grandchild of the shell and inherits the output
		// pipe, so only a process-group kill unblocks the runner promptly.
		exe := writeScript(t, dir, "slow", "sleep 5\n")
		runner := NewRunner(100*time.Millisecond, logger)

		start := time.Now()
		outcome := runner.Run(context.Background(), exe)
		if !outcome.TimedOut {
			t.Error("expected timeout")
		}
		if elapsed := time.Since(start); elapsed > 3*time.Second {
			t.Errorf("process not terminated promptly, took %s", elapsed)
		}
	})

	t.Run("timeout kills detached children too", func(t *testing.T) {
		exe := writeScript(t, dir, "forker", "sleep 5 &\nwait\n")
		runner := NewRunner(100*time.Millisecond, logger)

		start := time.Now()
		outcome := runner.Run(context.Background(), exe)
		if !outcome.TimedOut {
			t.Error("expected timeout")
		}
		if elapsed := time.Since(start); elapsed > 3*time.Second {
			t.Errorf("process not terminated promptly, took %s", elapsed)
		}
	})

	t.Run("missing executable reports start failure", func(t *testing.T) {
		runner := NewRunner(time.Second, logger)
		outcome := runner.Run(context.Background(), filepath.Join(dir, "no_such_binary"))
		if outcome.ExitCode == 0 {
			t.Error("expected non-zero exit for missing executable")
		}
		if !outcome.StartFailed {
			t.Error("expected start failure to be reported")
		}
	})
}
