package execution

import (
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"

	"github.com/phuslu/log"
)

// waitDelay caps how long the runner waits for inherited output pipes
// after the process group is gone.
const waitDelay = 2 * time.Second

// Outcome captures how one spawned test executable terminated.
type Outcome struct {
	ExitCode    int
	Output      string
	TimedOut    bool
	StartFailed bool // The executable could not be started at all
}

// Runner spawns a test executable and waits for it under a timeout.
// On timeout the process is forcibly terminated, never left running.
type Runner struct {
	timeout time.Duration
	log     *log.Logger
}

// NewRunner creates a new Runner
func NewRunner(timeout time.Duration, logger *log.Logger) *Runner {
	return &Runner{timeout: timeout, log: logger}
}

// Run executes the binary and returns its outcome. A start failure is
// reported as a non-zero exit with the error text as output.
func (r *Runner) Run(ctx context.Context, executable string) Outcome {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, executable)
	// Cancellation must kill the whole process group: killing only the
	// direct child leaves grandchildren holding the output pipe, which
	// blocks CombinedOutput past the deadline.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay
	output, err := cmd.CombinedOutput()

	outcome := Outcome{Output: string(output)}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		outcome.TimedOut = true
		outcome.ExitCode = -1
		return outcome
	}
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			outcome.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrWaitDelay):
			// The process exited but something kept its pipes open;
			// the captured output and exit status are still valid.
			outcome.ExitCode = cmd.ProcessState.ExitCode()
		default:
			outcome.ExitCode = -1
			outcome.Output = err.Error()
			outcome.StartFailed = true
		}
	}

	r.log.Debug().Str("executable", executable).Int("exitCode", outcome.ExitCode).Msg("test executable finished")
	return outcome
}
