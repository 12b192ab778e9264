// Package transcode isolates the external transcoding tool behind a narrow
// interface: resolved arguments in, exit status and captured output out. The
// orchestrator never touches os/exec directly, so pipeline logic is testable
// with a stub runner.
package transcode

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"hopper/internal/fileutil"
	"hopper/internal/logging"
	"hopper/internal/services"
)

// outputTailLimit bounds how much tool output is retained for logs and the
// history ledger.
const outputTailLimit = 4096

// Request describes one tool invocation.
type Request struct {
	InputPath  string
	OutputPath string
	Args       []string
}

// Result captures what the tool did.
type Result struct {
	Command  string
	Output   string
	Duration time.Duration
}

// Runner executes transcodes. Implementations must honor context
// cancellation.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// ExecRunner invokes the configured external binary as a subprocess.
type ExecRunner struct {
	binary  string
	ceiling time.Duration
	logger  *slog.Logger
}

// NewExecRunner builds a subprocess runner. A zero ceiling disables the
// per-invocation timeout.
func NewExecRunner(binary string, ceiling time.Duration, logger *slog.Logger) *ExecRunner {
	return &ExecRunner{
		binary:  strings.TrimSpace(binary),
		ceiling: ceiling,
		logger:  logging.NewComponentLogger(logger, "transcode"),
	}
}

// Run removes stale work artifacts for the same output name, then executes
// the tool with the resolved arguments followed by --output <work file> and
// the input path. Success is a zero exit; output validation is the caller's
// concern.
func (r *ExecRunner) Run(ctx context.Context, req Request) (Result, error) {
	if err := fileutil.RemoveIfExists(req.OutputPath); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transcode", "clean work dir", "remove stale work output", err)
	}
	if err := fileutil.RemoveIfExists(req.OutputPath + ".log"); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transcode", "clean work dir", "remove stale work log", err)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if r.ceiling > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.ceiling)
		defer cancel()
	}

	argv := make([]string, 0, len(req.Args)+3)
	argv = append(argv, req.Args...)
	argv = append(argv, "--output", req.OutputPath, req.InputPath)

	cmd := exec.CommandContext(runCtx, r.binary, argv...)
	command := r.binary + " " + strings.Join(argv, " ")
	r.logger.Info("launching transcode",
		logging.String("command", command),
		logging.String("input", req.InputPath),
	)

	started := time.Now()
	output, err := cmd.CombinedOutput()
	result := Result{
		Command:  command,
		Output:   tail(string(output), outputTailLimit),
		Duration: time.Since(started),
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return result, services.Wrap(services.ErrTimeout, "transcode", "run tool",
				"tool exceeded timeout ceiling "+r.ceiling.String(), err)
		}
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, services.Wrap(services.ErrExternalTool, "transcode", "run tool", result.Output, err)
	}
	return result, nil
}

func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}
