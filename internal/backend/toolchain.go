package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// ToolchainBackendImpl implements Toolchain using os/exec.
type ToolchainBackendImpl struct {
	dir     string
	env     map[string]string
	timeout time.Duration
	logger  *slog.Logger
}

// ToolchainConfig holds configuration for the toolchain backend.
type ToolchainConfig struct {
	// Dir is the working directory of the compiler (default: current directory)
	Dir string

	// Env holds variables added to the inherited environment
	Env map[string]string

	// Timeout kills the compiler after the given duration. Zero means wait forever.
	Timeout time.Duration

	// Logger receives debug output (default: slog.Default())
	Logger *slog.Logger
}

// waitDelay bounds how long Wait keeps reading pipes held open by
// grandchildren after the compiler itself was killed.
const waitDelay = 2 * time.Second

// NewToolchainBackend creates a new toolchain backend.
func NewToolchainBackend(cfg ToolchainConfig) *ToolchainBackendImpl {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolchainBackendImpl{
		dir:     cfg.Dir,
		env:     cfg.Env,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Run implements Toolchain.
func (t *ToolchainBackendImpl) Run(ctx context.Context, argv []string) InvocationResult {
	if len(argv) == 0 || argv[0] == "" {
		return InvocationResult{ExitCode: -1, SpawnFailed: true, Stderr: ErrEmptyCommand.Error()}
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = t.dir
	cmd.WaitDelay = waitDelay
	if len(t.env) > 0 {
		// Inherit parent environment and add extras
		cmd.Env = os.Environ()
		for k, v := range t.env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.logger.Debug("starting toolchain", "argv", argv, "dir", t.dir, "timeout", t.timeout)
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	res := InvocationResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Succeeded = true
		res.ExitCode = 0
	case ctx.Err() != nil:
		res.ExitCode = -1
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.TimedOut = true
			res.Stderr = appendLine(res.Stderr, fmt.Sprintf("%s killed after %s timeout", argv[0], t.timeout))
		} else {
			res.Stderr = appendLine(res.Stderr, fmt.Sprintf("%s cancelled: %v", argv[0], ctx.Err()))
		}
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			// terminated by a signal, e.g. the OOM killer
			res.Stderr = appendLine(res.Stderr, fmt.Sprintf("%s terminated: %v", argv[0], exitErr))
		}
	default:
		// the process never started: missing binary, permission denied, ...
		res.ExitCode = -1
		res.SpawnFailed = true
		res.Stderr = appendLine(res.Stderr, err.Error())
	}

	t.logger.Debug("toolchain finished",
		"exit_code", res.ExitCode,
		"succeeded", res.Succeeded,
		"timed_out", res.TimedOut,
		"spawn_failed", res.SpawnFailed,
		"duration", elapsed)
	return res
}

func appendLine(s, line string) string {
	if s != "" && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s + line + "\n"
}
