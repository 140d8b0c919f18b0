// Package backend defines the external collaborators of a build: the
// toolchain that compiles the source, and an optional diagnostics service
// that explains compiler failures.
package backend

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyCommand is reported when there is no program to launch.
var ErrEmptyCommand = errors.New("empty command")

// InvocationResult is the outcome of one toolchain invocation.
type InvocationResult struct {
	// Succeeded is true iff the process exited with status 0.
	Succeeded bool

	// Stdout and Stderr hold the captured streams in full. For spawn
	// failures and timeouts Stderr also carries the launcher's own message.
	Stdout string
	Stderr string

	// ExitCode is the child's exit status, or -1 when it never produced one
	// (spawn failure, timeout, or death by signal).
	ExitCode int

	// SpawnFailed is set when the process could not be started at all.
	SpawnFailed bool

	// TimedOut is set when the configured deadline killed the process.
	TimedOut bool

	// Duration is the wall time spent in the child process.
	Duration time.Duration
}

// Toolchain runs a fully assembled compiler command.
type Toolchain interface {
	// Run executes argv and reports the outcome. Failures of the child,
	// including failure to start it, are part of the result, never a panic.
	Run(ctx context.Context, argv []string) InvocationResult
}

// Diagnostician explains why a build failed.
type Diagnostician interface {
	// Explain returns a short human readable explanation of stderr produced
	// by running argv.
	Explain(ctx context.Context, argv []string, stderr string) (string, error)

	// Name returns a human-readable name for the backend.
	Name() string
}
