package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/LiboWorks/cppbuild/internal/backend"
)

// InvocationResult is the outcome record of one compiler execution.
type InvocationResult = backend.InvocationResult

// State is the position of an Orchestrator in its single, linear run.
type State int

const (
	Configured State = iota
	Invoked
	Reported
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Invoked:
		return "invoked"
	case Reported:
		return "reported"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options wires the collaborators of an Orchestrator. Zero values select
// the defaults.
type Options struct {
	// Toolchain runs the compiler (default: os/exec backend, no timeout).
	Toolchain backend.Toolchain

	// Diagnostician, when set, explains failed builds.
	Diagnostician backend.Diagnostician

	// Out receives user-facing messages (default: os.Stdout).
	Out io.Writer

	// Dir is the directory the compiler runs in. The default toolchain
	// uses it, and the printed run instruction is made relative to the
	// caller's directory instead of Dir.
	Dir string

	// Logger receives diagnostic logs (default: slog.Default()).
	Logger *slog.Logger
}

// Orchestrator runs one build: CONFIGURED -> INVOKED -> REPORTED.
type Orchestrator struct {
	cfg       BuildConfig
	argv      []string
	toolchain backend.Toolchain
	diag      backend.Diagnostician
	reporter  *Reporter
	logger    *slog.Logger
	state     State
}

// New validates cfg and assembles its command.
func New(cfg BuildConfig, opts Options) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid build configuration: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tc := opts.Toolchain
	if tc == nil {
		tc = backend.NewToolchainBackend(backend.ToolchainConfig{Dir: opts.Dir, Logger: logger})
	}
	reporter := NewReporter(opts.Out)
	reporter.dir = opts.Dir

	return &Orchestrator{
		cfg:       cfg,
		argv:      AssembleCommand(cfg),
		toolchain: tc,
		diag:      opts.Diagnostician,
		reporter:  reporter,
		logger:    logger,
		state:     Configured,
	}, nil
}

// Config returns the resolved configuration.
func (o *Orchestrator) Config() BuildConfig { return o.cfg }

// Command returns a copy of the assembled compiler argv.
func (o *Orchestrator) Command() []string {
	return append([]string(nil), o.argv...)
}

// State returns the current run state.
func (o *Orchestrator) State() State { return o.state }

// Run invokes the compiler and reports the outcome. A failed compile is
// conveyed by the result, never by a panic or error.
func (o *Orchestrator) Run(ctx context.Context) InvocationResult {
	o.reporter.Announce(o.cfg)
	o.logger.Debug("invoking compiler",
		"platform", o.cfg.Platform,
		"command", FormatCommand(o.cfg.Platform, o.argv))

	res := o.toolchain.Run(ctx, o.argv)
	o.state = Invoked
	o.logger.Info("compiler finished",
		"succeeded", res.Succeeded,
		"exit_code", res.ExitCode,
		"duration", res.Duration)

	o.reporter.Report(o.cfg, res)
	if !res.Succeeded && o.diag != nil {
		o.explain(ctx, res)
	}
	o.state = Reported
	return res
}

func (o *Orchestrator) explain(ctx context.Context, res InvocationResult) {
	if res.Stderr == "" {
		return
	}
	text, err := o.diag.Explain(ctx, o.argv, res.Stderr)
	if err != nil {
		o.logger.Warn("could not explain build failure", "backend", o.diag.Name(), "error", err)
		return
	}
	if text != "" {
		o.reporter.Explanation(text)
	}
}
