// Package cppbuild provides a public API for compiling a single C++ source
// file into a native executable.
//
// Basic usage:
//
//	result, err := cppbuild.Build(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Succeeded {
//	    os.Exit(result.ExitCode)
//	}
//
// With options:
//
//	result, err := cppbuild.Build(ctx, &cppbuild.BuildOptions{
//	    SourceFile: "lorenz.cpp",
//	    OutputName: "lorenz",
//	    Timeout:    2 * time.Minute,
//	})
//
// Settings are layered: built-in defaults, then the project build file
// (cppbuild.yaml or cppbuild.toml), then the environment, then BuildOptions.
package cppbuild

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/LiboWorks/cppbuild/internal/backend"
	"github.com/LiboWorks/cppbuild/internal/config"
	"github.com/LiboWorks/cppbuild/internal/orchestrator"
	"github.com/LiboWorks/cppbuild/internal/platform"
)

// BuildOptions configures a build. Zero values select the configured or
// built-in defaults.
type BuildOptions struct {
	// Platform is the target platform identifier ("windows", "linux", ...).
	// Defaults to the host platform.
	Platform string

	// Dir is the working directory of the compiler. The build file is also
	// looked up here. Defaults to the current directory.
	Dir string

	// BuildFile names an explicit build file. When empty, Dir is probed for
	// cppbuild.yaml, cppbuild.yml and cppbuild.toml.
	BuildFile string

	// NoBuildFile disables build file lookup entirely.
	NoBuildFile bool

	SourceFile       string
	OutputName       string
	Compiler         string
	StandardFlag     string
	OptimizationFlag string
	IncludeDir       string
	LibDir           string

	// LinkFlags replaces the SFML link flags when non-nil.
	LinkFlags []string

	// Timeout kills the compiler after the given duration. Zero keeps the
	// configured timeout; see NoTimeout to disable it.
	Timeout time.Duration

	// NoTimeout lets the compiler run for as long as it needs.
	NoTimeout bool

	// Explain asks the configured OpenAI-compatible endpoint to explain
	// a failed build.
	Explain bool

	// Out receives user-facing messages (default: os.Stdout).
	Out io.Writer

	// Logger receives diagnostic logs (default: slog.Default()).
	Logger *slog.Logger
}

// BuildPlan is a resolved build that has not been run.
type BuildPlan struct {
	Platform    string
	SourceFile  string
	OutputName  string
	Command     []string
	CommandLine string
	Timeout     time.Duration
	BuildFile   string
}

// BuildResult contains the outcome of a build.
type BuildResult struct {
	Succeeded bool
	ExitCode  int
	Stdout    string
	Stderr    string
	TimedOut  bool
	Duration  time.Duration

	// SpawnFailed is set when the compiler could not be started.
	SpawnFailed bool

	// Command is the compiler argv that was executed.
	Command []string

	// OutputPath is where the executable was written on success.
	OutputPath string

	// RunInstruction is the shell invocation of OutputPath from the
	// caller's directory, e.g. "./attracteurs_app" or "./demo/attracteurs_app".
	RunInstruction string
}

// Plan resolves opts into a build without running the compiler.
func Plan(opts *BuildOptions) (*BuildPlan, error) {
	r, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	argv := orchestrator.AssembleCommand(r.cfg)
	return &BuildPlan{
		Platform:    r.cfg.Platform.String(),
		SourceFile:  r.cfg.SourceFile,
		OutputName:  r.cfg.OutputName,
		Command:     argv,
		CommandLine: orchestrator.FormatCommand(r.cfg.Platform, argv),
		Timeout:     r.timeout,
		BuildFile:   r.buildFile,
	}, nil
}

// Build compiles the configured source file. A compiler failure is reported
// through BuildResult, not as an error; err is non-nil only when the build
// could not be configured.
func Build(ctx context.Context, opts *BuildOptions) (*BuildResult, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}
	r, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if r.buildFile != "" {
		logger.Debug("using build file", "path", r.buildFile)
	}

	tc := backend.NewToolchainBackend(backend.ToolchainConfig{
		Dir:     opts.Dir,
		Timeout: r.timeout,
		Logger:  logger,
	})

	var diag backend.Diagnostician
	if opts.Explain {
		d, err := backend.NewOpenAIDiagnostician(backend.OpenAIConfig{})
		if err != nil {
			logger.Warn("build explanations disabled", "error", err)
		} else {
			diag = d
		}
	}

	o, err := orchestrator.New(r.cfg, orchestrator.Options{
		Toolchain:     tc,
		Diagnostician: diag,
		Out:           opts.Out,
		Dir:           opts.Dir,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	res := o.Run(ctx)

	outputPath := orchestrator.OutputPath(opts.Dir, r.cfg)
	return &BuildResult{
		Succeeded:      res.Succeeded,
		ExitCode:       res.ExitCode,
		Stdout:         res.Stdout,
		Stderr:         res.Stderr,
		TimedOut:       res.TimedOut,
		SpawnFailed:    res.SpawnFailed,
		Duration:       res.Duration,
		Command:        o.Command(),
		OutputPath:     outputPath,
		RunInstruction: r.cfg.Platform.RunInstruction(outputPath),
	}, nil
}

type resolved struct {
	cfg       orchestrator.BuildConfig
	timeout   time.Duration
	buildFile string
}

// resolve layers defaults < build file < environment < options.
func resolve(opts *BuildOptions) (*resolved, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}
	env := config.Get()

	p := platform.Host()
	if opts.Platform != "" {
		p = platform.Parse(opts.Platform)
	}

	var bf *config.BuildFile
	var bfPath string
	if !opts.NoBuildFile {
		bfPath = opts.BuildFile
		if bfPath == "" {
			dir := opts.Dir
			if dir == "" {
				dir = "."
			}
			bfPath = config.FindBuildFile(dir)
		}
		if bfPath != "" {
			var err error
			if bf, err = config.LoadBuildFile(bfPath); err != nil {
				return nil, fmt.Errorf("failed to load build file: %w", err)
			}
		}
	}

	ov := orchestrator.OverridesFromBuildFile(bf).
		Merge(orchestrator.OverridesFromConfig(env)).
		Merge(orchestrator.Overrides{
			SourceFile:       opts.SourceFile,
			OutputName:       opts.OutputName,
			Compiler:         opts.Compiler,
			StandardFlag:     opts.StandardFlag,
			OptimizationFlag: opts.OptimizationFlag,
			LinkFlags:        slices.Clone(opts.LinkFlags),
			IncludeDir:       opts.IncludeDir,
			LibDir:           opts.LibDir,
		})

	cfg := orchestrator.ResolveConfiguration(p, ov)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &resolved{
		cfg:       cfg,
		timeout:   resolveTimeout(opts, bf, env),
		buildFile: bfPath,
	}, nil
}

func resolveTimeout(opts *BuildOptions, bf *config.BuildFile, env *config.Config) time.Duration {
	switch {
	case opts.NoTimeout:
		return 0
	case opts.Timeout > 0:
		return opts.Timeout
	case env.TimeoutConfigured():
		return env.Timeout()
	case bf != nil && bf.Timeout > 0:
		return time.Duration(bf.Timeout) * time.Second
	}
	return env.Timeout()
}
