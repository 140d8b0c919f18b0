// Package orchestrator turns a target platform and a set of overrides into a
// single compiler invocation, runs it, and reports the outcome.
package orchestrator

import (
	"errors"
	"slices"

	"github.com/LiboWorks/cppbuild/internal/config"
	"github.com/LiboWorks/cppbuild/internal/platform"
)

// BuildConfig is the fully resolved set of parameters for one compiler
// invocation. IncludeDir and LibDir are absent when empty.
type BuildConfig struct {
	Platform         platform.Platform
	SourceFile       string
	OutputName       string
	Compiler         string
	StandardFlag     string
	OptimizationFlag string
	LinkFlags        []string
	IncludeDir       string
	LibDir           string
}

// Overrides replace built-in defaults field by field. Zero values keep the
// default; a non-nil empty LinkFlags removes every link flag.
type Overrides struct {
	SourceFile       string
	OutputName       string
	Compiler         string
	StandardFlag     string
	OptimizationFlag string
	LinkFlags        []string

	// IncludeDir and LibDir are injected on every platform.
	IncludeDir string
	LibDir     string

	// SDKIncludeDir and SDKLibDir describe where the library is installed
	// when it is not on a default search path. They are only consulted for
	// Windows targets; POSIX hosts rely on the system package manager.
	SDKIncludeDir string
	SDKLibDir     string
}

// Merge returns o with every non-zero field of top applied over it.
func (o Overrides) Merge(top Overrides) Overrides {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&o.SourceFile, top.SourceFile)
	pick(&o.OutputName, top.OutputName)
	pick(&o.Compiler, top.Compiler)
	pick(&o.StandardFlag, top.StandardFlag)
	pick(&o.OptimizationFlag, top.OptimizationFlag)
	pick(&o.IncludeDir, top.IncludeDir)
	pick(&o.LibDir, top.LibDir)
	pick(&o.SDKIncludeDir, top.SDKIncludeDir)
	pick(&o.SDKLibDir, top.SDKLibDir)
	if top.LinkFlags != nil {
		o.LinkFlags = slices.Clone(top.LinkFlags)
	}
	return o
}

// OverridesFromBuildFile converts a project build file into overrides.
func OverridesFromBuildFile(bf *config.BuildFile) Overrides {
	if bf == nil {
		return Overrides{}
	}
	return Overrides{
		SourceFile:       bf.Source,
		OutputName:       bf.Output,
		Compiler:         bf.Compiler,
		StandardFlag:     bf.Std,
		OptimizationFlag: bf.Optimization,
		LinkFlags:        slices.Clone(bf.LinkFlags),
		IncludeDir:       bf.IncludeDir,
		LibDir:           bf.LibDir,
	}
}

// OverridesFromConfig converts environment settings into overrides. The
// SFML_* locations become SDK hints, applied to Windows targets only.
func OverridesFromConfig(c *config.Config) Overrides {
	if c == nil {
		return Overrides{}
	}
	return Overrides{
		Compiler:         c.Compiler,
		StandardFlag:     c.StandardFlag,
		OptimizationFlag: c.OptimizationFlag,
		SDKIncludeDir:    c.IncludeDir,
		SDKLibDir:        c.LibDir,
	}
}

// ResolveConfiguration builds the configuration for target p. It has no side
// effects: equal inputs always give equal results.
func ResolveConfiguration(p platform.Platform, o Overrides) BuildConfig {
	cfg := BuildConfig{
		Platform:         p,
		SourceFile:       config.DefaultSourceFile,
		OutputName:       config.DefaultOutputName,
		Compiler:         config.DefaultCompiler,
		StandardFlag:     config.DefaultStandardFlag,
		OptimizationFlag: config.DefaultOptimizationFlag,
		LinkFlags:        config.DefaultLinkFlags(),
	}

	base := Overrides{
		SourceFile:       cfg.SourceFile,
		OutputName:       cfg.OutputName,
		Compiler:         cfg.Compiler,
		StandardFlag:     cfg.StandardFlag,
		OptimizationFlag: cfg.OptimizationFlag,
		LinkFlags:        cfg.LinkFlags,
	}.Merge(o)

	cfg.SourceFile = base.SourceFile
	cfg.OutputName = p.ExecutableName(base.OutputName)
	cfg.Compiler = base.Compiler
	cfg.StandardFlag = base.StandardFlag
	cfg.OptimizationFlag = base.OptimizationFlag
	cfg.LinkFlags = base.LinkFlags
	cfg.IncludeDir = base.IncludeDir
	cfg.LibDir = base.LibDir

	if p == platform.Windows {
		if cfg.IncludeDir == "" {
			cfg.IncludeDir = base.SDKIncludeDir
		}
		if cfg.LibDir == "" {
			cfg.LibDir = base.SDKLibDir
		}
	}
	return cfg
}

// Validate checks that the configuration names everything a compiler
// invocation needs.
func (c BuildConfig) Validate() error {
	var errs []error
	if c.Compiler == "" {
		errs = append(errs, errors.New("compiler is required"))
	}
	if c.SourceFile == "" {
		errs = append(errs, errors.New("source file is required"))
	}
	if c.OutputName == "" {
		errs = append(errs, errors.New("output name is required"))
	}
	return errors.Join(errs...)
}
