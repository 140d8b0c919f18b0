package cppbuild

import (
	"context"
	"io"
	"time"
)

// Version is the current version of cppbuild.
const Version = "0.1.0"

// DefaultOptions returns a new BuildOptions with default values.
func DefaultOptions() *BuildOptions {
	return &BuildOptions{Dir: "."}
}

// Option is a functional option for configuring a build.
type Option func(*BuildOptions)

// WithPlatform targets the given platform instead of the host.
func WithPlatform(id string) Option {
	return func(o *BuildOptions) {
		o.Platform = id
	}
}

// WithDir sets the compiler working directory.
func WithDir(dir string) Option {
	return func(o *BuildOptions) {
		o.Dir = dir
	}
}

// WithBuildFile names the build file to load.
func WithBuildFile(path string) Option {
	return func(o *BuildOptions) {
		o.BuildFile = path
	}
}

// WithSource sets the source file to compile.
func WithSource(path string) Option {
	return func(o *BuildOptions) {
		o.SourceFile = path
	}
}

// WithOutputName sets the executable name, without platform suffix.
func WithOutputName(name string) Option {
	return func(o *BuildOptions) {
		o.OutputName = name
	}
}

// WithCompiler sets the compiler executable.
func WithCompiler(compiler string) Option {
	return func(o *BuildOptions) {
		o.Compiler = compiler
	}
}

// WithLinkFlags replaces the link flags. Called with no flags it links
// nothing beyond the compiler's defaults.
func WithLinkFlags(flags ...string) Option {
	return func(o *BuildOptions) {
		o.LinkFlags = append([]string{}, flags...)
	}
}

// WithLibraryPaths injects include and library directories.
func WithLibraryPaths(includeDir, libDir string) Option {
	return func(o *BuildOptions) {
		o.IncludeDir = includeDir
		o.LibDir = libDir
	}
}

// WithTimeout bounds the compiler run. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *BuildOptions) {
		o.Timeout = d
		o.NoTimeout = d == 0
	}
}

// WithExplain enables explanations of failed builds.
func WithExplain() Option {
	return func(o *BuildOptions) {
		o.Explain = true
	}
}

// WithOutput sets where user-facing messages are written.
func WithOutput(w io.Writer) Option {
	return func(o *BuildOptions) {
		o.Out = w
	}
}

// ApplyOptions applies functional options to BuildOptions.
func ApplyOptions(opts ...Option) *BuildOptions {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BuildWith compiles with functional options.
//
// Example:
//
//	result, err := cppbuild.BuildWith(ctx,
//	    cppbuild.WithSource("lorenz.cpp"),
//	    cppbuild.WithTimeout(time.Minute),
//	)
func BuildWith(ctx context.Context, opts ...Option) (*BuildResult, error) {
	return Build(ctx, ApplyOptions(opts...))
}
