package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LiboWorks/cppbuild/pkg/cppbuild"
)

// buildFlags are shared by the build and command subcommands.
type buildFlags struct {
	platform    string
	dir         string
	buildFile   string
	noBuildFile bool
	output      string
	compiler    string
	std         string
	opt         string
	linkFlags   []string
	includeDir  string
	libDir      string
	timeout     time.Duration
	noTimeout   bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.platform, "platform", "", "Target platform (windows, linux, darwin); defaults to the host")
	fl.StringVarP(&f.dir, "dir", "C", "", "Run the compiler in this directory")
	fl.StringVarP(&f.buildFile, "file", "f", "", "Build file (default: cppbuild.yaml or cppbuild.toml if present)")
	fl.BoolVar(&f.noBuildFile, "no-build-file", false, "Ignore any build file")
	fl.StringVarP(&f.output, "output", "o", "", "Executable name, without .exe (default attracteurs_app)")
	fl.StringVar(&f.compiler, "compiler", "", "Compiler executable (default g++)")
	fl.StringVar(&f.std, "std", "", "Language standard flag (default -std=c++17)")
	fl.StringVar(&f.opt, "opt", "", "Optimization flag (default -O3)")
	// StringArray, not StringSlice: link flags such as -Wl,-rpath,/dir
	// carry commas that must survive intact.
	fl.StringArrayVarP(&f.linkFlags, "link", "l", nil, "Link flag or library name, replacing the SFML defaults (repeatable)")
	fl.StringVarP(&f.includeDir, "include-dir", "I", "", "Extra include directory")
	fl.StringVarP(&f.libDir, "lib-dir", "L", "", "Extra library directory")
	fl.DurationVar(&f.timeout, "timeout", 0, "Kill the compiler after this long (default 10m or CPPBUILD_TIMEOUT)")
	fl.BoolVar(&f.noTimeout, "no-timeout", false, "Wait for the compiler indefinitely")
}

// options converts the flags, plus an optional positional source file,
// into build options.
func (f *buildFlags) options(args []string) *cppbuild.BuildOptions {
	opts := &cppbuild.BuildOptions{
		Platform:         f.platform,
		Dir:              f.dir,
		BuildFile:        f.buildFile,
		NoBuildFile:      f.noBuildFile,
		OutputName:       f.output,
		Compiler:         f.compiler,
		StandardFlag:     f.std,
		OptimizationFlag: f.opt,
		LinkFlags:        linkFlags(f.linkFlags),
		IncludeDir:       f.includeDir,
		LibDir:           f.libDir,
		Timeout:          f.timeout,
		NoTimeout:        f.noTimeout,
	}
	if len(args) > 0 {
		opts.SourceFile = args[0]
	}
	return opts
}

// linkFlags restores the -l prefix that the shorthand consumes, so that
// -lsfml-graphics and --link=sfml-graphics both reach the compiler as
// -lsfml-graphics.
func linkFlags(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if !strings.HasPrefix(v, "-") {
			v = "-l" + v
		}
		out = append(out, v)
	}
	return out
}
