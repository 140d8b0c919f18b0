package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/LiboWorks/cppbuild/internal/config"
)

var (
	verbose bool
	debug   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cppbuild",
	Short: "Compile a single C++ source file into a native executable",
	Long: `cppbuild compiles one C++ source file into a platform-appropriate
executable by invoking the system compiler with a fixed set of flags.

Features:
  - Sensible defaults for SFML programs (g++, -std=c++17, -O3, -lsfml-*)
  - .exe suffix and SFML include/lib paths handled on Windows
  - Optional cppbuild.yaml / cppbuild.toml project file
  - Compiler exit status propagated as cppbuild's own

Examples:
  cppbuild build
  cppbuild build lorenz.cpp -o lorenz
  cppbuild command --platform windows`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress details")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug details, including the full compiler command")
}

// setupLogging installs the default slog logger on stderr. Flags win over
// CPPBUILD_VERBOSE / CPPBUILD_DEBUG.
func setupLogging() {
	cfg := config.Get()
	level := slog.LevelWarn
	switch {
	case debug || cfg.DebugMode:
		level = slog.LevelDebug
	case verbose || cfg.Verbose:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// exitCodeError makes main exit with the compiler's status.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
