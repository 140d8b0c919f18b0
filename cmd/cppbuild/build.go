package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/LiboWorks/cppbuild/pkg/cppbuild"
)

var (
	buildOpts   buildFlags
	explain     bool
	noPropagate bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [source.cpp]",
	Short: "Compile the source file into an executable",
	Long: `Build assembles the compiler command for the current platform, runs it,
and reports the result. On failure the compiler's diagnostics are printed
verbatim and cppbuild exits with the compiler's exit status.

Examples:
  cppbuild build
  cppbuild build lorenz.cpp -o lorenz
  cppbuild build --compiler clang++ --std=-std=c++20
  cppbuild build --explain`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := buildOpts.options(args)
		opts.Explain = explain
		opts.Out = cmd.OutOrStdout()

		result, err := cppbuild.Build(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if result.Succeeded || noPropagate {
			return nil
		}

		slog.Debug("propagating compiler failure", "exit_code", result.ExitCode)
		return &exitCodeError{code: exitCodeFor(result)}
	},
}

// exitCodeFor maps a failed build to a process exit status. Spawn failures
// and timeouts have no child status of their own.
func exitCodeFor(r *cppbuild.BuildResult) int {
	if r.ExitCode > 0 {
		return r.ExitCode
	}
	return 1
}

// commandCmd prints the compiler command without running it
var commandCmd = &cobra.Command{
	Use:   "command [source.cpp]",
	Short: "Print the compiler command without running it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := cppbuild.Plan(commandOpts.options(args))
		if err != nil {
			return err
		}
		if plan.BuildFile != "" {
			slog.Info("using build file", "path", plan.BuildFile)
		}
		fmt.Fprintln(cmd.OutOrStdout(), plan.CommandLine)
		return nil
	},
}

var commandOpts buildFlags

// versionCmd prints the cppbuild version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cppbuild version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cppbuild %s\n", cppbuild.Version)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd, commandCmd, versionCmd)

	buildOpts.register(buildCmd)
	buildCmd.Flags().BoolVar(&explain, "explain", false, "Ask an OpenAI-compatible API (OPENAI_API_KEY) to explain a failed build")
	buildCmd.Flags().BoolVar(&noPropagate, "no-propagate", false, "Exit 0 even when the compiler fails")

	commandOpts.register(commandCmd)
}
