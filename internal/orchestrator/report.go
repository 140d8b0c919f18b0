package orchestrator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Reporter writes the user-facing messages of a build.
type Reporter struct {
	out io.Writer
	dir string
}

// NewReporter creates a reporter writing to w (os.Stdout when nil).
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{out: w}
}

// Announce prints the pre-invocation message.
func (r *Reporter) Announce(cfg BuildConfig) {
	fmt.Fprintf(r.out, "🔧 Compiling %s...\n", cfg.SourceFile)
}

// Report prints the outcome of a build. Compiler diagnostics are
// reproduced verbatim.
func (r *Reporter) Report(cfg BuildConfig, res InvocationResult) {
	if res.Succeeded {
		fmt.Fprintf(r.out, "✅ Build complete! Executable created: %s\n", cfg.OutputName)
		fmt.Fprintf(r.out, "\nTo launch the application:\n  %s\n", cfg.Platform.RunInstruction(OutputPath(r.dir, cfg)))
		return
	}

	switch {
	case res.TimedOut:
		fmt.Fprintln(r.out, "❌ Compilation timed out:")
	case res.SpawnFailed:
		fmt.Fprintf(r.out, "❌ Could not run %s:\n", cfg.Compiler)
	case res.ExitCode < 0:
		fmt.Fprintln(r.out, "❌ Compilation failed (terminated by signal):")
	default:
		fmt.Fprintf(r.out, "❌ Compilation failed (exit code %d):\n", res.ExitCode)
	}
	fmt.Fprint(r.out, res.Stderr)
	if res.Stderr != "" && !strings.HasSuffix(res.Stderr, "\n") {
		fmt.Fprintln(r.out)
	}
}

// Explanation prints an explanation of a failed build.
func (r *Reporter) Explanation(text string) {
	fmt.Fprintf(r.out, "\n💡 Explanation:\n%s\n", text)
}

// OutputPath returns where the executable of cfg lands when the compiler
// runs in dir. An empty dir means the current directory.
func OutputPath(dir string, cfg BuildConfig) string {
	if dir == "" || filepath.IsAbs(cfg.OutputName) {
		return cfg.OutputName
	}
	return filepath.Join(dir, cfg.OutputName)
}
