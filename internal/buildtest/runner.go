// Package buildtest provides helpers for tests that compile and run real
// C++ fixtures through cppbuild.
package buildtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LiboWorks/cppbuild/pkg/cppbuild"
)

// Fixture is a C++ source file under testdata/fixtures.
type Fixture struct {
	Name       string
	SourcePath string
}

// RunResult holds the outcome of running a built executable.
type RunResult struct {
	Build    *cppbuild.BuildResult
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner compiles fixtures into an isolated directory.
type Runner struct {
	RepoRoot    string
	FixturesDir string
	WorkDir     string
	Compiler    string
	t           *testing.T
}

// RequireCompiler skips the test when compiler is not on PATH.
func RequireCompiler(t *testing.T, compiler string) {
	t.Helper()
	if _, err := exec.LookPath(compiler); err != nil {
		t.Skipf("%s not available: %v", compiler, err)
	}
}

// NewRunner creates a runner with a per-test work directory. The test is
// skipped when the compiler is not installed.
func NewRunner(t *testing.T, compiler string) (*Runner, error) {
	t.Helper()
	RequireCompiler(t, compiler)

	repoRoot, err := findRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find repo root: %w", err)
	}

	return &Runner{
		RepoRoot:    repoRoot,
		FixturesDir: filepath.Join(repoRoot, "testdata", "fixtures"),
		WorkDir:     t.TempDir(),
		Compiler:    compiler,
		t:           t,
	}, nil
}

// findRepoRoot finds the repository root by looking for go.mod
func findRepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod in any parent directory")
		}
		dir = parent
	}
}

// GetFixture returns a fixture by name, without the .cpp extension.
func (r *Runner) GetFixture(name string) Fixture {
	return Fixture{
		Name:       name,
		SourcePath: filepath.Join(r.FixturesDir, name+".cpp"),
	}
}

// Build copies the fixture into the work directory and compiles it with
// no SFML link flags. Extra options are applied last.
func (r *Runner) Build(fixture Fixture, opts ...cppbuild.Option) (*cppbuild.BuildResult, error) {
	r.t.Helper()

	code, err := os.ReadFile(fixture.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	source := fixture.Name + ".cpp"
	if err := os.WriteFile(filepath.Join(r.WorkDir, source), code, 0644); err != nil {
		return nil, fmt.Errorf("failed to write fixture: %w", err)
	}

	base := []cppbuild.Option{
		cppbuild.WithDir(r.WorkDir),
		cppbuild.WithCompiler(r.Compiler),
		cppbuild.WithSource(source),
		cppbuild.WithOutputName(fixture.Name),
		cppbuild.WithLinkFlags(),
		cppbuild.WithOutput(io.Discard),
		func(o *cppbuild.BuildOptions) {
			o.NoBuildFile = true
			o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		},
	}
	return cppbuild.BuildWith(context.Background(), append(base, opts...)...)
}

// Run executes a successfully built program from the work directory.
func (r *Runner) Run(build *cppbuild.BuildResult, timeout time.Duration) (*RunResult, error) {
	r.t.Helper()
	if !build.Succeeded {
		return nil, fmt.Errorf("build failed (exit code %d):\n%s", build.ExitCode, build.Stderr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, build.OutputPath)
	cmd.Dir = r.WorkDir

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	result := &RunResult{
		Build:    build,
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}

// BuildAndRun builds a fixture and runs the result.
func (r *Runner) BuildAndRun(fixture Fixture, timeout time.Duration, opts ...cppbuild.Option) (*RunResult, error) {
	r.t.Helper()

	build, err := r.Build(fixture, opts...)
	if err != nil {
		return nil, err
	}
	return r.Run(build, timeout)
}

// Assertions provides fluent checks over a RunResult.
type Assertions struct {
	t      *testing.T
	result *RunResult
}

// NewAssertions creates a new assertions helper
func NewAssertions(t *testing.T, result *RunResult) *Assertions {
	return &Assertions{t: t, result: result}
}

// ExitCode asserts the program's exit code
func (a *Assertions) ExitCode(expected int) *Assertions {
	a.t.Helper()
	if a.result.ExitCode != expected {
		a.t.Errorf("expected exit code %d, got %d", expected, a.result.ExitCode)
	}
	return a
}

// StdoutContains asserts stdout contains a string
func (a *Assertions) StdoutContains(expected string) *Assertions {
	a.t.Helper()
	if !strings.Contains(a.result.Stdout, expected) {
		a.t.Errorf("stdout does not contain %q, got:\n%s", expected, a.result.Stdout)
	}
	return a
}

// StdoutNotContains asserts stdout does not contain a string
func (a *Assertions) StdoutNotContains(unexpected string) *Assertions {
	a.t.Helper()
	if strings.Contains(a.result.Stdout, unexpected) {
		a.t.Errorf("stdout should not contain %q, got:\n%s", unexpected, a.result.Stdout)
	}
	return a
}

// BuildCommandContains asserts the compiler was invoked with flag
func (a *Assertions) BuildCommandContains(flag string) *Assertions {
	a.t.Helper()
	for _, arg := range a.result.Build.Command {
		if arg == flag {
			return a
		}
	}
	a.t.Errorf("compiler command %q does not contain %q", a.result.Build.Command, flag)
	return a
}

// DurationLessThan asserts the program ran for less than d
func (a *Assertions) DurationLessThan(d time.Duration) *Assertions {
	a.t.Helper()
	if a.result.Duration >= d {
		a.t.Errorf("execution took %v, expected less than %v", a.result.Duration, d)
	}
	return a
}
