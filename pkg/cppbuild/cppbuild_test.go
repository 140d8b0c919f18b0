package cppbuild_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiboWorks/cppbuild/internal/config"
	"github.com/LiboWorks/cppbuild/pkg/cppbuild"
)

// cleanEnv isolates a test from CPPBUILD_* and SFML_* settings of the host.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CPPBUILD_COMPILER", "CPPBUILD_STD", "CPPBUILD_OPT", "CPPBUILD_TIMEOUT",
		"SFML_INCLUDE_DIR", "SFML_LIB_DIR",
	} {
		t.Setenv(k, "")
	}
	config.Reset()
	t.Cleanup(config.Reset)
}

func TestPlanDefaults(t *testing.T) {
	cleanEnv(t)

	plan, err := cppbuild.Plan(&cppbuild.BuildOptions{Platform: "linux", NoBuildFile: true})
	require.NoError(t, err)

	assert.Equal(t, "posix", plan.Platform)
	assert.Equal(t, "attracteurs_app", plan.OutputName)
	assert.Equal(t, []string{
		"g++", "-std=c++17", "attracteurs.cpp", "-o", "attracteurs_app", "-O3",
		"-lsfml-graphics", "-lsfml-window", "-lsfml-system",
	}, plan.Command)
	assert.Equal(t, "g++ -std=c++17 attracteurs.cpp -o attracteurs_app -O3 -lsfml-graphics -lsfml-window -lsfml-system",
		plan.CommandLine)
	assert.Equal(t, config.DefaultTimeoutSeconds*time.Second, plan.Timeout)
	assert.Empty(t, plan.BuildFile)
}

func TestPlanWindowsUsesSDKEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SFML_INCLUDE_DIR", "C:/SFML/include")
	t.Setenv("SFML_LIB_DIR", "C:/SFML/lib")
	config.Reset()

	win, err := cppbuild.Plan(&cppbuild.BuildOptions{Platform: "windows", NoBuildFile: true})
	require.NoError(t, err)
	assert.Equal(t, "attracteurs_app.exe", win.OutputName)
	assert.Contains(t, win.Command, "-IC:/SFML/include")
	assert.Contains(t, win.Command, "-LC:/SFML/lib")

	linux, err := cppbuild.Plan(&cppbuild.BuildOptions{Platform: "linux", NoBuildFile: true})
	require.NoError(t, err)
	assert.NotContains(t, linux.Command, "-IC:/SFML/include")
}

func TestPlanLayering(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cppbuild.yaml"), []byte(`
source: lorenz.cpp
output: lorenz
compiler: clang++
optimization: -O2
timeout: 30
`), 0644))
	t.Setenv("CPPBUILD_COMPILER", "g++-13")
	config.Reset()

	plan, err := cppbuild.Plan(&cppbuild.BuildOptions{
		Platform:   "linux",
		Dir:        dir,
		OutputName: "lorenz_fast",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cppbuild.yaml"), plan.BuildFile)
	assert.Equal(t, []string{
		"g++-13", "-std=c++17", "lorenz.cpp", "-o", "lorenz_fast", "-O2",
		"-lsfml-graphics", "-lsfml-window", "-lsfml-system",
	}, plan.Command)
	assert.Equal(t, 30*time.Second, plan.Timeout)
}

func TestPlanTimeoutPrecedence(t *testing.T) {
	cleanEnv(t)
	t.Setenv("CPPBUILD_TIMEOUT", "45")
	config.Reset()

	plan, err := cppbuild.Plan(&cppbuild.BuildOptions{NoBuildFile: true})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, plan.Timeout)

	plan, err = cppbuild.Plan(&cppbuild.BuildOptions{NoBuildFile: true, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, time.Second, plan.Timeout)

	plan, err = cppbuild.Plan(&cppbuild.BuildOptions{NoBuildFile: true, NoTimeout: true})
	require.NoError(t, err)
	assert.Zero(t, plan.Timeout)
}

func TestPlanBadBuildFile(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "cppbuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unknown_key: 1\n"), 0644))

	_, err := cppbuild.Plan(&cppbuild.BuildOptions{BuildFile: path})
	assert.Error(t, err)
}

func TestBuildMissingCompiler(t *testing.T) {
	cleanEnv(t)
	var out bytes.Buffer

	res, err := cppbuild.BuildWith(context.Background(),
		cppbuild.WithCompiler("cppbuild-no-such-compiler"),
		cppbuild.WithDir(t.TempDir()),
		cppbuild.WithOutput(&out),
	)
	require.NoError(t, err, "compiler failure is not an orchestrator error")

	assert.False(t, res.Succeeded)
	assert.Equal(t, -1, res.ExitCode)
	assert.Contains(t, out.String(), "🔧 Compiling attracteurs.cpp...")
	assert.Contains(t, out.String(), "❌")
}

func TestBuildWithFakeCompiler(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	cleanEnv(t)
	dir := t.TempDir()
	compiler := filepath.Join(dir, "fake-g++")
	// writes the file named after -o, like a real compiler would
	script := "#!/bin/sh\nwhile [ $# -gt 0 ]; do if [ \"$1\" = -o ]; then touch \"$2\"; fi; shift; done\n"
	require.NoError(t, os.WriteFile(compiler, []byte(script), 0755))

	res, err := cppbuild.Build(context.Background(), &cppbuild.BuildOptions{
		Dir:         dir,
		NoBuildFile: true,
		Compiler:    compiler,
		Out:         io.Discard,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	require.True(t, res.Succeeded, res.Stderr)
	assert.Equal(t, filepath.Join(dir, "attracteurs_app"), res.OutputPath)
	assert.Equal(t, res.OutputPath, res.RunInstruction, "absolute paths are launched as-is")
	assert.FileExists(t, res.OutputPath)
	assert.Equal(t, compiler, res.Command[0])
}

func TestBuildRunInstructionRelativeToCaller(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	cleanEnv(t)
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "demo"), 0755))
	compiler := filepath.Join(root, "fake-g++")
	require.NoError(t, os.WriteFile(compiler, []byte("#!/bin/sh\nexit 0\n"), 0755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out bytes.Buffer
	res, err := cppbuild.Build(context.Background(), &cppbuild.BuildOptions{
		Dir:         "demo",
		NoBuildFile: true,
		Compiler:    compiler,
		Out:         &out,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	require.True(t, res.Succeeded, res.Stderr)
	assert.Equal(t, filepath.Join("demo", "attracteurs_app"), res.OutputPath)
	assert.Equal(t, "./demo/attracteurs_app", res.RunInstruction)
	assert.Contains(t, out.String(), "To launch the application:\n  ./demo/attracteurs_app\n")
}
