package cppbuild_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiboWorks/cppbuild/internal/buildtest"
	"github.com/LiboWorks/cppbuild/pkg/cppbuild"
)

func TestIntegrationHello(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cleanEnv(t)
	runner, err := buildtest.NewRunner(t, "g++")
	require.NoError(t, err)

	result, err := runner.BuildAndRun(runner.GetFixture("hello"), 30*time.Second)
	require.NoError(t, err)

	buildtest.NewAssertions(t, result).
		ExitCode(0).
		StdoutContains("hello from cppbuild").
		BuildCommandContains("-O3").
		BuildCommandContains("-std=c++17").
		DurationLessThan(10 * time.Second)
}

func TestIntegrationStandardFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cleanEnv(t)
	runner, err := buildtest.NewRunner(t, "g++")
	require.NoError(t, err)
	fixture := runner.GetFixture("exit_code")

	result, err := runner.BuildAndRun(fixture, 30*time.Second)
	require.NoError(t, err)
	buildtest.NewAssertions(t, result).ExitCode(5)

	old, err := runner.Build(fixture, func(o *cppbuild.BuildOptions) { o.StandardFlag = "-std=c++11" })
	require.NoError(t, err)
	assert.False(t, old.Succeeded)
	assert.NotZero(t, old.ExitCode)
	assert.Contains(t, old.Stderr, "optional")
}

func TestIntegrationSyntaxError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cleanEnv(t)
	runner, err := buildtest.NewRunner(t, "g++")
	require.NoError(t, err)

	res, err := runner.Build(runner.GetFixture("syntax_error"))
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Stderr, "syntax_error.cpp")
	assert.NoFileExists(t, res.OutputPath)
}
