package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiboWorks/cppbuild/internal/config"
)

func TestGetConfig(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	cfg := config.Get()
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultOpenAIModel, cfg.OpenAIModel)
	assert.Equal(t, config.UnsetTimeout, cfg.TimeoutSeconds)
	assert.False(t, cfg.TimeoutConfigured())
	assert.Equal(t, config.DefaultTimeoutSeconds*time.Second, cfg.Timeout())
	assert.Same(t, cfg, config.Get(), "Get should return the cached instance")
}

func TestConfigFromEnv(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	t.Setenv("CPPBUILD_COMPILER", "clang++")
	t.Setenv("CPPBUILD_STD", "-std=c++20")
	t.Setenv("CPPBUILD_OPT", "-O2")
	t.Setenv("CPPBUILD_TIMEOUT", "42")
	t.Setenv("CPPBUILD_VERBOSE", "true")
	t.Setenv("CPPBUILD_DEBUG", "1")
	t.Setenv("SFML_INCLUDE_DIR", "C:/SFML/include")
	t.Setenv("SFML_LIB_DIR", "C:/SFML/lib")

	cfg := config.Get()

	assert.Equal(t, "clang++", cfg.Compiler)
	assert.Equal(t, "-std=c++20", cfg.StandardFlag)
	assert.Equal(t, "-O2", cfg.OptimizationFlag)
	assert.Equal(t, 42*time.Second, cfg.Timeout())
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.DebugMode)
	assert.Equal(t, "C:/SFML/include", cfg.IncludeDir)
	assert.Equal(t, "C:/SFML/lib", cfg.LibDir)
}

func TestConfigInvalidEnvFallsBack(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	t.Setenv("CPPBUILD_TIMEOUT", "soon")
	t.Setenv("CPPBUILD_VERBOSE", "maybe")

	cfg := config.Get()
	assert.False(t, cfg.TimeoutConfigured())
	assert.False(t, cfg.Verbose)
}

func TestNewConfigBuilder(t *testing.T) {
	cfg := config.NewConfig().
		WithToolchain("clang++", "", "-O2").
		WithLibraryPaths("/opt/sfml/include", "/opt/sfml/lib").
		WithTimeout(30).
		WithOpenAI("test-key", "https://custom.api", "").
		WithDebug(true, false)

	assert.Equal(t, "clang++", cfg.Compiler)
	assert.Empty(t, cfg.StandardFlag)
	assert.Equal(t, "-O2", cfg.OptimizationFlag)
	assert.Equal(t, "/opt/sfml/include", cfg.IncludeDir)
	assert.Equal(t, "/opt/sfml/lib", cfg.LibDir)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "test-key", cfg.OpenAIAPIKey)
	assert.Equal(t, "https://custom.api", cfg.OpenAIBaseURL)
	assert.Equal(t, config.DefaultOpenAIModel, cfg.OpenAIModel)
	assert.True(t, cfg.DebugMode)
	assert.False(t, cfg.Verbose)
}

func TestTimeoutDisabled(t *testing.T) {
	cfg := config.NewConfig().WithTimeout(0)
	assert.True(t, cfg.TimeoutConfigured())
	assert.Zero(t, cfg.Timeout())
}

func TestDefaultLinkFlagsIsFresh(t *testing.T) {
	a := config.DefaultLinkFlags()
	a[0] = "-lmutated"
	assert.Equal(t, "-lsfml-graphics", config.DefaultLinkFlags()[0])
}

func TestLoadBuildFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cppbuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: lorenz.cpp
output: lorenz
compiler: clang++
link_flags:
  - -lsfml-graphics
  - -lsfml-system
timeout: 90
`), 0644))

	bf, err := config.LoadBuildFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lorenz.cpp", bf.Source)
	assert.Equal(t, "lorenz", bf.Output)
	assert.Equal(t, "clang++", bf.Compiler)
	assert.Equal(t, []string{"-lsfml-graphics", "-lsfml-system"}, bf.LinkFlags)
	assert.Equal(t, 90, bf.Timeout)
	assert.Empty(t, bf.IncludeDir)
}

func TestLoadBuildFileTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cppbuild.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
source = "rossler.cpp"
std = "-std=c++20"
include_dir = "C:/SFML/include"
lib_dir = "C:/SFML/lib"
`), 0644))

	bf, err := config.LoadBuildFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rossler.cpp", bf.Source)
	assert.Equal(t, "-std=c++20", bf.Std)
	assert.Equal(t, "C:/SFML/include", bf.IncludeDir)
	assert.Equal(t, "C:/SFML/lib", bf.LibDir)
}

func TestLoadBuildFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unknown yaml key", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sauce: main.cpp\n"), 0644))
		_, err := config.LoadBuildFile(path)
		assert.Error(t, err)
	})

	t.Run("unknown toml key", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("sauce = \"main.cpp\"\n"), 0644))
		_, err := config.LoadBuildFile(path)
		assert.Error(t, err)
	})

	t.Run("negative timeout", func(t *testing.T) {
		path := filepath.Join(dir, "neg.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timeout: -5\n"), 0644))
		_, err := config.LoadBuildFile(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadBuildFile(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadBuildFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cppbuild.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	bf, err := config.LoadBuildFile(path)
	require.NoError(t, err)
	assert.Equal(t, &config.BuildFile{}, bf)
}

func TestFindBuildFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, config.FindBuildFile(dir))

	tomlPath := filepath.Join(dir, "cppbuild.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(""), 0644))
	assert.Equal(t, tomlPath, config.FindBuildFile(dir))

	yamlPath := filepath.Join(dir, "cppbuild.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(""), 0644))
	assert.Equal(t, yamlPath, config.FindBuildFile(dir), "yaml takes precedence")
}
