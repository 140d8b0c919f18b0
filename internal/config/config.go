// Package config provides centralized configuration management for cppbuild.
// It handles environment variables, default values, and build file loading.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all configuration settings read from the environment.
// Empty toolchain fields mean "use the built-in default".
type Config struct {
	// Toolchain settings
	Compiler         string
	StandardFlag     string
	OptimizationFlag string

	// SFML location, only needed when the library is not on a default search path
	IncludeDir string
	LibDir     string

	// Execution settings. UnsetTimeout means "not configured", 0 disables
	// the timeout.
	TimeoutSeconds int

	// OpenAI settings, used by --explain
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Output settings
	Verbose   bool
	DebugMode bool
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Default values
const (
	DefaultSourceFile       = "attracteurs.cpp"
	DefaultOutputName       = "attracteurs_app"
	DefaultCompiler         = "g++"
	DefaultStandardFlag     = "-std=c++17"
	DefaultOptimizationFlag = "-O3"
	DefaultTimeoutSeconds   = 600
	UnsetTimeout            = -1
	DefaultOpenAIModel      = "gpt-4"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
)

// DefaultLinkFlags returns the SFML libraries the attractor viewer links against.
// A fresh slice is returned on every call.
func DefaultLinkFlags() []string {
	return []string{"-lsfml-graphics", "-lsfml-window", "-lsfml-system"}
}

// Get returns the global configuration, loading from environment if not already loaded
func Get() *Config {
	configOnce.Do(func() {
		globalConfig = loadFromEnv()
	})
	return globalConfig
}

// Reset clears the global configuration, forcing reload on next Get()
// This is primarily useful for testing
func Reset() {
	configOnce = sync.Once{}
	globalConfig = nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv() *Config {
	return &Config{
		Compiler:         getEnv("CPPBUILD_COMPILER", ""),
		StandardFlag:     getEnv("CPPBUILD_STD", ""),
		OptimizationFlag: getEnv("CPPBUILD_OPT", ""),

		IncludeDir: getEnv("SFML_INCLUDE_DIR", ""),
		LibDir:     getEnv("SFML_LIB_DIR", ""),

		TimeoutSeconds: getEnvInt("CPPBUILD_TIMEOUT", UnsetTimeout),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
		OpenAIModel:   getEnv("OPENAI_MODEL", DefaultOpenAIModel),

		Verbose:   getEnvBool("CPPBUILD_VERBOSE", false),
		DebugMode: getEnvBool("CPPBUILD_DEBUG", false),
	}
}

// NewConfig creates a new configuration with default values and no
// environment lookups. Useful for tests and programmatic use.
func NewConfig() *Config {
	return &Config{
		TimeoutSeconds: UnsetTimeout,
		OpenAIBaseURL:  DefaultOpenAIBaseURL,
		OpenAIModel:    DefaultOpenAIModel,
	}
}

// WithToolchain configures the compiler and its standard/optimization flags.
// Empty arguments leave the current value untouched.
func (c *Config) WithToolchain(compiler, std, opt string) *Config {
	if compiler != "" {
		c.Compiler = compiler
	}
	if std != "" {
		c.StandardFlag = std
	}
	if opt != "" {
		c.OptimizationFlag = opt
	}
	return c
}

// WithLibraryPaths configures explicit include and library directories
func (c *Config) WithLibraryPaths(includeDir, libDir string) *Config {
	c.IncludeDir = includeDir
	c.LibDir = libDir
	return c
}

// WithTimeout sets the compiler timeout in seconds. Zero disables it.
func (c *Config) WithTimeout(seconds int) *Config {
	if seconds >= 0 {
		c.TimeoutSeconds = seconds
	}
	return c
}

// WithOpenAI configures OpenAI settings
func (c *Config) WithOpenAI(apiKey, baseURL, model string) *Config {
	c.OpenAIAPIKey = apiKey
	if baseURL != "" {
		c.OpenAIBaseURL = baseURL
	}
	if model != "" {
		c.OpenAIModel = model
	}
	return c
}

// WithDebug enables debug and verbose modes
func (c *Config) WithDebug(debug, verbose bool) *Config {
	c.DebugMode = debug
	c.Verbose = verbose
	return c
}

// TimeoutConfigured reports whether a timeout was set explicitly.
func (c *Config) TimeoutConfigured() bool {
	return c.TimeoutSeconds >= 0
}

// Timeout returns the compiler timeout, falling back to the default when
// none was configured. Zero means no timeout.
func (c *Config) Timeout() time.Duration {
	switch {
	case c.TimeoutSeconds < 0:
		return DefaultTimeoutSeconds * time.Second
	case c.TimeoutSeconds == 0:
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
