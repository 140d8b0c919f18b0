package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultBuildFiles are probed, in order, when no build file is named explicitly.
var DefaultBuildFiles = []string{"cppbuild.yaml", "cppbuild.yml", "cppbuild.toml"}

// BuildFile is the optional per-project file that overrides the built-in
// defaults. Every field is optional.
type BuildFile struct {
	Source       string   `yaml:"source" toml:"source"`
	Output       string   `yaml:"output" toml:"output"`
	Compiler     string   `yaml:"compiler" toml:"compiler"`
	Std          string   `yaml:"std" toml:"std"`
	Optimization string   `yaml:"optimization" toml:"optimization"`
	LinkFlags    []string `yaml:"link_flags" toml:"link_flags"`
	IncludeDir   string   `yaml:"include_dir" toml:"include_dir"`
	LibDir       string   `yaml:"lib_dir" toml:"lib_dir"`
	// Timeout in seconds; zero keeps the environment/default value.
	Timeout int `yaml:"timeout" toml:"timeout"`
}

// LoadBuildFile decodes a YAML or TOML build file, chosen by extension.
// Unknown keys are an error.
func LoadBuildFile(path string) (*BuildFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	bf := &BuildFile{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(bf); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// an empty document is a valid, empty build file
		if err := dec.Decode(bf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if bf.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout in %s: %d", path, bf.Timeout)
	}
	return bf, nil
}

// FindBuildFile returns the first of DefaultBuildFiles present in dir, or ""
// when there is none.
func FindBuildFile(dir string) string {
	for _, name := range DefaultBuildFiles {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
