package argfill

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .argfill.yaml configuration file.
//
// The three behavior flags are tri-state pointers so that keys absent from
// the file keep their all-true defaults.
type Config struct {
	// Completion toggles the interactive completion surface.
	Completion *bool `yaml:"completion,omitempty"`

	// UseParameterNames prefers parameter names when rendering arguments.
	UseParameterNames *bool `yaml:"useParameterNames,omitempty"`

	// FallbackToTypeName enables type-derived names and the heuristic table.
	FallbackToTypeName *bool `yaml:"fallbackToTypeName,omitempty"`

	// Provider configures the optional upstream language server that answers
	// signature queries. Absent means no authoritative source.
	Provider *ProviderConfig `yaml:"provider,omitempty"`
}

// ProviderConfig holds the upstream signature provider settings.
type ProviderConfig struct {
	// Command is the language server executable and its arguments,
	// e.g. ["jdtls"] or ["java", "-jar", "ls.jar"].
	Command []string `yaml:"command"`
}

// Options converts the file's flags into an Options snapshot, applying
// defaults for unset keys.
func (c *Config) Options() Options {
	opts := DefaultOptions()

	if c == nil {
		return opts
	}

	if c.Completion != nil {
		opts.EnableCompletion = *c.Completion
	}

	if c.UseParameterNames != nil {
		opts.UseParameterNames = *c.UseParameterNames
	}

	if c.FallbackToTypeName != nil {
		opts.FallbackToTypeName = *c.FallbackToTypeName
	}

	return opts
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".argfill.yaml", ".argfill.yml"}

// LoadConfig finds and loads the nearest .argfill.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
