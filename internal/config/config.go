package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chronolab/carbondate/internal/core/domain"
)

// Config is the shared file-backed configuration for the CLI and servers.
// Every field has a working default; a missing config file is not an error
// for callers that treat the path as optional.
type Config struct {
	// CurveDir is the directory holding local .14c curve files.
	CurveDir string `yaml:"curve_dir"`
	// Mirrors overrides the download URL per curve name. Empty = intcal.org.
	Mirrors map[string]string `yaml:"mirrors"`
	// DatabaseURL enables result persistence when set.
	DatabaseURL string `yaml:"database_url"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		CurveDir: "data/curves",
	}
}

// Load reads a YAML config file. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// MirrorURLs converts the config's curve-name keyed mirror map into the
// typed map the HTTP provider wants, dropping unknown curve names.
func (c *Config) MirrorURLs() map[domain.CurveType]string {
	if len(c.Mirrors) == 0 {
		return nil
	}
	urls := make(map[domain.CurveType]string, len(c.Mirrors))
	for name, url := range c.Mirrors {
		if curveType, ok := domain.ParseCurveType(name); ok {
			urls[curveType] = url
		}
	}
	return urls
}
