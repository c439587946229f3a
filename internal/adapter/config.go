package adapter

import (
	"fmt"

	"github.com/BurntSushi/toml"

	m "github.com/mouse-blink/knit/internal/model"
)

// fileConfig mirrors the TOML layout of a knit config file.
type fileConfig struct {
	Output             string   `toml:"output"`
	Browser            bool     `toml:"browser"`
	ExcludeNodeModules bool     `toml:"exclude_node_modules"`
	ExcludeFiles       []string `toml:"exclude_files"`
}

// LoadConfigFile reads bundling options from a TOML file. Flags layered on
// top by the caller take precedence.
func LoadConfigFile(path m.Path) (m.Config, error) {
	var fc fileConfig

	if _, err := toml.DecodeFile(string(path), &fc); err != nil {
		return m.Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	cfg := m.Config{Output: m.Path(fc.Output)}
	cfg.Browser = fc.Browser
	cfg.ExcludeNodeModules = fc.ExcludeNodeModules

	for _, p := range fc.ExcludeFiles {
		cfg.ExcludeFiles = append(cfg.ExcludeFiles, m.Path(p))
	}

	return cfg, nil
}
