package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// EngineConfig tunes the valuation engine. It is read from an optional TOML
// file:
//
//	default_location_score = 75
//	page_size = 40
//
//	[location]
//	Toronto = 90
//	Mississauga = 85
type EngineConfig struct {
	DefaultLocationScore int            `toml:"default_location_score"`
	Location             map[string]int `toml:"location"`
	PageSize             int            `toml:"page_size"`
}

// LoadEngine decodes the TOML file at path. A missing file is not an error:
// the zero EngineConfig is returned and callers keep their built-in tables.
func LoadEngine(path string) (*EngineConfig, error) {
	var cfg EngineConfig
	if path == "" {
		return &cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("engine config: decode %q: %w", path, err)
	}

	if cfg.DefaultLocationScore < 0 || cfg.DefaultLocationScore > 100 {
		return nil, fmt.Errorf("engine config: default_location_score %d out of range 0-100", cfg.DefaultLocationScore)
	}
	for city, score := range cfg.Location {
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("engine config: location score for %q is %d, want 0-100", city, score)
		}
	}
	return &cfg, nil
}
