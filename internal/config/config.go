// Package config loads the JSON loom profile used by the command line tool.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultPath is the profile read when no path is given.
const DefaultPath = "loom.json"

// Config describes one physical loom and the house style for its patterns.
// A nil or empty field means "use the built-in default", so a profile can
// still set a number to zero or a switch to false.
type Config struct {
	LoomWidth     *int   `json:"loom_width"`
	ContentWidth  *int   `json:"content_width"`
	ContentHeight *int   `json:"content_height"`
	InnerTabby    *int   `json:"inner_tabby"`
	OuterTabby    *int   `json:"outer_tabby"`
	FillMargin    *bool  `json:"fill_margin"`
	OutputFormat  string `json:"output_format"`
	Filter        string `json:"filter"`
	Dither        string `json:"dither"`
	RunPolicy     string `json:"run_policy"`
	MaxHorizontal *int   `json:"max_horizontal_run"`
	MaxVertical   *int   `json:"max_vertical_run"`
	Passes        *int   `json:"passes"`
	Center        *bool  `json:"center"`
	Invert        *bool  `json:"invert"`
	Sharpen       *bool  `json:"sharpen"`
	Deflate       *bool  `json:"deflate"`
	MaxPixels     *int   `json:"max_source_pixels"`
	Workers       *int   `json:"workers"`
	LogLevel      string `json:"log_level"`
}

// Load reads the profile at path. An empty path reads DefaultPath, and a
// missing default profile yields an empty Config. A missing explicit path
// is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate rejects negative sizes. Names are checked by the consumers that
// parse them.
func (c *Config) Validate() error {
	fields := []struct {
		name string
		v    *int
	}{
		{"loom_width", c.LoomWidth},
		{"content_width", c.ContentWidth},
		{"content_height", c.ContentHeight},
		{"inner_tabby", c.InnerTabby},
		{"outer_tabby", c.OuterTabby},
		{"max_horizontal_run", c.MaxHorizontal},
		{"max_vertical_run", c.MaxVertical},
		{"passes", c.Passes},
		{"max_source_pixels", c.MaxPixels},
		{"workers", c.Workers},
	}
	for _, f := range fields {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", f.name, *f.v)
		}
	}
	return nil
}
