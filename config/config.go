// Package config loads process-wide settings for the reflective
// compilation core: cache sizes, the default conversion policy, and the
// naming strategy attribute resolution falls back to. Grounded on the
// teacher's connector/config.go (YAML-tagged nested config structs),
// narrowed from connection/pool settings to the settings this core
// actually owns.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/latticedb/rowmap/convpolicy"
	"github.com/latticedb/rowmap/schema"
)

// Config is the top-level settings document.
type Config struct {
	// CacheSize bounds the Type & Property Cache's LRU tier. Matches
	// schema.DefaultLRUSize when zero.
	CacheSize int `yaml:"cache_size"`
	// DefaultPolicy selects Strict or Automatic conversion at process
	// start. One of "strict", "automatic".
	DefaultPolicy string `yaml:"default_policy"`
	// Naming selects the column/table naming convention.
	Naming NamingConfig `yaml:"naming"`
}

// NamingConfig mirrors schema.NamingStrategy's two axes so they can be
// expressed in YAML.
type NamingConfig struct {
	Column string `yaml:"column"` // "snake_case" (default), "camel_case", "pascal_case"
	Table  string `yaml:"table"`  // "snake_case_plural" (default), "snake_case_singular", "camel_case_plural", "pascal_case_plural"
}

// Default returns the zero-config document: schema.DefaultLRUSize,
// Strict policy, snake_case columns and plural snake_case tables.
func Default() Config {
	return Config{
		CacheSize:     schema.DefaultLRUSize,
		DefaultPolicy: "strict",
		Naming:        NamingConfig{Column: "snake_case", Table: "snake_case_plural"},
	}
}

// Load reads a YAML document from path and merges it over Default. A
// missing or zero-valued field in the document keeps the default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = schema.DefaultLRUSize
	}
	return cfg, nil
}

// Policy parses DefaultPolicy, defaulting to Strict on an empty or
// unrecognized value.
func (c Config) Policy() convpolicy.Policy {
	if c.DefaultPolicy == "automatic" {
		return convpolicy.Automatic
	}
	return convpolicy.Strict
}

// NamingStrategy builds a schema.NamingStrategy from Naming, defaulting
// each axis independently when unset or unrecognized.
func (c Config) NamingStrategy() schema.NamingStrategy {
	column := schema.ColumnSnakeCase
	switch c.Naming.Column {
	case "camel_case":
		column = schema.ColumnCamelCase
	case "pascal_case":
		column = schema.ColumnPascalCase
	}

	table := schema.TableSnakeCasePlural
	switch c.Naming.Table {
	case "snake_case_singular":
		table = schema.TableSnakeCaseSingular
	case "camel_case_plural":
		table = schema.TableCamelCasePlural
	case "pascal_case_plural":
		table = schema.TablePascalCasePlural
	}

	return schema.NewNamingStrategy(column, table)
}

// Apply pushes cfg into the process-wide singletons it configures:
// convpolicy's current policy and schema's default introspector. Called
// once at startup by an embedding application; rowmap itself never
// calls this automatically.
func Apply(cfg Config) {
	convpolicy.Set(cfg.Policy())
	schema.SetDefaultNaming(cfg.NamingStrategy(), cfg.CacheSize)
}
