// Package config holds the loose option maps shared by the tool
// subcommands and their conversion pipelines.
//
// Options is intentionally schemaless: each tool documents the keys it
// reads and supplies its own defaults at the read site, so an options
// file can carry keys for several tools at once without coupling them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is a string-keyed option bag with typed accessors.
// Missing or mistyped values fall back to the caller's default.
type Options map[string]any

// String returns the option as a string, or def when absent/mistyped.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the option as a bool, or def when absent/mistyped.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the option as an int, or def when absent/mistyped.
// YAML/JSON decoding may surface numbers as int, int64 or float64.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// LoadFile reads a YAML options file. A missing file is an error; an
// empty file yields empty Options.
func LoadFile(path string) (Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var o Options
	if err := yaml.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if o == nil {
		o = Options{}
	}
	return o, nil
}
