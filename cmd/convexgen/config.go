package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfig is the file read by generate when --config is not given and
// no schema files are passed.
const DefaultConfig = "convexgen.yaml"

// Config is the generate configuration file.
type Config struct {
	// Package is the Go package name of the generated file.
	Package string `yaml:"package"`
	// Output is the generated file path, relative to the config file. Empty or
	// "-" writes to stdout.
	Output string `yaml:"output"`
	// Schemas lists DSL files, relative to the config file.
	Schemas []string `yaml:"schemas"`
	// Strict makes generated decoders reject undeclared keys.
	Strict bool `yaml:"strict"`
}

// LoadConfig reads and validates a config file. Relative paths are resolved
// against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.Package == "" {
		return nil, fmt.Errorf("%s: package is required", path)
	}
	if len(c.Schemas) == 0 {
		return nil, fmt.Errorf("%s: at least one schema is required", path)
	}
	dir := filepath.Dir(path)
	for i, s := range c.Schemas {
		c.Schemas[i] = resolve(dir, s)
	}
	if c.Output != "" && c.Output != "-" {
		c.Output = resolve(dir, c.Output)
	}
	return &c, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
