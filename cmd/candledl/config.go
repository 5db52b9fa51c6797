package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig holds CLI defaults loaded from an optional YAML file. Flags set
// on the command line take precedence over file values.
type fileConfig struct {
	OutputDir     string `yaml:"output_dir"`
	Provider      string `yaml:"provider"`
	Format        string `yaml:"format"`
	PolygonAPIKey string `yaml:"polygon_api_key"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var config fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
