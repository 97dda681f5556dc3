package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type FileConfig struct {
	Repository    string `yaml:"repository"`
	PRNumber      *int   `yaml:"pr_number"`
	Files         string `yaml:"files"`
	WorkDir       string `yaml:"workdir"`
	APIURL        string `yaml:"api_url"`
	CommitMessage string `yaml:"commit_message"`
	LogLevel      string `yaml:"log_level"`
	DryRun        *bool  `yaml:"dry_run"`
	LabelMajor    string `yaml:"label_major"`
	LabelMinor    string `yaml:"label_minor"`
	LabelPatch    string `yaml:"label_patch"`
}

func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config: %w", err)
	}

	return FromString(string(raw))
}

func FromString(s string) (FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal([]byte(s), &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config YAML: %w", err)
	}
	return cfg, nil
}
