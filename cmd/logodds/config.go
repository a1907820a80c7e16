package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the logodds configuration file
// (~/.config/logodds/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	// Scoring defaults
	Model           string `yaml:"model"`
	VocabPath       string `yaml:"vocab_path"`
	Seed            *int64 `yaml:"seed"`
	MaxTargetTokens *int64 `yaml:"max_target_tokens"`
	Invalidation    string `yaml:"invalidation"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "logodds", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or cannot be parsed.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyScoreConfig applies config file defaults to score command
// variables when the corresponding CLI flag was not explicitly set.
func applyScoreConfig(c *cli.Command, cfg Config,
	modelName, vocabPath *string, seed, maxTarget *int64, invalidation *string,
) {
	if cfg.Model != "" && !c.IsSet("model") {
		*modelName = cfg.Model
	}
	if cfg.VocabPath != "" && !c.IsSet("vocab") {
		*vocabPath = cfg.VocabPath
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
	if cfg.MaxTargetTokens != nil && !c.IsSet("max-target-tokens") {
		*maxTarget = *cfg.MaxTargetTokens
	}
	if cfg.Invalidation != "" && !c.IsSet("invalidation") {
		*invalidation = cfg.Invalidation
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
