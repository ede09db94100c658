package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level application configuration.
type Config struct {
	Version  string         `toml:"version" yaml:"version"`
	Provider ProviderConfig `toml:"provider" yaml:"provider"`
	Scan     ScanConfig     `toml:"scan" yaml:"scan"`
	Analysis AnalysisConfig `toml:"analysis" yaml:"analysis"`
	Output   OutputConfig   `toml:"output" yaml:"output"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

// ProviderConfig holds settings for the OpenAI-compatible LLM endpoint.
type ProviderConfig struct {
	Name              string            `toml:"name" yaml:"name"`
	BaseURL           string            `toml:"base_url" yaml:"base_url"`
	Model             string            `toml:"model" yaml:"model"`
	APIKeySource      string            `toml:"api_key_source" yaml:"api_key_source"`
	APIKey            string            `toml:"api_key" yaml:"api_key"`
	APIKeyEnv         string            `toml:"api_key_env" yaml:"api_key_env"`
	ExtraHeaders      map[string]string `toml:"extra_headers" yaml:"extra_headers"`
	RequestsPerMinute int               `toml:"requests_per_minute" yaml:"requests_per_minute"`
	MaxTokens         int               `toml:"max_tokens" yaml:"max_tokens"`
	Temperature       *float64          `toml:"temperature" yaml:"temperature"`
}

// ScanConfig controls which files the directory scanner picks up.
type ScanConfig struct {
	IgnoreDirs        []string `toml:"ignore_dirs" yaml:"ignore_dirs"`
	AllowedExtensions []string `toml:"allowed_extensions" yaml:"allowed_extensions"`
}

// AnalysisConfig controls per-file analysis.
type AnalysisConfig struct {
	MaxChars int `toml:"max_chars" yaml:"max_chars"`
	Workers  int `toml:"workers" yaml:"workers"`
}

// OutputConfig controls where and how the generated documents are written.
type OutputConfig struct {
	Dir           string `toml:"dir" yaml:"dir"`
	PerProject    bool   `toml:"per_project" yaml:"per_project"`
	ReadmeName    string `toml:"readme_name" yaml:"readme_name"`
	ReferenceName string `toml:"reference_name" yaml:"reference_name"`
	Format        string `toml:"format" yaml:"format"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	JSON  bool   `toml:"json" yaml:"json"`
}

// DefaultBaseURL is the OpenAI endpoint used when no base URL is configured.
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultIgnoreDirs are directory names never descended into.
var DefaultIgnoreDirs = []string{
	".git", ".idea", ".vscode", "__pycache__", "venv", "env",
	"node_modules", "dist", "build", "site-packages", ".DS_Store",
}

// DefaultAllowedExtensions are the file extensions picked up by the scanner.
var DefaultAllowedExtensions = []string{
	".py", ".md", ".txt", ".yml", ".yaml", ".json", ".js", ".ts", ".java",
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Provider: ProviderConfig{
			Name:         "openai",
			BaseURL:      DefaultBaseURL,
			Model:        "gpt-4o-mini",
			APIKeySource: "env",
			APIKeyEnv:    EnvAPIKey,
		},
		Scan: ScanConfig{
			IgnoreDirs:        append([]string(nil), DefaultIgnoreDirs...),
			AllowedExtensions: append([]string(nil), DefaultAllowedExtensions...),
		},
		Analysis: AnalysisConfig{
			MaxChars: 15000,
			Workers:  1,
		},
		Output: OutputConfig{
			Dir:           "output",
			PerProject:    true,
			ReadmeName:    "README.md",
			ReferenceName: "TECHNICAL_REFERENCE.md",
			Format:        "raw-md",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a config file on top of DefaultConfig. A missing file is not an
// error; the defaults are returned. Files ending in .yaml or .yml are decoded
// as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config file %s", path)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config file %s", path)
		}
	}

	if err := CheckVersion(cfg.Version); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", path)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing config file %s", path)
	}
	return nil
}

// Encode writes cfg to w as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return nil
}
