// Package config is used to load the configuration file
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v8"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/timeless-lut/tjlut/internal/manifest"
)

type source struct {
	Repo   string `mapstructure:"repo" yaml:"repo"`
	Branch string `mapstructure:"branch" yaml:"branch"`
	Path   string `mapstructure:"path" yaml:"path"`
}

type database struct {
	// Driver is one of sqlite, memory, postgres or none
	Driver    string `mapstructure:"driver" yaml:"driver"`
	// Path is the database file, or the DSN for postgres
	Path      string `mapstructure:"path" yaml:"path"`
	BatchSize int    `mapstructure:"batch-size" yaml:"batch-size"`
}

type download struct {
	Proxy    string `mapstructure:"proxy" yaml:"proxy,omitempty"`
	Insecure bool   `mapstructure:"insecure" yaml:"insecure,omitempty"`
	Retries  int    `mapstructure:"retries" yaml:"retries"`
	Resume   bool   `mapstructure:"resume" yaml:"resume"`
}

type secrets struct {
	GithubToken string `env:"GITHUB_TOKEN"`
	GithubAPI   string `env:"GITHUB_API_TOKEN"`
}

// Config is the configuration struct
type Config struct {
	DataDir  string   `mapstructure:"data-dir" yaml:"data-dir"`
	Manifest string   `mapstructure:"manifest" yaml:"manifest"`
	Output   string   `mapstructure:"output" yaml:"output"`
	Source   source   `mapstructure:"source" yaml:"source"`
	Database database `mapstructure:"database" yaml:"database"`
	Download download `mapstructure:"download" yaml:"download"`

	// GithubToken is read from the environment only
	GithubToken string `mapstructure:"-" yaml:"-"`
}

// Dir returns the default configuration directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get user home directory: %v", err)
	}
	return filepath.Join(home, ".config", "tjlut"), nil
}

func (c *Config) verify() error {
	if c.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.DataDir = filepath.Join(dir, "data")
	}
	if c.Manifest == "" {
		c.Manifest = filepath.Join(c.DataDir, "manifest.json")
	}
	if c.Output == "" {
		c.Output = filepath.Join(c.DataDir, "lut.json")
	}

	def := manifest.Default().Source
	if c.Source.Repo == "" {
		c.Source.Repo = def.Repo
	}
	if c.Source.Branch == "" {
		c.Source.Branch = def.Branch
	}
	if c.Source.Path == "" {
		c.Source.Path = def.Path
	}

	switch c.Database.Driver {
	case "", "none":
		c.Database.Driver = "none"
	case "sqlite", "memory":
		if c.Database.Path == "" {
			ext := ".db"
			if c.Database.Driver == "memory" {
				ext = ".gob"
			}
			c.Database.Path = filepath.Join(c.DataDir, "tjlut"+ext)
		}
	case "postgres":
		if c.Database.Path == "" {
			return fmt.Errorf("config: database.path must hold the postgres DSN")
		}
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Database.BatchSize <= 0 {
		c.Database.BatchSize = 1000
	}

	if c.Download.Retries < 0 {
		return fmt.Errorf("config: download retries must not be negative")
	} else if c.Download.Retries == 0 {
		c.Download.Retries = 3
	}

	return nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	var c *Config

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}
	if c == nil {
		c = &Config{}
	}

	var s secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %v", err)
	}
	c.GithubToken = s.GithubToken
	if c.GithubToken == "" {
		c.GithubToken = s.GithubAPI
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}

// Write saves the configuration as YAML
func (c *Config) Write(path string) error {
	dat, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to marshal: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: failed to create %s: %v", filepath.Dir(path), err)
	}
	return os.WriteFile(path, dat, 0o600)
}
