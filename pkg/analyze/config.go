package analyze

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoSockets is returned when a config lists no jewel sockets to score
var ErrNoSockets = errors.New("no jewel sockets configured")

// Socket is a jewel socket and the passive node ids in its radius
type Socket struct {
	ID    string   `yaml:"id" json:"id"`
	Name  string   `yaml:"name,omitempty" json:"name,omitempty"`
	Nodes []uint32 `yaml:"nodes" json:"nodes"`
}

// Config lists the modifiers worth having and the sockets to try.
//
// A mod key matches a node modifier by id, display name or any single stat
// description line.
type Config struct {
	Mods    map[string]float64 `yaml:"mods" json:"mods"`
	Sockets []Socket           `yaml:"sockets" json:"sockets"`
}

// NewConfig returns an empty config
func NewConfig() *Config {
	return &Config{Mods: make(map[string]float64)}
}

// AddMod adds (or replaces) a valuable mod with its weight
func (c *Config) AddMod(text string, weight float64) {
	if c.Mods == nil {
		c.Mods = make(map[string]float64)
	}
	c.Mods[text] = weight
}

// AddSocket appends a socket to score
func (c *Config) AddSocket(s Socket) {
	c.Sockets = append(c.Sockets, s)
}

// LoadConfig reads a YAML analyze config
func LoadConfig(path string) (*Config, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analyze config: %w", err)
	}
	cfg := NewConfig()
	if err := yaml.Unmarshal(dat, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse analyze config %s: %w", path, err)
	}
	return cfg, cfg.verify()
}

func (c *Config) verify() error {
	if len(c.Sockets) == 0 {
		return ErrNoSockets
	}
	for i, s := range c.Sockets {
		if s.ID == "" {
			return fmt.Errorf("socket %d: missing id", i)
		}
		if len(s.Nodes) == 0 {
			return fmt.Errorf("socket %s: no nodes", s.ID)
		}
	}
	return nil
}
