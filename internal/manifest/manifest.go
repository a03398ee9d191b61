// Package manifest describes the timeless jewel data files and where they come from
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/timeless-lut/tjlut/pkg/lut"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

const (
	// SchemaVersion is the manifest layout written by this build
	SchemaVersion = "1.0.0"
	// UnknownVersion marks data whose upstream commit is not known
	UnknownVersion = "pob-unknown"

	supportedSchema = ">= 1.0.0, < 2.0.0"
)

var ErrUnsupportedSchema = errors.New("unsupported manifest schema")

// Source is where the data files are published
type Source struct {
	Type   string `json:"type"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// CommitsAPIURL returns the GitHub API URL listing the latest commit touching Path
func (s Source) CommitsAPIURL() string {
	return fmt.Sprintf("https://api.github.com/repos/%s/commits?path=%s&per_page=1", s.Repo, url.QueryEscape(s.Path))
}

// FileAPIURL returns the GitHub contents API URL of a data file
func (s Source) FileAPIURL(name string) string {
	return fmt.Sprintf("https://api.github.com/repos/%s/contents/%s/%s?ref=%s", s.Repo, s.Path, name, s.Branch)
}

// RawURL returns the raw download URL of a data file
func (s Source) RawURL(name string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", s.Repo, s.Branch, s.Path, name)
}

// DataFile is one tracked data file
type DataFile struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Sha256      string `json:"sha256"`
	GithubSha   string `json:"github_sha"`
	Size        int64  `json:"size"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

func (f DataFile) HasChecksum() bool  { return f.Sha256 != "" }
func (f DataFile) HasGithubSha() bool { return f.GithubSha != "" }

// DataManifest tracks the data version and its files
type DataManifest struct {
	SchemaVersion string     `json:"schema_version,omitempty"`
	DataVersion   string     `json:"data_version"`
	PoeLeague     string     `json:"poe_league"`
	LastUpdated   string     `json:"last_updated"`
	Source        Source     `json:"source"`
	Files         []DataFile `json:"files"`
}

// Load reads a manifest from a JSON file
func Load(path string) (*DataManifest, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m DataManifest
	if err := json.Unmarshal(dat, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if err := m.checkSchema(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *DataManifest) checkSchema() error {
	if m.SchemaVersion == "" {
		return nil
	}
	v, err := version.NewVersion(m.SchemaVersion)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsupportedSchema, m.SchemaVersion, err)
	}
	constraint, err := version.NewConstraint(supportedSchema)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedSchema, v, supportedSchema)
	}
	return nil
}

// Save writes the manifest as indented JSON
func (m *DataManifest) Save(path string) error {
	if m.SchemaVersion == "" {
		m.SchemaVersion = SchemaVersion
	}
	dat, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, dat, 0644)
}

// SetVersion records a new data version and stamps LastUpdated
func (m *DataManifest) SetVersion(v string) {
	m.DataVersion = v
	m.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}

// RequiredFiles returns the files marked required
func (m *DataManifest) RequiredFiles() []DataFile {
	var out []DataFile
	for _, f := range m.Files {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// FindFile returns the file with the given name
func (m *DataManifest) FindFile(name string) (*DataFile, bool) {
	for i := range m.Files {
		if m.Files[i].Name == name {
			return &m.Files[i], true
		}
	}
	return nil, false
}

// Missing returns the names of required files not present in dir
func (m *DataManifest) Missing(dir string) []string {
	var missing []string
	for _, f := range m.RequiredFiles() {
		if _, err := os.Stat(filepath.Join(dir, f.Name)); err != nil {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Default returns a manifest tracking the Path of Building timeless jewel data
func Default() *DataManifest {
	m := &DataManifest{
		SchemaVersion: SchemaVersion,
		DataVersion:   UnknownVersion,
		Source: Source{
			Type:   "github",
			Repo:   "PathOfBuildingCommunity/PathOfBuilding",
			Branch: "master",
			Path:   "src/Data/TimelessJewelData",
			URL:    "https://github.com/PathOfBuildingCommunity/PathOfBuilding",
		},
	}
	for _, j := range lut.Jewels() {
		f, _ := lut.FormatFor(j)
		for _, name := range f.Files {
			m.Files = append(m.Files, DataFile{
				Name:        name,
				URL:         m.Source.RawURL(name),
				Required:    true,
				Description: fmt.Sprintf("%s lookup table", j.DisplayName()),
			})
		}
	}
	for _, name := range []string{pobdata.NodeIndexMappingFile, pobdata.LegionPassivesFile} {
		m.Files = append(m.Files, DataFile{
			Name:        name,
			URL:         m.Source.RawURL(name),
			Required:    true,
			Description: "passive tree metadata",
		})
	}
	return m
}
