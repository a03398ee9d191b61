package download

import (
	"context"
	"fmt"
	"time"

	"github.com/timeless-lut/tjlut/internal/manifest"
)

// UpdateInfo describes the upstream state of the data files
type UpdateInfo struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	CommitMessage  string
	CommitDate     time.Time
}

// UpdateChecker compares the local manifest against the data repository
type UpdateChecker struct {
	GitHub       *GitHub
	ManifestPath string
}

// NewUpdateChecker creates an UpdateChecker for the manifest at path
func NewUpdateChecker(gh *GitHub, manifestPath string) *UpdateChecker {
	return &UpdateChecker{GitHub: gh, ManifestPath: manifestPath}
}

// Check reports whether the data repository has moved past the local data version.
// Data of unknown version is never reported as outdated.
func (u *UpdateChecker) Check(ctx context.Context) (*UpdateInfo, error) {
	m, err := manifest.Load(u.ManifestPath)
	if err != nil {
		return nil, err
	}

	latest, err := u.GitHub.Latest(ctx, m.Source.Repo, m.Source.Branch, m.Source.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest commit: %w", err)
	}

	info := &UpdateInfo{
		CurrentVersion: m.DataVersion,
		CommitMessage:  latest.Message,
		CommitDate:     latest.Date,
	}
	info.Available = latest.SHA != m.DataVersion && m.DataVersion != manifest.UnknownVersion
	if info.Available {
		info.LatestVersion = latest.SHA
	}
	return info, nil
}

// CurrentVersion returns the data version recorded in the manifest
func (u *UpdateChecker) CurrentVersion() (string, error) {
	m, err := manifest.Load(u.ManifestPath)
	if err != nil {
		return "", err
	}
	return m.DataVersion, nil
}

// DataExists reports whether every required file is present in dir
func (u *UpdateChecker) DataExists(dir string) (bool, error) {
	missing, err := u.MissingFiles(dir)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// MissingFiles lists the required files absent from dir
func (u *UpdateChecker) MissingFiles(dir string) ([]string, error) {
	m, err := manifest.Load(u.ManifestPath)
	if err != nil {
		return nil, err
	}
	return m.Missing(dir), nil
}

// SetVersion records version as the current data version in the manifest
func (u *UpdateChecker) SetVersion(version string) error {
	m, err := manifest.Load(u.ManifestPath)
	if err != nil {
		return err
	}
	m.SetVersion(version)
	return m.Save(u.ManifestPath)
}
