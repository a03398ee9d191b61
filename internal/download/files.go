package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/timeless-lut/tjlut/internal/manifest"
	"github.com/timeless-lut/tjlut/internal/utils"
)

// Files downloads every manifest file into dir. Files already present are
// kept unless force is set. Files without a recorded sha256 get one filled in.
func Files(ctx context.Context, m *manifest.DataManifest, dir string, conf *Config, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	d := NewDownload(conf)
	var fetched []string
	for i := range m.Files {
		f := &m.Files[i]
		dest := filepath.Join(dir, f.Name)

		if _, err := os.Stat(dest); err == nil && !force {
			utils.Indent(log.WithField("file", f.Name).Debug, 2)("Already downloaded")
			continue
		}
		uri := f.URL
		if uri == "" {
			uri = m.Source.RawURL(f.Name)
		}

		utils.Indent(log.WithField("file", f.Name).Info, 2)("Downloading")
		if err := d.Get(ctx, uri, dest, f.Sha256); err != nil {
			if !f.Required {
				utils.Indent(log.WithError(err).Warn, 3)(fmt.Sprintf("skipping optional file %s", f.Name))
				continue
			}
			return fetched, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}

		if !f.HasChecksum() {
			sum, err := utils.Sha256(dest)
			if err != nil {
				return fetched, err
			}
			f.Sha256 = sum
		}
		if fi, err := os.Stat(dest); err == nil {
			f.Size = fi.Size()
		}
		fetched = append(fetched, dest)
	}

	return fetched, nil
}

// Verify checks the sha256 of every present manifest file in dir.
// Files without a recorded checksum are skipped.
func Verify(m *manifest.DataManifest, dir string) (map[string]error, error) {
	results := make(map[string]error)
	for _, f := range m.Files {
		if !f.HasChecksum() {
			continue
		}
		path := filepath.Join(dir, f.Name)
		if _, err := os.Stat(path); err != nil {
			if f.Required {
				results[f.Name] = err
			}
			continue
		}
		results[f.Name] = utils.VerifySha256(path, f.Sha256)
	}
	for _, err := range results {
		if err != nil {
			return results, fmt.Errorf("one or more data files failed verification")
		}
	}
	return results, nil
}
