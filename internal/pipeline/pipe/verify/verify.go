// Package verify checks the data files against the manifest checksums.
package verify

import (
	"fmt"
	"sort"

	"github.com/apex/log"

	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/download"
	"github.com/timeless-lut/tjlut/internal/pipe"
	"github.com/timeless-lut/tjlut/internal/utils"
)

// Pipe that verifies the sha256 of every data file.
type Pipe struct{}

func (Pipe) String() string                 { return "verifying checksums" }
func (Pipe) Skip(ctx *context.Context) bool { return ctx.SkipVerify }

func (Pipe) Run(ctx *context.Context) error {
	results, err := download.Verify(ctx.Manifest, ctx.Config.DataDir)
	if len(results) == 0 && err == nil {
		return pipe.Skip("manifest has no checksums")
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if results[name] != nil {
			utils.Indent(log.WithError(results[name]).Error, 2)(name)
			continue
		}
		utils.Indent(log.WithField("file", name).Debug, 2)("OK")
	}
	if err != nil {
		return fmt.Errorf("%w (re-run with --force to download them again)", err)
	}
	log.WithField("files", len(results)).Info("Verified")
	return nil
}
