// Package metadata parses the passive tree metadata shipped next to the lookup tables.
package metadata

import (
	"fmt"
	"path/filepath"

	"github.com/apex/log"

	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

// Pipe that builds ctx.Data from the Lua metadata files.
type Pipe struct{}

func (Pipe) String() string { return "parsing passive tree metadata" }

func (Pipe) Run(ctx *context.Context) error {
	dir := ctx.Config.DataDir
	mapping, err := pobdata.ParseNodeIndexMapping(filepath.Join(dir, pobdata.NodeIndexMappingFile))
	if err != nil {
		return fmt.Errorf("failed to parse node index mapping: %w", err)
	}
	passives, err := pobdata.ParseLegionPassives(filepath.Join(dir, pobdata.LegionPassivesFile))
	if err != nil {
		return fmt.Errorf("failed to parse legion passives: %w", err)
	}
	ctx.Data = pobdata.FromPob(mapping, passives)
	log.WithFields(log.Fields{
		"nodes":     len(ctx.Data.NodeIndices),
		"notables":  mapping.SizeNotable,
		"modifiers": len(ctx.Data.Modifiers),
	}).Info("Parsed")
	return nil
}
