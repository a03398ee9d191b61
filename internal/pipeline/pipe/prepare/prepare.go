// Package prepare loads the data manifest.
package prepare

import (
	"errors"
	"os"

	"github.com/apex/log"

	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/manifest"
)

// Pipe that loads the manifest, or starts a new one from the configured source.
type Pipe struct{}

func (Pipe) String() string                 { return "loading manifest" }
func (Pipe) Skip(ctx *context.Context) bool { return ctx.Manifest != nil }

func (Pipe) Run(ctx *context.Context) error {
	m, err := manifest.Load(ctx.Config.Manifest)
	if err == nil {
		log.WithFields(log.Fields{
			"version": m.DataVersion,
			"files":   len(m.Files),
		}).Info("Loaded manifest")
		ctx.Manifest = m
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	m = manifest.Default()
	m.Source.Repo = ctx.Config.Source.Repo
	m.Source.Branch = ctx.Config.Source.Branch
	m.Source.Path = ctx.Config.Source.Path
	for i := range m.Files {
		m.Files[i].URL = m.Source.RawURL(m.Files[i].Name)
	}
	log.WithField("repo", m.Source.Repo).Info("Created new manifest")
	ctx.Manifest = m
	return nil
}
