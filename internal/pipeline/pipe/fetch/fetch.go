// Package fetch downloads the data files listed in the manifest.
package fetch

import (
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/download"
	"github.com/timeless-lut/tjlut/internal/manifest"
	"github.com/timeless-lut/tjlut/internal/utils"
)

// NewGitHub builds the client used to resolve the data version.
// nolint: gochecknoglobals
var NewGitHub = func(ctx *context.Context) *download.GitHub {
	return download.NewGitHub(&download.GitHubConfig{
		Proxy:    ctx.Config.Download.Proxy,
		Insecure: ctx.Config.Download.Insecure,
		Token:    ctx.Config.GithubToken,
	})
}

// Pipe that downloads the manifest files into the data directory.
type Pipe struct{}

func (Pipe) String() string                 { return "fetching data files" }
func (Pipe) Skip(ctx *context.Context) bool { return ctx.SkipDownload }

func (Pipe) Run(ctx *context.Context) error {
	conf := &download.Config{
		Proxy:     ctx.Config.Download.Proxy,
		Insecure:  ctx.Config.Download.Insecure,
		ResumeAll: ctx.Config.Download.Resume,
		Retries:   ctx.Config.Download.Retries,
		Progress:  true,
	}
	fetched, err := download.Files(ctx, ctx.Manifest, ctx.Config.DataDir, conf, ctx.Force)
	ctx.Fetched = fetched
	if err != nil {
		return err
	}

	var total int64
	for _, name := range fetched {
		if f, ok := ctx.Manifest.FindFile(filepath.Base(name)); ok {
			total += f.Size
		}
	}
	log.WithFields(log.Fields{
		"files": len(fetched),
		"size":  humanize.Bytes(uint64(total)),
	}).Info("Fetched")

	if len(fetched) > 0 || ctx.Manifest.DataVersion == "" {
		resolveVersion(ctx)
	}
	return ctx.Manifest.Save(ctx.Config.Manifest)
}

// resolveVersion stamps the manifest with the latest upstream commit.
// Data of unknown provenance is marked as such instead of failing the run.
func resolveVersion(ctx *context.Context) {
	src := ctx.Manifest.Source
	commit, err := NewGitHub(ctx).Latest(ctx, src.Repo, src.Branch, src.Path)
	if err != nil {
		utils.Indent(log.WithError(err).Warn, 2)("could not resolve data version")
		ctx.Manifest.SetVersion(manifest.UnknownVersion)
		return
	}
	utils.Indent(log.WithFields(log.Fields{
		"sha":    commit.SHA,
		"commit": commit.Headline(),
	}).Info, 2)("Data version")
	ctx.Manifest.SetVersion(commit.SHA)
}
