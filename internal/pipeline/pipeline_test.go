package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"

	"github.com/timeless-lut/tjlut/internal/config"
	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/db"
	"github.com/timeless-lut/tjlut/internal/manifest"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/decode"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/metadata"
	"github.com/timeless-lut/tjlut/pkg/lut"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

const nodeIndexMappingLua = `
nodeIDList = { }
nodeIDList["size"] = 2
nodeIDList["sizeNotable"] = 1
nodeIDList[61419] = { index = 0, size = 1 }
nodeIDList[1203] = { index = 1, size = 0 }
`

const legionPassivesLua = `
return {
	additions = {
		{ id = "templar_devotion", dn = "Devotion", sd = { "+5 to Devotion" } },
		{ id = "templar_strength", dn = "Strength", sd = { "+10 to Strength" } },
	},
}
`

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testContext(t *testing.T, driver string) *context.Context {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		pobdata.NodeIndexMappingFile: []byte(nodeIndexMappingLua),
		pobdata.LegionPassivesFile:   []byte(legionPassivesLua),
	}
	f, _ := lut.FormatFor(lut.MilitantFaith)
	raw := make([]byte, f.Seeds.Size()*2)
	raw[f.Seeds.Size()+10] = 1 // node 1, seed min+10
	files[f.Files[0]] = deflate(t, raw)
	for name, dat := range files {
		if err := os.WriteFile(filepath.Join(dir, name), dat, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{
		DataDir:  dir,
		Manifest: filepath.Join(dir, "manifest.json"),
		Output:   filepath.Join(dir, "lut.json"),
	}
	cfg.Database.Driver = driver
	if driver != "none" {
		cfg.Database.Path = filepath.Join(dir, "tjlut."+driver)
	}
	cfg.Database.BatchSize = 100
	cfg.Source.Repo = manifest.Default().Source.Repo
	cfg.Source.Branch = "master"
	cfg.Source.Path = "src/Data/TimelessJewelData"

	ctx := context.New(cfg)
	ctx.SkipDownload = true
	return ctx
}

func TestRun(t *testing.T) {
	for _, driver := range []string{"none", "sqlite", "memory"} {
		t.Run(driver, func(t *testing.T) {
			ctx := testContext(t, driver)
			if err := Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if ctx.Manifest == nil || ctx.Manifest.DataVersion != manifest.UnknownVersion {
				t.Errorf("Manifest = %+v, want a default manifest", ctx.Manifest)
			}

			failures := ctx.Failures()
			if len(failures) != len(lut.Jewels())-1 {
				t.Errorf("Failures() = %d, want %d", len(failures), len(lut.Jewels())-1)
			}
			for _, r := range failures {
				if !errors.Is(r.Err, pobdata.ErrNoDataFiles) {
					t.Errorf("%s failed with %v, want ErrNoDataFiles", r.Jewel, r.Err)
				}
			}

			seed := uint32(2010)
			data, err := pobdata.LoadJSON(ctx.Config.Output)
			if err != nil {
				t.Fatalf("LoadJSON() error = %v", err)
			}
			m, ok := data.GetModifier(lut.MilitantFaith, seed, 1203)
			if !ok || m.ID != "templar_strength" {
				t.Errorf("GetModifier() = %+v, %t", m, ok)
			}

			if driver == "none" {
				return
			}
			database, err := db.Open(driver, ctx.Config.Database.Path, 100)
			if err != nil {
				t.Fatal(err)
			}
			if err := database.Connect(); err != nil {
				t.Fatal(err)
			}
			defer database.Close()
			if tok, err := database.GetToken(lut.MilitantFaith, seed, 1); err != nil || tok != "1" {
				t.Errorf("GetToken() = %q, %v", tok, err)
			}
		})
	}
}

func TestRunSkipPersist(t *testing.T) {
	ctx := testContext(t, "none")
	ctx.SkipPersist = true
	if err := Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(ctx.Config.Output); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output written with SkipPersist: %v", err)
	}
}

func TestRunOnlySelectedJewels(t *testing.T) {
	ctx := testContext(t, "none")
	ctx.Jewels = []lut.Jewel{lut.MilitantFaith}
	if err := Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := ctx.Failures(); len(got) != 0 {
		t.Errorf("Failures() = %v, want none", got)
	}
}

func TestRunEveryJewelFailed(t *testing.T) {
	ctx := testContext(t, "none")
	ctx.Jewels = []lut.Jewel{lut.GloriousVanity}
	err := Run(ctx, metadata.Pipe{}, decode.Pipe{})
	if !errors.Is(err, pobdata.ErrNoDataFiles) {
		t.Errorf("Run() error = %v, want ErrNoDataFiles", err)
	}
}

func TestRunMissingMetadata(t *testing.T) {
	ctx := testContext(t, "none")
	if err := os.Remove(filepath.Join(ctx.Config.DataDir, pobdata.LegionPassivesFile)); err != nil {
		t.Fatal(err)
	}
	if err := Run(ctx); err == nil {
		t.Error("Run() error = nil, want a metadata failure")
	}
}
