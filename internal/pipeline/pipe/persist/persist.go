// Package persist writes the decoded tables to JSON and the configured database.
package persist

import (
	"fmt"

	"github.com/apex/log"

	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/db"
	"github.com/timeless-lut/tjlut/internal/utils"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

// Pipe that saves ctx.Data.
type Pipe struct{}

func (Pipe) String() string                 { return "persisting lookup tables" }
func (Pipe) Skip(ctx *context.Context) bool { return ctx.SkipPersist || ctx.Data == nil }

func (Pipe) Run(ctx *context.Context) (err error) {
	if err = pobdata.SaveJSON(ctx.Data, ctx.Config.Output); err != nil {
		return fmt.Errorf("failed to save %s: %w", ctx.Config.Output, err)
	}
	log.WithField("path", ctx.Config.Output).Info("Saved")

	conf := ctx.Config.Database
	database, err := db.Open(conf.Driver, conf.Path, conf.BatchSize)
	if err != nil {
		return err
	}
	if database == nil {
		return nil
	}
	if err := database.Connect(); err != nil {
		return err
	}
	defer func() {
		if cerr := database.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s database: %w", conf.Driver, cerr)
		}
	}()

	for _, j := range ctx.Data.Jewels.Jewels() {
		t, _ := ctx.Data.Jewels.Get(j)
		if err := database.SaveJewel(t); err != nil {
			return fmt.Errorf("failed to store %s: %w", j, err)
		}
		utils.Indent(log.WithFields(log.Fields{
			"jewel":   j,
			"entries": t.Table.Entries(),
		}).Info, 2)("Stored")
	}
	log.WithField("driver", conf.Driver).Info("Database updated")
	return nil
}
