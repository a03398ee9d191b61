// Package decode decodes every jewel lookup table in parallel.
package decode

import (
	"fmt"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/pipe"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

// Pipe that fills ctx.Data.Jewels. A jewel that fails to decode is recorded
// in the context and never stops the others.
type Pipe struct{}

func (Pipe) String() string { return "decoding lookup tables" }

func (Pipe) Run(ctx *context.Context) error {
	if ctx.Data == nil {
		return fmt.Errorf("no passive tree metadata to attach the tables to")
	}

	results := pobdata.DecodeJewelsN(ctx, ctx.Config.DataDir, ctx.Data.Jewels, ctx.Parallelism, ctx.Jewels...)

	var (
		memento pipe.SkipMemento
		entries int
	)
	for _, r := range results {
		if r.Err != nil {
			ctx.Fail(r)
			memento.Remember(fmt.Errorf("%s: %v", r.Jewel, r.Err))
			continue
		}
		if t, ok := ctx.Data.Jewels.Get(r.Jewel); ok {
			entries += t.Table.Entries()
		}
	}
	if len(results) > 0 && memento.Len() == len(results) {
		return fmt.Errorf("every jewel failed to decode: %w", pobdata.DecodeErrors(ctx.Failures()))
	}
	log.WithFields(log.Fields{
		"jewels":  ctx.Data.Jewels.Len(),
		"entries": humanize.Comma(int64(entries)),
	}).Info("Decoded")
	return memento.Evaluate()
}
