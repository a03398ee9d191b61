// Package pipeline provides the data pipeline: fetch, verify, parse, decode and persist.
package pipeline

import (
	"fmt"

	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/pipeline/middleware/errhandler"
	"github.com/timeless-lut/tjlut/internal/pipeline/middleware/logging"
	"github.com/timeless-lut/tjlut/internal/pipeline/middleware/skip"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/decode"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/fetch"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/metadata"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/persist"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/prepare"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/verify"
)

// Piper defines a pipe, which can be part of a pipeline (a series of pipes).
type Piper interface {
	fmt.Stringer

	// Run the pipe
	Run(ctx *context.Context) error
}

// Pipeline contains all pipe implementations in order.
// nolint: gochecknoglobals
var Pipeline = []Piper{
	prepare.Pipe{},
	fetch.Pipe{},
	verify.Pipe{},
	metadata.Pipe{},
	decode.Pipe{},
	persist.Pipe{},
}

// Run runs the pipes in order, stopping at the first error.
func Run(ctx *context.Context, pipes ...Piper) error {
	if len(pipes) == 0 {
		pipes = Pipeline
	}
	for _, pipe := range pipes {
		if err := skip.Maybe(
			pipe,
			logging.Log(
				pipe.String(),
				errhandler.Handle(pipe.Run),
			),
		)(ctx); err != nil {
			return fmt.Errorf("%s: %w", pipe.String(), err)
		}
	}
	return nil
}
