// Package logging pads the log output of each pipe.
package logging

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/fatih/color"

	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/pipeline/middleware"
)

const (
	defaultPadding = 3
	extraPadding   = 6
)

var bold = color.New(color.Bold)

// Log pretty prints the given action and its title.
func Log(title string, next middleware.Action) middleware.Action {
	return func(ctx *context.Context) error {
		defer func() {
			cli.Default.Padding = defaultPadding
		}()
		cli.Default.Padding = defaultPadding
		log.Info(bold.Sprint(title))
		cli.Default.Padding = extraPadding
		return next(ctx)
	}
}

// PadLog pads the output of the given action one level deeper than Log.
func PadLog(title string, next middleware.Action) middleware.Action {
	return func(ctx *context.Context) error {
		defer func() {
			cli.Default.Padding = extraPadding
		}()
		cli.Default.Padding = extraPadding
		log.Info(bold.Sprint(title))
		cli.Default.Padding = extraPadding + defaultPadding
		return next(ctx)
	}
}
