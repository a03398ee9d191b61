/*
Copyright © 2025 tjlut authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/caarlos0/ctrlc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timeless-lut/tjlut/internal/colors"
	"github.com/timeless-lut/tjlut/internal/config"
	"github.com/timeless-lut/tjlut/internal/context"
	"github.com/timeless-lut/tjlut/internal/pipeline"
	"github.com/timeless-lut/tjlut/pkg/lut"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().DurationP("timeout", "t", 0, "Timeout for the pipeline")
	runCmd.Flags().StringSliceP("jewel", "j", nil, "Only decode these jewel types")
	runCmd.Flags().BoolP("force", "f", false, "Download every data file again")
	runCmd.Flags().Bool("skip-download", false, "Use the data files already on disk")
	runCmd.Flags().Bool("skip-verify", false, "Do not verify checksums")
	runCmd.Flags().Bool("skip-persist", false, "Do not write JSON or the database")
	runCmd.Flags().IntP("parallelism", "p", 0, "Jewels decoded at once (default is the number of CPUs)")
	viper.BindPFlag("run.timeout", runCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("run.jewel", runCmd.Flags().Lookup("jewel"))
	viper.BindPFlag("run.force", runCmd.Flags().Lookup("force"))
	viper.BindPFlag("run.skip-download", runCmd.Flags().Lookup("skip-download"))
	viper.BindPFlag("run.skip-verify", runCmd.Flags().Lookup("skip-verify"))
	viper.BindPFlag("run.skip-persist", runCmd.Flags().Lookup("skip-persist"))
	viper.BindPFlag("run.parallelism", runCmd.Flags().Lookup("parallelism"))
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, verify, decode and persist every lookup table",
	Example: `# Run the full pipeline
❯ tjlut run
# Re-decode what is already on disk into a sqlite database
❯ TJLUT_DATABASE_DRIVER=sqlite tjlut run --skip-download`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, err := newContext()
		if err != nil {
			return err
		}
		defer cancel()

		for _, name := range viper.GetStringSlice("run.jewel") {
			j, err := lut.Lookup(name)
			if err != nil {
				return err
			}
			ctx.Jewels = append(ctx.Jewels, j)
		}
		ctx.Force = viper.GetBool("run.force")
		ctx.SkipDownload = viper.GetBool("run.skip-download")
		ctx.SkipVerify = viper.GetBool("run.skip-verify")
		ctx.SkipPersist = viper.GetBool("run.skip-persist")
		if p := viper.GetInt("run.parallelism"); p > 0 {
			ctx.Parallelism = p
		}

		if err := ctrlc.Default.Run(ctx, func() error {
			return pipeline.Run(ctx)
		}); err != nil {
			return err
		}
		summarize(ctx)
		return nil
	},
}

func newContext() (*context.Context, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.NewWithTimeout(cfg, viper.GetDuration("run.timeout"))
	return ctx, cancel, nil
}

func summarize(ctx *context.Context) {
	failures := ctx.Failures()
	for _, r := range failures {
		log.WithError(r.Err).Errorf("%s %s", colors.Fail("FAILED"), r.Jewel)
	}
	if ctx.Data != nil {
		log.WithFields(log.Fields{
			"decoded": ctx.Data.Jewels.Len(),
			"failed":  len(failures),
			"took":    fmt.Sprintf("%.2fs", time.Since(ctx.Date).Seconds()),
		}).Info("Done")
	}
}
