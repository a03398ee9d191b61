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

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/timeless-lut/tjlut/internal/colors"
	"github.com/timeless-lut/tjlut/internal/pipeline"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/prepare"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/verify"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:           "verify",
	Short:         "Verify the downloaded data files against the manifest checksums",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, err := newContext()
		if err != nil {
			return err
		}
		defer cancel()

		if err := pipeline.Run(ctx, prepare.Pipe{}); err != nil {
			return err
		}
		missing := ctx.Manifest.Missing(ctx.Config.DataDir)
		for _, name := range missing {
			log.Errorf("%s %s", colors.Fail("MISSING"), name)
		}
		if err := pipeline.Run(ctx, verify.Pipe{}); err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("%d required data files are missing (run tjlut download)", len(missing))
		}
		return nil
	},
}
