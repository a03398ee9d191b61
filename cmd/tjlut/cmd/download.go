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
	"github.com/caarlos0/ctrlc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timeless-lut/tjlut/internal/pipeline"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/fetch"
	"github.com/timeless-lut/tjlut/internal/pipeline/pipe/prepare"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().String("proxy", "", "HTTP/HTTPS proxy")
	downloadCmd.Flags().Bool("insecure", false, "do not verify ssl certs")
	downloadCmd.Flags().Bool("resume", true, "resume partial downloads")
	downloadCmd.Flags().BoolP("force", "f", false, "download every file again")
	viper.BindPFlag("download.proxy", downloadCmd.Flags().Lookup("proxy"))
	viper.BindPFlag("download.insecure", downloadCmd.Flags().Lookup("insecure"))
	viper.BindPFlag("download.resume", downloadCmd.Flags().Lookup("resume"))
	viper.BindPFlag("download.force", downloadCmd.Flags().Lookup("force"))
}

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:     "download",
	Aliases: []string{"dl"},
	Short:   "Download the lookup tables and passive tree metadata",
	Example: `# Download into the default data directory
❯ tjlut download
# Download through a proxy into ./data
❯ tjlut download --proxy http://localhost:8080 --data-dir ./data`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, err := newContext()
		if err != nil {
			return err
		}
		defer cancel()
		ctx.Force = viper.GetBool("download.force")

		return ctrlc.Default.Run(ctx, func() error {
			return pipeline.Run(ctx, prepare.Pipe{}, fetch.Pipe{})
		})
	},
}
