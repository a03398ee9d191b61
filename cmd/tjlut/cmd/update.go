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
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/caarlos0/ctrlc"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timeless-lut/tjlut/internal/colors"
	"github.com/timeless-lut/tjlut/internal/download"
	"github.com/timeless-lut/tjlut/internal/pipeline"
	"github.com/timeless-lut/tjlut/internal/utils"
)

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolP("check", "c", false, "only check for an update")
	viper.BindPFlag("update.check", updateCmd.Flags().Lookup("check"))
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"u"},
	Short:   "Check the data repository for newer lookup tables and rebuild them",
	Example: `# Check for newer data
❯ tjlut update --check
# Download and rebuild when newer data exists
❯ GITHUB_TOKEN=ghp_xxx tjlut update`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, err := newContext()
		if err != nil {
			return err
		}
		defer cancel()

		checker := download.NewUpdateChecker(download.NewGitHub(&download.GitHubConfig{
			Proxy:    ctx.Config.Download.Proxy,
			Insecure: ctx.Config.Download.Insecure,
			Token:    ctx.Config.GithubToken,
		}), ctx.Config.Manifest)

		info, err := checker.Check(ctx)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no manifest at %s (run tjlut download first)", ctx.Config.Manifest)
			}
			return err
		}

		if !info.Available {
			log.WithField("version", info.CurrentVersion).Info("Data is up to date")
			return nil
		}
		log.WithFields(log.Fields{
			"current": info.CurrentVersion,
			"latest":  info.LatestVersion,
			"date":    humanize.Time(info.CommitDate),
		}).Info(colors.Field("Update available"))
		utils.Indent(log.Info, 2)(info.CommitMessage)

		if viper.GetBool("update.check") {
			return nil
		}

		ctx.Force = true
		if err := ctrlc.Default.Run(ctx, func() error {
			return pipeline.Run(ctx)
		}); err != nil {
			return err
		}
		summarize(ctx)
		return nil
	},
}
