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
	"path/filepath"
	"sort"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timeless-lut/tjlut/internal/colors"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "Output JSON file (default is <DIR>/lut.json)")
	viper.BindPFlag("parse.output", parseCmd.Flags().Lookup("output"))
	parseCmd.MarkFlagDirname("output")
}

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <DIR>",
	Short: "Decode every lookup table in a data directory into one JSON file",
	Example: `# Parse a Path of Building TimelessJewelData checkout
❯ tjlut parse ~/PathOfBuilding/src/Data/TimelessJewelData -o lut.json`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := filepath.Clean(args[0])
		out := viper.GetString("parse.output")
		if out == "" {
			out = filepath.Join(dir, "lut.json")
		}

		data, err := pobdata.ParseDirectory(cmd.Context(), dir)
		var failed pobdata.DecodeErrors
		if err != nil && !errors.As(err, &failed) {
			return err
		}
		sort.Slice(failed, func(i, j int) bool { return failed[i].Jewel < failed[j].Jewel })
		for _, r := range failed {
			log.WithError(r.Err).Warnf("%s %s", colors.Fail("FAILED"), r.Jewel)
		}
		if data.Jewels.Len() == 0 {
			return fmt.Errorf("no jewel could be decoded from %s", dir)
		}

		if err := pobdata.SaveJSON(data, out); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"path":   out,
			"jewels": data.Jewels.Len(),
			"failed": len(failed),
		}).Info("Saved")
		return nil
	},
}
