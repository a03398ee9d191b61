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
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/timeless-lut/tjlut/internal/colors"
	"github.com/timeless-lut/tjlut/internal/config"
	"github.com/timeless-lut/tjlut/internal/manifest"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
	"github.com/timeless-lut/tjlut/pkg/table"
)

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.MarkZshCompPositionalArgumentFile(1, "*.json")
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:           "info [LUT_JSON]",
	Aliases:       []string{"i"},
	Short:         "Display a summary of the decoded lookup tables",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		path := cfg.Output
		if len(args) > 0 {
			path = args[0]
		}
		data, err := pobdata.LoadJSON(path)
		if err != nil {
			return err
		}

		printHeader("Lookup tables")
		fmt.Printf("%s %s\n", colors.Field("File:"), path)
		fmt.Printf("%s %s\n", colors.Field("Format:"), data.Version)
		if m, err := manifest.Load(cfg.Manifest); err == nil {
			fmt.Printf("%s %s (%s)\n", colors.Field("Data:"), m.DataVersion, m.LastUpdated)
		}
		notables := 0
		for _, n := range data.NodeIndices {
			if n.IsNotable {
				notables++
			}
		}
		fmt.Printf("%s %d (%d notables)\n", colors.Field("Nodes:"), len(data.NodeIndices), notables)
		fmt.Printf("%s %d\n\n", colors.Field("Modifiers:"), len(data.Modifiers))

		tbl := table.New("JEWEL", "SEEDS", "USED", "ENTRIES")
		tbl.AlignRight(2)
		tbl.AlignRight(3)
		if colors.Enabled() {
			tbl.SetStyle(table.StyledStyle())
		}
		for _, j := range data.Jewels.Jewels() {
			t, _ := data.Jewels.Get(j)
			tbl.Append(
				j.DisplayName(),
				t.Seeds.String(),
				humanize.Comma(int64(t.Table.Len())),
				humanize.Comma(int64(t.Table.Entries())),
			)
		}
		_, err = tbl.WriteTo(os.Stdout)
		return err
	},
}
