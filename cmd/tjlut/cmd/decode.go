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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timeless-lut/tjlut/internal/colors"
	"github.com/timeless-lut/tjlut/internal/utils"
	"github.com/timeless-lut/tjlut/pkg/lut"
	textable "github.com/timeless-lut/tjlut/pkg/table"
)

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringP("json", "j", "", "Write the decoded table as JSON to this file")
	decodeCmd.Flags().Uint32P("seed", "s", 0, "Print the cells of a single seed")
	decodeCmd.Flags().IntP("node", "n", -1, "Print a single cell (requires --seed)")
	viper.BindPFlag("decode.json", decodeCmd.Flags().Lookup("json"))
	viper.BindPFlag("decode.seed", decodeCmd.Flags().Lookup("seed"))
	viper.BindPFlag("decode.node", decodeCmd.Flags().Lookup("node"))

	decodeCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return lut.Names(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveDefault
	}
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:     "decode <JEWEL> <FILE>...",
	Aliases: []string{"d"},
	Short:   "Decode the compressed lookup table of one jewel type",
	Example: `# Decode Lethal Pride and print a summary
❯ tjlut decode LethalPride LethalPride.zip
# Decode the five Glorious Vanity parts (in order) to JSON
❯ tjlut decode GloriousVanity GloriousVanity.zip.part* --json gv.json
# Print one cell
❯ tjlut decode ElegantHubris ElegantHubris.zip --seed 2000 --node 12`,
	Args:          cobra.MinimumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		jewel, err := lut.Lookup(args[0])
		if err != nil {
			return err
		}

		var paths []string
		for _, arg := range args[1:] {
			paths = append(paths, filepath.Clean(arg))
		}

		log.WithFields(log.Fields{
			"jewel": jewel,
			"files": len(paths),
		}).Info("Decoding")
		table, report, err := lut.DecodeFile(jewel, paths...)
		if err != nil {
			return err
		}
		for _, w := range report.Warnings {
			utils.Indent(log.WithError(w).Warn, 2)("decode warning")
		}
		if report.Leftover > 0 {
			utils.Indent(log.Warn, 2)(fmt.Sprintf("%s of the buffer was never read", humanize.Bytes(uint64(report.Leftover))))
		}

		if cmd.Flags().Changed("seed") {
			seed := viper.GetUint32("decode.seed")
			if !table.Seeds.Contains(seed) {
				return fmt.Errorf("seed %d is outside of %s", seed, table.Seeds)
			}
			if node := viper.GetInt("decode.node"); node >= 0 {
				tok, ok := table.Get(seed, node)
				if !ok {
					return fmt.Errorf("no modification for seed %d node %d", seed, node)
				}
				fmt.Println(tok)
				return nil
			}
			cells := table.Table[seed]
			nodes := make([]int, 0, len(cells))
			for node := range cells {
				nodes = append(nodes, node)
			}
			sort.Ints(nodes)
			printHeader("%s seed %d", jewel.DisplayName(), seed)
			tbl := textable.New("NODE", "TOKEN")
			tbl.AlignRight(0)
			for _, node := range nodes {
				tbl.Append(strconv.Itoa(node), colors.Token(cells[node]))
			}
			_, err := tbl.WriteTo(os.Stdout)
			return err
		}

		if out := viper.GetString("decode.json"); out != "" {
			dat, err := json.MarshalIndent(table, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal %s: %w", jewel, err)
			}
			if err := os.WriteFile(out, dat, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			log.WithFields(log.Fields{
				"path": out,
				"size": humanize.Bytes(uint64(len(dat))),
			}).Info("Saved")
			return nil
		}

		fmt.Print(table.String())
		fmt.Printf("  Cells:   %s (%d overruns, %d fallback splits)\n",
			humanize.Comma(int64(report.Cells)), report.Overruns, report.FallbackSplits)
		return nil
	},
}
