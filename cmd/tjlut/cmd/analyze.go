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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/ctrlc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timeless-lut/tjlut/internal/colors"
	"github.com/timeless-lut/tjlut/internal/config"
	"github.com/timeless-lut/tjlut/pkg/analyze"
	"github.com/timeless-lut/tjlut/pkg/lut"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
	"github.com/timeless-lut/tjlut/pkg/table"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("weights", "w", "", "YAML file with valuable mods and sockets")
	analyzeCmd.Flags().StringP("lut", "l", "", "lut.json to read (default is the configured output)")
	analyzeCmd.Flags().StringP("conqueror", "c", "", "Conqueror to show with each seed")
	analyzeCmd.Flags().IntP("top", "n", 20, "Only show the N best seeds (0 for all)")
	analyzeCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	analyzeCmd.MarkFlagRequired("weights")
	viper.BindPFlag("analyze.weights", analyzeCmd.Flags().Lookup("weights"))
	viper.BindPFlag("analyze.lut", analyzeCmd.Flags().Lookup("lut"))
	viper.BindPFlag("analyze.conqueror", analyzeCmd.Flags().Lookup("conqueror"))
	viper.BindPFlag("analyze.top", analyzeCmd.Flags().Lookup("top"))
	viper.BindPFlag("analyze.json", analyzeCmd.Flags().Lookup("json"))
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:     "analyze <JEWEL> [SEED]...",
	Aliases: []string{"a"},
	Short:   "Rank jewel seeds by weighted modifiers",
	Example: `# Rank every Lethal Pride seed over the sockets in weights.yml
❯ tjlut analyze LethalPride --weights weights.yml

# Compare two seeds
❯ tjlut analyze MilitantFaith 2000 7500 -w weights.yml --json`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		jewel, err := lut.Lookup(args[0])
		if err != nil {
			return err
		}
		acfg, err := analyze.LoadConfig(viper.GetString("analyze.weights"))
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		path := viper.GetString("analyze.lut")
		if path == "" {
			path = cfg.Output
		}
		data, err := pobdata.LoadJSON(path)
		if err != nil {
			return fmt.Errorf("%w (run tjlut run or tjlut parse first)", err)
		}
		analyzer, err := analyze.New(data, acfg)
		if err != nil {
			return err
		}

		conqueror := viper.GetString("analyze.conqueror")
		var jewels []analyze.Jewel
		if len(args) > 1 {
			for _, arg := range args[1:] {
				seed, err := strconv.ParseUint(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid seed %q: %w", arg, err)
				}
				jewels = append(jewels, analyze.Jewel{Type: jewel, Seed: uint32(seed), Conqueror: conqueror})
			}
		} else if jewels, err = analyzer.Seeds(jewel, conqueror); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var ranked []analyze.Ranked
		if err := ctrlc.Default.Run(ctx, func() error {
			ranked, err = analyzer.Rank(ctx, jewels)
			return err
		}); err != nil {
			return err
		}
		if top := viper.GetInt("analyze.top"); top > 0 && len(ranked) > top {
			ranked = ranked[:top]
		}

		if viper.GetBool("analyze.json") {
			dat, err := json.MarshalIndent(ranked, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(dat))
			return nil
		}

		printHeader("%s: %d seeds ranked", jewel.DisplayName(), len(jewels))
		tbl := table.New("RANK", "SEED", "SCORE", "SOCKET", "MATCHED")
		tbl.AlignRight(0)
		tbl.AlignRight(2)
		if colors.Enabled() {
			tbl.SetStyle(table.StyledStyle())
		}
		for _, r := range ranked {
			var best analyze.SocketResult
			for _, s := range r.Sockets {
				if s.Socket == r.BestSocket {
					best = s
					break
				}
			}
			socket := best.Socket
			if best.Name != "" {
				socket = best.Name
			}
			var matched []string
			for _, m := range best.Matched {
				matched = append(matched, fmt.Sprintf("%dx %s", m.Count, m.Text))
			}
			tbl.Append(
				strconv.Itoa(r.Rank),
				strconv.FormatUint(uint64(r.Jewel.Seed), 10),
				strconv.FormatFloat(r.BestScore, 'f', -1, 64),
				socket,
				strings.Join(matched, ", "),
			)
		}
		_, err = tbl.WriteTo(os.Stdout)
		return err
	},
}
