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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timeless-lut/tjlut/internal/colors"
	"github.com/timeless-lut/tjlut/internal/config"
	"github.com/timeless-lut/tjlut/internal/db"
	"github.com/timeless-lut/tjlut/pkg/lut"
	"github.com/timeless-lut/tjlut/pkg/pobdata"
)

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringP("lut", "l", "", "lut.json to read (default is the configured output)")
	lookupCmd.Flags().Bool("db", false, "read the token from the configured database")
	lookupCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	viper.BindPFlag("lookup.lut", lookupCmd.Flags().Lookup("lut"))
	viper.BindPFlag("lookup.db", lookupCmd.Flags().Lookup("db"))
	viper.BindPFlag("lookup.json", lookupCmd.Flags().Lookup("json"))
}

type lookupResult struct {
	Jewel    lut.Jewel             `json:"jewel"`
	Seed     uint32                `json:"seed"`
	NodeID   uint32                `json:"node_id"`
	Node     pobdata.NodeInfo      `json:"node"`
	Token    string                `json:"token"`
	Modifier *pobdata.NodeModifier `json:"modifier,omitempty"`
}

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:     "lookup <JEWEL> <SEED> <NODE_ID>",
	Aliases: []string{"l"},
	Short:   "Show what a jewel seed does to a passive node",
	Example: `# What does Glorious Vanity seed 2500 do to node 61419?
❯ tjlut lookup GloriousVanity 2500 61419`,
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		jewel, err := lut.Lookup(args[0])
		if err != nil {
			return err
		}
		seed, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", args[1], err)
		}
		nodeID, err := strconv.ParseUint(args[2], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid node id %q: %w", args[2], err)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		path := viper.GetString("lookup.lut")
		if path == "" {
			path = cfg.Output
		}
		data, err := pobdata.LoadJSON(path)
		if err != nil {
			return fmt.Errorf("%w (run tjlut run or tjlut parse first)", err)
		}

		res := lookupResult{Jewel: jewel, Seed: uint32(seed), NodeID: uint32(nodeID)}
		node, ok := data.NodeIndices[res.NodeID]
		if !ok {
			return fmt.Errorf("node %d cannot be transformed by a timeless jewel", nodeID)
		}
		res.Node = node

		if viper.GetBool("lookup.db") {
			database, err := db.Open(cfg.Database.Driver, cfg.Database.Path, cfg.Database.BatchSize)
			if err != nil {
				return err
			}
			if database == nil {
				return fmt.Errorf("no database configured (set database.driver)")
			}
			if err := database.Connect(); err != nil {
				return err
			}
			defer database.Close()
			if res.Token, err = database.GetToken(jewel, res.Seed, node.Index); err != nil {
				return fmt.Errorf("%s seed %d node %d: %w", jewel, seed, nodeID, err)
			}
		} else {
			if res.Token, ok = data.Token(jewel, res.Seed, res.NodeID); !ok {
				return fmt.Errorf("%s seed %d does not modify node %d", jewel, seed, nodeID)
			}
		}
		res.Modifier, _ = data.ResolveToken(res.Token)

		if viper.GetBool("lookup.json") {
			dat, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(dat))
			return nil
		}

		printHeader("%s seed %d, node %d (index %d)", jewel.DisplayName(), seed, nodeID, node.Index)
		fmt.Printf("%s %s\n", colors.Field("Token:"), res.Token)
		if res.Modifier == nil {
			return nil
		}
		fmt.Printf("%s %s (%s)\n", colors.Field("Modifier:"), res.Modifier.DisplayName, res.Modifier.ID)
		for _, sd := range res.Modifier.StatDescriptions {
			fmt.Printf("  %s\n", sd)
		}
		return nil
	},
}
