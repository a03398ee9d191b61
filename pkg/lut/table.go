package lut

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

// Table maps seed -> node index -> modifier token.
// A missing seed or node means the jewel does not modify that node.
type Table map[uint32]map[int]string

// Get returns the token of a (seed, node index) cell
func (t Table) Get(seed uint32, node int) (string, bool) {
	nodes, ok := t[seed]
	if !ok {
		return "", false
	}
	tok, ok := nodes[node]
	return tok, ok
}

// Len returns the number of seeds with at least one entry
func (t Table) Len() int { return len(t) }

// Entries returns the total number of (seed, node) cells
func (t Table) Entries() int {
	var n int
	for _, nodes := range t {
		n += len(nodes)
	}
	return n
}

// Seeds returns the populated seeds in ascending order
func (t Table) Seeds() []uint32 {
	seeds := make([]uint32, 0, len(t))
	for seed := range t {
		seeds = append(seeds, seed)
	}
	sort.Slice(seeds, func(i, j int) bool { return seeds[i] < seeds[j] })
	return seeds
}

// Report collects the non-fatal conditions hit while decoding one buffer.
type Report struct {
	Warnings []error

	Cells          int // cells with a non-zero raw value or record length
	Overruns       int
	FallbackSplits int
	Leftover       int // bytes of the buffer that were never consumed
}

func (r *Report) warn(err error) {
	r.Warnings = append(r.Warnings, err)
}

// OK reports whether the decode finished without any warnings
func (r *Report) OK() bool {
	return r == nil || len(r.Warnings) == 0
}

// JewelTable is the decoded lookup table of one jewel type
type JewelTable struct {
	Jewel Jewel     `json:"jewel_type"`
	Seeds SeedRange `json:"seed_range"`
	Table Table     `json:"lookup_table"`
}

// Get returns the token for seed and node index
func (jt *JewelTable) Get(seed uint32, node int) (string, bool) {
	if jt == nil || !jt.Seeds.Contains(seed) {
		return "", false
	}
	return jt.Table.Get(seed, node)
}

func (jt *JewelTable) String() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s (%s)\n", jt.Jewel.DisplayName(), jt.Jewel))
	buf.WriteString(fmt.Sprintf("  Seeds:   %s (%s seeds)\n", jt.Seeds, humanize.Comma(int64(jt.Seeds.Size()))))
	buf.WriteString(fmt.Sprintf("  Used:    %s seeds\n", humanize.Comma(int64(jt.Table.Len()))))
	buf.WriteString(fmt.Sprintf("  Entries: %s\n", humanize.Comma(int64(jt.Table.Entries()))))
	return buf.String()
}
