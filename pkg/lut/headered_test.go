package lut

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// headered builds a header of nodeCount*seeds.Size() lengths followed by data.
func headered(seeds SeedRange, nodeCount int, lengths map[[2]int]byte, data []byte) []byte {
	size := seeds.Size()
	buf := make([]byte, nodeCount*size, nodeCount*size+len(data))
	for cell, l := range lengths {
		node, offset := cell[0], cell[1]
		buf[node*size+offset] = l
	}
	return append(buf, data...)
}

func TestDecodeHeaderedMinimal(t *testing.T) {
	f, err := FormatFor(GloriousVanity)
	if err != nil {
		t.Fatal(err)
	}
	node, offset := 1200, 4321
	data := headered(f.Seeds, f.NodeCount, map[[2]int]byte{{node, offset}: 2}, []byte{17, 42})

	table, report, err := DecodeHeadered(data, f.Seeds, f.NodeCount)
	if err != nil {
		t.Fatalf("DecodeHeadered() error = %v", err)
	}
	if table.Entries() != 1 {
		t.Fatalf("DecodeHeadered() entries = %d, want 1", table.Entries())
	}
	got, ok := table.Get(f.Seeds.Min+uint32(offset), node)
	if !ok || got != "s17|r42" {
		t.Errorf("token = %q (%t), want \"s17|r42\"", got, ok)
	}
	if !report.OK() {
		t.Errorf("warnings = %v, want none", report.Warnings)
	}
}

func TestDecodeHeaderedCursorSpansSeeds(t *testing.T) {
	seeds := SeedRange{Min: 100, Max: 101}
	// seed-major traversal: (seed 100, node 0), (seed 100, node 1), (seed 101, node 0)
	lengths := map[[2]int]byte{
		{0, 0}: 2,
		{1, 0}: 3,
		{0, 1}: 2,
	}
	payload := []byte{
		1, 2, // seed 100 node 0
		3, 4, 5, // seed 100 node 1
		6, 7, // seed 101 node 0
	}
	table, report, err := DecodeHeadered(headered(seeds, 2, lengths, payload), seeds, 2)
	if err != nil {
		t.Fatalf("DecodeHeadered() error = %v", err)
	}
	want := Table{
		100: {0: "s1|r2", 1: "s3|r4|r5"},
		101: {0: "s6|r7"},
	}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("DecodeHeadered() = %v, want %v", table, want)
	}
	if report.Cells != 3 || report.Leftover != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestDecodeHeaderedOverrun(t *testing.T) {
	seeds := SeedRange{Min: 1, Max: 2}
	lengths := map[[2]int]byte{
		{0, 0}: 2, {1, 0}: 2, // seed 1
		{0, 1}: 2, {1, 1}: 4, {2, 1}: 2, // seed 2, node 1 overruns
	}
	payload := []byte{
		10, 11, 12, 13, // seed 1
		14, 15, // seed 2 node 0
		16, // not enough for seed 2 node 1
	}
	table, report, err := DecodeHeadered(headered(seeds, 3, lengths, payload), seeds, 3)
	if err != nil {
		t.Fatalf("DecodeHeadered() error = %v", err)
	}
	want := Table{
		1: {0: "s10|r11", 1: "s12|r13"},
		2: {0: "s14|r15"},
	}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("DecodeHeadered() = %v, want %v", table, want)
	}
	if report.Overruns != 1 || len(report.Warnings) != 1 {
		t.Fatalf("report = %+v, want 1 overrun", report)
	}
	var oe *RecordOverrunError
	if !errors.As(report.Warnings[0], &oe) {
		t.Fatalf("warning is %T, want *RecordOverrunError", report.Warnings[0])
	}
	if oe.Seed != 2 || oe.Node != 1 || oe.Length != 4 || oe.Remaining != 1 {
		t.Errorf("RecordOverrunError = %+v", oe)
	}
}

func TestDecodeHeaderedOverrunContinuesNextSeed(t *testing.T) {
	seeds := SeedRange{Min: 1, Max: 2}
	lengths := map[[2]int]byte{
		{0, 0}: 8, // seed 1 needs more than is left
		{0, 1}: 2, // seed 2 fits
	}
	table, report, err := DecodeHeadered(headered(seeds, 1, lengths, []byte{5, 6}), seeds, 1)
	if err != nil {
		t.Fatalf("DecodeHeadered() error = %v", err)
	}
	want := Table{2: {0: "s5|r6"}}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("DecodeHeadered() = %v, want %v", table, want)
	}
	if !errors.Is(report.Warnings[0], ErrRecordOverrun) {
		t.Errorf("warning = %v, want ErrRecordOverrun", report.Warnings[0])
	}
}

func TestDecodeHeaderedTooSmall(t *testing.T) {
	f, _ := FormatFor(GloriousVanity)
	_, _, err := DecodeHeadered(make([]byte, 100), f.Seeds, f.NodeCount)
	if !errors.Is(err, ErrHeaderTooSmall) {
		t.Fatalf("DecodeHeadered() error = %v, want ErrHeaderTooSmall", err)
	}
	var he *HeaderTooSmallError
	if !errors.As(err, &he) || he.HeaderSize != GloriousVanityNodeCount*7901 {
		t.Errorf("HeaderTooSmallError = %+v", he)
	}
}

func TestDecodeHeaderedEmpty(t *testing.T) {
	f, _ := FormatFor(GloriousVanity)
	table, report, err := DecodeHeadered(nil, f.Seeds, f.NodeCount)
	if err != nil {
		t.Fatalf("DecodeHeadered(nil) error = %v", err)
	}
	if table.Len() != 0 || !report.OK() {
		t.Errorf("DecodeHeadered(nil) = %v, %+v", table, report)
	}
}

func TestSplitRecordPatterns(t *testing.T) {
	tests := []struct {
		length int
		stats  int
		rolls  int
	}{
		{2, 1, 1},
		{3, 1, 2},
		{6, 3, 3},
		{8, 4, 4},
	}
	for _, tt := range tests {
		shape, known := SplitRecord(tt.length)
		if !known {
			t.Errorf("SplitRecord(%d) known = false", tt.length)
		}
		if shape.Stats != tt.stats || shape.Rolls != tt.rolls {
			t.Errorf("SplitRecord(%d) = %+v, want (%d, %d)", tt.length, shape, tt.stats, tt.rolls)
		}

		rec := make([]byte, tt.length)
		for i := range rec {
			rec[i] = byte(i + 1)
		}
		tok := DecodeRecord(rec)
		var stats, rolls int
		for _, part := range strings.Split(tok, TokenSeparator) {
			switch part[0] {
			case 's':
				stats++
			case 'r':
				rolls++
			}
		}
		if stats != tt.stats || rolls != tt.rolls {
			t.Errorf("DecodeRecord(len %d) = %q: %d stats / %d rolls, want %d / %d", tt.length, tok, stats, rolls, tt.stats, tt.rolls)
		}
		if !strings.HasPrefix(tok, "s1") {
			t.Errorf("DecodeRecord(len %d) = %q, stats must come first", tt.length, tok)
		}
	}
}

// The fallback split has never been observed in shipped data; these cases pin
// the current heuristic rather than a verified format rule.
func TestSplitRecordFallback(t *testing.T) {
	tests := []struct {
		length int
		want   RecordShape
	}{
		{1, RecordShape{Stats: 1, Rolls: 0}},
		{4, RecordShape{Stats: 2, Rolls: 2}},
		{5, RecordShape{Stats: 1, Rolls: 4}},
		{10, RecordShape{Stats: 5, Rolls: 5}},
	}
	for _, tt := range tests {
		got, known := SplitRecord(tt.length)
		if known {
			t.Errorf("SplitRecord(%d) known = true", tt.length)
		}
		if got != tt.want {
			t.Errorf("SplitRecord(%d) = %+v, want %+v", tt.length, got, tt.want)
		}
	}

	seeds := SeedRange{Min: 1, Max: 1}
	table, report, err := DecodeHeadered(headered(seeds, 1, map[[2]int]byte{{0, 0}: 5}, []byte{9, 8, 7, 6, 5}), seeds, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := table.Get(1, 0); got != "s9|r8|r7|r6|r5" {
		t.Errorf("fallback token = %q", got)
	}
	if report.FallbackSplits != 1 || !errors.Is(report.Warnings[0], ErrUnrecognizedRecordLength) {
		t.Errorf("report = %+v", report)
	}
}
