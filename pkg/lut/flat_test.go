package lut

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestSeedRangeSize(t *testing.T) {
	tests := []struct {
		name  string
		seeds SeedRange
		want  int
	}{
		{"lethal pride", SeedRange{Min: 10000, Max: 18000}, 8001},
		{"brutal restraint", SeedRange{Min: 500, Max: 8000}, 7501},
		{"glorious vanity", SeedRange{Min: 100, Max: 8000}, 7901},
		{"elegant hubris", SeedRange{Min: 2000, Max: 160000}, 158001},
		{"militant faith", SeedRange{Min: 2000, Max: 10000}, 8001},
		{"single seed", SeedRange{Min: 7, Max: 7}, 1},
		{"inverted", SeedRange{Min: 8, Max: 7}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seeds.Size(); got != tt.want {
				t.Errorf("Size() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeFlatZeroBuffer(t *testing.T) {
	for _, f := range Formats() {
		if f.Layout != Flat {
			continue
		}
		t.Run(f.Jewel.String(), func(t *testing.T) {
			data := make([]byte, f.Seeds.Size()*3)
			table, report := DecodeFlat(data, f.Seeds)
			if table.Len() != 0 {
				t.Errorf("DecodeFlat() decoded %d seeds, want 0", table.Len())
			}
			if !report.OK() {
				t.Errorf("DecodeFlat() warnings = %v, want none", report.Warnings)
			}
		})
	}
}

func TestDecodeFlatSingleEntry(t *testing.T) {
	seeds := SeedRange{Min: 10000, Max: 18000}
	size := seeds.Size()
	tests := []struct {
		name   string
		node   int
		offset int
	}{
		{"first cell", 0, 0},
		{"last seed of first node", 0, size - 1},
		{"middle", 3, 1234},
		{"last cell", 4, size - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, size*5)
			data[tt.node*size+tt.offset] = 7

			table, _ := DecodeFlat(data, seeds)
			if table.Len() != 1 || table.Entries() != 1 {
				t.Fatalf("DecodeFlat() = %d seeds / %d entries, want 1 / 1", table.Len(), table.Entries())
			}
			got, ok := table.Get(seeds.Min+uint32(tt.offset), tt.node)
			if !ok || got != "7" {
				t.Errorf("table[%d][%d] = %q (%t), want \"7\"", seeds.Min+uint32(tt.offset), tt.node, got, ok)
			}
		})
	}
}

func TestDecodeFlatDeterministic(t *testing.T) {
	seeds := SeedRange{Min: 500, Max: 8000}
	rng := rand.New(rand.NewSource(42))
	data := make([]byte, seeds.Size()*16)
	for i := range data {
		if rng.Intn(10) == 0 {
			data[i] = byte(rng.Intn(255) + 1)
		}
	}

	first, _ := DecodeFlat(data, seeds)
	second, _ := DecodeFlat(data, seeds)
	if !reflect.DeepEqual(first, second) {
		t.Error("DecodeFlat() returned different tables for identical input")
	}
	for seed, nodes := range first {
		if len(nodes) == 0 {
			t.Errorf("seed %d stored with no entries", seed)
		}
		if !seeds.Contains(seed) {
			t.Errorf("seed %d outside range %s", seed, seeds)
		}
	}
}

func TestDecodeFlatSizeMismatch(t *testing.T) {
	seeds := SeedRange{Min: 2000, Max: 2009}
	size := seeds.Size()
	data := make([]byte, size*2+4)
	data[size+3] = 9
	// remainder bytes must be ignored
	data[size*2] = 1
	data[size*2+3] = 1

	table, report := DecodeFlat(data, seeds)
	if table.Entries() != 1 {
		t.Fatalf("DecodeFlat() entries = %d, want 1", table.Entries())
	}
	if got, _ := table.Get(2003, 1); got != "9" {
		t.Errorf("table[2003][1] = %q, want \"9\"", got)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("DecodeFlat() warnings = %d, want 1", len(report.Warnings))
	}
	if !errors.Is(report.Warnings[0], ErrSizeMismatch) {
		t.Errorf("warning = %v, want ErrSizeMismatch", report.Warnings[0])
	}
	var sm *SizeMismatchError
	if !errors.As(report.Warnings[0], &sm) {
		t.Fatalf("warning is %T, want *SizeMismatchError", report.Warnings[0])
	}
	if sm.NodeCount != 2 || sm.Remainder != 4 || sm.SeedSize != size {
		t.Errorf("SizeMismatchError = %+v", sm)
	}
	if report.Leftover != 4 {
		t.Errorf("Leftover = %d, want 4", report.Leftover)
	}
}

func TestDecodeFlatEmpty(t *testing.T) {
	table, report := DecodeFlat(nil, SeedRange{Min: 10000, Max: 18000})
	if table == nil || table.Len() != 0 {
		t.Errorf("DecodeFlat(nil) = %v, want empty table", table)
	}
	if !report.OK() {
		t.Errorf("DecodeFlat(nil) warnings = %v", report.Warnings)
	}
}

func TestDecodeFlatTokens(t *testing.T) {
	seeds := SeedRange{Min: 1, Max: 2}
	data := []byte{
		0, 255, // node 0
		12, 0, // node 1
		1, 3, // node 2
	}
	want := Table{
		1: {1: "12", 2: "1"},
		2: {0: "255", 2: "3"},
	}
	got, _ := DecodeFlat(data, seeds)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeFlat() = %v, want %v", got, want)
	}
}
