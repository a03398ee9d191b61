package lut

import (
	"encoding/json"
	"fmt"
)

// Layout is the on-disk layout of a jewel's lookup table
type Layout uint8

const (
	// Flat is a dense node-major byte array of modifier codes.
	Flat Layout = iota
	// HeaderedVariable is a node-major header of record lengths followed by
	// a sequentially consumed data section of variable length records.
	HeaderedVariable
)

func (l Layout) String() string {
	switch l {
	case Flat:
		return "flat"
	case HeaderedVariable:
		return "headered"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(l))
	}
}

// GloriousVanityNodeCount is the fixed number of nodes in the Glorious Vanity header.
const GloriousVanityNodeCount = 1678

// SeedRange is an inclusive range of jewel seeds
type SeedRange struct {
	Min uint32
	Max uint32
}

// Size returns the number of seeds in the range
func (r SeedRange) Size() int {
	if r.Max < r.Min {
		return 0
	}
	return int(r.Max-r.Min) + 1
}

// Contains reports whether seed is inside the range
func (r SeedRange) Contains(seed uint32) bool {
	return seed >= r.Min && seed <= r.Max
}

func (r SeedRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// MarshalJSON encodes the range as a [min, max] pair.
func (r SeedRange) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%d,%d]", r.Min, r.Max)), nil
}

// UnmarshalJSON decodes a [min, max] pair.
func (r *SeedRange) UnmarshalJSON(data []byte) error {
	var pair [2]uint32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid seed range %s: %w", data, err)
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

// Format describes how a jewel's data file is decoded
type Format struct {
	Jewel     Jewel
	Seeds     SeedRange
	Layout    Layout
	NodeCount int // only set for HeaderedVariable; flat formats derive it from the buffer
	Files     []string
}

// seed ranges and layouts as shipped by Path of Building's TimelessJewelData
var formats = map[Jewel]Format{
	LethalPride: {
		Jewel:  LethalPride,
		Seeds:  SeedRange{Min: 10000, Max: 18000},
		Layout: Flat,
		Files:  []string{"LethalPride.zip"},
	},
	BrutalRestraint: {
		Jewel:  BrutalRestraint,
		Seeds:  SeedRange{Min: 500, Max: 8000},
		Layout: Flat,
		Files:  []string{"BrutalRestraint.zip"},
	},
	GloriousVanity: {
		Jewel:     GloriousVanity,
		Seeds:     SeedRange{Min: 100, Max: 8000},
		Layout:    HeaderedVariable,
		NodeCount: GloriousVanityNodeCount,
		Files: []string{
			"GloriousVanity.zip.part0",
			"GloriousVanity.zip.part1",
			"GloriousVanity.zip.part2",
			"GloriousVanity.zip.part3",
			"GloriousVanity.zip.part4",
		},
	},
	ElegantHubris: {
		Jewel:  ElegantHubris,
		Seeds:  SeedRange{Min: 2000, Max: 160000},
		Layout: Flat,
		Files:  []string{"ElegantHubris.zip"},
	},
	MilitantFaith: {
		Jewel:  MilitantFaith,
		Seeds:  SeedRange{Min: 2000, Max: 10000},
		Layout: Flat,
		Files:  []string{"MilitantFaith.zip"},
	},
}

// FormatFor returns the decode format of the given jewel
func FormatFor(j Jewel) (Format, error) {
	f, ok := formats[j]
	if !ok {
		return Format{}, fmt.Errorf("%w: %d", ErrUnknownJewel, uint8(j))
	}
	f.Files = append([]string(nil), f.Files...)
	return f, nil
}

// Formats returns a copy of every known format, ordered like Jewels()
func Formats() []Format {
	var out []Format
	for _, j := range Jewels() {
		f, _ := FormatFor(j)
		out = append(out, f)
	}
	return out
}
