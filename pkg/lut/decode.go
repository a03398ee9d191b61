package lut

import (
	"fmt"
	"os"
)

// Decode decompresses and decodes the data file of a jewel type.
//
// Glorious Vanity ships as several parts; join them with Concat (or use
// DecodeFile) before calling Decode.
func Decode(j Jewel, compressed []byte) (*JewelTable, *Report, error) {
	format, err := FormatFor(j)
	if err != nil {
		return nil, nil, err
	}

	data, err := Decompress(compressed)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", j, err)
	}

	table, report, err := decodeLayout(format, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", j, err)
	}

	return &JewelTable{
		Jewel: j,
		Seeds: format.Seeds,
		Table: table,
	}, report, nil
}

func decodeLayout(format Format, data []byte) (Table, *Report, error) {
	switch format.Layout {
	case Flat:
		table, report := DecodeFlat(data, format.Seeds)
		return table, report, nil
	case HeaderedVariable:
		return DecodeHeadered(data, format.Seeds, format.NodeCount)
	default:
		return nil, nil, fmt.Errorf("unsupported layout %s", format.Layout)
	}
}

// DecodeFile reads the given file parts in order, joins them and decodes them.
func DecodeFile(j Jewel, paths ...string) (*JewelTable, *Report, error) {
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%s: no input files", j)
	}
	parts := make([][]byte, 0, len(paths))
	for _, path := range paths {
		dat, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		parts = append(parts, dat)
	}
	return Decode(j, Concat(parts...))
}
