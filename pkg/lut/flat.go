package lut

import (
	"strconv"

	"github.com/apex/log"
)

// DecodeFlat decodes the dense layout used by every jewel except Glorious Vanity.
//
// The buffer is node-major, seed-minor:
//
//	data[node*seeds.Size() + (seed-seeds.Min)] = modifier code
//
// A code of 0 means the node is untouched and is never stored. Trailing bytes
// that do not fill a whole node row are reported and ignored.
func DecodeFlat(data []byte, seeds SeedRange) (Table, *Report) {
	table := make(Table)
	report := &Report{}

	seedSize := seeds.Size()
	if seedSize == 0 || len(data) == 0 {
		return table, report
	}

	nodeCount := len(data) / seedSize
	if rem := len(data) % seedSize; rem != 0 {
		err := &SizeMismatchError{
			Len:       len(data),
			SeedSize:  seedSize,
			NodeCount: nodeCount,
			Remainder: rem,
		}
		log.WithFields(log.Fields{
			"size":      len(data),
			"seed_size": seedSize,
			"nodes":     nodeCount,
			"remainder": rem,
		}).Warn("flat buffer size is not a multiple of the seed range, truncating")
		report.warn(err)
		report.Leftover = rem
	}

	for offset := 0; offset < seedSize; offset++ {
		var nodes map[int]string
		for node := 0; node < nodeCount; node++ {
			code := data[node*seedSize+offset]
			if code == 0 {
				continue
			}
			if nodes == nil {
				nodes = make(map[int]string)
			}
			nodes[node] = strconv.Itoa(int(code))
			report.Cells++
		}
		if nodes != nil {
			table[seeds.Min+uint32(offset)] = nodes
		}
	}

	return table, report
}
