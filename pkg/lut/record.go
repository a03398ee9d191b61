package lut

import (
	"strconv"
	"strings"
)

// TokenSeparator joins the parts of a Glorious Vanity record token.
const TokenSeparator = "|"

// RecordShape is how many leading stat ids and trailing roll values a record holds
type RecordShape struct {
	Stats int
	Rolls int
}

// record length -> shape, as written by Path of Building's data exporter
var recordPatterns = map[int]RecordShape{
	2: {Stats: 1, Rolls: 1},
	3: {Stats: 1, Rolls: 2},
	6: {Stats: 3, Rolls: 3},
	8: {Stats: 4, Rolls: 4},
}

// RecordPatterns returns a copy of the known record length table
func RecordPatterns() map[int]RecordShape {
	out := make(map[int]RecordShape, len(recordPatterns))
	for k, v := range recordPatterns {
		out[k] = v
	}
	return out
}

// SplitRecord returns the shape of a record of the given length. Lengths that
// are not in the pattern table are split evenly when even, and as one stat
// followed by rolls when odd; known is false for those.
func SplitRecord(length int) (shape RecordShape, known bool) {
	if shape, ok := recordPatterns[length]; ok {
		return shape, true
	}
	if length%2 == 0 {
		return RecordShape{Stats: length / 2, Rolls: length / 2}, false
	}
	return RecordShape{Stats: 1, Rolls: length - 1}, false
}

// DecodeRecord formats a record as "s<stat>|...|r<roll>|...".
func DecodeRecord(rec []byte) string {
	if len(rec) == 0 {
		return ""
	}
	shape, _ := SplitRecord(len(rec))
	return formatRecord(rec, shape)
}

func formatRecord(rec []byte, shape RecordShape) string {
	parts := make([]string, 0, len(rec))
	for _, b := range rec[:shape.Stats] {
		parts = append(parts, "s"+strconv.Itoa(int(b)))
	}
	for _, b := range rec[shape.Stats : shape.Stats+shape.Rolls] {
		parts = append(parts, "r"+strconv.Itoa(int(b)))
	}
	return strings.Join(parts, TokenSeparator)
}
