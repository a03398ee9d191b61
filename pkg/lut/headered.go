package lut

import (
	"github.com/apex/log"
)

// cursor is the read position in the data section. It only ever moves forward
// and is threaded through the whole traversal, never reset between seeds.
type cursor struct {
	data []byte
	pos  int
}

func (c cursor) remaining() int { return len(c.data) - c.pos }

// take returns the next n bytes and the advanced cursor. ok is false (and the
// cursor unchanged) when fewer than n bytes remain.
func (c cursor) take(n int) (rec []byte, next cursor, ok bool) {
	if n > c.remaining() {
		return nil, c, false
	}
	return c.data[c.pos : c.pos+n], cursor{data: c.data, pos: c.pos + n}, true
}

// DecodeHeadered decodes the Glorious Vanity layout.
//
// The first nodeCount*seeds.Size() bytes are a node-major header where each
// byte is the length of a record in the data section that follows. Records
// are stored in seed-major order so the data section is read with a single
// forward cursor, visiting seeds in the outer loop and nodes in the inner loop.
//
// A record that would run past the end of the data abandons the rest of its
// seed; decoding continues with the next seed.
func DecodeHeadered(data []byte, seeds SeedRange, nodeCount int) (Table, *Report, error) {
	table := make(Table)
	report := &Report{}

	seedSize := seeds.Size()
	if len(data) == 0 || seedSize == 0 || nodeCount <= 0 {
		return table, report, nil
	}

	headerSize := nodeCount * seedSize
	if len(data) < headerSize {
		return nil, nil, &HeaderTooSmallError{Len: len(data), HeaderSize: headerSize}
	}

	header := data[:headerSize]
	cur := cursor{data: data[headerSize:]}

	for offset := 0; offset < seedSize; offset++ {
		seed := seeds.Min + uint32(offset)
		var nodes map[int]string
		for node := 0; node < nodeCount; node++ {
			length := int(header[node*seedSize+offset])
			if length == 0 {
				continue
			}
			report.Cells++

			rec, next, ok := cur.take(length)
			if !ok {
				err := &RecordOverrunError{
					Seed:      seed,
					Node:      node,
					Length:    length,
					Cursor:    cur.pos,
					Remaining: cur.remaining(),
				}
				log.WithFields(log.Fields{
					"seed":      seed,
					"node":      node,
					"length":    length,
					"offset":    cur.pos,
					"remaining": cur.remaining(),
				}).Warn("record overruns data section, skipping rest of seed")
				report.warn(err)
				report.Overruns++
				break
			}
			cur = next

			shape, known := SplitRecord(length)
			if !known {
				log.WithFields(log.Fields{
					"seed":   seed,
					"node":   node,
					"length": length,
					"stats":  shape.Stats,
					"rolls":  shape.Rolls,
				}).Warn("unrecognized record length, using fallback split")
				report.warn(&UnrecognizedLengthError{
					Seed:   seed,
					Node:   node,
					Length: length,
					Stats:  shape.Stats,
					Rolls:  shape.Rolls,
				})
				report.FallbackSplits++
			}

			tok := formatRecord(rec, shape)
			if tok == "" {
				continue
			}
			if nodes == nil {
				nodes = make(map[int]string)
			}
			nodes[node] = tok
		}
		if nodes != nil {
			table[seed] = nodes
		}
	}

	report.Leftover = cur.remaining()
	if report.Leftover > 0 {
		log.WithField("bytes", report.Leftover).Debug("unread bytes after data section")
	}

	return table, report, nil
}
