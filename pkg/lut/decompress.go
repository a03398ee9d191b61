package lut

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// isZlib checks the RFC1950 CMF/FLG header: deflate method, window <= 32K and
// a header checksum that is a multiple of 31.
func isZlib(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	cmf, flg := data[0], data[1]
	if cmf&0x0f != 8 || cmf>>4 > 7 {
		return false
	}
	return (uint16(cmf)<<8|uint16(flg))%31 == 0
}

// Decompress inflates a bare deflate (or zlib framed) stream.
//
// The TimelessJewelData ".zip" files are NOT zip archives, they are raw
// compressed streams. Multi-part inputs must be joined with Concat first.
// A raw stream can start with two bytes that pass the zlib header check, so a
// failed zlib read is retried as raw deflate.
func Decompress(data []byte) ([]byte, error) {
	if isZlib(data) {
		out, err := inflate(data, true)
		if err == nil {
			return out, nil
		}
		if raw, rerr := inflate(data, false); rerr == nil {
			return raw, nil
		}
		return nil, &DecompressionError{Size: len(data), Err: err}
	}
	out, err := inflate(data, false)
	if err != nil {
		return nil, &DecompressionError{Size: len(data), Err: err}
	}
	return out, nil
}

func inflate(data []byte, framed bool) ([]byte, error) {
	var r io.ReadCloser
	if framed {
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		r = zr
	} else {
		r = flate.NewReader(bytes.NewReader(data))
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Concat joins file parts in the given order.
func Concat(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
