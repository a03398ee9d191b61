package lut

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecompress(t *testing.T) {
	raw := bytes.Repeat([]byte{0, 0, 3, 0, 9}, 1000)
	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{"raw deflate", deflate(t, raw), false},
		{"zlib", zlibCompress(t, raw), false},
		{"truncated", deflate(t, raw)[:10], true},
		{"garbage", []byte{0xff, 0xff, 0xff, 0xff}, true},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decompress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrDecompression) {
					t.Errorf("Decompress() error = %v, want ErrDecompression", err)
				}
				return
			}
			if !bytes.Equal(got, raw) {
				t.Errorf("Decompress() returned %d bytes, want %d", len(got), len(raw))
			}
		})
	}
}

// storedBlocks builds a raw deflate stream of one non-final stored block
// holding data followed by an empty final block. A non-final stored block
// starts with 0x78 and its LEN low byte, which pass the zlib header check
// when len(data)%31 == 1.
func storedBlocks(data []byte) []byte {
	n := uint16(len(data))
	out := []byte{0x78, byte(n), byte(n >> 8), byte(^n), byte(^n >> 8)}
	out = append(out, data...)
	return append(out, 0x01, 0x00, 0x00, 0xff, 0xff)
}

func TestDecompressRawWithZlibHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"bad zlib body", bytes.Repeat([]byte{7}, 1)},
		{"zlib preset dictionary flag", bytes.Repeat([]byte{0, 5}, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := storedBlocks(tt.data)
			if !isZlib(input) {
				t.Fatalf("isZlib(% x) = false", input[:2])
			}
			got, err := Decompress(input)
			if err != nil {
				t.Fatalf("Decompress() error = %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Errorf("Decompress() = % x, want % x", got, tt.data)
			}
		})
	}
}

func TestDecodeFlatJewel(t *testing.T) {
	f, _ := FormatFor(MilitantFaith)
	size := f.Seeds.Size()
	data := make([]byte, size*4)
	data[2*size+10] = 7

	jt, report, err := Decode(MilitantFaith, deflate(t, data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !report.OK() {
		t.Errorf("Decode() warnings = %v", report.Warnings)
	}
	if jt.Jewel != MilitantFaith || jt.Seeds != f.Seeds {
		t.Errorf("Decode() = %s %s", jt.Jewel, jt.Seeds)
	}
	if got, ok := jt.Get(2010, 2); !ok || got != "7" {
		t.Errorf("Get(2010, 2) = %q, %t", got, ok)
	}
	if _, ok := jt.Get(1999, 2); ok {
		t.Error("Get() returned an entry for a seed outside the range")
	}
}

func TestDecodeCorruptInput(t *testing.T) {
	_, _, err := Decode(LethalPride, []byte{0xff, 0xfe, 0xfd, 0xfc})
	if !errors.Is(err, ErrDecompression) {
		t.Fatalf("Decode() error = %v, want ErrDecompression", err)
	}
}

func TestDecodeFileGloriousVanityParts(t *testing.T) {
	f, _ := FormatFor(GloriousVanity)
	data := headered(f.Seeds, f.NodeCount, map[[2]int]byte{{5, 0}: 3, {6, 0}: 2}, []byte{1, 2, 3, 4, 5})
	compressed := deflate(t, data)

	dir := t.TempDir()
	third := len(compressed) / 3
	chunks := [][]byte{compressed[:third], compressed[third : 2*third], compressed[2*third:]}
	var paths []string
	for i, chunk := range chunks {
		path := filepath.Join(dir, f.Files[i])
		if err := os.WriteFile(path, chunk, 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	jt, _, err := DecodeFile(GloriousVanity, paths...)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	want := map[int]string{5: "s1|r2|r3", 6: "s4|r5"}
	for node, tok := range want {
		if got, _ := jt.Get(100, node); got != tok {
			t.Errorf("Get(100, %d) = %q, want %q", node, got, tok)
		}
	}

	// part order is load-bearing
	if shuffled, _, err := DecodeFile(GloriousVanity, paths[2], paths[0], paths[1]); err == nil && reflect.DeepEqual(shuffled.Table, jt.Table) {
		t.Error("DecodeFile() with shuffled parts decoded the same table")
	}
}

func TestDecodeHeaderTooSmallIsFatal(t *testing.T) {
	_, _, err := Decode(GloriousVanity, deflate(t, make([]byte, 1024)))
	if !errors.Is(err, ErrHeaderTooSmall) {
		t.Fatalf("Decode() error = %v, want ErrHeaderTooSmall", err)
	}
}
