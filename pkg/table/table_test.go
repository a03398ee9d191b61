package table

import (
	"bytes"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tbl := New("JEWEL", "SEEDS", "ENTRIES")
	tbl.AlignRight(2)
	tbl.Append("Lethal Pride", "[1000, 18000]", "1,234")
	tbl.Append("Militant Faith", "[2000, 10000]", "12")
	tbl.Append("Brutal Restraint")

	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}

	lines := strings.Split(strings.TrimSuffix(tbl.Render(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Render() lines = %d, want 4:\n%s", len(lines), tbl.Render())
	}
	tests := []struct {
		line   int
		prefix string
	}{
		{0, "JEWEL"},
		{1, "Lethal Pride"},
		{2, "Militant Faith"},
		{3, "Brutal Restraint"},
	}
	for _, tt := range tests {
		if !strings.HasPrefix(lines[tt.line], tt.prefix) {
			t.Errorf("line %d = %q, want prefix %q", tt.line, lines[tt.line], tt.prefix)
		}
	}
	// columns line up
	col := strings.Index(lines[1], "[1000")
	if col < 0 || strings.Index(lines[2], "[2000") != col || strings.Index(lines[0], "SEEDS") != col {
		t.Errorf("SEEDS column is not aligned:\n%s", tbl.Render())
	}
	// right-aligned counts end in the same column
	if len(lines[1]) != len(lines[2]) {
		t.Errorf("ENTRIES column is not right aligned:\n%s", tbl.Render())
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	tbl := New("A")
	tbl.Append("x")
	n, err := tbl.WriteTo(&buf)
	if err != nil || n != int64(buf.Len()) || buf.String() != tbl.Render() {
		t.Errorf("WriteTo() = %d, %v, %q", n, err, buf.String())
	}
	if New().Render() != "" {
		t.Error("Render() of a headerless table should be empty")
	}
}
