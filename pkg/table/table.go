// Package table renders aligned text tables with lipgloss.
package table

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style defines the visual styling of a table
type Style struct {
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Separator string
}

// PlainStyle returns a table style with no colors
func PlainStyle() Style {
	return Style{
		Header:    lipgloss.NewStyle().Bold(true).PaddingRight(2),
		Cell:      lipgloss.NewStyle().PaddingRight(2),
		Separator: "",
	}
}

// StyledStyle returns a colorful table style
func StyledStyle() Style {
	s := PlainStyle()
	s.Header = s.Header.Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4"))
	return s
}

// Table collects rows and renders them with every column padded to its widest cell
type Table struct {
	headers []string
	rows    [][]string
	align   []lipgloss.Position
	style   Style
}

// New creates a plain table with the given headers
func New(headers ...string) *Table {
	t := &Table{
		headers: headers,
		align:   make([]lipgloss.Position, len(headers)),
		style:   PlainStyle(),
	}
	for i := range t.align {
		t.align[i] = lipgloss.Left
	}
	return t
}

// SetStyle changes the table style
func (t *Table) SetStyle(s Style) { t.style = s }

// AlignRight right-aligns a column, e.g. for counts
func (t *Table) AlignRight(col int) {
	if col >= 0 && col < len(t.align) {
		t.align[col] = lipgloss.Right
	}
}

// Append adds a row; missing cells render empty and extra cells are dropped
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	return widths
}

func (t *Table) renderRow(row []string, style lipgloss.Style, widths []int) string {
	cells := make([]string, len(row))
	for i, cell := range row {
		// the style's right padding is added on top of the width
		cells[i] = style.Width(widths[i] + style.GetPaddingRight()).Align(t.align[i]).Render(cell)
	}
	return strings.TrimRight(strings.Join(cells, t.style.Separator), " ")
}

// Render generates the complete table as a string
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.widths()

	var out strings.Builder
	out.WriteString(t.renderRow(t.headers, t.style.Header, widths))
	out.WriteString("\n")
	for _, row := range t.rows {
		out.WriteString(t.renderRow(row, t.style.Cell, widths))
		out.WriteString("\n")
	}
	return out.String()
}

// WriteTo writes the rendered table to w
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.Render())
	return int64(n), err
}
