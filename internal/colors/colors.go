// Package colors provides the color roles used by the tjlut CLI.
//
// Colors are automatically disabled when stdout is not a terminal. This
// behavior is provided by the underlying fatih/color library. Use Init() to
// override it based on CLI flags.
package colors

import "github.com/fatih/color"

// Init allows overriding the auto-detected color setting.
//   - forceColor == nil: keep auto-detected value
//   - forceColor == true: force colors on (--color)
//   - forceColor == false: force colors off
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

var (
	header = color.New(color.Bold, color.FgHiBlue)
	field  = color.New(color.Bold, color.FgHiGreen)
	fail   = color.New(color.Bold, color.FgHiRed)
	warn   = color.New(color.Bold, color.FgHiYellow)
	token  = color.New(color.FgHiMagenta)
	faint  = color.New(color.Faint)
)

// Header colors section titles.
func Header(a ...any) string { return header.Sprint(a...) }

// Field colors field labels.
func Field(a ...any) string { return field.Sprint(a...) }

// Fail colors failure markers.
func Fail(a ...any) string { return fail.Sprint(a...) }

// Warn colors warnings.
func Warn(a ...any) string { return warn.Sprint(a...) }

// Token colors raw lookup table tokens.
func Token(a ...any) string { return token.Sprint(a...) }

// Faint dims secondary text.
func Faint(a ...any) string { return faint.Sprint(a...) }
