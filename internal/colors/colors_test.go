package colors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestInit(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	on, off := true, false
	tests := []struct {
		name  string
		start bool
		force *bool
		want  bool
	}{
		{"force on", true, &on, true},
		{"force off", false, &off, false},
		{"nil keeps enabled", false, nil, true},
		{"nil keeps disabled", true, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = tt.start
			Init(tt.force)
			if got := Enabled(); got != tt.want {
				t.Errorf("Enabled() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestRoles(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	roles := map[string]func(...any) string{
		"Header": Header,
		"Field":  Field,
		"Fail":   Fail,
		"Warn":   Warn,
		"Token":  Token,
		"Faint":  Faint,
	}

	color.NoColor = true
	for name, fn := range roles {
		if got := fn("s12|r3"); got != "s12|r3" {
			t.Errorf("%s() without colors = %q", name, got)
		}
	}

	color.NoColor = false
	for name, fn := range roles {
		got := fn("s12|r3")
		if !strings.Contains(got, "s12|r3") || !strings.Contains(got, "\x1b[") {
			t.Errorf("%s() with colors = %q, want an escape sequence", name, got)
		}
	}
}
