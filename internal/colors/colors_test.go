package colors

import (
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
		color.NoColor = tt.start
		Init(tt.force)
		if got := Enabled(); got != tt.want {
			t.Errorf("%s: Enabled() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSprintNoColor(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	if got := BoldHiBlue().Sprint("__TEXT"); got != "__TEXT" {
		t.Errorf("Sprint() = %q, want plain text", got)
	}
	if got := Faint().Sprintf("%#x", 16); got != "0x10" {
		t.Errorf("Sprintf() = %q, want plain text", got)
	}
}
