package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredWithoutColor(t *testing.T) {
	saved, savedNo := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = saved, savedNo })
	color.NoColor = true

	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-rc.1+build.7", "1.0.0-rc.1+build.7"},
		{"nightly", "nightly"},
		{"  ", "dev"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(); got != tt.want {
			t.Errorf("Colored() with %q = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestColoredPaintsComponents(t *testing.T) {
	saved, savedNo := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = saved, savedNo })
	color.NoColor = false
	Version = "1.2.3"

	want := majorColor.Sprint("1") + "." + minorColor.Sprint("2") + "." + patchColor.Sprint("3")
	if got := Colored(); got != want {
		t.Fatalf("Colored() = %q, want %q", got, want)
	}
	if got := Colored(); got == "1.2.3" {
		t.Fatalf("Colored() carries no escapes")
	}
}
