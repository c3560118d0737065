package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"desugar/internal/trace"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[pipeline]
passes = ["conditional-access", "query"]
jobs = 4

[trace]
level = "detail"
output = "trace.ndjson"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.Pipeline.Passes = []string{"conditional-access", "query"}
	want.Pipeline.Jobs = 4
	want.Trace.Level = "detail"
	want.Trace.Output = "trace.ndjson"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	tc, err := cfg.TraceConfig()
	if err != nil {
		t.Fatalf("TraceConfig: %v", err)
	}
	if tc.Level != trace.LevelDetail || tc.Mode != trace.ModeStream || tc.OutputPath != "trace.ndjson" {
		t.Fatalf("trace config = %+v", tc)
	}
}

func TestLoadRejectsUnknownPass(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[pipeline]
passes = ["query", "inline", "fold"]
`)
	_, err := Load(path)
	if !errors.Is(err, ErrUnknownPass) {
		t.Fatalf("err = %v, want ErrUnknownPass", err)
	}
	if !strings.Contains(err.Error(), "inline, fold") {
		t.Fatalf("error does not name every unknown pass: %v", err)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[pipeline]\nthreads = 2\n", "unknown keys: pipeline.threads"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "invalid trace level"},
		{"bad emit", "[output]\nemit = \"html\"\n", "invalid [output].emit"},
		{"bundle without dir", "[output]\nemit = \"bundle\"\n", "[output].dir is required"},
		{"negative jobs", "[pipeline]\njobs = -1\n", "must not be negative"},
		{"syntax", "[pipeline\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("found %q, want %q", got, want)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
