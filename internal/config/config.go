// Package config loads desugar.toml. Command-line flags override what the
// file sets; the file overrides Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"desugar/internal/desugar"
	"desugar/internal/trace"
)

// FileName is looked up from the working directory upwards.
const FileName = "desugar.toml"

// ErrUnknownPass reports a pass name missing from the registry.
var ErrUnknownPass = errors.New("unknown pass")

// Emit modes of the run command.
const (
	EmitSource = "source" // print rewritten trees
	EmitBundle = "bundle" // write rewritten bundles into Output.Dir
	EmitNone   = "none"
)

type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
	Trace    Trace    `toml:"trace"`
	Output   Output   `toml:"output"`
}

type Pipeline struct {
	Passes         []string `toml:"passes"`
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

type Trace struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

type Output struct {
	Emit string `toml:"emit"`
	Dir  string `toml:"dir"`
}

// Default is the configuration used without a file.
func Default() Config {
	return Config{
		Pipeline: Pipeline{MaxDiagnostics: 100},
		Trace:    Trace{Level: "off", Mode: "stream", Format: "auto", Output: "-"},
		Output:   Output{Emit: EmitSource},
	}
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default and validates the result. Keys the
// configuration does not know are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks pass names and enumerated settings.
func (c Config) Validate() error {
	var unknown []string
	for _, name := range c.Pipeline.Passes {
		if _, ok := desugar.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPass, strings.Join(unknown, ", "))
	}
	if c.Pipeline.Jobs < 0 {
		return fmt.Errorf("[pipeline].jobs must not be negative, got %d", c.Pipeline.Jobs)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return err
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return err
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return err
	}
	switch c.Output.Emit {
	case EmitSource, EmitNone:
	case EmitBundle:
		if c.Output.Dir == "" {
			return errors.New("[output].dir is required when emit = \"bundle\"")
		}
	default:
		return fmt.Errorf("invalid [output].emit: %q (expected: source|bundle|none)", c.Output.Emit)
	}
	return nil
}

// TraceConfig converts the [trace] table into tracer settings.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Mode: mode, Format: format, OutputPath: c.Trace.Output}, nil
}
