package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"desugar/internal/config"
)

func errInvalidColor(mode string) error {
	return fmt.Errorf("invalid --color value %q (expected: auto|on|off)", mode)
}

// loadSettings reads desugar.toml (explicit --config or the nearest one
// upwards) and applies every flag the user set on top of it.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	root := cmd.Root().PersistentFlags()
	path, err := root.GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg := config.Default()
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return config.Config{}, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	if root.Changed("max-diagnostics") {
		cfg.Pipeline.MaxDiagnostics, _ = root.GetInt("max-diagnostics")
	}
	if root.Changed("trace") {
		cfg.Trace.Output, _ = root.GetString("trace")
		if !root.Changed("trace-level") && cfg.Trace.Level == "off" {
			// --trace alone means "trace something"
			cfg.Trace.Level = "phase"
		}
	}
	if root.Changed("trace-level") {
		cfg.Trace.Level, _ = root.GetString("trace-level")
	}
	if root.Changed("trace-mode") {
		cfg.Trace.Mode, _ = root.GetString("trace-mode")
	}

	local := cmd.Flags()
	if f := local.Lookup("passes"); f != nil && f.Changed {
		cfg.Pipeline.Passes = splitList(f.Value.String())
	}
	if f := local.Lookup("jobs"); f != nil && f.Changed {
		cfg.Pipeline.Jobs, _ = local.GetInt("jobs")
	}
	if f := local.Lookup("emit"); f != nil && f.Changed {
		cfg.Output.Emit = f.Value.String()
	}
	if f := local.Lookup("out"); f != nil && f.Changed {
		cfg.Output.Dir = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
