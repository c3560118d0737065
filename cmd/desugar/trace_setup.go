package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"desugar/internal/config"
	"desugar/internal/trace"
)

// setupTracing attaches the tracer described by cfg to the command context.
// The returned finish closes it; after a failed run it first dumps whatever
// the ring sink kept to stderr.
func setupTracing(cmd *cobra.Command, cfg config.Config) (func(failed bool), error) {
	tc, err := cfg.TraceConfig()
	if err != nil {
		return nil, err
	}
	if tc.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}
	errOut := cmd.ErrOrStderr()
	if tc.OutputPath == "-" || tc.OutputPath == "" {
		tc.Output = errOut
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	finish := func(failed bool) {
		// в режиме both поток уже всё записал
		if ring, ok := tracer.(*trace.RingTracer); ok && failed {
			color.New(color.FgYellow).Fprintln(errOut, "trace: last events before the failure")
			if err := ring.Dump(errOut, trace.FormatText); err != nil {
				fmt.Fprintf(errOut, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}
	return finish, nil
}
