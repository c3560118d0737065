package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"desugar/internal/bundle"
	"desugar/internal/config"
	"desugar/internal/diag"
	"desugar/internal/format"
	"desugar/internal/observ"
	"desugar/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] <bundle>...",
		Short: "Apply the lowering passes to tree bundles",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBundles,
	}
	cmd.Flags().String("passes", "", "comma-separated passes to apply (default: all, in canonical order)")
	cmd.Flags().Int("jobs", 0, "trees processed in parallel (0 = GOMAXPROCS)")
	cmd.Flags().String("emit", config.EmitSource, "what to do with rewritten trees (source|bundle|none)")
	cmd.Flags().String("out", "", "directory for emitted bundles")
	return cmd
}

func runBundles(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	finish, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { finish(err != nil) }()

	inputs := make([]pipeline.Input, 0, len(args))
	for _, path := range args {
		f, err := bundle.Read(path)
		if err != nil {
			return err
		}
		name := f.Name
		if name == "" {
			name = filepath.Base(path)
		}
		inputs = append(inputs, pipeline.Input{Name: name, Tree: f.Tree, Facts: f.Facts})
	}

	results, runErr := pipeline.RunAll(cmd.Context(), pipeline.Config{
		Passes:         cfg.Pipeline.Passes,
		MaxDiagnostics: cfg.Pipeline.MaxDiagnostics,
		Jobs:           cfg.Pipeline.Jobs,
	}, inputs)

	root := cmd.Root().PersistentFlags()
	quiet, _ := root.GetBool("quiet")
	showTimings, _ := root.GetBool("timings")
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	for i, res := range results {
		if res == nil {
			continue
		}
		printDiagnostics(errOut, res.Bag, quiet)
		if runErr != nil {
			continue
		}
		if err := emit(out, cfg.Output, inputs[i], res, len(results) > 1); err != nil {
			return err
		}
	}
	if showTimings {
		fmt.Fprint(errOut, observ.Aggregate(pipeline.Timers(results)...).Summary())
	}
	return runErr
}

func emit(out io.Writer, o config.Output, in pipeline.Input, res *pipeline.Result, header bool) error {
	switch o.Emit {
	case config.EmitNone:
		return nil
	case config.EmitBundle:
		path := filepath.Join(o.Dir, res.Name+".dsg")
		// факты остаются от исходного дерева: они находятся через Origin
		return bundle.Write(path, &bundle.File{Name: res.Name, Tree: res.Tree, Facts: in.Facts})
	}
	if header {
		color.New(color.FgCyan, color.Bold).Fprintf(out, "== %s ==\n", res.Name)
	}
	_, err := fmt.Fprintln(out, format.Decl(res.Tree.B, res.Tree.Root))
	return err
}

// printDiagnostics prints skip notes unless quiet; errors always.
func printDiagnostics(w io.Writer, bag *diag.Bag, quiet bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	items := bag.Items()
	if quiet {
		items = diag.Filter(items, diag.SevError)
	}
	if len(items) > 0 {
		fmt.Fprintln(w, diag.Short(items, true))
	}
	if n := bag.Dropped(); n > 0 && !quiet {
		fmt.Fprintf(w, "... %d more diagnostics (raise --max-diagnostics)\n", n)
	}
}
