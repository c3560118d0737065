package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"desugar/internal/version"
)

// newRootCmd assembles the command tree; tests build their own copy.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "desugar",
		Short:         "Lower sugared constructs of C#-like trees into a canonical subset",
		Long:          `desugar reads tree bundles, applies the lowering passes in canonical order and prints or stores the result`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupColor(cmd)
		},
	}
	root.Version = version.Version

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("config", "", "path to desugar.toml (default: search upwards from the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show per-pass timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics kept per tree")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")

	root.AddCommand(newRunCmd(), newPassesCmd(), newVersionCmd())
	return root
}

// main executes the root command; any error ends the process with status 1.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return errInvalidColor(mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
