package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"desugar/internal/desugar"
)

func newPassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List the lowering passes in canonical order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderPasses(cmd.OutOrStdout(), desugar.All())
			return nil
		},
	}
}

// renderPasses prints one aligned row per pass: position, name, kind, summary.
func renderPasses(out io.Writer, passes []desugar.Info) {
	nameWidth := runewidth.StringWidth("pass")
	for _, p := range passes {
		nameWidth = max(nameWidth, runewidth.StringWidth(p.Name))
	}
	head := color.New(color.Bold)
	head.Fprintf(out, "%-3s %s %-9s %s\n", "#", runewidth.FillRight("pass", nameWidth), "kind", "summary")
	for i, p := range passes {
		kind := "semantic"
		paint := color.New(color.FgMagenta)
		if p.Syntactic {
			kind = "syntactic"
			paint = color.New(color.FgGreen)
		}
		fmt.Fprintf(out, "%-3d %s %s %s\n",
			i+1,
			runewidth.FillRight(p.Name, nameWidth),
			paint.Sprint(runewidth.FillRight(kind, 9)),
			strings.TrimSpace(p.Summary))
	}
}
