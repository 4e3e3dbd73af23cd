package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"torque-generator/internal/controller"
	"torque-generator/internal/diagnostic"
	"torque-generator/internal/output"
)

// ErrOutdated is returned by check when generated files would change.
var ErrOutdated = errors.New("generated files are out of date")

func newGenerateCommand() *cobra.Command {
	var units []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the configured generation units",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}

			selected, err := selectUnits(p.cfg.Units, units)
			if err != nil {
				return err
			}

			c := p.controller(false)
			runErr := c.Run(contextOf(cmd), selected)

			printResults(os.Stdout, c.Results)
			printDiagnostics(os.Stderr, &c.Diagnostics)

			return runErr
		},
	}

	cmd.Flags().StringSliceVarP(&units, "unit", "u", nil, "run only the named units")

	return cmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Show how generated files would change, without writing them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}

			c := p.controller(true)
			if err := c.Run(contextOf(cmd), p.cfg.Units); err != nil {
				printDiagnostics(os.Stderr, &c.Diagnostics)
				return err
			}

			changed := 0

			for _, res := range c.Results {
				if !res.Changed {
					continue
				}

				changed++

				printDiff(os.Stdout, res.Diff)
			}

			if changed > 0 {
				return fmt.Errorf("%w: %d of %d files", ErrOutdated, changed, len(c.Results))
			}

			color.New(color.FgGreen).Fprintf(os.Stdout, "%d files up to date\n", len(c.Results))

			return nil
		},
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func selectUnits(all []controller.UnitConfig, names []string) ([]controller.UnitConfig, error) {
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]controller.UnitConfig, len(all))
	for _, u := range all {
		byName[u.Name] = u
	}

	selected := make([]controller.UnitConfig, 0, len(names))

	for _, n := range names {
		u, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%w: no unit named %q", controller.ErrInvalidUnit, n)
		}

		selected = append(selected, u)
	}

	return selected, nil
}

func printResults(w io.Writer, results []output.Result) {
	var total uint64

	for _, res := range results {
		switch {
		case res.Skipped:
			color.New(color.FgYellow).Fprintf(w, "  skipped   %s\n", res.Path)
		case res.Changed:
			color.New(color.FgGreen).Fprintf(w, "  written   %s (%s)\n", res.Path, humanize.Bytes(uint64(res.Bytes)))
			total += uint64(res.Bytes)
		default:
			fmt.Fprintf(w, "  unchanged %s\n", res.Path)
		}
	}

	fmt.Fprintf(w, "%d files, %s written\n", len(results), humanize.Bytes(total))
}

func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	for _, diag := range d.All() {
		c := color.New(color.FgCyan)

		switch diag.Severity {
		case diagnostic.DiagnosticError:
			c = color.New(color.FgRed)
		case diagnostic.DiagnosticWarning:
			c = color.New(color.FgYellow)
		}

		c.Fprintf(w, "%s: %s\n", diag.Severity, diag)
	}
}

func printDiff(w io.Writer, diff string) {
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case len(line) > 3 && (line[:3] == "---" || line[:3] == "+++"):
			color.New(color.Bold).Fprintln(w, line)
		case len(line) > 0 && line[0] == '-':
			removed.Fprintln(w, line)
		case len(line) > 0 && line[0] == '+':
			added.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
}
