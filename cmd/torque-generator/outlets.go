package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"torque-generator/internal/catalog"
	"torque-generator/internal/outlet"
)

func newOutletsCommand() *cobra.Command {
	var dumpYAML bool

	cmd := &cobra.Command{
		Use:   "outlets",
		Short: "List the outlets of the configured catalogs",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}

			if dumpYAML {
				return dumpCatalogs(os.Stdout, p)
			}

			tbl := table.NewWriter()
			tbl.SetOutputMirror(os.Stdout)
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Outlet", "Kind", "Input", "Mergepoints"})

			for _, o := range p.outlets.Outlets() {
				tbl.AppendRow(outletRow(o))
			}

			tbl.AppendFooter(table.Row{"total", "", "", p.outlets.Len()})
			tbl.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&dumpYAML, "yaml", false, "print the catalogs as normalized YAML")

	return cmd
}

// dumpCatalogs prints every configured catalog with defaults applied, one
// YAML document per file.
func dumpCatalogs(w io.Writer, p *project) error {
	for i, name := range p.cfg.Generator.Catalogs {
		f, err := catalog.ReadFile(p.sourceFS, path.Clean(name))
		if err != nil {
			return err
		}

		data, err := catalog.Marshal(f.Catalog)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		if i > 0 {
			fmt.Fprintln(w, "---")
		}

		fmt.Fprintf(w, "# %s\n%s", name, data)
	}

	return nil
}

func outletRow(o outlet.Outlet) table.Row {
	kind := "outlet"

	switch o.(type) {
	case *outlet.TemplateOutlet:
		kind = "template"
	case *outlet.CopyOutlet:
		kind = "copy"
	case *outlet.FuncOutlet:
		kind = "func"
	}

	input := "any"
	if in, ok := o.(interface{ Input() string }); ok && in.Input() != "" {
		input = in.Input()
	}

	return table.Row{o.Name().String(), kind, input, strings.Join(o.MergepointNames(), ", ")}
}
