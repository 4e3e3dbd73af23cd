package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"torque-generator/internal/model"
	"torque-generator/internal/source"
	"torque-generator/internal/transform"
)

func newSourceCommand() *cobra.Command {
	var (
		transformers []string
		selector     string
		typed        bool
		dump         bool
	)

	cmd := &cobra.Command{
		Use:   "source <file>",
		Short: "Print a schema file after reading and transforming it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			fs := osfs.New(filepath.Dir(abs))
			name := filepath.Base(abs)

			ctx := contextOf(cmd)

			el, err := (&source.FileSource{FS: fs, Name: name, Selector: selector}).Root(ctx)
			if err != nil {
				return err
			}

			root := transform.TreeRoot(el)

			if typed {
				db, err := model.Bind(el)
				if err != nil {
					return err
				}

				root = transform.ModelRoot(db)
			}

			chain, err := transform.NewRegistry().Chain(transformers...)
			if err != nil {
				return err
			}

			root, err = chain.Transform(ctx, root, transform.NewContext(fs, name))
			if err != nil {
				return err
			}

			switch {
			case root.Kind() == transform.KindModel:
				spew.Fdump(os.Stdout, root.Model())
			case dump:
				cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, MaxDepth: 6}
				cfg.Fdump(os.Stdout, root.Tree())
			default:
				fmt.Fprint(os.Stdout, root.Tree().String())
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&transformers, "transform", "t", nil, "transformers to apply, in order")
	cmd.Flags().StringVar(&selector, "selector", "", "path selecting the root inside the file")
	cmd.Flags().BoolVar(&typed, "typed", false, "bind the tree to the database model")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the element structure")

	return cmd
}
