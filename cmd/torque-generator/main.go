// Package main provides the CLI entrypoint for torque-generator.
//
// torque-generator runs generation units over schema files:
//   - Reads XML, YAML, JSON or SQLite sources into element trees
//   - Runs schema transformers (includes, external schemas, primary keys,
//     schema types)
//   - Drives outlets from YAML catalogs over the trees
//   - Writes formatted outputs, or reports what would change
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "torque-generator",
		Short: "Generate code and SQL from database schema files",
		Long: `torque-generator renders outlet catalogs over database schema files.

Commands:
  generate  run all configured generation units
  check     report outputs that are out of date
  source    print a source tree after transformation
  outlets   list the outlets of the configured catalogs`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "project configuration file (default ./torque.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newSourceCommand())
	rootCmd.AddCommand(newOutletsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
