// Command ratingctl runs the rating profile pipeline from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	json bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "ratingctl",
		Short:         "Chess rating profile extraction",
		Long:          "ratingctl extracts player rating profiles from saved pages or looks them up at the rating authorities.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "Print the record as JSON")

	root.AddCommand(newExtractCmd(opts), newLookupCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
