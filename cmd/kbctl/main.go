// kbctl is the operator tool for the knowledge base service: it imports
// legacy flat documents, previews compiled output and issues local tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kbctl",
		Short:         "Manage agent knowledge bases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCmd(), newCompileCmd(), newTokenCmd())
	return root
}
