// File: lixenwraith/paramtree/cmd/paramtree/schema.go
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print every declared parameter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := demoBuilder().Finalize()
			if err != nil {
				return err
			}
			return tree.WriteUsage(os.Stdout)
		},
	}
}
