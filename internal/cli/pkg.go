package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workspace-registry-service/internal/scaffold"
)

func newPkgCmd() *cobra.Command {
	pkgCmd := &cobra.Command{
		Use:   "pkg",
		Short: "Manage workspace packages",
	}

	newCmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Scaffold a convention-compliant package under packages/",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}

			kind, _ := cmd.Flags().GetString("kind")
			path, err := scaffold.Generate(cc.Root, args[0], kind)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s package at %s\n", kind, path)
			return nil
		},
	}
	newCmd.Flags().String("kind", "experiment", "Package kind (experiment, shared)")

	pkgCmd.AddCommand(newCmd)
	return pkgCmd
}
