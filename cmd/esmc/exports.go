package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/esmd/esm-compiler/pkg/api"
)

func newExportsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "exports <file>",
		Short: "List the names a module exports",
		Long: `Parse a module and print its exported names in declaration order,
one per line. A bare "export * from" entry is printed as the specifier
wrapped in braces since its names aren't statically known.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExports(cmd, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the names as a JSON array")
	return cmd
}

func runExports(cmd *cobra.Command, name string, asJSON bool) error {
	source, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	names, err := api.ExportNames(string(source), api.ExportNamesOptions{
		Specifier: filepath.ToSlash(name),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		return encoder.Encode(names)
	}
	for _, exportName := range names {
		fmt.Fprintln(cmd.OutOrStdout(), exportName)
	}
	return nil
}
