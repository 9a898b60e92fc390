// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datastudio-tools/resourcedeploy/pkg/lazy"
	"github.com/datastudio-tools/resourcedeploy/pkg/output"
	"github.com/datastudio-tools/resourcedeploy/pkg/resourcetype"
)

func typesCmd(lazyRegistry *lazy.Lazy[*resourcetype.Registry]) *cobra.Command {
	root := &cobra.Command{
		Use:   "types",
		Short: "List and inspect the available resource types.",
	}

	root.AddCommand(typesListCmd(lazyRegistry))
	root.AddCommand(typesShowCmd(lazyRegistry))

	return root
}

func typesListCmd(lazyRegistry *lazy.Lazy[*resourcetype.Registry]) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the resource types available on this platform.",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := lazyRegistry.GetValue(cmd.Context())
			if err != nil {
				return err
			}

			resourceTypes := registry.List()
			writer := cmd.OutOrStdout()

			if output.Format(outputFormat) == output.JsonFormat {
				return output.WriteJson(writer, resourceTypes)
			}

			columns := []output.Column{
				{Heading: "NAME", Value: func(row int) string { return resourceTypes[row].Name }},
				{Heading: "DISPLAY NAME", Value: func(row int) string { return resourceTypes[row].DisplayName }},
				{Heading: "PLATFORMS", Value: func(row int) string {
					if len(resourceTypes[row].Platforms) == 0 {
						return "*"
					}
					return strings.Join(resourceTypes[row].Platforms, ", ")
				}},
				{Heading: "SOURCE", Value: func(row int) string { return resourceTypes[row].Source }},
			}

			return output.WriteTable(writer, columns, len(resourceTypes))
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", string(output.TableFormat), "Output format (table or json).")

	return cmd
}

func typesShowCmd(lazyRegistry *lazy.Lazy[*resourcetype.Registry]) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the details of a resource type.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := lazyRegistry.GetValue(cmd.Context())
			if err != nil {
				return err
			}

			rt, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			writer := cmd.OutOrStdout()
			if err := rt.Display(writer); err != nil {
				return err
			}

			for _, option := range rt.Options {
				values := make([]string, len(option.Values))
				for i, value := range option.Values {
					values[i] = value.DisplayName
				}

				fmt.Fprintf(writer, "%s: %s\n", option.DisplayName, strings.Join(values, ", "))
			}

			return nil
		},
	}
}
