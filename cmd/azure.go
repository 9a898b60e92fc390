// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/datastudio-tools/resourcedeploy/internal"
	"github.com/datastudio-tools/resourcedeploy/pkg/azure"
	"github.com/datastudio-tools/resourcedeploy/pkg/output"
)

func azureCmd(rootOptions *internal.GlobalCommandOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "azure",
		Short: "Browse SQL resources in your Azure subscriptions.",
	}

	root.AddCommand(azureResourcesCmd(rootOptions))

	return root
}

func azureResourcesCmd(rootOptions *internal.GlobalCommandOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List the SQL resources of every subscription you can access.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			credential, err := azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				return fmt.Errorf("creating Azure credential: %w", err)
			}

			subscriptions := azure.NewSubscriptionsService(credential, nil)
			resources := azure.NewResourcesService(credential, nil)

			tree := azure.NewAccountTreeNode(subscriptions, resources, clock.New(), nil)
			if err := tree.Load(ctx); err != nil {
				return err
			}

			children := tree.Children()
			writer := cmd.OutOrStdout()

			if output.Format(outputFormat) == output.JsonFormat {
				return output.WriteJson(writer, children)
			}

			fmt.Fprintln(writer, output.WithHighLightFormat(tree.Label()))
			for _, child := range children {
				if child.IsMessage {
					fmt.Fprintln(writer, output.WithWarningFormat(child.Label))
					continue
				}

				fmt.Fprintf(writer, "  %s\t%s\t%s\n", child.Label, child.Resource.Type, child.Resource.Location)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", string(output.TableFormat), "Output format (table or json).")

	return cmd
}
