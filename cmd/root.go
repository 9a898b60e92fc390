// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cmd implements the rdeploy command line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/datastudio-tools/resourcedeploy/internal"
	"github.com/datastudio-tools/resourcedeploy/pkg/lazy"
	"github.com/datastudio-tools/resourcedeploy/pkg/resourcetype"
)

// NewRootCmd creates the root `rdeploy` command.
func NewRootCmd() *cobra.Command {
	rootOptions := &internal.GlobalCommandOptions{}

	// The registry is loaded on first use and shared by the subcommands of a
	// single invocation. The initializer reads the registry flags, which are
	// parsed before any RunE executes.
	lazyRegistry := lazy.NewLazy(func(ctx context.Context) (*resourcetype.Registry, error) {
		registry, err := resourcetype.NewRegistry(ctx, registrySource(rootOptions))
		if err != nil {
			return nil, fmt.Errorf("loading resource type registry: %w", err)
		}

		return registry, nil
	})

	root := &cobra.Command{
		Use:   "rdeploy",
		Short: "Deploy SQL resources from declarative resource type definitions.",
		Long: heredoc.Doc(`
			rdeploy reads resource type definitions - deployable offerings such as a
			SQL Server container image or an Azure SQL database - and opens the
			deployment experience matching the options you pick: an interactive
			wizard, a notebook, an installer download or a web page.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(
		&rootOptions.EnableDebugLogging, "debug", false, "Enables debugging and diagnostics logging.")
	root.PersistentFlags().StringVar(
		&rootOptions.RegistryFile, "registry-file", "", "Load resource type definitions from a local JSON file.")
	root.PersistentFlags().StringVar(
		&rootOptions.RegistryUrl, "registry-url", "", "Load resource type definitions from a remote JSON document.")

	root.AddCommand(typesCmd(lazyRegistry))
	root.AddCommand(deployCmd(rootOptions, lazyRegistry))
	root.AddCommand(validateCmd(rootOptions))
	root.AddCommand(azureCmd(rootOptions))
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rdeploy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), internal.Version)
			return nil
		},
	}
}

func registrySource(rootOptions *internal.GlobalCommandOptions) resourcetype.Source {
	switch {
	case rootOptions.RegistryFile != "":
		return resourcetype.NewFileSource("file", rootOptions.RegistryFile)
	case rootOptions.RegistryUrl != "":
		return resourcetype.NewUrlSource("url", rootOptions.RegistryUrl, nil)
	default:
		return resourcetype.NewDefaultSource()
	}
}
