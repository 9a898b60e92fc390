// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/datastudio-tools/resourcedeploy/internal"
	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
	"github.com/datastudio-tools/resourcedeploy/pkg/output"
	"github.com/datastudio-tools/resourcedeploy/pkg/resourcetype"
	"github.com/datastudio-tools/resourcedeploy/pkg/tools"
)

func validateCmd(rootOptions *internal.GlobalCommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate resource type definitions.",
		Long: heredoc.Doc(`
			Validates the configured resource type definitions and prints every
			violation found. Contribution developers use this to check definitions
			before shipping them; the messages are diagnostics, not end user text.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			source := registrySource(rootOptions)

			resourceTypes, err := source.ListResourceTypes(ctx)
			if err != nil {
				return err
			}

			commandRunner := exec.NewCommandRunner(nil)
			toolRegistry := tools.NewRegistry(commandRunner)

			validationErrors := resourcetype.Validate(resourceTypes, toolRegistry)
			writer := cmd.OutOrStdout()

			if len(validationErrors) == 0 {
				fmt.Fprintln(writer, output.WithSuccessFormat("%d resource types validated, no errors found", len(resourceTypes)))
				return nil
			}

			for _, validationError := range validationErrors {
				fmt.Fprintln(writer, output.WithErrorFormat("error: %s", validationError))
			}

			return fmt.Errorf("validation failed with %d errors", len(validationErrors))
		},
	}
}
