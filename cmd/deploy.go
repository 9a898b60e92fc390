// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/datastudio-tools/resourcedeploy/internal"
	"github.com/datastudio-tools/resourcedeploy/pkg/deployment"
	"github.com/datastudio-tools/resourcedeploy/pkg/download"
	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
	"github.com/datastudio-tools/resourcedeploy/pkg/input"
	"github.com/datastudio-tools/resourcedeploy/pkg/lazy"
	"github.com/datastudio-tools/resourcedeploy/pkg/operations"
	"github.com/datastudio-tools/resourcedeploy/pkg/output"
	"github.com/datastudio-tools/resourcedeploy/pkg/resourcetype"
	"github.com/datastudio-tools/resourcedeploy/pkg/tools"
)

func deployCmd(
	rootOptions *internal.GlobalCommandOptions,
	lazyRegistry *lazy.Lazy[*resourcetype.Registry],
) *cobra.Command {
	var notebookLauncher string

	cmd := &cobra.Command{
		Use:   "deploy <resource-type>",
		Short: "Deploy a resource type.",
		Long: heredoc.Doc(`
			Prompts for the resource type's options, resolves the deployment
			provider matching your selection and opens the corresponding
			experience: a wizard, a notebook, an installer download, a web page
			or a command.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			registry, err := lazyRegistry.GetValue(ctx)
			if err != nil {
				return err
			}

			rt, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			console := input.NewConsole(input.NewAsker())

			selected, err := promptOptions(ctx, console, rt)
			if err != nil {
				return err
			}

			provider := rt.SelectProvider(selected)
			if provider == nil {
				return fmt.Errorf(
					"no deployment provider of resource type '%s' matches the selected options", rt.Name)
			}

			confirmed, err := console.Confirm(ctx, input.ConsoleOptions{
				Message:      fmt.Sprintf("%s %s?", rt.OkButtonLabel(selected), rt.DisplayName),
				DefaultValue: true,
			})
			if err != nil {
				return err
			}
			if !confirmed {
				return nil
			}

			dispatcher := newDispatcher(rootOptions, console, notebookLauncher)
			return dispatcher.Dispatch(ctx, rt, provider)
		},
	}

	cmd.Flags().StringVar(
		&notebookLauncher, "notebook-launcher", "",
		"Program used to open deployment notebooks (defaults to azuredatastudio).")

	return cmd
}

// promptOptions asks the user to pick a value for each option of the
// resource type, in declared order.
func promptOptions(ctx context.Context, console input.Console, rt *resourcetype.ResourceType) ([]resourcetype.SelectedOption, error) {
	selected := make([]resourcetype.SelectedOption, 0, len(rt.Options))

	for _, option := range rt.Options {
		names := make([]string, len(option.Values))
		for i, value := range option.Values {
			names[i] = value.DisplayName
		}

		index, err := console.Select(ctx, input.ConsoleOptions{
			Message: option.DisplayName,
			Options: names,
		})
		if err != nil {
			return nil, err
		}

		selected = append(selected, resourcetype.SelectedOption{
			Option: option.Name,
			Value:  option.Values[index].Name,
		})
	}

	return selected, nil
}

func newDispatcher(
	rootOptions *internal.GlobalCommandOptions,
	console input.Console,
	notebookLauncher string,
) *deployment.Dispatcher {
	commandRunner := exec.NewCommandRunner(&exec.RunnerOptions{
		DebugLogging: rootOptions.EnableDebugLogging,
	})

	operationManager := operations.NewManager(func(ctx context.Context, msg *operations.Message) {
		switch msg.State {
		case operations.StateSucceeded:
			fmt.Println(output.WithSuccessFormat("(✓) Done: %s", msg.Message))
		case operations.StateFailed:
			fmt.Println(output.WithErrorFormat("(✗) Failed: %s", msg.Message))
		default:
			fmt.Println(output.WithHighLightFormat("  - %s", msg.Message))
		}
	})

	return deployment.NewDispatcher(
		console,
		deployment.NewExecNotebookService(commandRunner, notebookLauncher),
		deployment.NewExecCommandService(commandRunner),
		deployment.NewSystemBrowser(),
		download.NewFileDownloader(nil),
		commandRunner,
		tools.NewRegistry(commandRunner),
		operationManager,
	)
}
