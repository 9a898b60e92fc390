// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package deployment opens the deployment experience matching a resolved
// provider: a wizard or dialog prompt flow, a notebook, a downloaded
// installer, a web page or a host command.
package deployment

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
	"github.com/datastudio-tools/resourcedeploy/pkg/input"
	"github.com/datastudio-tools/resourcedeploy/pkg/operations"
	"github.com/datastudio-tools/resourcedeploy/pkg/resourcetype"
)

// NotebookService opens notebooks in the host application.
type NotebookService interface {
	OpenNotebook(ctx context.Context, path string) error
}

// CommandService executes host commands by id.
type CommandService interface {
	ExecuteCommand(ctx context.Context, id string, args ...string) error
}

// Browser opens a URL with the host's default external opener.
type Browser interface {
	OpenURL(url string) error
}

// Downloader fetches a URL to a local file and returns its path.
type Downloader interface {
	Download(ctx context.Context, url string) (string, error)
}

// Dispatcher opens the deployment experience for a resolved provider.
// Callers resolve the provider through ResourceType.SelectProvider first and
// must not dispatch a nil provider.
type Dispatcher struct {
	console       input.Console
	notebooks     NotebookService
	commands      CommandService
	browser       Browser
	downloader    Downloader
	commandRunner exec.CommandRunner
	toolLookup    resourcetype.ToolLookup
	operations    *operations.Manager
}

func NewDispatcher(
	console input.Console,
	notebooks NotebookService,
	commands CommandService,
	browser Browser,
	downloader Downloader,
	commandRunner exec.CommandRunner,
	toolLookup resourcetype.ToolLookup,
	operationManager *operations.Manager,
) *Dispatcher {
	return &Dispatcher{
		console:       console,
		notebooks:     notebooks,
		commands:      commands,
		browser:       browser,
		downloader:    downloader,
		commandRunner: commandRunner,
		toolLookup:    toolLookup,
		operations:    operationManager,
	}
}

// Dispatch opens the deployment experience for the provider. The switch over
// the provider kind is exhaustive; a provider that survived validation always
// carries a recognized kind.
func (d *Dispatcher) Dispatch(ctx context.Context, rt *resourcetype.ResourceType, provider *resourcetype.Provider) error {
	if provider == nil {
		return fmt.Errorf("no deployment provider resolved for resource type '%s'", rt.Name)
	}

	if err := d.ensureTools(ctx, provider); err != nil {
		return err
	}

	switch provider.Kind {
	case resourcetype.AzureSQLVMWizardProvider:
		return d.runWizard(ctx, "Deploy Azure SQL virtual machine", nil, provider.AzureSQLVMWizard.NotebookPath)
	case resourcetype.AzureSQLDBWizardProvider:
		return d.runWizard(ctx, "Deploy Azure SQL database", nil, provider.AzureSQLDBWizard.NotebookPath)
	case resourcetype.ClusterWizardProvider:
		return d.runWizard(ctx, "Deploy big data cluster", nil, provider.ClusterWizard.NotebookPath)
	case resourcetype.NotebookWizardProvider:
		info := provider.NotebookWizard
		return d.runWizard(ctx, info.Title, info.Pages, info.NotebookPath)
	case resourcetype.DialogProvider:
		return d.runDialog(ctx, provider.Dialog)
	case resourcetype.NotebookProvider:
		return d.notebooks.OpenNotebook(ctx, provider.Notebook.PathForPlatform(runtime.GOOS))
	case resourcetype.DownloadProvider:
		return d.runDownload(ctx, rt, provider.Download)
	case resourcetype.WebPageProvider:
		return d.browser.OpenURL(provider.WebPage.URL)
	case resourcetype.CommandProvider:
		return d.commands.ExecuteCommand(ctx, provider.Command.ID, provider.Command.Args...)
	default:
		return &resourcetype.UnrecognizedProviderError{ResourceType: rt.Name}
	}
}

// ensureTools verifies every tool the provider requires is installed.
func (d *Dispatcher) ensureTools(ctx context.Context, provider *resourcetype.Provider) error {
	missing := []string{}

	for _, required := range provider.RequiredTools {
		tool, ok := d.toolLookup.GetToolByName(required.Name)
		if !ok {
			missing = append(missing, required.Name)
			continue
		}

		installed, err := tool.CheckInstalled(ctx)
		if err != nil {
			return fmt.Errorf("checking for %s: %w", tool.DisplayName(), err)
		}

		if !installed {
			missing = append(missing, fmt.Sprintf("%s (install from %s)", tool.DisplayName(), tool.InstallUrl()))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required tools are missing: %s", strings.Join(missing, ", "))
	}

	return nil
}

// runWizard drives the wizard's pages as console prompts, publishes the
// collected variables into the process environment for the notebook to pick
// up, then opens the notebook.
func (d *Dispatcher) runWizard(ctx context.Context, title string, pages []resourcetype.DialogPage, notebookPath string) error {
	if title != "" {
		if err := d.console.Message(ctx, title); err != nil {
			return err
		}
	}

	values, err := d.promptPages(ctx, pages)
	if err != nil {
		return err
	}

	for variable, value := range values {
		if err := os.Setenv(variable, value); err != nil {
			return fmt.Errorf("setting variable '%s': %w", variable, err)
		}
	}

	return d.notebooks.OpenNotebook(ctx, notebookPath)
}

// runDialog drives the dialog's pages as console prompts and then executes
// the dialog's command, passing the collected variables as arguments.
func (d *Dispatcher) runDialog(ctx context.Context, dialog *resourcetype.DialogInfo) error {
	if err := d.console.Message(ctx, dialog.Title); err != nil {
		return err
	}

	values, err := d.promptPages(ctx, dialog.Pages)
	if err != nil {
		return err
	}

	if dialog.RunCommand == "" {
		log.Printf("dialog '%s' declares no command, nothing to run", dialog.Name)
		return nil
	}

	args := make([]string, 0, len(values))
	for variable, value := range values {
		args = append(args, fmt.Sprintf("%s=%s", variable, value))
	}

	return d.commands.ExecuteCommand(ctx, dialog.RunCommand, args...)
}

func (d *Dispatcher) promptPages(ctx context.Context, pages []resourcetype.DialogPage) (map[string]string, error) {
	values := map[string]string{}

	for _, page := range pages {
		if page.Title != "" {
			if err := d.console.Message(ctx, page.Title); err != nil {
				return nil, err
			}
		}

		for _, field := range page.Fields {
			value, err := d.promptField(ctx, field)
			if err != nil {
				return nil, err
			}

			values[field.Variable] = value
		}
	}

	return values, nil
}

func (d *Dispatcher) promptField(ctx context.Context, field resourcetype.DialogField) (string, error) {
	if len(field.Options) > 0 {
		index, err := d.console.Select(ctx, input.ConsoleOptions{
			Message:      field.Label,
			Options:      field.Options,
			DefaultValue: field.DefaultValue,
		})
		if err != nil {
			return "", err
		}

		return field.Options[index], nil
	}

	for {
		value, err := d.console.Prompt(ctx, input.ConsoleOptions{
			Message:      field.Label,
			DefaultValue: field.DefaultValue,
		})
		if err != nil {
			return "", err
		}

		if value != "" || !field.Required {
			return value, nil
		}

		if err := d.console.Message(ctx, fmt.Sprintf("%s is required", field.Label)); err != nil {
			return "", err
		}
	}
}

// runDownload downloads the referenced installer as a background operation
// and launches it with elevated privileges once the download completes.
func (d *Dispatcher) runDownload(ctx context.Context, rt *resourcetype.ResourceType, info *resourcetype.DownloadInfo) error {
	message := fmt.Sprintf("Deploying %s", rt.DisplayName)

	return d.operations.Run(ctx, message, func(ctx context.Context, op *operations.Operation) error {
		op.Progress(ctx, fmt.Sprintf("Downloading %s", info.URL), operations.StateDownloading)

		path, err := d.downloader.Download(ctx, info.URL)
		if err != nil {
			return err
		}

		op.Progress(ctx, fmt.Sprintf("Launching %s", path), operations.StateLaunching)

		runArgs := exec.NewRunArgs(path).
			WithElevated(true).
			WithInteractive(true)

		if _, err := d.commandRunner.Run(ctx, runArgs); err != nil {
			return fmt.Errorf("launching installer '%s': %w", path, err)
		}

		return nil
	})
}
