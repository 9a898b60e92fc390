// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"context"
	"fmt"

	"github.com/cli/browser"
	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
)

// SystemBrowser opens URLs with the operating system's default browser.
type SystemBrowser struct{}

func NewSystemBrowser() *SystemBrowser {
	return &SystemBrowser{}
}

func (b *SystemBrowser) OpenURL(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("opening browser for '%s': %w", url, err)
	}

	return nil
}

// ExecNotebookService opens notebooks by handing them to the host editor's
// command line launcher.
type ExecNotebookService struct {
	commandRunner exec.CommandRunner
	launcher      string
}

// NewExecNotebookService creates a notebook service invoking the given
// launcher binary. Passing an empty launcher uses azuredatastudio.
func NewExecNotebookService(commandRunner exec.CommandRunner, launcher string) *ExecNotebookService {
	if launcher == "" {
		launcher = "azuredatastudio"
	}

	return &ExecNotebookService{
		commandRunner: commandRunner,
		launcher:      launcher,
	}
}

func (s *ExecNotebookService) OpenNotebook(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("no notebook path configured")
	}

	if _, err := s.commandRunner.Run(ctx, exec.NewRunArgs(s.launcher, path)); err != nil {
		return fmt.Errorf("opening notebook '%s': %w", path, err)
	}

	return nil
}

// ExecCommandService executes host commands as console commands.
type ExecCommandService struct {
	commandRunner exec.CommandRunner
}

func NewExecCommandService(commandRunner exec.CommandRunner) *ExecCommandService {
	return &ExecCommandService{
		commandRunner: commandRunner,
	}
}

func (s *ExecCommandService) ExecuteCommand(ctx context.Context, id string, args ...string) error {
	if _, err := s.commandRunner.Run(ctx, exec.NewRunArgs(id, args...).WithInteractive(true)); err != nil {
		return fmt.Errorf("executing command '%s': %w", id, err)
	}

	return nil
}
