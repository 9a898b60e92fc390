// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package tools

import (
	"context"

	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
)

// AzCli is the Azure CLI, required by the Azure SQL wizard providers.
type AzCli struct {
	commandRunner exec.CommandRunner
}

func NewAzCli(commandRunner exec.CommandRunner) *AzCli {
	return &AzCli{
		commandRunner: commandRunner,
	}
}

func (cli *AzCli) Name() string {
	return "azure-cli"
}

func (cli *AzCli) DisplayName() string {
	return "Azure CLI"
}

func (cli *AzCli) InstallUrl() string {
	return "https://learn.microsoft.com/cli/azure/install-azure-cli"
}

func (cli *AzCli) CheckInstalled(ctx context.Context) (bool, error) {
	return ToolInPath("az")
}

// Kubectl is required by cluster based resource types.
type Kubectl struct {
	commandRunner exec.CommandRunner
}

func NewKubectl(commandRunner exec.CommandRunner) *Kubectl {
	return &Kubectl{
		commandRunner: commandRunner,
	}
}

func (k *Kubectl) Name() string {
	return "kubectl"
}

func (k *Kubectl) DisplayName() string {
	return "kubectl"
}

func (k *Kubectl) InstallUrl() string {
	return "https://kubernetes.io/docs/tasks/tools/"
}

func (k *Kubectl) CheckInstalled(ctx context.Context) (bool, error) {
	return ToolInPath("kubectl")
}
