// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package tools

import (
	"context"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
)

// Docker is required by container based resource types such as the SQL Server
// container image.
type Docker struct {
	commandRunner exec.CommandRunner
}

func NewDocker(commandRunner exec.CommandRunner) *Docker {
	return &Docker{
		commandRunner: commandRunner,
	}
}

func (d *Docker) Name() string {
	return "docker"
}

func (d *Docker) DisplayName() string {
	return "Docker"
}

func (d *Docker) InstallUrl() string {
	return "https://docs.docker.com/engine/install/"
}

func (d *Docker) versionInfo() VersionInfo {
	return VersionInfo{
		MinimumVersion: semver.Version{
			Major: 18,
			Minor: 9,
			Patch: 0,
		},
		UpdateCommand: "Visit https://docs.docker.com/engine/release-notes/ to upgrade",
	}
}

func (d *Docker) CheckInstalled(ctx context.Context) (bool, error) {
	found, err := ToolInPath(d.Name())
	if !found {
		return false, err
	}

	res, err := d.commandRunner.Run(ctx, exec.NewRunArgs("docker", "--version"))
	if err != nil {
		return false, fmt.Errorf("checking docker version: %w", err)
	}

	version, err := ExtractVersion(res.Stdout)
	if err != nil {
		return false, fmt.Errorf("converting to semver version fails: %w", err)
	}

	requiredVersion := d.versionInfo()
	if version.LT(requiredVersion.MinimumVersion) {
		return false, &ErrSemver{ToolName: d.Name(), VersionInfo: requiredVersion}
	}

	return true, nil
}
