// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
)

func TestRegistryWellKnownTools(t *testing.T) {
	registry := NewRegistry(exec.NewCommandRunner(nil))

	assert.Equal(t, []string{"azure-cli", "docker", "kubectl"}, registry.Names())

	tool, ok := registry.GetToolByName("docker")
	require.True(t, ok)
	assert.Equal(t, "Docker", tool.DisplayName())
}

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	registry := NewRegistry(exec.NewCommandRunner(nil))

	tool, ok := registry.GetToolByName("Azure-CLI")
	require.True(t, ok)
	assert.Equal(t, "azure-cli", tool.Name())

	_, ok = registry.GetToolByName("terraform")
	assert.False(t, ok)
}

func TestRegisterReplacesExisting(t *testing.T) {
	registry := NewRegistry(exec.NewCommandRunner(nil))
	before := len(registry.Names())

	registry.Register(NewDocker(exec.NewCommandRunner(nil)))
	assert.Len(t, registry.Names(), before)
}
