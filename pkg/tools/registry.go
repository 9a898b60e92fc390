// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package tools

import (
	"sort"
	"strings"

	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
)

// Registry resolves external tools by the name resource type metadata refers
// to them with. It is constructed explicitly at startup and passed to the
// consumers that need tool lookup; there is no process wide registry.
type Registry struct {
	tools map[string]ExternalTool
}

// NewRegistry creates a registry holding the well known tools.
func NewRegistry(commandRunner exec.CommandRunner) *Registry {
	registry := &Registry{
		tools: map[string]ExternalTool{},
	}

	registry.Register(NewDocker(commandRunner))
	registry.Register(NewAzCli(commandRunner))
	registry.Register(NewKubectl(commandRunner))

	return registry
}

// Register adds a tool to the registry, replacing any tool previously
// registered under the same name. Names are case-insensitive.
func (r *Registry) Register(tool ExternalTool) {
	r.tools[strings.ToLower(tool.Name())] = tool
}

// GetToolByName returns the tool registered under the given name.
func (r *Registry) GetToolByName(name string) (ExternalTool, bool) {
	tool, ok := r.tools[strings.ToLower(name)]
	return tool, ok
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
