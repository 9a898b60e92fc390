// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resourcetype

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

var ErrResourceTypeNotFound = errors.New("resource type not found")

// Registry holds the resource types contributed by the configured sources.
// It is populated once at construction and read only afterwards; construct a
// new registry to pick up source changes.
type Registry struct {
	resourceTypes []*ResourceType
}

// NewRegistry loads resource types from the given sources, rewrites relative
// icon and notebook paths to absolute ones, and drops definitions not
// supported on the current platform.
func NewRegistry(ctx context.Context, sources ...Source) (*Registry, error) {
	return newRegistryForPlatform(ctx, runtime.GOOS, sources...)
}

func newRegistryForPlatform(ctx context.Context, goos string, sources ...Source) (*Registry, error) {
	registry := &Registry{}

	for _, source := range sources {
		resourceTypes, err := source.ListResourceTypes(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading resource types from source '%s': %w", source.Name(), err)
		}

		for _, rt := range resourceTypes {
			if !rt.Platforms.Supports(goos) {
				continue
			}

			rt.Source = source.Name()
			resolvePaths(rt, source.Root())
			registry.resourceTypes = append(registry.resourceTypes, rt)
		}
	}

	return registry, nil
}

// List returns the registered resource types in declared order.
func (r *Registry) List() []*ResourceType {
	result := make([]*ResourceType, len(r.resourceTypes))
	copy(result, r.resourceTypes)
	return result
}

// Get returns the resource type with the given name.
func (r *Registry) Get(name string) (*ResourceType, error) {
	for _, rt := range r.resourceTypes {
		if strings.EqualFold(rt.Name, name) {
			return rt, nil
		}
	}

	return nil, fmt.Errorf("'%s': %w", name, ErrResourceTypeNotFound)
}

// Validate runs the registry content through Validate.
func (r *Registry) Validate(toolLookup ToolLookup) []string {
	return Validate(r.resourceTypes, toolLookup)
}

// resolvePaths rewrites the relative paths of a resource type definition to
// absolute paths against the source root. This is the only mutation resource
// types undergo after load.
func resolvePaths(rt *ResourceType, root string) {
	rt.Icon.Dark = absolutePath(rt.Icon.Dark, root)
	rt.Icon.Light = absolutePath(rt.Icon.Light, root)

	for _, provider := range rt.Providers {
		switch {
		case provider.AzureSQLVMWizard != nil:
			provider.AzureSQLVMWizard.NotebookPath = absolutePath(provider.AzureSQLVMWizard.NotebookPath, root)
		case provider.AzureSQLDBWizard != nil:
			provider.AzureSQLDBWizard.NotebookPath = absolutePath(provider.AzureSQLDBWizard.NotebookPath, root)
		case provider.ClusterWizard != nil:
			provider.ClusterWizard.NotebookPath = absolutePath(provider.ClusterWizard.NotebookPath, root)
		case provider.NotebookWizard != nil:
			provider.NotebookWizard.NotebookPath = absolutePath(provider.NotebookWizard.NotebookPath, root)
		case provider.Notebook != nil:
			provider.Notebook.Path = absolutePath(provider.Notebook.Path, root)
			provider.Notebook.Win32 = absolutePath(provider.Notebook.Win32, root)
			provider.Notebook.Darwin = absolutePath(provider.Notebook.Darwin, root)
			provider.Notebook.Linux = absolutePath(provider.Notebook.Linux, root)
		}
	}
}

func absolutePath(path string, root string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	if root != "" {
		return filepath.Join(root, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return abs
}
