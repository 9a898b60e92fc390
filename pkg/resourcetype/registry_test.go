// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resourcetype

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegistryJson = `{
	"resourceTypes": [
		{
			"name": "sql-image",
			"displayName": "SQL Server container image",
			"icon": {"dark": "images/dark.svg", "light": "images/light.svg"},
			"providers": [
				{"notebook": {"path": "notebooks/deploy.ipynb"}}
			]
		},
		{
			"name": "windows-only",
			"displayName": "Windows only",
			"platforms": "windows",
			"icon": {"dark": "images/dark.svg", "light": "images/light.svg"},
			"providers": [
				{"downloadUrl": "https://example.com/setup.exe"}
			]
		}
	]
}`

func TestRegistryFiltersByPlatform(t *testing.T) {
	source := NewJsonSource("test", "", []byte(testRegistryJson))

	registry, err := newRegistryForPlatform(context.Background(), "linux", source)
	require.NoError(t, err)

	names := []string{}
	for _, rt := range registry.List() {
		names = append(names, rt.Name)
	}
	assert.Equal(t, []string{"sql-image"}, names)

	registry, err = newRegistryForPlatform(context.Background(), "windows", source)
	require.NoError(t, err)
	assert.Len(t, registry.List(), 2)
}

func TestRegistryResolvesRelativePaths(t *testing.T) {
	source := NewJsonSource("test", "/opt/definitions", []byte(testRegistryJson))

	registry, err := newRegistryForPlatform(context.Background(), "linux", source)
	require.NoError(t, err)

	rt, err := registry.Get("sql-image")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/opt/definitions", "images/dark.svg"), rt.Icon.Dark)
	assert.Equal(t, filepath.Join("/opt/definitions", "images/light.svg"), rt.Icon.Light)
	assert.Equal(t, filepath.Join("/opt/definitions", "notebooks/deploy.ipynb"), rt.Providers[0].Notebook.Path)
	assert.Equal(t, "test", rt.Source)
}

func TestRegistryGetUnknownName(t *testing.T) {
	registry, err := newRegistryForPlatform(
		context.Background(), "linux", NewJsonSource("test", "", []byte(testRegistryJson)))
	require.NoError(t, err)

	_, err = registry.Get("no-such-type")
	assert.ErrorIs(t, err, ErrResourceTypeNotFound)
}

func TestDefaultSourceParses(t *testing.T) {
	resourceTypes, err := NewDefaultSource().ListResourceTypes(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, resourceTypes)
	assert.Empty(t, Validate(resourceTypes, nil))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resource-types.json")
	require.NoError(t, os.WriteFile(path, []byte(testRegistryJson), 0600))

	source := NewFileSource("local", path)
	assert.Equal(t, dir, source.Root())

	resourceTypes, err := source.ListResourceTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, resourceTypes, 2)
}

func TestUrlSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testRegistryJson))
	}))
	defer server.Close()

	source := NewUrlSource("remote", server.URL, server.Client())

	resourceTypes, err := source.ListResourceTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, resourceTypes, 2)
}

func TestUrlSourceNonOkStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewUrlSource("remote", server.URL, server.Client()).ListResourceTypes(context.Background())
	assert.ErrorContains(t, err, "500")
}

func TestSelectProviderFirstMatchWins(t *testing.T) {
	first := &Provider{Kind: WebPageProvider, WebPage: &WebPageInfo{URL: "https://first.example.com"}}
	second := &Provider{Kind: WebPageProvider, WebPage: &WebPageInfo{URL: "https://second.example.com"}}

	rt := &ResourceType{
		Name:      "sample",
		Providers: []*Provider{first, second},
	}

	// Both providers match unconditionally; the earlier one wins.
	assert.Same(t, first, rt.SelectProvider(nil))
}

func TestSelectProviderByWhenClause(t *testing.T) {
	gated := &Provider{
		When:    "version=sql2019",
		Kind:    NotebookProvider,
		Notebook: &NotebookInfo{Path: "deploy-2019.ipynb"},
	}
	fallback := &Provider{
		Kind:    WebPageProvider,
		WebPage: &WebPageInfo{URL: "https://example.com"},
	}

	rt := &ResourceType{
		Name:      "sample",
		Providers: []*Provider{gated, fallback},
	}

	assert.Same(t, gated, rt.SelectProvider([]SelectedOption{{Option: "version", Value: "sql2019"}}))
	assert.Same(t, fallback, rt.SelectProvider([]SelectedOption{{Option: "version", Value: "sql2022"}}))
}

func TestSelectProviderNoMatch(t *testing.T) {
	rt := &ResourceType{
		Name: "sample",
		Providers: []*Provider{
			{When: "a=1", Kind: WebPageProvider, WebPage: &WebPageInfo{URL: "https://example.com"}},
		},
	}

	assert.Nil(t, rt.SelectProvider(nil))
}

func TestOkButtonLabel(t *testing.T) {
	rt := &ResourceType{
		Name: "sample",
		OkButtonText: []OkButtonRule{
			{When: "edition=developer", Value: "Install"},
			{When: "true", Value: "Deploy"},
		},
	}

	assert.Equal(t, "Install", rt.OkButtonLabel([]SelectedOption{{Option: "edition", Value: "developer"}}))
	assert.Equal(t, "Deploy", rt.OkButtonLabel([]SelectedOption{{Option: "edition", Value: "evaluation"}}))
	assert.Equal(t, "Select", (&ResourceType{}).OkButtonLabel(nil))
}
