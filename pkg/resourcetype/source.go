// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resourcetype

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/datastudio-tools/resourcedeploy/resources"
)

// Source provides resource type definitions to the registry.
type Source interface {
	// Name returns the name of the source.
	Name() string
	// Root returns the directory relative paths in the definitions resolve
	// against. Empty when the source has no local root.
	Root() string
	// ListResourceTypes returns the resource type definitions of the source.
	ListResourceTypes(ctx context.Context) ([]*ResourceType, error)
}

type jsonSource struct {
	name string
	root string
	data []byte
}

// NewJsonSource creates a source from raw registry JSON.
func NewJsonSource(name string, root string, data []byte) Source {
	return &jsonSource{
		name: name,
		root: root,
		data: data,
	}
}

// NewDefaultSource returns the source backed by the registry definitions
// compiled into the binary.
func NewDefaultSource() Source {
	return NewJsonSource("default", "", resources.ResourceTypesJson)
}

func (s *jsonSource) Name() string {
	return s.name
}

func (s *jsonSource) Root() string {
	return s.root
}

func (s *jsonSource) ListResourceTypes(ctx context.Context) ([]*ResourceType, error) {
	var document registryDocument
	if err := json.Unmarshal(s.data, &document); err != nil {
		return nil, fmt.Errorf("unable to unmarshal resource types JSON for source '%s': %w", s.name, err)
	}

	return document.ResourceTypes, nil
}

// registryDocument is the on disk shape of a registry file.
type registryDocument struct {
	ResourceTypes []*ResourceType `json:"resourceTypes"`
}

type fileSource struct {
	name string
	path string
}

// NewFileSource creates a source reading registry JSON from a local file.
// Relative paths in the definitions resolve against the file's directory.
func NewFileSource(name string, path string) Source {
	return &fileSource{
		name: name,
		path: path,
	}
}

func (s *fileSource) Name() string {
	return s.name
}

func (s *fileSource) Root() string {
	return filepath.Dir(s.path)
}

func (s *fileSource) ListResourceTypes(ctx context.Context) ([]*ResourceType, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading resource types from '%s': %w", s.path, err)
	}

	return NewJsonSource(s.name, s.Root(), data).ListResourceTypes(ctx)
}

type urlSource struct {
	name   string
	url    string
	client *http.Client
}

// NewUrlSource creates a source fetching registry JSON over HTTP. Passing a
// nil client uses the default client.
func NewUrlSource(name string, url string, client *http.Client) Source {
	if client == nil {
		client = http.DefaultClient
	}

	return &urlSource{
		name:   name,
		url:    url,
		client: client,
	}
}

func (s *urlSource) Name() string {
	return s.name
}

func (s *urlSource) Root() string {
	return ""
}

func (s *urlSource) ListResourceTypes(ctx context.Context) ([]*ResourceType, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for resource type source '%s': %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resource type source '%s' returned status code %d", s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response body for resource type source '%s': %w", s.url, err)
	}

	return NewJsonSource(s.name, "", data).ListResourceTypes(ctx)
}
