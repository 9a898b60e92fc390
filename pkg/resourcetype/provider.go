// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resourcetype

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderKind identifies the deployment method of a provider. The set of
// kinds is closed: dispatch switches exhaustively over it, so a provider with
// no recognized kind can never reach dispatch.
type ProviderKind string

const (
	AzureSQLVMWizardProvider ProviderKind = "azure-sql-vm-wizard"
	AzureSQLDBWizardProvider ProviderKind = "azure-sql-db-wizard"
	ClusterWizardProvider    ProviderKind = "cluster-wizard"
	NotebookWizardProvider   ProviderKind = "notebook-wizard"
	DialogProvider           ProviderKind = "dialog"
	NotebookProvider         ProviderKind = "notebook"
	DownloadProvider         ProviderKind = "download"
	WebPageProvider          ProviderKind = "web-page"
	CommandProvider          ProviderKind = "command"
)

// Provider is one concrete way a resource type can be deployed. Exactly one
// of the payload fields is set, matching Kind. Providers are constructed once
// from registry metadata, mutated only to rewrite relative paths to absolute,
// and never deleted for the lifetime of the process.
type Provider struct {
	// When gates the provider on the options the user selected. Empty or
	// "true" matches unconditionally.
	When string `json:"when,omitempty"`

	RequiredTools []ToolRequirement `json:"requiredTools,omitempty"`

	Kind ProviderKind `json:"-"`

	AzureSQLVMWizard *AzureSQLVMWizardInfo `json:"azureSQLVMWizard,omitempty"`
	AzureSQLDBWizard *AzureSQLDBWizardInfo `json:"azureSQLDBWizard,omitempty"`
	ClusterWizard    *ClusterWizardInfo    `json:"bdcWizard,omitempty"`
	NotebookWizard   *NotebookWizardInfo   `json:"notebookWizard,omitempty"`
	Dialog           *DialogInfo           `json:"dialog,omitempty"`
	Notebook         *NotebookInfo         `json:"notebook,omitempty"`
	Download         *DownloadInfo         `json:"downloadUrl,omitempty"`
	WebPage          *WebPageInfo          `json:"webPageUrl,omitempty"`
	Command          *CommandInfo          `json:"command,omitempty"`
}

// AzureSQLVMWizardInfo configures the Azure SQL virtual machine deployment wizard.
type AzureSQLVMWizardInfo struct {
	NotebookPath string `json:"notebook"`
}

// AzureSQLDBWizardInfo configures the Azure SQL database deployment wizard.
type AzureSQLDBWizardInfo struct {
	NotebookPath string `json:"notebook,omitempty"`
}

// ClusterWizardInfo configures the big data cluster deployment wizard.
type ClusterWizardInfo struct {
	NotebookPath string `json:"notebook"`
	Type         string `json:"type,omitempty"`
}

// NotebookWizardInfo configures a generic notebook-backed wizard.
type NotebookWizardInfo struct {
	NotebookPath string       `json:"notebook"`
	DoneAction   string       `json:"doneAction,omitempty"`
	Title        string       `json:"title,omitempty"`
	Pages        []DialogPage `json:"pages,omitempty"`
}

// DialogInfo describes an input dialog: a title and a set of pages of fields
// the user fills in before the deployment runs.
type DialogInfo struct {
	Name       string       `json:"name"`
	Title      string       `json:"title"`
	OkButton   string       `json:"okButton,omitempty"`
	Pages      []DialogPage `json:"pages,omitempty"`
	RunCommand string       `json:"command,omitempty"`
}

// DialogPage groups fields of a dialog or notebook wizard.
type DialogPage struct {
	Title  string        `json:"title,omitempty"`
	Fields []DialogField `json:"fields,omitempty"`
}

// DialogField is one input of a dialog page.
type DialogField struct {
	Label        string   `json:"label"`
	Variable     string   `json:"variableName"`
	Type         string   `json:"type,omitempty"`
	DefaultValue string   `json:"defaultValue,omitempty"`
	Required     bool     `json:"required,omitempty"`
	Options      []string `json:"options,omitempty"`
}

// NotebookInfo references a notebook to open in the host. The path may be
// declared per platform.
type NotebookInfo struct {
	Path      string `json:"path,omitempty"`
	Win32     string `json:"win32,omitempty"`
	Darwin    string `json:"darwin,omitempty"`
	Linux     string `json:"linux,omitempty"`
	IsPackage bool   `json:"isPackage,omitempty"`
}

// PathForPlatform returns the notebook path for the given GOOS value, falling
// back to the platform-neutral path.
func (n *NotebookInfo) PathForPlatform(goos string) string {
	switch goos {
	case "windows":
		if n.Win32 != "" {
			return n.Win32
		}
	case "darwin":
		if n.Darwin != "" {
			return n.Darwin
		}
	default:
		if n.Linux != "" {
			return n.Linux
		}
	}

	return n.Path
}

// DownloadInfo references an installer to download and launch elevated.
type DownloadInfo struct {
	URL string `json:"url"`
}

func (d *DownloadInfo) UnmarshalJSON(data []byte) error {
	// A bare string and an object form are both accepted.
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		d.URL = url
		return nil
	}

	type raw DownloadInfo
	var parsed raw
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("downloadUrl must be a string or an object with a url field")
	}

	*d = DownloadInfo(parsed)
	return nil
}

// WebPageInfo references a web page to open with the host's external opener.
type WebPageInfo struct {
	URL string `json:"url"`
}

func (w *WebPageInfo) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		w.URL = url
		return nil
	}

	type raw WebPageInfo
	var parsed raw
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("webPageUrl must be a string or an object with a url field")
	}

	*w = WebPageInfo(parsed)
	return nil
}

// CommandInfo references a host command to execute.
type CommandInfo struct {
	ID   string   `json:"id"`
	Args []string `json:"args,omitempty"`
}

func (c *CommandInfo) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		c.ID = id
		return nil
	}

	type raw CommandInfo
	var parsed raw
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("command must be a string or an object with an id field")
	}

	*c = CommandInfo(parsed)
	return nil
}

// UnrecognizedProviderError is returned when a declared provider matches no
// recognized deployment method shape, or more than one.
type UnrecognizedProviderError struct {
	ResourceType string
	Matched      []ProviderKind
}

func (e *UnrecognizedProviderError) Error() string {
	if len(e.Matched) == 0 {
		return fmt.Sprintf("resource type '%s' has a provider with no recognized deployment method", e.ResourceType)
	}

	kinds := make([]string, len(e.Matched))
	for i, kind := range e.Matched {
		kinds[i] = string(kind)
	}

	return fmt.Sprintf(
		"resource type '%s' has a provider declaring multiple deployment methods: %s",
		e.ResourceType, strings.Join(kinds, ", "))
}

func (p *Provider) UnmarshalJSON(data []byte) error {
	type raw Provider
	var parsed raw
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	*p = Provider(parsed)
	p.Kind, _ = p.resolveKind()
	return nil
}

// resolveKind determines the provider kind from the single populated payload
// field. The bool result is false when zero or multiple payloads are set, in
// which case Kind is left empty and validation reports the provider.
func (p *Provider) resolveKind() (ProviderKind, bool) {
	matched := p.matchedKinds()
	if len(matched) != 1 {
		return "", false
	}

	return matched[0], true
}

func (p *Provider) matchedKinds() []ProviderKind {
	var matched []ProviderKind

	if p.AzureSQLVMWizard != nil {
		matched = append(matched, AzureSQLVMWizardProvider)
	}
	if p.AzureSQLDBWizard != nil {
		matched = append(matched, AzureSQLDBWizardProvider)
	}
	if p.ClusterWizard != nil {
		matched = append(matched, ClusterWizardProvider)
	}
	if p.NotebookWizard != nil {
		matched = append(matched, NotebookWizardProvider)
	}
	if p.Dialog != nil {
		matched = append(matched, DialogProvider)
	}
	if p.Notebook != nil {
		matched = append(matched, NotebookProvider)
	}
	if p.Download != nil {
		matched = append(matched, DownloadProvider)
	}
	if p.WebPage != nil {
		matched = append(matched, WebPageProvider)
	}
	if p.Command != nil {
		matched = append(matched, CommandProvider)
	}

	return matched
}
