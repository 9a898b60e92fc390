// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resourcetype

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/datastudio-tools/resourcedeploy/pkg/output"
)

// ResourceType describes a deployable offering contributed through registry
// metadata: a SQL Server container image, an Azure SQL database, a big data
// cluster and so on. A resource type exposes a set of configurable options and
// one or more deployment providers gated by when clauses over the values the
// user picked for those options.
type ResourceType struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`

	// Icon paths are declared relative to the registry source and rewritten
	// to absolute paths when the registry is loaded.
	Icon IconPath `json:"icon"`

	// Platforms restricts the resource type to a set of host platforms
	// (GOOS values). Empty or "*" means all platforms.
	Platforms PlatformList `json:"platforms,omitempty"`

	Options   []Option    `json:"options,omitempty"`
	Providers []*Provider `json:"providers"`

	// OkButtonText customizes the label of the confirmation action depending
	// on the selected options. The first rule whose when clause matches wins.
	OkButtonText []OkButtonRule `json:"okButtonText,omitempty"`

	// Source is the name of the registry source the resource type was loaded
	// from. Populated by the registry, not part of the declared metadata.
	Source string `json:"-"`
}

// IconPath carries the dark and light theme variants of a resource type icon.
type IconPath struct {
	Dark  string `json:"dark"`
	Light string `json:"light"`
}

// Option is a configurable choice presented to the user before deployment,
// e.g. "version" with values "2019"/"2022".
type Option struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"displayName"`
	Values      []OptionValue `json:"values"`
}

// OptionValue is one selectable value of an Option.
type OptionValue struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// OkButtonRule maps a when clause to a confirmation button label.
type OkButtonRule struct {
	When  string `json:"when"`
	Value string `json:"value"`
}

// ToolRequirement names an external tool a provider depends on, optionally
// with a minimum version.
type ToolRequirement struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// SelectedOption is one (option, value) pair chosen interactively by the user.
type SelectedOption struct {
	Option string
	Value  string
}

// PlatformList is a list of GOOS values. The registry metadata allows either
// a single string ("linux", or "*" for all) or an array of strings.
type PlatformList []string

func (p *PlatformList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = PlatformList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*p = PlatformList(many)
		return nil
	}

	return fmt.Errorf("platforms must be a string or an array of strings")
}

// Supports reports whether the list allows the given platform. An empty list
// and the wildcard "*" allow every platform.
func (p PlatformList) Supports(goos string) bool {
	if len(p) == 0 {
		return true
	}

	for _, platform := range p {
		if platform == "*" || strings.EqualFold(platform, goos) {
			return true
		}
	}

	return false
}

const defaultOkButtonText = "Select"

// OkButtonLabel returns the confirmation button label for the given selection.
// Rules are evaluated in declared order, first match wins.
func (rt *ResourceType) OkButtonLabel(selected []SelectedOption) string {
	for _, rule := range rt.OkButtonText {
		if EvaluateWhen(rule.When, selected) {
			return rule.Value
		}
	}

	return defaultOkButtonText
}

// SelectProvider returns the first provider, in declared order, whose when
// clause evaluates to true against the selected options. Returns nil when no
// provider matches; callers must not dispatch a nil provider.
func (rt *ResourceType) SelectProvider(selected []SelectedOption) *Provider {
	for _, provider := range rt.Providers {
		if EvaluateWhen(provider.When, selected) {
			return provider
		}
	}

	return nil
}

// Option returns the declared option with the given name.
func (rt *ResourceType) Option(name string) (Option, bool) {
	for _, option := range rt.Options {
		if option.Name == name {
			return option, true
		}
	}

	return Option{}, false
}

// Display writes a string representation of the resource type suitable for display.
func (rt *ResourceType) Display(writer io.Writer) error {
	tabs := tabwriter.NewWriter(
		writer,
		0,
		output.TableTabSize,
		1,
		output.TablePadCharacter,
		output.TableFlags)
	text := [][]string{
		{"Name", ":", rt.Name},
		{"Display Name", ":", rt.DisplayName},
		{"Description", ":", rt.Description},
		{"Source", ":", rt.Source},
		{"Platforms", ":", strings.Join(rt.Platforms, ", ")},
		{"Providers", ":", fmt.Sprint(len(rt.Providers))},
	}

	for _, line := range text {
		_, err := tabs.Write([]byte(strings.Join(line, "\t") + "\n"))
		if err != nil {
			return err
		}
	}

	return tabs.Flush()
}
