// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resourcetype

import (
	"fmt"
	"strings"

	"github.com/datastudio-tools/resourcedeploy/pkg/tools"
)

// ToolLookup resolves external tools referenced by provider metadata.
type ToolLookup interface {
	// GetToolByName returns the tool registered under the given name, or
	// false when no such tool is known.
	GetToolByName(name string) (tools.ExternalTool, bool)
}

// Validate checks a set of resource type definitions and returns every
// violation found as a developer-facing diagnostic string. It never stops at
// the first error and never returns an error itself; an empty result means
// the definitions are valid.
//
// The messages are diagnostics for the contributing developer, not end-user
// text, and are intentionally not localized.
func Validate(resourceTypes []*ResourceType, toolLookup ToolLookup) []string {
	errors := []string{}

	if len(resourceTypes) == 0 {
		return append(errors, "no resource types found, the resource type list is empty")
	}

	for _, rt := range resourceTypes {
		errors = append(errors, validateResourceType(rt, toolLookup)...)
	}

	return errors
}

func validateResourceType(rt *ResourceType, toolLookup ToolLookup) []string {
	errors := []string{}

	if rt.Name == "" {
		errors = append(errors, fmt.Sprintf("resource type '%s' has no name", rt.DisplayName))
	}

	if rt.DisplayName == "" {
		errors = append(errors, fmt.Sprintf("resource type '%s' has no display name", rt.Name))
	}

	if rt.Icon.Dark == "" || rt.Icon.Light == "" {
		errors = append(errors,
			fmt.Sprintf("resource type '%s' must declare both dark and light icon paths", rt.Name))
	}

	for _, option := range rt.Options {
		errors = append(errors, validateOption(rt, option)...)
	}

	errors = append(errors, validateProviders(rt, toolLookup)...)

	return errors
}

func validateOption(rt *ResourceType, option Option) []string {
	errors := []string{}

	if option.Name == "" {
		errors = append(errors, fmt.Sprintf("resource type '%s' has an option with no name", rt.Name))
	}

	if option.DisplayName == "" {
		errors = append(errors,
			fmt.Sprintf("option '%s' of resource type '%s' has no display name", option.Name, rt.Name))
	}

	for _, value := range option.Values {
		if value.Name == "" {
			errors = append(errors,
				fmt.Sprintf("option '%s' of resource type '%s' has a value with no name", option.Name, rt.Name))
		}

		if value.DisplayName == "" {
			errors = append(errors,
				fmt.Sprintf("value '%s' of option '%s' of resource type '%s' has no display name",
					value.Name, option.Name, rt.Name))
		}
	}

	errors = append(errors, duplicateValueErrors(rt, option, "name", func(v OptionValue) string {
		return v.Name
	})...)
	errors = append(errors, duplicateValueErrors(rt, option, "display name", func(v OptionValue) string {
		return v.DisplayName
	})...)

	return errors
}

// duplicateValueErrors reports option values sharing the same key. Positions
// in the message are 1-based and list every conflicting entry.
func duplicateValueErrors(rt *ResourceType, option Option, kind string, key func(OptionValue) string) []string {
	positions := map[string][]int{}
	order := []string{}

	for i, value := range option.Values {
		k := key(value)
		if k == "" {
			continue
		}

		if _, seen := positions[k]; !seen {
			order = append(order, k)
		}
		positions[k] = append(positions[k], i+1)
	}

	errors := []string{}
	for _, k := range order {
		at := positions[k]
		if len(at) < 2 {
			continue
		}

		places := make([]string, len(at))
		for i, pos := range at {
			places[i] = fmt.Sprint(pos)
		}

		errors = append(errors, fmt.Sprintf(
			"option '%s' of resource type '%s' has duplicate value %s '%s' at positions %s",
			option.Name, rt.Name, kind, k, strings.Join(places, ", ")))
	}

	return errors
}

func validateProviders(rt *ResourceType, toolLookup ToolLookup) []string {
	errors := []string{}

	if len(rt.Providers) == 0 {
		return append(errors, fmt.Sprintf("resource type '%s' declares no deployment providers", rt.Name))
	}

	for i, provider := range rt.Providers {
		if _, ok := provider.resolveKind(); !ok {
			unrecognized := &UnrecognizedProviderError{
				ResourceType: rt.Name,
				Matched:      provider.matchedKinds(),
			}
			errors = append(errors, fmt.Sprintf("provider %d: %s", i+1, unrecognized.Error()))
		}

		for _, required := range provider.RequiredTools {
			if toolLookup == nil {
				continue
			}

			if _, ok := toolLookup.GetToolByName(required.Name); !ok {
				errors = append(errors, fmt.Sprintf(
					"provider %d of resource type '%s' requires unknown tool '%s'",
					i+1, rt.Name, required.Name))
			}
		}
	}

	return errors
}
