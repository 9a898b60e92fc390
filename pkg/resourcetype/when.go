// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resourcetype

import (
	"sort"
	"strings"
)

// EvaluateWhen evaluates a when clause against the options selected by the
// user. The clause language is a deliberately minimal conjunction of equality
// terms: "true" | "<option>=<value>" terms joined by "&&". No OR, NOT or
// nesting is supported.
//
// An empty clause and the literal "true" (case-insensitive) match
// unconditionally.
func EvaluateWhen(when string, selected []SelectedOption) bool {
	if when == "" || strings.EqualFold(when, "true") {
		return true
	}

	expected := parseWhen(when)

	actual := make(map[string]struct{}, len(selected))
	for _, sel := range selected {
		actual[sel.Option+"="+sel.Value] = struct{}{}
	}

	for _, clause := range expected {
		if _, ok := actual[clause]; !ok {
			return false
		}
	}

	return true
}

// parseWhen splits a when clause into its conjunction terms. Whitespace is
// insignificant and stripped entirely. Terms are sorted so diagnostic output
// derived from the parse is deterministic; conjunction makes the order
// irrelevant for evaluation.
func parseWhen(when string) []string {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, when)

	clauses := strings.Split(stripped, "&&")
	sort.Strings(clauses)

	return clauses
}
