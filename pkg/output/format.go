// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Formatting options shared by tabular display output.
const (
	TableTabSize      = 8
	TablePadCharacter = ' '
	TableFlags        = 0
)

// Format identifies an output format for list commands.
type Format string

const (
	JsonFormat  Format = "json"
	TableFormat Format = "table"
)

// WriteJson writes obj to the writer as indented JSON followed by a newline.
func WriteJson(writer io.Writer, obj any) error {
	encoded, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}

	_, err = fmt.Fprintln(writer, string(encoded))
	return err
}

// Column describes one column of tabular output.
type Column struct {
	Heading string
	Value   func(row int) string
}

// WriteTable writes rows in aligned columns with a heading line.
func WriteTable(writer io.Writer, columns []Column, rowCount int) error {
	tabs := tabwriter.NewWriter(writer, 0, TableTabSize, 1, TablePadCharacter, TableFlags)

	for i, column := range columns {
		if i > 0 {
			if _, err := fmt.Fprint(tabs, "\t"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(tabs, column.Heading); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(tabs); err != nil {
		return err
	}

	for row := 0; row < rowCount; row++ {
		for i, column := range columns {
			if i > 0 {
				if _, err := fmt.Fprint(tabs, "\t"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprint(tabs, column.Value(row)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(tabs); err != nil {
			return err
		}
	}

	return tabs.Flush()
}
