// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package input

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// Console abstracts the interactive prompts the deployment flows drive.
// Wizard and dialog providers collect their input through it.
type Console interface {
	Message(ctx context.Context, message string) error
	Prompt(ctx context.Context, options ConsoleOptions) (string, error)
	Select(ctx context.Context, options ConsoleOptions) (int, error)
	Confirm(ctx context.Context, options ConsoleOptions) (bool, error)
}

type ConsoleOptions struct {
	Message      string
	Options      []string
	DefaultValue any
}

// Asker poses a single survey prompt and stores the response. Tests provide
// canned askers instead of a terminal.
type Asker func(p survey.Prompt, response interface{}) error

// NewAsker returns an Asker backed by the terminal.
func NewAsker() Asker {
	return func(p survey.Prompt, response interface{}) error {
		return survey.AskOne(p, response)
	}
}

type AskerConsole struct {
	asker Asker
}

func NewConsole(asker Asker) *AskerConsole {
	return &AskerConsole{
		asker: asker,
	}
}

func (c *AskerConsole) Message(ctx context.Context, message string) error {
	_, err := fmt.Println(message)
	if err != nil {
		return fmt.Errorf("error printing line: %w", err)
	}

	return nil
}

func (c *AskerConsole) Prompt(ctx context.Context, options ConsoleOptions) (string, error) {
	var defaultValue string
	if value, ok := options.DefaultValue.(string); ok {
		defaultValue = value
	}

	prompt := &survey.Input{
		Message: options.Message,
		Default: defaultValue,
	}

	var response string

	if err := c.asker(prompt, &response); err != nil {
		return "", err
	}

	return response, nil
}

func (c *AskerConsole) Select(ctx context.Context, options ConsoleOptions) (int, error) {
	prompt := &survey.Select{
		Message: options.Message,
		Options: options.Options,
		Default: options.DefaultValue,
	}

	var response int

	if err := c.asker(prompt, &response); err != nil {
		return -1, err
	}

	return response, nil
}

func (c *AskerConsole) Confirm(ctx context.Context, options ConsoleOptions) (bool, error) {
	var defaultValue bool
	if value, ok := options.DefaultValue.(bool); ok {
		defaultValue = value
	}

	prompt := &survey.Confirm{
		Message: options.Message,
		Default: defaultValue,
	}

	var response bool

	if err := c.asker(prompt, &response); err != nil {
		return false, err
	}

	return response, nil
}
