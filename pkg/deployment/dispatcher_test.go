// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package deployment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastudio-tools/resourcedeploy/pkg/exec"
	"github.com/datastudio-tools/resourcedeploy/pkg/input"
	"github.com/datastudio-tools/resourcedeploy/pkg/operations"
	"github.com/datastudio-tools/resourcedeploy/pkg/resourcetype"
	"github.com/datastudio-tools/resourcedeploy/pkg/tools"
)

type fakeConsole struct {
	messages        []string
	promptResponses []string
	selectResponse  int
}

func (c *fakeConsole) Message(ctx context.Context, message string) error {
	c.messages = append(c.messages, message)
	return nil
}

func (c *fakeConsole) Prompt(ctx context.Context, options input.ConsoleOptions) (string, error) {
	if len(c.promptResponses) == 0 {
		return "", fmt.Errorf("unexpected prompt: %s", options.Message)
	}

	response := c.promptResponses[0]
	c.promptResponses = c.promptResponses[1:]
	return response, nil
}

func (c *fakeConsole) Select(ctx context.Context, options input.ConsoleOptions) (int, error) {
	return c.selectResponse, nil
}

func (c *fakeConsole) Confirm(ctx context.Context, options input.ConsoleOptions) (bool, error) {
	return true, nil
}

type fakeNotebookService struct {
	opened []string
}

func (s *fakeNotebookService) OpenNotebook(ctx context.Context, path string) error {
	s.opened = append(s.opened, path)
	return nil
}

type fakeCommandService struct {
	executed []string
	args     [][]string
}

func (s *fakeCommandService) ExecuteCommand(ctx context.Context, id string, args ...string) error {
	s.executed = append(s.executed, id)
	s.args = append(s.args, args)
	return nil
}

type fakeBrowser struct {
	opened []string
}

func (b *fakeBrowser) OpenURL(url string) error {
	b.opened = append(b.opened, url)
	return nil
}

type fakeDownloader struct {
	path string
	err  error
}

func (d *fakeDownloader) Download(ctx context.Context, url string) (string, error) {
	return d.path, d.err
}

type fakeCommandRunner struct {
	runs []exec.RunArgs
}

func (r *fakeCommandRunner) Run(ctx context.Context, args exec.RunArgs) (exec.RunResult, error) {
	r.runs = append(r.runs, args)
	return exec.NewRunResult(0, "", ""), nil
}

type fakeTool struct {
	name      string
	installed bool
}

func (t *fakeTool) CheckInstalled(ctx context.Context) (bool, error) {
	return t.installed, nil
}

func (t *fakeTool) InstallUrl() string  { return "https://example.com/install/" + t.name }
func (t *fakeTool) Name() string        { return t.name }
func (t *fakeTool) DisplayName() string { return t.name }

type fakeToolLookup struct {
	tools map[string]tools.ExternalTool
}

func (l *fakeToolLookup) GetToolByName(name string) (tools.ExternalTool, bool) {
	tool, ok := l.tools[name]
	return tool, ok
}

type dispatcherFixture struct {
	console    *fakeConsole
	notebooks  *fakeNotebookService
	commands   *fakeCommandService
	browser    *fakeBrowser
	downloader *fakeDownloader
	runner     *fakeCommandRunner
	toolLookup *fakeToolLookup
	messages   []*operations.Message
	dispatcher *Dispatcher
}

func newDispatcherFixture() *dispatcherFixture {
	fixture := &dispatcherFixture{
		console:    &fakeConsole{},
		notebooks:  &fakeNotebookService{},
		commands:   &fakeCommandService{},
		browser:    &fakeBrowser{},
		downloader: &fakeDownloader{path: "/tmp/downloads/setup.exe"},
		runner:     &fakeCommandRunner{},
		toolLookup: &fakeToolLookup{tools: map[string]tools.ExternalTool{}},
	}

	manager := operations.NewManager(func(ctx context.Context, msg *operations.Message) {
		fixture.messages = append(fixture.messages, msg)
	})

	fixture.dispatcher = NewDispatcher(
		fixture.console,
		fixture.notebooks,
		fixture.commands,
		fixture.browser,
		fixture.downloader,
		fixture.runner,
		fixture.toolLookup,
		manager,
	)

	return fixture
}

func TestDispatchNilProvider(t *testing.T) {
	fixture := newDispatcherFixture()

	err := fixture.dispatcher.Dispatch(
		context.Background(), &resourcetype.ResourceType{Name: "sql-image"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sql-image")
}

func TestDispatchWebPage(t *testing.T) {
	fixture := newDispatcherFixture()

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "sql-windows-setup"},
		&resourcetype.Provider{
			Kind:    resourcetype.WebPageProvider,
			WebPage: &resourcetype.WebPageInfo{URL: "https://aka.ms/sql-downloads"},
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://aka.ms/sql-downloads"}, fixture.browser.opened)
}

func TestDispatchCommand(t *testing.T) {
	fixture := newDispatcherFixture()

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "sql-image"},
		&resourcetype.Provider{
			Kind:    resourcetype.CommandProvider,
			Command: &resourcetype.CommandInfo{ID: "mssql-deploy", Args: []string{"--local"}},
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"mssql-deploy"}, fixture.commands.executed)
	assert.Equal(t, [][]string{{"--local"}}, fixture.commands.args)
}

func TestDispatchNotebook(t *testing.T) {
	fixture := newDispatcherFixture()

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "sql-image"},
		&resourcetype.Provider{
			Kind:     resourcetype.NotebookProvider,
			Notebook: &resourcetype.NotebookInfo{Path: "notebooks/deploy-sql.ipynb"},
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"notebooks/deploy-sql.ipynb"}, fixture.notebooks.opened)
}

func TestDispatchWizardPublishesVariables(t *testing.T) {
	fixture := newDispatcherFixture()
	fixture.console.promptResponses = []string{"StrongPassw0rd!"}

	// Guard against the variable leaking out of the test process state.
	t.Setenv("SQL_SA_PASSWORD", "")

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "azure-sql-vm"},
		&resourcetype.Provider{
			Kind: resourcetype.NotebookWizardProvider,
			NotebookWizard: &resourcetype.NotebookWizardInfo{
				Title:        "Deploy SQL Server",
				NotebookPath: "notebooks/wizard.ipynb",
				Pages: []resourcetype.DialogPage{
					{
						Fields: []resourcetype.DialogField{
							{Label: "SA password", Variable: "SQL_SA_PASSWORD", Required: true},
						},
					},
				},
			},
		})
	require.NoError(t, err)

	assert.Equal(t, "StrongPassw0rd!", os.Getenv("SQL_SA_PASSWORD"))
	assert.Equal(t, []string{"notebooks/wizard.ipynb"}, fixture.notebooks.opened)
	assert.Contains(t, fixture.console.messages, "Deploy SQL Server")
}

func TestDispatchDialogRunsCommand(t *testing.T) {
	fixture := newDispatcherFixture()
	fixture.console.promptResponses = []string{"sql-container-1"}

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "sql-image"},
		&resourcetype.Provider{
			Kind: resourcetype.DialogProvider,
			Dialog: &resourcetype.DialogInfo{
				Name:       "deploy-container",
				Title:      "SQL Server container",
				RunCommand: "mssql-deploy",
				Pages: []resourcetype.DialogPage{
					{
						Fields: []resourcetype.DialogField{
							{Label: "Container name", Variable: "CONTAINER_NAME"},
						},
					},
				},
			},
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"mssql-deploy"}, fixture.commands.executed)
	assert.Equal(t, [][]string{{"CONTAINER_NAME=sql-container-1"}}, fixture.commands.args)
}

func TestRequiredFieldRePrompts(t *testing.T) {
	fixture := newDispatcherFixture()
	fixture.console.promptResponses = []string{"", "sql-box"}

	value, err := fixture.dispatcher.promptField(context.Background(), resourcetype.DialogField{
		Label:    "Name",
		Variable: "NAME",
		Required: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "sql-box", value)
	assert.Contains(t, fixture.console.messages, "Name is required")
}

func TestFieldWithOptionsSelects(t *testing.T) {
	fixture := newDispatcherFixture()
	fixture.console.selectResponse = 1

	value, err := fixture.dispatcher.promptField(context.Background(), resourcetype.DialogField{
		Label:   "Edition",
		Options: []string{"Developer", "Enterprise"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Enterprise", value)
}

func TestDispatchDownloadReportsLifecycle(t *testing.T) {
	fixture := newDispatcherFixture()

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "sql-windows-setup", DisplayName: "SQL Server on Windows"},
		&resourcetype.Provider{
			Kind:     resourcetype.DownloadProvider,
			Download: &resourcetype.DownloadInfo{URL: "https://example.com/setup.exe"},
		})
	require.NoError(t, err)

	states := make([]operations.StateKind, 0, len(fixture.messages))
	for _, msg := range fixture.messages {
		states = append(states, msg.State)
	}

	assert.Equal(t, []operations.StateKind{
		operations.StateInProgress,
		operations.StateDownloading,
		operations.StateLaunching,
		operations.StateSucceeded,
	}, states)

	// Every message of the operation shares one correlation id.
	for _, msg := range fixture.messages[1:] {
		assert.Equal(t, fixture.messages[0].CorrelationId, msg.CorrelationId)
	}

	require.Len(t, fixture.runner.runs, 1)
	launch := fixture.runner.runs[0]
	assert.Equal(t, "/tmp/downloads/setup.exe", launch.Cmd)
	assert.True(t, launch.Elevated)
	assert.True(t, launch.Interactive)
}

func TestDispatchDownloadFailure(t *testing.T) {
	fixture := newDispatcherFixture()
	fixture.downloader.err = errors.New("connection reset")

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "sql-windows-setup", DisplayName: "SQL Server on Windows"},
		&resourcetype.Provider{
			Kind:     resourcetype.DownloadProvider,
			Download: &resourcetype.DownloadInfo{URL: "https://example.com/setup.exe"},
		})
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")

	final := fixture.messages[len(fixture.messages)-1]
	assert.Equal(t, operations.StateFailed, final.State)
	assert.Equal(t, err, final.Err)
	assert.Empty(t, fixture.runner.runs)
}

func TestDispatchMissingTool(t *testing.T) {
	fixture := newDispatcherFixture()
	fixture.toolLookup.tools["docker"] = &fakeTool{name: "docker", installed: false}

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "sql-image"},
		&resourcetype.Provider{
			Kind:          resourcetype.WebPageProvider,
			WebPage:       &resourcetype.WebPageInfo{URL: "https://example.com"},
			RequiredTools: []resourcetype.ToolRequirement{{Name: "docker"}},
		})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required tools are missing")
	assert.Contains(t, err.Error(), "https://example.com/install/docker")
	assert.Empty(t, fixture.browser.opened)
}

func TestDispatchUnknownTool(t *testing.T) {
	fixture := newDispatcherFixture()

	err := fixture.dispatcher.Dispatch(
		context.Background(),
		&resourcetype.ResourceType{Name: "sql-image"},
		&resourcetype.Provider{
			Kind:          resourcetype.WebPageProvider,
			WebPage:       &resourcetype.WebPageInfo{URL: "https://example.com"},
			RequiredTools: []resourcetype.ToolRequirement{{Name: "mystery-tool"}},
		})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery-tool")
}
