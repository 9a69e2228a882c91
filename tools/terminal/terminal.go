// Package terminal exposes a single MCP tool that runs a shell command in
// a fixed workspace directory. There is no sandboxing, timeout, or
// allow-list: the command is executed with full shell interpretation, and
// hardening is an explicit non-goal of this example server.
package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/genbridge/toolbridge/schema"
	"github.com/genbridge/toolbridge/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

var logger = xlog.NewPackageLogger("github.com/genbridge/toolbridge", "terminal")

const ToolName = "run_command"

// RunCommandRequest is the tool input.
type RunCommandRequest struct {
	Command string `json:"command" jsonschema:"required,description=The shell command to execute in the workspace directory."`
}

// Tool runs shell commands in a workspace directory.
type Tool struct {
	name        string
	description string
	workdir     string
	funcParams  any
}

var _ tools.MCPTool[RunCommandRequest] = (*Tool)(nil)

// DefaultWorkspace returns the default working directory for commands.
func DefaultWorkspace() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "toolbridge", "output")
}

// New creates the tool rooted at workdir, creating the directory if
// needed. An empty workdir selects DefaultWorkspace.
func New(workdir string) (*Tool, error) {
	if workdir == "" {
		workdir = DefaultWorkspace()
	}
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create workspace %q", workdir)
	}

	sc, err := schema.New(reflect.TypeOf(RunCommandRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &Tool{
		name:        ToolName,
		description: "Run a terminal command in the workspace directory and return its output.",
		workdir:     workdir,
		funcParams:  sc.Parameters,
	}, nil
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return t.funcParams
}

// Workdir returns the directory commands run in.
func (t *Tool) Workdir() string {
	return t.workdir
}

// Call implements tools.ITool with a JSON-encoded request.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req RunCommandRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal input")
	}
	return t.Execute(ctx, req.Command), nil
}

// RunMCP executes the command and wraps the output as a tool response.
// Execution failures are returned as the response text, never as errors:
// the model, not the protocol, gets to see what went wrong.
func (t *Tool) RunMCP(ctx context.Context, req *RunCommandRequest) (*mcp.ToolResponse, error) {
	return mcp.NewToolResponse(mcp.NewTextContent(t.Execute(ctx, req.Command))), nil
}

// RegisterMCP registers the tool with an MCP server.
func (t *Tool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, func(args RunCommandRequest) (*mcp.ToolResponse, error) {
		return t.RunMCP(context.Background(), &args)
	})
}

// Execute runs the command under the shell in the workspace directory and
// returns stdout if non-empty, otherwise stderr, otherwise the stringified
// launch failure, otherwise the empty string.
func (t *Tool) Execute(ctx context.Context, command string) string {
	logger.KV(xlog.DEBUG, "command", command, "workdir", t.workdir)

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = t.workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stdout.Len() > 0 {
		return stdout.String()
	}
	if stderr.Len() > 0 {
		return stderr.String()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
