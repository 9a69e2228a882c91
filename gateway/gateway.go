// Package gateway owns the lifecycle of the connection to a tool-providing
// child process: launch, initialize handshake, tool calls, and teardown.
package gateway

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

var logger = xlog.NewPackageLogger("github.com/genbridge/toolbridge", "gateway")

// LaunchCommand picks the interpreter for the server script by file
// extension: ".py" runs under python, anything else under node. The
// choice is not validated; unsupported extensions fail at launch.
func LaunchCommand(scriptPath string) (string, []string) {
	if strings.EqualFold(filepath.Ext(scriptPath), ".py") {
		return "python", []string{scriptPath}
	}
	return "node", []string{scriptPath}
}

// Gateway is an initialized session with a tool-providing child process.
// It is owned by a single caller and must be released with Close.
type Gateway struct {
	client *mcp.Client
	cmd    *exec.Cmd
	stdin  io.WriteCloser

	closeOnce sync.Once
	closeErr  error
}

// Connect launches the server script, wires a stdio transport to it, and
// performs the initialize handshake. On handshake failure the child
// process is reaped before returning.
func Connect(ctx context.Context, scriptPath string) (*Gateway, error) {
	name, args := LaunchCommand(scriptPath)

	cmd := exec.Command(name, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stdout pipe")
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", name)
	}

	g := &Gateway{
		client: mcp.NewClient(stdio.NewStdioServerTransportWithIO(stdout, stdin)),
		cmd:    cmd,
		stdin:  stdin,
	}

	if _, err := g.client.Initialize(ctx); err != nil {
		_ = g.Close()
		return nil, errors.Wrap(err, "initialize handshake failed")
	}

	logger.KV(xlog.DEBUG, "status", "connected", "script", scriptPath, "interpreter", name)
	return g, nil
}

// Tools lists the tool descriptors exposed by the connected process.
func (g *Gateway) Tools(ctx context.Context) ([]mcp.ToolRetType, error) {
	resp, err := g.client.ListTools(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tools")
	}
	return resp.Tools, nil
}

// CallTool invokes the named tool with the given arguments and returns the
// textual content of the response.
func (g *Gateway) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	resp, err := g.client.CallTool(ctx, name, args)
	if err != nil {
		return "", errors.Wrapf(err, "tool %q failed", name)
	}
	return ContentText(resp), nil
}

// ContentText joins the text parts of a tool response.
func ContentText(resp *mcp.ToolResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, content := range resp.Content {
		if content != nil && content.TextContent != nil {
			parts = append(parts, content.TextContent.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Close releases the child process and its pipes. It is safe to call more
// than once; only the first call does the work.
func (g *Gateway) Close() error {
	g.closeOnce.Do(func() {
		// closing stdin lets a well-behaved server exit on its own
		if err := g.stdin.Close(); err != nil {
			g.closeErr = err
		}
		if g.cmd.Process != nil {
			_ = g.cmd.Process.Kill()
		}
		if err := g.cmd.Wait(); err != nil && g.closeErr == nil {
			// the kill above makes a non-zero exit expected
			logger.KV(xlog.DEBUG, "status", "server exited", "err", err.Error())
		}
	})
	return g.closeErr
}
