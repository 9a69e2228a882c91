// Package tools defines the tool contracts used by the toolbridge binaries.
package tools

import (
	"context"

	"github.com/genbridge/toolbridge/llmutils"
	mcp "github.com/metoro-io/mcp-golang"
)

// McpServerRegistrator registers tools with an MCP server.
type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a capability exposed to an LLM agent.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the parameters definition of the function, to be used in the prompt.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the result.
	Call(context.Context, string) (string, error)
}

// IMCPTool is an ITool that can also be registered with an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

type MCPTool[I any] interface {
	IMCPTool
	RunMCP(context.Context, *I) (*mcp.ToolResponse, error)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
