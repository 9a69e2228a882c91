// Package driver runs the query cycle: one user utterance in, tool
// declarations to the model, at most one tool invocation, final answer out.
package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/effective-security/xlog"
	"github.com/genbridge/toolbridge/gemini"
	"github.com/genbridge/toolbridge/llmutils"
	"google.golang.org/genai"
)

var logger = xlog.NewPackageLogger("github.com/genbridge/toolbridge", "driver")

// Model generates content from ordered turns.
type Model interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ToolInvoker executes a named tool with model-supplied arguments.
type ToolInvoker interface {
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// Driver processes user queries to completion against a model and a tool
// session.
type Driver struct {
	model   Model
	invoker ToolInvoker
	tools   []*genai.Tool
}

// New creates a Driver over the given model, tool session, and function
// declarations.
func New(model Model, invoker ToolInvoker, tools []*genai.Tool) *Driver {
	return &Driver{
		model:   model,
		invoker: invoker,
		tools:   tools,
	}
}

// ProcessQuery runs one query to completion and returns the final textual
// answer. A requested tool call is executed and its result resubmitted to
// the model; a failed tool call is reported to the model as the tool
// result, never to the caller. Only the first tool call per query is
// followed; a model that chains a second call from the resubmission is not
// followed further.
func (d *Driver) ProcessQuery(ctx context.Context, query string) (string, error) {
	userTurn := &genai.Content{
		Role:  gemini.RoleUser,
		Parts: []*genai.Part{{Text: query}},
	}
	config := &genai.GenerateContentConfig{
		Tools: d.tools,
	}

	resp, err := d.model.GenerateContent(ctx, []*genai.Content{userTurn}, config)
	if err != nil {
		return "", err
	}

	var finalText []string
	for _, part := range ParseResponse(resp) {
		switch p := part.(type) {
		case TextPart:
			finalText = append(finalText, p.Text)

		case ToolCallPart:
			logger.KV(xlog.INFO, "tool", p.Name, "call", p.ID, "args", llmutils.Stringify(p.Args))

			response := map[string]any{}
			if result, err := d.invoker.CallTool(ctx, p.Name, p.Args); err != nil {
				response["error"] = err.Error()
			} else {
				response["result"] = result
				logger.KV(xlog.DEBUG, "tool", p.Name, "result", llmutils.JSONIndent(result))
			}

			callTurn := &genai.Content{
				Role: gemini.RoleModel,
				Parts: []*genai.Part{{
					FunctionCall: &genai.FunctionCall{Name: p.Name, Args: p.Args},
				}},
			}
			resultTurn := &genai.Content{
				Role: gemini.RoleTool,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{Name: p.Name, Response: response},
				}},
			}

			final, err := d.model.GenerateContent(ctx, []*genai.Content{userTurn, callTurn, resultTurn}, config)
			if err != nil {
				return "", err
			}
			finalText = append(finalText, firstText(final))
		}
	}

	return strings.Join(finalText, "\n"), nil
}

// ChatLoop reads queries from r one line at a time and writes answers to w.
// The literal input "quit" (case-insensitive, whitespace-trimmed) exits
// without dispatching a query. A process error ends the loop and propagates
// to the caller.
func ChatLoop(ctx context.Context, r io.Reader, w io.Writer, process func(context.Context, string) (string, error)) error {
	fmt.Fprintln(w, "MCP client started. Type 'quit' to exit.")

	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "\nQuery: ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(query, "quit") {
			return nil
		}

		answer, err := process(ctx, query)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "\n"+answer)
	}
}
