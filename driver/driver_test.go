package driver_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/genbridge/toolbridge/driver"
	"github.com/genbridge/toolbridge/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModel struct {
	responses []*genai.GenerateContentResponse
	calls     [][]*genai.Content
	err       error
}

func (m *fakeModel) GenerateContent(_ context.Context, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls = append(m.calls, contents)
	if m.err != nil {
		return nil, m.err
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

type fakeInvoker struct {
	name   string
	args   map[string]any
	result string
	err    error
}

func (i *fakeInvoker) CallTool(_ context.Context, name string, args map[string]any) (string, error) {
	i.name = name
	i.args = args
	return i.result, i.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: gemini.RoleModel, Parts: parts}},
		},
	}
}

func toolCallResponse(name string, args map[string]any) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{
				Role: gemini.RoleModel,
				Parts: []*genai.Part{
					{FunctionCall: &genai.FunctionCall{Name: name, Args: args}},
				},
			}},
		},
	}
}

func TestProcessQueryTextOnly(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		textResponse("hello", "world"),
	}}
	d := driver.New(model, &fakeInvoker{}, nil)

	answer, err := d.ProcessQuery(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", answer)
	require.Len(t, model.calls, 1)

	// the composed turn wraps the query with the user role
	require.Len(t, model.calls[0], 1)
	assert.Equal(t, gemini.RoleUser, model.calls[0][0].Role)
	assert.Equal(t, "hi", model.calls[0][0].Parts[0].Text)
}

func TestProcessQueryToolCall(t *testing.T) {
	args := map[string]any{"command": "ls"}
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		toolCallResponse("run_command", args),
		textResponse("two files found"),
	}}
	invoker := &fakeInvoker{result: "a.txt\nb.txt"}
	d := driver.New(model, invoker, nil)

	answer, err := d.ProcessQuery(context.Background(), "list files")
	require.NoError(t, err)
	assert.Equal(t, "two files found", answer)

	assert.Equal(t, "run_command", invoker.name)
	assert.Equal(t, args, invoker.args)

	// resubmission carries exactly three turns: user, tool-call, tool-result
	require.Len(t, model.calls, 2)
	resubmitted := model.calls[1]
	require.Len(t, resubmitted, 3)

	assert.Equal(t, gemini.RoleUser, resubmitted[0].Role)
	assert.Equal(t, "list files", resubmitted[0].Parts[0].Text)

	assert.Equal(t, gemini.RoleModel, resubmitted[1].Role)
	require.NotNil(t, resubmitted[1].Parts[0].FunctionCall)
	assert.Equal(t, "run_command", resubmitted[1].Parts[0].FunctionCall.Name)

	assert.Equal(t, gemini.RoleTool, resubmitted[2].Role)
	fr := resubmitted[2].Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, "run_command", fr.Name)
	assert.Equal(t, map[string]any{"result": "a.txt\nb.txt"}, fr.Response)
}

func TestProcessQueryToolFailureIsReportedToModel(t *testing.T) {
	model := &fakeModel{responses: []*genai.GenerateContentResponse{
		toolCallResponse("run_command", map[string]any{"command": "boom"}),
		textResponse("the command failed because ..."),
	}}
	invoker := &fakeInvoker{err: errors.New("tool exploded")}
	d := driver.New(model, invoker, nil)

	answer, err := d.ProcessQuery(context.Background(), "do it")
	require.NoError(t, err, "tool failure must not abort the cycle")
	assert.Equal(t, "the command failed because ...", answer)

	fr := model.calls[1][2].Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, map[string]any{"error": "tool exploded"}, fr.Response)
}

func TestProcessQueryModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("rpc failed")}
	d := driver.New(model, &fakeInvoker{}, nil)

	_, err := d.ProcessQuery(context.Background(), "hi")
	assert.EqualError(t, err, "rpc failed")
}

func TestParseResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "before"},
				{FunctionCall: &genai.FunctionCall{Name: "t", Args: map[string]any{}}},
				{},
			}}},
			{Content: nil},
		},
	}
	parts := driver.ParseResponse(resp)
	require.Len(t, parts, 2)

	text, ok := parts[0].(driver.TextPart)
	require.True(t, ok)
	assert.Equal(t, "before", text.Text)

	call, ok := parts[1].(driver.ToolCallPart)
	require.True(t, ok)
	assert.Equal(t, "t", call.Name)
	assert.NotEmpty(t, call.ID)

	assert.Nil(t, driver.ParseResponse(nil))
}

func TestChatLoopQuit(t *testing.T) {
	for _, input := range []string{"quit", "QUIT", "  quit  "} {
		called := false
		process := func(context.Context, string) (string, error) {
			called = true
			return "", nil
		}
		var out strings.Builder
		err := driver.ChatLoop(context.Background(), strings.NewReader(input+"\n"), &out, process)
		require.NoError(t, err)
		assert.False(t, called, "input %q must not dispatch a query", input)
	}
}

func TestChatLoopDispatchesQueries(t *testing.T) {
	var queries []string
	process := func(_ context.Context, q string) (string, error) {
		queries = append(queries, q)
		return "answer to " + q, nil
	}

	var out strings.Builder
	err := driver.ChatLoop(context.Background(), strings.NewReader("one\ntwo\nquit\n"), &out, process)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, queries)
	assert.Contains(t, out.String(), "answer to one")
	assert.Contains(t, out.String(), "answer to two")
}

func TestChatLoopPropagatesProcessError(t *testing.T) {
	process := func(context.Context, string) (string, error) {
		return "", errors.New("transport broke")
	}
	var out strings.Builder
	err := driver.ChatLoop(context.Background(), strings.NewReader("hello\n"), &out, process)
	assert.EqualError(t, err, "transport broke")
}

func TestChatLoopEOF(t *testing.T) {
	var out strings.Builder
	err := driver.ChatLoop(context.Background(), strings.NewReader(""), &out, nil)
	assert.NoError(t, err)
}
