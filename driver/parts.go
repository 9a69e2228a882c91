package driver

import (
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// ResponsePart is a tagged variant of a model response part: either plain
// text or a tool-call request. Parsing happens once at this boundary so
// downstream logic can switch exhaustively instead of probing fields.
type ResponsePart interface {
	isResponsePart()
}

// TextPart is a plain text fragment of a model response.
type TextPart struct {
	Text string
}

func (TextPart) isResponsePart() {}

// ToolCallPart is a model request to invoke a named tool.
type ToolCallPart struct {
	// ID identifies this call in logs.
	ID   string
	Name string
	Args map[string]any
}

func (ToolCallPart) isResponsePart() {}

// ParseResponse flattens the candidates of a model response into ordered
// tagged parts. Parts that are neither text nor a function call are
// dropped.
func ParseResponse(resp *genai.GenerateContentResponse) []ResponsePart {
	if resp == nil {
		return nil
	}
	var parts []ResponsePart
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			switch {
			case part.FunctionCall != nil:
				parts = append(parts, ToolCallPart{
					ID:   uuid.NewString(),
					Name: part.FunctionCall.Name,
					Args: part.FunctionCall.Args,
				})
			case part.Text != "":
				parts = append(parts, TextPart{Text: part.Text})
			}
		}
	}
	return parts
}

// firstText returns the text of the first part of the first candidate,
// or empty when the response leads with anything else.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return ""
	}
	return content.Parts[0].Text
}
