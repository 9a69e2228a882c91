// Package bridge converts MCP tool descriptors into Gemini function
// declarations.
package bridge

import (
	mcp "github.com/metoro-io/mcp-golang"
	"google.golang.org/genai"
)

// CleanSchema strips the presentational "title" field from a JSON schema,
// recursing into every nested "properties" entry. The schema is modified
// in place and returned. Cleaning is idempotent.
func CleanSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	delete(schema, "title")

	if props, ok := schema["properties"].(map[string]any); ok {
		for key, val := range props {
			if child, ok := val.(map[string]any); ok {
				props[key] = CleanSchema(child)
			}
		}
	}

	return schema
}

// FunctionDeclarations converts MCP tool descriptors to Gemini tools,
// one function declaration per descriptor, order preserved. Schemas are
// cleaned but not validated; malformed schemas pass through as far as
// the genai types allow.
func FunctionDeclarations(descriptors []mcp.ToolRetType) []*genai.Tool {
	genaiTools := make([]*genai.Tool, 0, len(descriptors))
	for _, tool := range descriptors {
		decl := &genai.FunctionDeclaration{
			Name: tool.Name,
		}
		if tool.Description != nil {
			decl.Description = *tool.Description
		}
		if params, ok := tool.InputSchema.(map[string]any); ok {
			decl.Parameters = convertSchema(CleanSchema(params))
		}

		genaiTools = append(genaiTools, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{decl},
		})
	}
	return genaiTools
}

// convertSchema maps a JSON-schema-like mapping to a genai.Schema.
func convertSchema(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}

	out := &genai.Schema{}
	if typ, ok := m["type"].(string); ok {
		out.Type = convertSchemaType(typ)
	}
	if desc, ok := m["description"].(string); ok {
		out.Description = desc
	}
	if format, ok := m["format"].(string); ok {
		out.Format = format
	}
	out.Required = stringSlice(m["required"])
	out.Enum = stringSlice(m["enum"])

	if props, ok := m["properties"].(map[string]any); ok && len(props) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for key, val := range props {
			if child, ok := val.(map[string]any); ok {
				out.Properties[key] = convertSchema(child)
			}
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		out.Items = convertSchema(items)
	}

	return out
}

func convertSchemaType(ty string) genai.Type {
	switch ty {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

func stringSlice(val any) []string {
	list, ok := val.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
