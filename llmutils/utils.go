package llmutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// JSONIndent re-indents a JSON body for display.
// Invalid JSON is returned unchanged.
func JSONIndent(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "\t"); err != nil {
		return body
	}
	return buf.String()
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func ToYAML(val any) string {
	js, _ := yaml.Marshal(val)
	return string(js)
}

func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}

type Stringer interface {
	String() string
}

// Stringify renders a value for display. Values that cannot be
// marshaled fall back to the plain fmt rendering.
func Stringify(s any) string {
	if v, ok := s.(Stringer); ok {
		return v.String()
	}
	if v, ok := s.(string); ok {
		return v
	}
	js, err := json.MarshalIndent(s, "", "\t")
	if err != nil {
		return fmt.Sprintf("%v", s)
	}
	return BackticksJSON(string(js))
}
