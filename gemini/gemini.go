// Package gemini wraps the Google GenAI SDK behind the small surface the
// query cycle needs.
package gemini

import (
	"context"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"
)

// Gemini content roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
	RoleTool  = "tool"
)

// ErrNoContentInResponse is returned when the model reply carries no
// candidates.
var ErrNoContentInResponse = errors.New("no content in generation response")

// Client is a Gemini API client bound to a default model.
type Client struct {
	client *genai.Client
	opts   Options
}

// New creates a new Gemini client.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	clientOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&clientOptions)
	}
	clientOptions.EnsureAuthPresent()
	if clientOptions.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  clientOptions.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create genai client")
	}

	return &Client{
		client: client,
		opts:   clientOptions,
	}, nil
}

// GetName returns the default model name.
func (g *Client) GetName() string {
	return g.opts.DefaultModel
}

// GenerateContent sends the ordered turns to the model and returns the raw
// response. Generation controls not set on the config are populated from
// the client defaults.
func (g *Client) GenerateContent(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	if config == nil {
		config = &genai.GenerateContentConfig{}
	}
	if config.CandidateCount == 0 {
		config.CandidateCount = int32(g.opts.DefaultCandidateCount)
	}
	if config.MaxOutputTokens == 0 {
		config.MaxOutputTokens = int32(g.opts.DefaultMaxTokens)
	}
	if config.Temperature == nil {
		config.Temperature = float32Ptr(float32(g.opts.DefaultTemperature))
	}
	if config.TopP == nil {
		config.TopP = float32Ptr(float32(g.opts.DefaultTopP))
	}
	if config.TopK == nil {
		config.TopK = float32Ptr(float32(g.opts.DefaultTopK))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.opts.DefaultModel, contents, config)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoContentInResponse
	}
	return resp, nil
}

func float32Ptr(f float32) *float32 {
	if f == 0 {
		return nil
	}
	return &f
}
