package gemini

import "os"

// Options is the set of options for the Gemini client.
type Options struct {
	APIKey                string
	DefaultModel          string
	DefaultCandidateCount int
	DefaultMaxTokens      int
	DefaultTemperature    float64
	DefaultTopK           int
	DefaultTopP           float64
}

func DefaultOptions() Options {
	return Options{
		DefaultModel:          "gemini-2.5-flash",
		DefaultCandidateCount: 1,
		DefaultTemperature:    0,
		DefaultTopK:           3,
		DefaultTopP:           0.95,
	}
}

// EnsureAuthPresent falls back to the GEMINI_API_KEY environment variable
// when no key was passed explicitly.
func (o *Options) EnsureAuthPresent() {
	if o.APIKey == "" {
		o.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

type Option func(*Options)

// WithAPIKey passes the API key (token) to the client.
func WithAPIKey(apiKey string) Option {
	return func(opts *Options) {
		opts.APIKey = apiKey
	}
}

// WithDefaultModel passes a default content model name to the client. This
// model name is used if not explicitly provided in specific invocations.
func WithDefaultModel(defaultModel string) Option {
	return func(opts *Options) {
		if defaultModel != "" {
			opts.DefaultModel = defaultModel
		}
	}
}

// WithDefaultCandidateCount sets the candidate count for the model.
func WithDefaultCandidateCount(count int) Option {
	return func(opts *Options) {
		opts.DefaultCandidateCount = count
	}
}

// WithDefaultMaxTokens sets the maximum token count for the model.
func WithDefaultMaxTokens(maxTokens int) Option {
	return func(opts *Options) {
		opts.DefaultMaxTokens = maxTokens
	}
}

// WithDefaultTemperature sets the sampling temperature for the model.
func WithDefaultTemperature(temperature float64) Option {
	return func(opts *Options) {
		opts.DefaultTemperature = temperature
	}
}

// WithDefaultTopK sets the TopK for the model.
func WithDefaultTopK(topK int) Option {
	return func(opts *Options) {
		opts.DefaultTopK = topK
	}
}

// WithDefaultTopP sets the TopP for the model.
func WithDefaultTopP(topP float64) Option {
	return func(opts *Options) {
		opts.DefaultTopP = topP
	}
}
