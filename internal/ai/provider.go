// internal/ai/provider.go

// Package ai defines the contract all LLM providers implement. Individual
// upstreams live in subpackages; the registry normalizes them behind this
// interface so editorial features never care which API serves them.
package ai

import (
	"context"
	"encoding/json"
	"time"
)

// Identity names an upstream provider kind. The set is closed: each identity
// maps to exactly one long-lived provider instance.
type Identity string

const (
	IdentityGemini Identity = "gemini"
	IdentityBase44 Identity = "base44"
	IdentityOpenAI Identity = "openai"
	IdentityClaude Identity = "claude"
)

// Identities returns all known provider kinds in a stable order.
func Identities() []Identity {
	return []Identity{IdentityGemini, IdentityBase44, IdentityOpenAI, IdentityClaude}
}

// Valid reports whether id names a known provider kind.
func (id Identity) Valid() bool {
	switch id {
	case IdentityGemini, IdentityBase44, IdentityOpenAI, IdentityClaude:
		return true
	}
	return false
}

// Generation defaults. A zero value in GenerateOptions means "use default".
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second

	// JSONTemperature is forced for structured generation; determinism
	// matters more than creativity when the reply must parse.
	JSONTemperature = 0.3
)

// GenerateOptions configures one generation call. Immutable per call.
type GenerateOptions struct {
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
	Timeout      time.Duration
}

// WithDefaults fills unset fields. A zero temperature is treated as unset.
func (o GenerateOptions) WithDefaults() GenerateOptions {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = DefaultTemperature
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Provider is the uniform contract over heterogeneous upstream APIs.
type Provider interface {
	// Name returns the provider identity.
	Name() Identity

	// Initialize reads the configured credential and marks the provider
	// available iff one is present. It never fails; a missing credential
	// is a loggable condition, not a fatal one. It does not verify
	// upstream reachability.
	Initialize()

	// IsAvailable reports whether the provider is initialized with a
	// credential. Checked before any network call.
	IsAvailable() bool

	// GenerateText issues one generation request and returns the raw
	// generated text. Failures are typed: core.ErrProviderUnavailable,
	// core.ErrTimeout, *core.RateLimitError, *core.UpstreamError or
	// core.ErrBadResponse.
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateJSON issues a structured-generation request and returns the
	// recovered JSON object. Extraction failures carry provider context.
	GenerateJSON(ctx context.Context, prompt string, opts GenerateOptions) (json.RawMessage, error)
}
