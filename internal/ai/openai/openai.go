// internal/ai/openai/openai.go
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/newsdesk/stardesk/internal/ai"
	"github.com/newsdesk/stardesk/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultModel = "gpt-4o-mini"

// Config holds OpenAI connection configuration.
type Config struct {
	APIKey string
	Model  string
}

// Provider implements the ai.Provider interface over the OpenAI SDK. The SDK
// owns the HTTP layer, so errors arrive as *openai.APIError and are mapped
// into the shared taxonomy here.
type Provider struct {
	cfg    Config
	client *openai.Client
	logger *zap.Logger

	// initialized is read by request goroutines while InitializeAll may
	// still be running, so it must be atomic. The client write in
	// Initialize happens before the Store, so an available provider
	// always sees its client.
	initialized atomic.Bool
}

// New creates a new OpenAI provider.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{cfg: cfg, logger: logger}
}

// Name returns the provider identity.
func (p *Provider) Name() ai.Identity {
	return ai.IdentityOpenAI
}

// Initialize constructs the SDK client iff an API key is configured.
func (p *Provider) Initialize() {
	if p.cfg.APIKey == "" {
		p.logger.Warn("openai API key is not configured")
		p.initialized.Store(false)
		return
	}
	p.client = openai.NewClient(p.cfg.APIKey)
	p.logger.Info("openai provider initialized", zap.String("model", p.cfg.Model))
	p.initialized.Store(true)
}

// IsAvailable reports whether the provider can serve requests.
func (p *Provider) IsAvailable() bool {
	return p.initialized.Load() && p.cfg.APIKey != ""
}

// GenerateText sends one chat completion request.
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	if !p.IsAvailable() {
		return "", core.WrapError(core.ErrProviderUnavailable,
			errors.New("openai: check OPENAI_API_KEY configuration"))
	}
	opts = opts.WithDefaults()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	})
	if err != nil {
		return "", p.mapError(err, opts)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", core.WrapError(core.ErrBadResponse,
			errors.New("openai: completion returned no choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateJSON generates structured output and recovers the JSON object.
func (p *Provider) GenerateJSON(ctx context.Context, prompt string, opts ai.GenerateOptions) (json.RawMessage, error) {
	return ai.ToJSON(ctx, p, prompt, opts)
}

// mapError translates SDK failures into the shared taxonomy.
func (p *Provider) mapError(err error, opts ai.GenerateOptions) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.WrapError(core.ErrTimeout,
			fmt.Errorf("openai request exceeded %s", opts.Timeout))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			rlErr := core.NewRateLimitError("openai",
				retryHint(apiErr.Message), classifyScope(apiErr.Message))
			p.logger.Warn("openai rate limited",
				zap.Int("retry_after_seconds", rlErr.RetryAfterSeconds),
				zap.String("scope", string(rlErr.Scope)))
			return rlErr
		}
		return core.NewUpstreamError("openai", apiErr.HTTPStatusCode, apiErr.Message)
	}
	return core.WrapError(core.ErrUpstream, err)
}

var retryHintRe = regexp.MustCompile(`try again in (\d+(?:\.\d+)?)\s*(ms|s|m)\b`)

// retryHint parses the "Please try again in 20s" hint OpenAI embeds in 429
// messages. Returns 0 when absent so the caller falls back to the default.
func retryHint(message string) int {
	m := retryHintRe.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch m[2] {
	case "ms":
		if n > 0 {
			return 1
		}
	case "m":
		return int(n * 60)
	default:
		if secs := int(n); secs > 0 {
			return secs
		}
		return 1
	}
	return 0
}

// classifyScope guesses the quota window from message markers. Best effort.
func classifyScope(message string) core.RateLimitScope {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "per day") || strings.Contains(message, "RPD") || strings.Contains(message, "TPD"):
		return core.ScopePerDay
	case strings.Contains(lower, "per min") || strings.Contains(message, "RPM") || strings.Contains(message, "TPM"):
		return core.ScopePerMinute
	}
	return core.ScopeUnknown
}
