// internal/ai/claude/claude.go
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/newsdesk/stardesk/internal/ai"
	"github.com/newsdesk/stardesk/internal/core"
	"go.uber.org/zap"
)

const defaultModel = "claude-sonnet-4-20250514"

// Config holds Anthropic connection configuration.
type Config struct {
	APIKey string
	Model  string
}

// Provider implements the ai.Provider interface over the Anthropic SDK.
type Provider struct {
	cfg    Config
	client anthropic.Client
	logger *zap.Logger

	// initialized is read by request goroutines while InitializeAll may
	// still be running, so it must be atomic. The client write in
	// Initialize happens before the Store, so an available provider
	// always sees its client.
	initialized atomic.Bool
}

// New creates a new Claude provider.
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
	return ai.IdentityClaude
}

// Initialize constructs the SDK client iff an API key is configured.
func (p *Provider) Initialize() {
	if p.cfg.APIKey == "" {
		p.logger.Warn("anthropic API key is not configured")
		p.initialized.Store(false)
		return
	}
	p.client = anthropic.NewClient(option.WithAPIKey(p.cfg.APIKey))
	p.logger.Info("claude provider initialized", zap.String("model", p.cfg.Model))
	p.initialized.Store(true)
}

// IsAvailable reports whether the provider can serve requests.
func (p *Provider) IsAvailable() bool {
	return p.initialized.Load() && p.cfg.APIKey != ""
}

// GenerateText sends one messages request.
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	if !p.IsAvailable() {
		return "", core.WrapError(core.ErrProviderUnavailable,
			errors.New("claude: check ANTHROPIC_API_KEY configuration"))
	}
	opts = opts.WithDefaults()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.Model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.SystemPrompt}}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", p.mapError(err, opts)
	}

	if len(resp.Content) == 0 || resp.Content[0].Type != "text" {
		return "", core.WrapError(core.ErrBadResponse,
			errors.New("claude: message returned no text content"))
	}
	return resp.Content[0].Text, nil
}

// GenerateJSON generates structured output and recovers the JSON object.
func (p *Provider) GenerateJSON(ctx context.Context, prompt string, opts ai.GenerateOptions) (json.RawMessage, error) {
	return ai.ToJSON(ctx, p, prompt, opts)
}

// mapError translates SDK failures into the shared taxonomy.
func (p *Provider) mapError(err error, opts ai.GenerateOptions) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.WrapError(core.ErrTimeout,
			fmt.Errorf("claude request exceeded %s", opts.Timeout))
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			rlErr := core.NewRateLimitError("claude",
				retryAfterHeader(apiErr.Response), classifyScope(err.Error()))
			p.logger.Warn("claude rate limited",
				zap.Int("retry_after_seconds", rlErr.RetryAfterSeconds),
				zap.String("scope", string(rlErr.Scope)))
			return rlErr
		}
		return core.NewUpstreamError("claude", apiErr.StatusCode, err.Error())
	}
	return core.WrapError(core.ErrUpstream, err)
}

// retryAfterHeader reads the Retry-After header from a 429 response, or 0.
func retryAfterHeader(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// classifyScope guesses the quota window from error text. Anthropic rarely
// says, so unknown is the common answer.
func classifyScope(message string) core.RateLimitScope {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "daily") || strings.Contains(lower, "per day"):
		return core.ScopePerDay
	case strings.Contains(lower, "per minute"):
		return core.ScopePerMinute
	}
	return core.ScopeUnknown
}
