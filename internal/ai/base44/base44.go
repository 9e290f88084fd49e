// internal/ai/base44/base44.go
package base44

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/newsdesk/stardesk/internal/ai"
	"github.com/newsdesk/stardesk/internal/core"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.base44.com"

	maxErrorBody = 64 << 10
)

// Config holds Base44 connection configuration.
type Config struct {
	APIKey    string
	ProjectID string
	BaseURL   string
}

// Provider implements the ai.Provider interface for the Base44 platform.
// Base44 uses bearer authentication and a flat request envelope, unlike
// Gemini's keyed URL and nested contents; both normalize to the same
// contract here.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger

	// initialized is read by request goroutines while InitializeAll may
	// still be running, so it must be atomic.
	initialized atomic.Bool
}

// New creates a new Base44 provider.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger,
	}
}

// Name returns the provider identity.
func (p *Provider) Name() ai.Identity {
	return ai.IdentityBase44
}

// Initialize marks the provider available iff an API key is configured.
func (p *Provider) Initialize() {
	if p.cfg.APIKey == "" {
		p.logger.Warn("base44 API key is not configured")
		p.initialized.Store(false)
		return
	}
	if p.cfg.ProjectID == "" {
		p.logger.Warn("base44 project ID is not configured, using account default")
	}
	p.logger.Info("base44 provider initialized")
	p.initialized.Store(true)
}

// IsAvailable reports whether the provider can serve requests.
func (p *Provider) IsAvailable() bool {
	return p.initialized.Load() && p.cfg.APIKey != ""
}

// generateRequest is the Base44 ai/generate request envelope.
type generateRequest struct {
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"systemPrompt,omitempty"`
	MaxTokens    int     `json:"maxTokens"`
	Temperature  float64 `json:"temperature"`
	ProjectID    string  `json:"projectId,omitempty"`
}

// GenerateText sends one generation request.
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	if !p.IsAvailable() {
		return "", core.WrapError(core.ErrProviderUnavailable,
			errors.New("base44: check BASE44_API_KEY configuration"))
	}
	opts = opts.WithDefaults()

	body, err := json.Marshal(generateRequest{
		Prompt:       prompt,
		SystemPrompt: opts.SystemPrompt,
		MaxTokens:    opts.MaxTokens,
		Temperature:  opts.Temperature,
		ProjectID:    p.cfg.ProjectID,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/ai/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", core.WrapError(core.ErrTimeout,
				fmt.Errorf("base44 request exceeded %s", opts.Timeout))
		}
		return "", core.WrapError(core.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", core.WrapError(core.ErrUpstream, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, scope := parseThrottle(resp.Header, respBody)
		rlErr := core.NewRateLimitError("base44", retryAfter, scope)
		p.logger.Warn("base44 rate limited",
			zap.Int("retry_after_seconds", rlErr.RetryAfterSeconds),
			zap.String("scope", string(rlErr.Scope)))
		return "", rlErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", core.NewUpstreamError("base44", resp.StatusCode, string(respBody))
	}

	text := gjson.GetBytes(respBody, "result.text")
	if !text.Exists() {
		return "", core.WrapError(core.ErrBadResponse,
			errors.New("base44: result.text missing"))
	}
	return text.String(), nil
}

// GenerateJSON generates structured output and recovers the JSON object.
func (p *Provider) GenerateJSON(ctx context.Context, prompt string, opts ai.GenerateOptions) (json.RawMessage, error) {
	return ai.ToJSON(ctx, p, prompt, opts)
}

// parseThrottle reads the retry delay from the Retry-After header or the
// error.retry_after_seconds body field, and the scope from error.scope
// ("minute" or "day"). Both are optional.
func parseThrottle(header http.Header, body []byte) (int, core.RateLimitScope) {
	retryAfter := 0
	if h := header.Get("Retry-After"); h != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(h)); err == nil {
			retryAfter = n
		}
	}
	if retryAfter == 0 {
		retryAfter = int(gjson.GetBytes(body, "error.retry_after_seconds").Int())
	}

	scope := core.ScopeUnknown
	switch gjson.GetBytes(body, "error.scope").String() {
	case "minute":
		scope = core.ScopePerMinute
	case "day":
		scope = core.ScopePerDay
	}
	return retryAfter, scope
}
