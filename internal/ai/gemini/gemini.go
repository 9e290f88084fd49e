// internal/ai/gemini/gemini.go
package gemini

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
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1"
	defaultModel   = "gemini-2.0-flash"

	// Upstream error bodies are read through a limit; quota payloads are
	// small and anything larger is not worth keeping.
	maxErrorBody = 64 << 10
)

// Config holds Gemini connection configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Provider implements the ai.Provider interface for the Gemini API.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger

	// initialized is read by request goroutines while InitializeAll may
	// still be running, so it must be atomic.
	initialized atomic.Bool
}

// New creates a new Gemini provider. A missing API key is not an error here;
// Initialize decides availability.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
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
	return ai.IdentityGemini
}

// Initialize marks the provider available iff an API key is configured.
// The key is not verified against the API; the first call does that.
func (p *Provider) Initialize() {
	if p.cfg.APIKey == "" {
		p.logger.Warn("gemini API key is not configured")
		p.initialized.Store(false)
		return
	}
	if !strings.HasPrefix(p.cfg.APIKey, "AIza") {
		p.logger.Warn("gemini API key format may be invalid")
	}
	p.logger.Info("gemini provider initialized", zap.String("model", p.cfg.Model))
	p.initialized.Store(true)
}

// IsAvailable reports whether the provider can serve requests.
func (p *Provider) IsAvailable() bool {
	return p.initialized.Load() && p.cfg.APIKey != ""
}

// geminiRequest is the generateContent request envelope.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

// GenerateText sends one generateContent request.
func (p *Provider) GenerateText(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	if !p.IsAvailable() {
		return "", core.WrapError(core.ErrProviderUnavailable,
			errors.New("gemini: check GEMINI_API_KEY configuration"))
	}
	opts = opts.WithDefaults()

	// Gemini has no separate system role on this endpoint; the system
	// prompt is prepended to the user prompt.
	fullPrompt := prompt
	if opts.SystemPrompt != "" {
		fullPrompt = opts.SystemPrompt + "\n\n" + prompt
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: fullPrompt}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: opts.MaxTokens,
			Temperature:     opts.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.cfg.BaseURL, p.cfg.Model, p.cfg.APIKey)

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", core.WrapError(core.ErrTimeout,
				fmt.Errorf("gemini request exceeded %s", opts.Timeout))
		}
		return "", core.WrapError(core.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", core.WrapError(core.ErrUpstream, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, scope := parseQuotaPayload(respBody)
		rlErr := core.NewRateLimitError("gemini", retryAfter, scope)
		p.logger.Warn("gemini rate limited",
			zap.Int("retry_after_seconds", rlErr.RetryAfterSeconds),
			zap.String("scope", string(rlErr.Scope)))
		return "", rlErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", core.NewUpstreamError("gemini", resp.StatusCode, string(respBody))
	}

	text := gjson.GetBytes(respBody, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", core.WrapError(core.ErrBadResponse,
			errors.New("gemini: candidates[0].content.parts[0].text missing"))
	}
	return text.String(), nil
}

// GenerateJSON generates structured output and recovers the JSON object.
func (p *Provider) GenerateJSON(ctx context.Context, prompt string, opts ai.GenerateOptions) (json.RawMessage, error) {
	return ai.ToJSON(ctx, p, prompt, opts)
}

// parseQuotaPayload pulls the retry delay and quota scope out of a 429 body.
// Google encodes both in error.details: RetryInfo carries retryDelay ("17s")
// and QuotaFailure carries violations whose quotaMetric/quotaId name the
// window. Scope matching is best effort; absent markers yield ScopeUnknown
// and a conservative default delay.
func parseQuotaPayload(body []byte) (int, core.RateLimitScope) {
	retryAfter := core.DefaultRetryAfterSeconds
	scope := core.ScopeUnknown

	details := gjson.GetBytes(body, "error.details")
	details.ForEach(func(_, detail gjson.Result) bool {
		typ := detail.Get("@type").String()
		switch {
		case strings.HasSuffix(typ, "RetryInfo"):
			if secs := parseRetryDelay(detail.Get("retryDelay").String()); secs > 0 {
				retryAfter = secs
			}
		case strings.HasSuffix(typ, "QuotaFailure"):
			detail.Get("violations").ForEach(func(_, v gjson.Result) bool {
				marker := v.Get("quotaMetric").String() + v.Get("quotaId").String()
				if strings.Contains(marker, "PerDay") {
					scope = core.ScopePerDay
					return false
				}
				if strings.Contains(marker, "PerMinute") {
					scope = core.ScopePerMinute
				}
				return true
			})
		}
		return true
	})

	return retryAfter, scope
}

// parseRetryDelay parses a google.protobuf.Duration string such as "17s" or
// "2.5s". Returns 0 when unparseable.
func parseRetryDelay(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "s")
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		secs := int(f)
		if secs == 0 {
			secs = 1
		}
		return secs
	}
	return 0
}
