// internal/ai/feature/feature.go

// Package feature runs the editorial AI features end to end: template
// lookup, placeholder fill, provider call, and typed decoding of the
// reply. Every outcome comes back as a Result value; the invoker never
// panics and never returns a Go error to its callers.
package feature

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/ai"
	"github.com/newsdesk/stardesk/internal/ai/prompt"
	"github.com/newsdesk/stardesk/internal/ai/registry"
	"github.com/newsdesk/stardesk/internal/core"
	"github.com/newsdesk/stardesk/internal/metrics"
)

// RateLimitInfo carries upstream throttle details to the caller so the UI
// can show a concrete wait time instead of a generic failure.
type RateLimitInfo struct {
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
	Scope             string `json:"scope"`
}

// Result is the uniform outcome envelope for one feature invocation.
// Exactly one of Data and Error is set.
type Result[T any] struct {
	Success          bool           `json:"success"`
	Data             *T             `json:"data,omitempty"`
	Error            string         `json:"error,omitempty"`
	RateLimit        *RateLimitInfo `json:"rateLimit,omitempty"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
}

// Invoker wires the provider registry and prompt catalog together.
type Invoker struct {
	registry *registry.Registry
	catalog  *prompt.Catalog
	logger   *zap.Logger
	metrics  *metrics.Registry
}

// NewInvoker creates an invoker. metrics may be nil.
func NewInvoker(reg *registry.Registry, catalog *prompt.Catalog, logger *zap.Logger, m *metrics.Registry) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		registry: reg,
		catalog:  catalog,
		logger:   logger,
		metrics:  m,
	}
}

// Invoke runs one feature against the active provider and decodes the
// reply into T. All failure modes, including an unknown feature name,
// fold into the returned Result. Invoke is a free function because Go
// methods cannot carry type parameters.
func Invoke[T any](ctx context.Context, inv *Invoker, featureName, content string, vars map[string]string) Result[T] {
	start := time.Now()
	provider := inv.registry.Active()
	providerName := string(provider.Name())

	fail := func(err error) Result[T] {
		elapsed := time.Since(start)
		res := Result[T]{
			Success:          false,
			Error:            err.Error(),
			ProcessingTimeMs: elapsed.Milliseconds(),
		}
		var rle *core.RateLimitError
		if errors.As(err, &rle) {
			res.RateLimit = &RateLimitInfo{
				RetryAfterSeconds: rle.RetryAfterSeconds,
				Scope:             string(rle.Scope),
			}
			if inv.metrics != nil {
				inv.metrics.RecordRateLimit(rle.Provider, string(rle.Scope))
			}
		}
		if inv.metrics != nil {
			inv.metrics.RecordFeature(featureName, providerName, "failure", elapsed.Seconds())
		}
		inv.logger.Warn("feature invocation failed",
			zap.String("feature", featureName),
			zap.String("provider", providerName),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return res
	}

	tpl, ok := inv.catalog.Get(featureName)
	if !ok {
		return fail(core.WrapError(core.ErrUnknownFeature, fmt.Errorf("feature %q", featureName)))
	}

	merged := map[string]string{"content": content}
	for k, v := range vars {
		merged[k] = v
	}
	userPrompt := prompt.Fill(tpl.UserPromptTemplate, merged)

	raw, err := provider.GenerateJSON(ctx, userPrompt, ai.GenerateOptions{
		SystemPrompt: tpl.SystemPrompt,
	})
	if err != nil {
		return fail(err)
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return fail(core.WrapError(core.ErrBadResponse,
			fmt.Errorf("%s reply does not match the %s shape: %w", providerName, featureName, err)))
	}

	elapsed := time.Since(start)
	if inv.metrics != nil {
		inv.metrics.RecordFeature(featureName, providerName, "success", elapsed.Seconds())
	}
	inv.logger.Info("feature invocation completed",
		zap.String("feature", featureName),
		zap.String("provider", providerName),
		zap.Duration("elapsed", elapsed))
	return Result[T]{
		Success:          true,
		Data:             &data,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}
}

// joinParts joins the non-empty article fields with blank lines, matching
// how the checks that read the whole article assemble their input.
func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// GenerateTags suggests SEO tags for the article body. maxTags <= 0
// falls back to 10.
func (inv *Invoker) GenerateTags(ctx context.Context, content string, maxTags int) Result[AutoTag] {
	if maxTags <= 0 {
		maxTags = 10
	}
	return Invoke[AutoTag](ctx, inv, "auto-tag", content, map[string]string{
		"maxTags": strconv.Itoa(maxTags),
	})
}

// CheckFacts verifies dates, names and schedules across the full article.
// The joined fields are the checked input, but {{content}} still renders
// the unmodified body: the explicit vars win over the content argument.
func (inv *Invoker) CheckFacts(ctx context.Context, title, subtitle, content string) Result[FactCheck] {
	return Invoke[FactCheck](ctx, inv, "fact-check", joinParts(title, subtitle, content), map[string]string{
		"title":    title,
		"subtitle": subtitle,
		"content":  content,
	})
}

// UnifyStyle analyzes the body for entertainment-desk house style.
func (inv *Invoker) UnifyStyle(ctx context.Context, content string) Result[StyleAnalysis] {
	return Invoke[StyleAnalysis](ctx, inv, "style-unify", content, nil)
}

// CheckDuplicates finds repeated spans within the body.
func (inv *Invoker) CheckDuplicates(ctx context.Context, content string) Result[DuplicateCheck] {
	return Invoke[DuplicateCheck](ctx, inv, "duplicate-check", content, nil)
}

// Summarize produces a summary of the requested type. An empty type
// falls back to "brief".
func (inv *Invoker) Summarize(ctx context.Context, content, summaryType string) Result[Summary] {
	if summaryType == "" {
		summaryType = "brief"
	}
	return Invoke[Summary](ctx, inv, "summarize", content, map[string]string{
		"type": summaryType,
	})
}

// SuggestCategory picks the best desk category for the body.
func (inv *Invoker) SuggestCategory(ctx context.Context, content string) Result[CategorySuggestion] {
	return Invoke[CategorySuggestion](ctx, inv, "category-suggest", content, nil)
}

// CheckSensitivity flags risky expressions in the body.
func (inv *Invoker) CheckSensitivity(ctx context.Context, content string) Result[Sensitivity] {
	return Invoke[Sensitivity](ctx, inv, "sensitivity-check", content, nil)
}

// CheckSpelling proofreads the full article, title and subtitle included.
// Like CheckFacts, {{content}} renders the unmodified body.
func (inv *Invoker) CheckSpelling(ctx context.Context, title, subtitle, content string) Result[SpellCheck] {
	return Invoke[SpellCheck](ctx, inv, "spell-check", joinParts(title, subtitle, content), map[string]string{
		"title":    title,
		"subtitle": subtitle,
		"content":  content,
	})
}
