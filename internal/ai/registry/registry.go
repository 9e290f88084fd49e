// internal/ai/registry/registry.go

// Package registry owns the process-lifetime provider instances. It is an
// explicit object handed to consumers by injection; nothing here is a
// package global, so tests can substitute fake providers freely.
package registry

import (
	"sync"

	"github.com/newsdesk/stardesk/internal/ai"
	"github.com/newsdesk/stardesk/internal/ai/base44"
	"github.com/newsdesk/stardesk/internal/ai/claude"
	"github.com/newsdesk/stardesk/internal/ai/gemini"
	"github.com/newsdesk/stardesk/internal/ai/openai"
	"github.com/newsdesk/stardesk/internal/config"
	"go.uber.org/zap"
)

// Registry resolves provider identities to their singleton instances.
// Construction is lazy and first-call-wins; instances live for the process
// and are never torn down.
type Registry struct {
	cfg    config.AIConfig
	logger *zap.Logger

	mu        sync.Mutex
	providers map[ai.Identity]ai.Provider
}

// New creates a registry for the configured providers.
func New(cfg config.AIConfig, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		cfg:       cfg,
		logger:    logger,
		providers: make(map[ai.Identity]ai.Provider),
	}
}

// Get returns the provider instance for id, constructing it on first use.
// The second return is false for identities outside the known set. Calling
// Get before InitializeAll is fine; the instance just reports unavailable.
func (r *Registry) Get(id ai.Identity) (ai.Provider, bool) {
	if !id.Valid() {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[id]; ok {
		return p, true
	}
	p := r.build(id)
	r.providers[id] = p
	return p, true
}

// Active returns the provider selected by configuration. The default
// selector is gemini; an unrecognized selector also falls back to gemini
// rather than failing, so a typo in deployment config degrades to the
// default instead of taking every feature down.
func (r *Registry) Active() ai.Provider {
	id := ai.Identity(r.cfg.Provider)
	if !id.Valid() {
		id = ai.IdentityGemini
	}
	p, _ := r.Get(id)
	return p
}

// InitializeAll initializes every known provider concurrently. Providers
// log their own problems; one provider missing its credential never stops
// the others.
func (r *Registry) InitializeAll() {
	var wg sync.WaitGroup
	for _, id := range ai.Identities() {
		p, _ := r.Get(id)
		wg.Add(1)
		go func(p ai.Provider) {
			defer wg.Done()
			p.Initialize()
		}(p)
	}
	wg.Wait()
}

// Status returns an availability snapshot for all known providers.
func (r *Registry) Status() map[ai.Identity]bool {
	status := make(map[ai.Identity]bool, len(ai.Identities()))
	for _, id := range ai.Identities() {
		p, _ := r.Get(id)
		status[id] = p.IsAvailable()
	}
	return status
}

// build constructs the concrete provider for id. Callers hold r.mu.
func (r *Registry) build(id ai.Identity) ai.Provider {
	switch id {
	case ai.IdentityGemini:
		return gemini.New(gemini.Config{
			APIKey:  r.cfg.Gemini.APIKey,
			Model:   r.cfg.Gemini.Model,
			BaseURL: r.cfg.Gemini.BaseURL,
		}, r.logger)
	case ai.IdentityBase44:
		return base44.New(base44.Config{
			APIKey:    r.cfg.Base44.APIKey,
			ProjectID: r.cfg.Base44.ProjectID,
			BaseURL:   r.cfg.Base44.BaseURL,
		}, r.logger)
	case ai.IdentityOpenAI:
		return openai.New(openai.Config{
			APIKey: r.cfg.OpenAI.APIKey,
			Model:  r.cfg.OpenAI.Model,
		}, r.logger)
	case ai.IdentityClaude:
		return claude.New(claude.Config{
			APIKey: r.cfg.Claude.APIKey,
			Model:  r.cfg.Claude.Model,
		}, r.logger)
	}
	return nil
}
