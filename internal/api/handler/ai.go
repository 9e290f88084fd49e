// internal/api/handler/ai.go

// Package handler implements the JSON API handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/ai/feature"
	"github.com/newsdesk/stardesk/internal/ai/registry"
	"github.com/newsdesk/stardesk/internal/ai/validate"
	"github.com/newsdesk/stardesk/internal/api/response"
	"github.com/newsdesk/stardesk/internal/article"
	"github.com/newsdesk/stardesk/internal/core"
)

// AIHandler serves the editorial AI endpoints.
type AIHandler struct {
	invoker      *feature.Invoker
	orchestrator *validate.Orchestrator
	registry     *registry.Registry
	store        *article.Store
	logger       *zap.Logger
}

// NewAIHandler creates the AI endpoint handler.
func NewAIHandler(inv *feature.Invoker, orch *validate.Orchestrator, reg *registry.Registry, store *article.Store, logger *zap.Logger) *AIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIHandler{
		invoker:      inv,
		orchestrator: orch,
		registry:     reg,
		store:        store,
		logger:       logger,
	}
}

// aiRequest is the body for feature and full-validation calls.
type aiRequest struct {
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Content   string    `json:"content"`
	ArticleID string    `json:"articleId"`
	Options   aiOptions `json:"options"`
}

type aiOptions struct {
	MaxTags int    `json:"maxTags"`
	Type    string `json:"type"`
}

func decodeAIRequest(r *http.Request) (aiRequest, error) {
	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, core.WrapError(core.ErrInvalidRequest, err)
	}
	if req.Content == "" {
		return req, core.WrapError(core.ErrInvalidRequest, errors.New("content is required"))
	}
	return req, nil
}

// writeResult serializes a feature result. Results are the contract with
// the editor UI, success or not; only throttling changes the HTTP status
// so clients can apply backoff at the transport layer.
func writeResult[T any](w http.ResponseWriter, res feature.Result[T]) {
	status := http.StatusOK
	if !res.Success && res.RateLimit != nil {
		status = http.StatusTooManyRequests
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(res)
}

// Feature handles POST /api/ai/{feature}.
func (h *AIHandler) Feature(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("feature")
	req, err := decodeAIRequest(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	ctx := r.Context()
	switch name {
	case "auto-tag":
		writeResult(w, h.invoker.GenerateTags(ctx, req.Content, req.Options.MaxTags))
	case "fact-check":
		writeResult(w, h.invoker.CheckFacts(ctx, req.Title, req.Subtitle, req.Content))
	case "style-unify":
		writeResult(w, h.invoker.UnifyStyle(ctx, req.Content))
	case "duplicate-check":
		writeResult(w, h.invoker.CheckDuplicates(ctx, req.Content))
	case "summarize":
		writeResult(w, h.invoker.Summarize(ctx, req.Content, req.Options.Type))
	case "category-suggest":
		writeResult(w, h.invoker.SuggestCategory(ctx, req.Content))
	case "sensitivity-check":
		writeResult(w, h.invoker.CheckSensitivity(ctx, req.Content))
	case "spell-check":
		writeResult(w, h.invoker.CheckSpelling(ctx, req.Title, req.Subtitle, req.Content))
	default:
		response.FromError(w, core.WrapError(core.ErrUnknownFeature, fmt.Errorf("feature %q", name)))
	}
}

// FullValidation handles POST /api/ai/full-validation. When articleId is
// set the report is also attached to the stored article.
func (h *AIHandler) FullValidation(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAIRequest(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	report := h.orchestrator.RunFull(r.Context(), req.Title, req.Subtitle, req.Content)

	if req.ArticleID != "" {
		raw, err := json.Marshal(report)
		if err == nil {
			_, err = h.store.AttachValidation(req.ArticleID, raw)
		}
		if err != nil {
			response.FromError(w, err)
			return
		}
	}

	response.JSON(w, http.StatusOK, report)
}

// providerStatus is one entry in the status payload.
type providerStatus struct {
	Available bool `json:"available"`
}

// statusPayload is the GET /api/ai/status response body.
type statusPayload struct {
	ActiveProvider string                    `json:"activeProvider"`
	Providers      map[string]providerStatus `json:"providers"`
}

// Status handles GET /api/ai/status.
func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	providers := make(map[string]providerStatus)
	for id, available := range h.registry.Status() {
		providers[string(id)] = providerStatus{Available: available}
	}
	response.JSON(w, http.StatusOK, statusPayload{
		ActiveProvider: string(h.registry.Active().Name()),
		Providers:      providers,
	})
}
