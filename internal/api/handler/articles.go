// internal/api/handler/articles.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/api/response"
	"github.com/newsdesk/stardesk/internal/article"
	"github.com/newsdesk/stardesk/internal/article/archive"
	"github.com/newsdesk/stardesk/internal/core"
	"github.com/newsdesk/stardesk/internal/metrics"
)

// ArticleHandler serves the article CRUD endpoints.
type ArticleHandler struct {
	store    *article.Store
	archiver *archive.Archiver
	logger   *zap.Logger
	metrics  *metrics.Registry
}

// NewArticleHandler creates the article endpoint handler. archiver and
// metrics may be nil.
func NewArticleHandler(store *article.Store, archiver *archive.Archiver, logger *zap.Logger, m *metrics.Registry) *ArticleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleHandler{store: store, archiver: archiver, logger: logger, metrics: m}
}

// List handles GET /api/articles. Supports status, category and q query
// parameters.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := article.Filter{
		Status:   article.Status(q.Get("status")),
		Category: q.Get("category"),
		Query:    q.Get("q"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		response.FromError(w, core.WrapError(core.ErrInvalidRequest,
			errors.New("unknown status filter")))
		return
	}
	response.JSON(w, http.StatusOK, h.store.List(filter))
}

// createRequest is the body for article creation and update.
type createRequest struct {
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle"`
	Content     string           `json:"content"`
	Summary     string           `json:"summary"`
	Category    string           `json:"category"`
	SubCategory string           `json:"subCategory"`
	Tags        []string         `json:"tags"`
	Author      string           `json:"author"`
	Status      article.Status   `json:"status"`
	Exposure    article.Exposure `json:"exposure"`
}

// Create handles POST /api/articles.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.FromError(w, core.WrapError(core.ErrInvalidRequest, err))
		return
	}
	if req.Title == "" || req.Content == "" {
		response.FromError(w, core.WrapError(core.ErrInvalidRequest,
			errors.New("title and content are required")))
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		response.FromError(w, core.WrapError(core.ErrInvalidRequest,
			errors.New("unknown status")))
		return
	}

	created := h.store.Create(article.Article{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Content:     req.Content,
		Summary:     req.Summary,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Tags:        req.Tags,
		Author:      req.Author,
		Status:      req.Status,
		Exposure:    req.Exposure,
	})
	h.logger.Info("article created", zap.String("article_id", created.ID))
	response.JSON(w, http.StatusCreated, created)
}

// Get handles GET /api/articles/{id}.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, a)
}

// updateRequest carries a partial update; nil fields stay untouched.
type updateRequest struct {
	Title       *string           `json:"title"`
	Subtitle    *string           `json:"subtitle"`
	Content     *string           `json:"content"`
	Summary     *string           `json:"summary"`
	Category    *string           `json:"category"`
	SubCategory *string           `json:"subCategory"`
	Tags        *[]string         `json:"tags"`
	Author      *string           `json:"author"`
	Status      *article.Status   `json:"status"`
	Exposure    *article.Exposure `json:"exposure"`
}

// Update handles PUT /api/articles/{id}.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.FromError(w, core.WrapError(core.ErrInvalidRequest, err))
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		response.FromError(w, core.WrapError(core.ErrInvalidRequest,
			errors.New("unknown status")))
		return
	}

	updated, err := h.store.Update(r.PathValue("id"), func(a *article.Article) {
		if req.Title != nil {
			a.Title = *req.Title
		}
		if req.Subtitle != nil {
			a.Subtitle = *req.Subtitle
		}
		if req.Content != nil {
			a.Content = *req.Content
		}
		if req.Summary != nil {
			a.Summary = *req.Summary
		}
		if req.Category != nil {
			a.Category = *req.Category
		}
		if req.SubCategory != nil {
			a.SubCategory = *req.SubCategory
		}
		if req.Tags != nil {
			a.Tags = *req.Tags
		}
		if req.Author != nil {
			a.Author = *req.Author
		}
		if req.Status != nil {
			a.Status = *req.Status
		}
		if req.Exposure != nil {
			a.Exposure = *req.Exposure
		}
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/articles/{id}.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.PathValue("id")); err != nil {
		response.FromError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish handles POST /api/articles/{id}/publish. The published article
// is archived as a snapshot; archive failure logs but does not roll back
// the publication.
func (h *ArticleHandler) Publish(w http.ResponseWriter, r *http.Request) {
	published, err := h.store.Publish(r.PathValue("id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	if h.archiver != nil {
		if key, err := h.archiver.ArchiveArticle(r.Context(), published); err != nil {
			h.logger.Error("archiving published article failed",
				zap.String("article_id", published.ID),
				zap.Error(err))
		} else {
			h.logger.Info("published article archived",
				zap.String("article_id", published.ID),
				zap.String("key", key))
		}
	}
	if h.metrics != nil {
		h.metrics.RecordPublish()
	}
	response.JSON(w, http.StatusOK, published)
}
