// internal/article/store.go

// Package article holds the newsroom article model and its in-memory
// store. The store is the console's working set; published articles are
// additionally written to the archive for long-term retention.
package article

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/newsdesk/stardesk/internal/core"
)

// Status represents the editorial lifecycle stage.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusPublished, StatusScheduled:
		return true
	}
	return false
}

// Exposure controls where a published article surfaces.
type Exposure struct {
	MainTop    bool `json:"mainTop"`
	Breaking   bool `json:"breaking"`
	Exclusive  bool `json:"exclusive"`
	PortalSend bool `json:"portalSend"`
}

// Article is one newsroom article.
type Article struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Content     string          `json:"content"`
	Summary     string          `json:"summary,omitempty"`
	Category    string          `json:"category,omitempty"`
	SubCategory string          `json:"subCategory,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Author      string          `json:"author,omitempty"`
	Status      Status          `json:"status"`
	Exposure    Exposure        `json:"exposure"`
	ViewCount   int             `json:"viewCount"`
	Validation  json.RawMessage `json:"validation,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status   Status
	Category string
	Query    string // substring match on title
}

// Store is a mutex-guarded in-memory article collection.
type Store struct {
	mu       sync.RWMutex
	articles map[string]*Article
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{articles: make(map[string]*Article)}
}

// Create inserts a new article. Empty status defaults to draft; IDs are
// assigned here, a caller-supplied ID is ignored.
func (s *Store) Create(a Article) *Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	a.ID = uuid.NewString()
	if a.Status == "" {
		a.Status = StatusDraft
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	s.articles[a.ID] = &a
	copied := a
	return &copied
}

// Get retrieves an article by ID. The returned value is a copy.
func (s *Store) Get(id string) (*Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, core.ErrArticleNotFound
	}
	copied := *a
	return &copied, nil
}

// Update modifies an article using an update function. The function runs
// under the store lock; it must not call back into the store.
func (s *Store) Update(id string, fn func(*Article)) (*Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, core.ErrArticleNotFound
	}

	fn(a)
	a.UpdatedAt = time.Now()
	copied := *a
	return &copied, nil
}

// Delete removes an article.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return core.ErrArticleNotFound
	}
	delete(s.articles, id)
	return nil
}

// List returns articles matching the filter, newest first.
func (s *Store) List(f Filter) []Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Article, 0, len(s.articles))
	for _, a := range s.articles {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.Query != "" && !strings.Contains(a.Title, f.Query) {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Publish transitions an article to published and stamps the time.
func (s *Store) Publish(id string) (*Article, error) {
	return s.Update(id, func(a *Article) {
		now := time.Now()
		a.Status = StatusPublished
		a.PublishedAt = &now
	})
}

// AttachValidation stores the latest validation report on the article.
func (s *Store) AttachValidation(id string, report json.RawMessage) (*Article, error) {
	return s.Update(id, func(a *Article) {
		a.Validation = report
	})
}

// Count returns the number of stored articles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}
