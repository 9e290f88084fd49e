// internal/article/archive/archiver.go
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/article"
)

// Archiver writes published articles to a storage backend.
type Archiver struct {
	storage Storage
	logger  *zap.Logger
}

// NewArchiver creates an archiver over the given backend.
func NewArchiver(storage Storage, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{storage: storage, logger: logger}
}

// ArchiveArticle serializes the article and stores it under its archive
// key. It returns the key the article was stored under.
func (a *Archiver) ArchiveArticle(ctx context.Context, art *article.Article) (string, error) {
	published := time.Now()
	if art.PublishedAt != nil {
		published = *art.PublishedAt
	}
	key := ArticleKey(art.ID, published)

	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing article %s: %w", art.ID, err)
	}
	if err := a.storage.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("archiving article %s: %w", art.ID, err)
	}

	a.logger.Info("article archived",
		zap.String("article_id", art.ID),
		zap.String("key", key))
	return key, nil
}
