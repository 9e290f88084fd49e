// internal/article/archive/interface.go

// Package archive persists published articles outside the working set.
// Keys are forward-slash paths; backends map them to files or objects.
package archive

import (
	"context"
	"fmt"
	"time"
)

// Storage is a write-once document store for archived articles.
type Storage interface {
	// Put stores data under key, overwriting any previous version.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the data stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns all keys under the prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether key holds data.
	Exists(ctx context.Context, key string) (bool, error)
}

// ArticleKey builds the archive key for an article published at the
// given time: articles/<year>/<month>/<id>.json.
func ArticleKey(id string, published time.Time) string {
	return fmt.Sprintf("articles/%04d/%02d/%s.json", published.Year(), int(published.Month()), id)
}
