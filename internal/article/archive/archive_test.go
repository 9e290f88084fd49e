// internal/article/archive/archive_test.go
package archive

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/newsdesk/stardesk/internal/article"
)

func TestArticleKey(t *testing.T) {
	published := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	got := ArticleKey("abc-123", published)
	want := "articles/2026/03/abc-123.json"
	if got != want {
		t.Errorf("ArticleKey = %q, want %q", got, want)
	}
}

func TestLocalFS_PutGetExists(t *testing.T) {
	fs, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	ctx := context.Background()

	key := "articles/2026/03/a1.json"
	if err := fs.Put(ctx, key, []byte(`{"id":"a1"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	data, err := fs.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `{"id":"a1"}` {
		t.Errorf("data = %s", data)
	}

	ok, err := fs.Exists(ctx, key)
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
	ok, err = fs.Exists(ctx, "articles/2026/03/missing.json")
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}
}

func TestLocalFS_List(t *testing.T) {
	fs, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	ctx := context.Background()

	keys := []string{
		"articles/2026/03/b.json",
		"articles/2026/03/a.json",
		"articles/2026/04/c.json",
	}
	for _, k := range keys {
		if err := fs.Put(ctx, k, []byte("{}")); err != nil {
			t.Fatalf("Put(%s): %v", k, err)
		}
	}

	got, err := fs.List(ctx, "articles/2026/03")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != "articles/2026/03/a.json" || got[1] != "articles/2026/03/b.json" {
		t.Errorf("keys = %v, want sorted", got)
	}

	empty, err := fs.List(ctx, "articles/1999")
	if err != nil {
		t.Fatalf("List(empty): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty prefix returned %v", empty)
	}
}

func TestArchiver_ArchiveArticle(t *testing.T) {
	fs, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	archiver := NewArchiver(fs, zap.NewNop())

	published := time.Date(2026, time.June, 21, 9, 0, 0, 0, time.UTC)
	art := &article.Article{
		ID:          "a1",
		Title:       "컴백 기사",
		Content:     "본문",
		Status:      article.StatusPublished,
		PublishedAt: &published,
	}

	key, err := archiver.ArchiveArticle(context.Background(), art)
	if err != nil {
		t.Fatalf("ArchiveArticle: %v", err)
	}
	if key != "articles/2026/06/a1.json" {
		t.Errorf("key = %q", key)
	}

	data, err := fs.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var restored article.Article
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshaling archived article: %v", err)
	}
	if restored.ID != "a1" || restored.Title != "컴백 기사" {
		t.Errorf("restored = %+v", restored)
	}
}
