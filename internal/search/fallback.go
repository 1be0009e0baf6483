package search

import (
	"context"
	"fmt"
	"strings"

	"kidpress/api/internal/store"
)

// ArticleLister is the slice of the article store the fallback searcher needs.
type ArticleLister interface {
	ListArticles(ctx context.Context, categoryID string, limit int) ([]store.Article, error)
}

// StoreScan is a degraded searcher that substring-matches over articles
// loaded from the primary store. It is used when Meilisearch is not
// configured or unreachable.
type StoreScan struct {
	articles ArticleLister
}

func NewStoreScan(articles ArticleLister) *StoreScan {
	return &StoreScan{articles: articles}
}

// Healthy always reports true; the store is the system of record.
func (s *StoreScan) Healthy() bool {
	return true
}

// Search scans articles and matches the query against title, summary and tags.
func (s *StoreScan) Search(q Query) ([]Result, int, error) {
	articles, err := s.articles.ListArticles(context.Background(), q.CategoryID, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("store scan: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	matched := make([]Result, 0)
	for _, a := range articles {
		if needle != "" && !articleMatches(&a, needle) {
			continue
		}
		matched = append(matched, Result{
			ID:           a.ID,
			Title:        a.Title,
			Snippet:      a.Summary,
			CategoryID:   a.CategoryID,
			CategoryName: a.DisplayCategory(),
		})
	}

	total := len(matched)
	if q.Offset > 0 {
		if q.Offset >= total {
			return []Result{}, total, nil
		}
		matched = matched[q.Offset:]
	}
	limit := q.Limit
	if limit == 0 {
		limit = 20
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func articleMatches(a *store.Article, needle string) bool {
	if strings.Contains(strings.ToLower(a.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Summary), needle) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
