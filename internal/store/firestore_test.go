package store

import (
	"testing"
	"time"
)

func articleAt(id string, created time.Time) Article {
	return Article{ID: id, CategoryID: "cat_news", CreatedAt: created}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		articles []Article
		limit    int
		want     []string
	}{
		{
			name: "shuffled insertion order",
			articles: []Article{
				articleAt("art_2", base.Add(2*time.Hour)),
				articleAt("art_1", base.Add(1*time.Hour)),
				articleAt("art_3", base.Add(3*time.Hour)),
			},
			want: []string{"art_3", "art_2", "art_1"},
		},
		{
			name: "limit applies after sorting",
			articles: []Article{
				articleAt("art_old", base),
				articleAt("art_new", base.Add(4*time.Hour)),
				articleAt("art_mid", base.Add(2*time.Hour)),
			},
			limit: 2,
			want:  []string{"art_new", "art_mid"},
		},
		{
			name: "limit at the boundary keeps everything",
			articles: []Article{
				articleAt("art_b", base.Add(time.Hour)),
				articleAt("art_a", base),
			},
			limit: 2,
			want:  []string{"art_b", "art_a"},
		},
		{
			name: "zero limit means no cap",
			articles: []Article{
				articleAt("art_a", base),
				articleAt("art_b", base.Add(time.Hour)),
			},
			want: []string{"art_b", "art_a"},
		},
		{
			name:     "empty input",
			articles: []Article{},
			limit:    5,
			want:     []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortNewestFirst(tt.articles, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d articles, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}
