package content

import (
	"strings"
	"testing"
)

func TestSanitizeHTML(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		keep    []string
		discard []string
	}{
		{
			name:  "plain formatting survives",
			input: `<p class="lead">안녕하세요 <strong>기자단</strong></p>`,
			keep:  []string{"<p", "class=\"lead\"", "<strong>"},
		},
		{
			name:    "script stripped",
			input:   `<p>hi</p><script>alert(1)</script>`,
			keep:    []string{"<p>hi</p>"},
			discard: []string{"<script", "alert"},
		},
		{
			name:    "event handlers stripped",
			input:   `<img src="https://example.com/a.png" onerror="steal()">`,
			keep:    []string{"<img", "src="},
			discard: []string{"onerror"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeHTML(tc.input)
			for _, want := range tc.keep {
				if !strings.Contains(got, want) {
					t.Errorf("sanitized output %q missing %q", got, want)
				}
			}
			for _, banned := range tc.discard {
				if strings.Contains(got, banned) {
					t.Errorf("sanitized output %q still contains %q", got, banned)
				}
			}
		})
	}
}

func TestYoutubeVideoID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{name: "watch url", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short url", url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "embed url", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch with extra params", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ"},
		{name: "not youtube", url: "https://vimeo.com/123456", want: ""},
		{name: "wrong id length", url: "https://youtu.be/short", want: ""},
		{name: "empty", url: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := YoutubeVideoID(tc.url); got != tc.want {
				t.Fatalf("YoutubeVideoID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
