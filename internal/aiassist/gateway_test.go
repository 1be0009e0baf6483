package aiassist

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubProvider struct {
	reply string
	err   error
	seen  string
}

func (p *stubProvider) GenerateText(_ context.Context, prompt string) (string, error) {
	p.seen = prompt
	return p.reply, p.err
}

func TestGenerateSummary(t *testing.T) {
	provider := &stubProvider{reply: "우리 동네에 새 도서관이 생겨요!"}
	gateway := NewGateway(provider)

	got := gateway.GenerateSummary(context.Background(), "도서관 개관 기사 본문")
	if got != "우리 동네에 새 도서관이 생겨요!" {
		t.Fatalf("summary = %q", got)
	}
	if !strings.Contains(provider.seen, "도서관 개관 기사 본문") {
		t.Fatalf("prompt missing article body: %q", provider.seen)
	}
}

func TestGenerateSummaryFailsToPlaceholder(t *testing.T) {
	cases := []struct {
		name     string
		provider Provider
	}{
		{name: "provider error", provider: &stubProvider{err: errors.New("quota exceeded")}},
		{name: "blank reply", provider: &stubProvider{reply: "   "}},
		{name: "no provider", provider: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := NewGateway(tc.provider)
			if got := gateway.GenerateSummary(context.Background(), "본문"); got != SummaryFailedPlaceholder {
				t.Fatalf("summary = %q, want placeholder", got)
			}
		})
	}
}

func TestPolishArticleFallsBackToOriginal(t *testing.T) {
	const original = "<p>오타가 있는 기사 본문</p>"

	cases := []struct {
		name     string
		provider Provider
		want     string
	}{
		{name: "success", provider: &stubProvider{reply: "<p>깔끔해진 기사 본문</p>"}, want: "<p>깔끔해진 기사 본문</p>"},
		{name: "provider error", provider: &stubProvider{err: errors.New("timeout")}, want: original},
		{name: "blank reply", provider: &stubProvider{reply: ""}, want: original},
		{name: "no provider", provider: nil, want: original},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := NewGateway(tc.provider)
			if got := gateway.PolishArticle(context.Background(), original); got != tc.want {
				t.Fatalf("polish = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPolishEmptyContentIsNoop(t *testing.T) {
	provider := &stubProvider{reply: "should not be called"}
	gateway := NewGateway(provider)

	if got := gateway.PolishArticle(context.Background(), "   "); got != "   " {
		t.Fatalf("polish of blank content = %q, want input unchanged", got)
	}
	if provider.seen != "" {
		t.Fatal("provider called for blank content")
	}
}
