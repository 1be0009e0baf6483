// Package aiassist is the optional text-assist layer for the authoring
// form. Every failure degrades to a usable value; nothing here may block
// or fail the article write path.
package aiassist

import (
	"context"
	"log"
	"strings"
)

// SummaryFailedPlaceholder is returned when summary generation fails; the
// authoring form shows it in the summary field for the reporter to replace.
const SummaryFailedPlaceholder = "Summary generation failed."

const (
	summaryPrompt = "Summarize the following news article for a children's newspaper in Korean. Keep it under 150 characters and make it exciting: "
	polishPrompt  = "You are a helpful editor for a children's newspaper. Please fix grammar mistakes and make the following text more engaging and easy to understand for elementary school students (in Korean). Keep the HTML formatting if present: "
)

// Provider executes one text-completion call.
type Provider interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Gateway wraps a Provider with the newspaper's prompts and fallback
// behavior. A nil provider (no API key configured) is valid and makes every
// call a no-op.
type Gateway struct {
	provider Provider
}

func NewGateway(provider Provider) *Gateway {
	return &Gateway{provider: provider}
}

// GenerateSummary produces a short summary of content, or the fixed
// placeholder when the provider is unavailable or fails.
func (g *Gateway) GenerateSummary(ctx context.Context, content string) string {
	if g.provider == nil || strings.TrimSpace(content) == "" {
		return SummaryFailedPlaceholder
	}
	text, err := g.provider.GenerateText(ctx, summaryPrompt+content)
	if err != nil {
		log.Printf("aiassist: summary: %v", err)
		return SummaryFailedPlaceholder
	}
	if strings.TrimSpace(text) == "" {
		return SummaryFailedPlaceholder
	}
	return text
}

// PolishArticle rewrites content for readability, returning the original
// text unchanged on any failure.
func (g *Gateway) PolishArticle(ctx context.Context, content string) string {
	if g.provider == nil || strings.TrimSpace(content) == "" {
		return content
	}
	text, err := g.provider.GenerateText(ctx, polishPrompt+content)
	if err != nil {
		log.Printf("aiassist: polish: %v", err)
		return content
	}
	if strings.TrimSpace(text) == "" {
		return content
	}
	return text
}
