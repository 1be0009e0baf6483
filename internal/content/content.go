// Package content handles article body hygiene: HTML sanitization and
// video-link parsing.
package content

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Article bodies arrive as reporter-authored HTML and are rendered into the
// page, so everything outside the UGC whitelist is stripped at write time.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "div")
	p.AllowImages()
	return p
}()

// SanitizeHTML strips unsafe markup from an article body.
func SanitizeHTML(html string) string {
	return policy.Sanitize(html)
}

var youtubeIDPattern = regexp.MustCompile(`(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// YoutubeVideoID extracts the 11-character video id from a YouTube URL.
// Returns "" when url is not a recognizable YouTube link.
func YoutubeVideoID(url string) string {
	match := youtubeIDPattern.FindStringSubmatch(url)
	if match == nil || len(match[1]) != 11 {
		return ""
	}
	return match[1]
}
