package utils

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var fontColor = regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3}){1,2}|[a-zA-Z]+)$`)

// ContentRenderer turns stored post text into HTML, keeping only
// <b>, <i>, <u> and <font color>.
type ContentRenderer struct {
	policy *bluemonday.Policy
}

func NewContentRenderer() *ContentRenderer {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "u")
	p.AllowAttrs("color").Matching(fontColor).OnElements("font")
	return &ContentRenderer{policy: p}
}

// Render sanitizes text against the allow-list and converts newlines to <br>.
func (r *ContentRenderer) Render(text string) string {
	if text == "" {
		return ""
	}
	clean := r.policy.Sanitize(text)
	return strings.ReplaceAll(clean, "\n", "<br>")
}

// RenderPlain escapes all markup so it shows literally. Used for replies and
// direct messages.
func (r *ContentRenderer) RenderPlain(text string) string {
	if text == "" {
		return ""
	}
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}
