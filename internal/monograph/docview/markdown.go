package docview

import (
	"bytes"

	"github.com/yuin/goldmark"
)

func mdToHTML(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		// Markdown rendering is best-effort display; fall back to raw text.
		return md
	}
	return buf.String()
}
