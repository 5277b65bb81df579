package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// Render converts a markdown description into HTML for public pages.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
