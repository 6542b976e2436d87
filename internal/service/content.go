package service

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Content formats accepted from the editor.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// ContentRenderer turns editor output into safe HTML for storage.
type ContentRenderer struct {
	sanitizer *bluemonday.Policy
	markdown  goldmark.Markdown
}

// NewContentRenderer creates a renderer with a user-generated-content policy
// that also keeps the Quill formatting classes.
func NewContentRenderer() *ContentRenderer {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowAttrs("class").Matching(regexp.MustCompile(`^ql-[a-z0-9-]+( ql-[a-z0-9-]+)*$`)).Globally()

	return &ContentRenderer{
		sanitizer: sanitizer,
		// Raw HTML is passed through so that existing rich content survives an
		// edit in basic mode; the sanitizer runs afterwards.
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts body in the given format to sanitised HTML. An empty
// format is treated as HTML.
func (r *ContentRenderer) Render(body, format string) (string, error) {
	switch format {
	case FormatHTML, "":
		return r.sanitizer.Sanitize(body), nil
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(body), &buf); err != nil {
			return "", fmt.Errorf("failed to convert markdown: %w", err)
		}
		return r.sanitizer.Sanitize(buf.String()), nil
	default:
		return "", fmt.Errorf("unsupported content format %q", format)
	}
}
