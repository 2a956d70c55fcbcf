package server

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// renderMarkdown converts a markdown answer to sanitized HTML so web
// clients can display it directly.
func renderMarkdown(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(text))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})
	htmlBytes := markdown.Render(doc, renderer)

	return string(bluemonday.UGCPolicy().SanitizeBytes(htmlBytes))
}
