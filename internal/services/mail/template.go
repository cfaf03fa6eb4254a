// File: internal/services/mail/template.go
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

type templateData struct {
	Body      template.HTML
	Watermark bool
}

// Renderer wraps a plain or markdown body in the outgoing HTML layout.
type Renderer struct {
	layout    *template.Template
	markdown  goldmark.Markdown
	watermark bool
}

func NewRenderer(watermark bool) (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/email.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
		// Hard wraps keep the line breaks of a drafted letter.
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	return &Renderer{layout: layout, markdown: md, watermark: watermark}, nil
}

// Render converts body to HTML and places it in the layout. Raw HTML in the
// body is escaped by goldmark's default (unsafe rendering disabled).
func (r *Renderer) Render(body string) (string, error) {
	var converted bytes.Buffer
	if err := r.markdown.Convert([]byte(body), &converted); err != nil {
		return "", fmt.Errorf("failed to convert body: %w", err)
	}

	var out bytes.Buffer
	data := templateData{Body: template.HTML(converted.String()), Watermark: r.watermark}
	if err := r.layout.ExecuteTemplate(&out, "email.html", data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return out.String(), nil
}
