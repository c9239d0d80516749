// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed docs/reference.md
var docsFS embed.FS

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// DocsHandler serves the API reference rendered from embedded markdown.
type DocsHandler struct {
	page []byte
}

// docsData holds data passed to the documentation page.
type docsData struct {
	Title string
	Body  template.HTML
}

// NewDocsHandler renders the reference once. baseURL replaces the
// {{base_url}} placeholder in examples.
func NewDocsHandler(baseURL string) (*DocsHandler, error) {
	source, err := docsFS.ReadFile("docs/reference.md")
	if err != nil {
		return nil, fmt.Errorf("reading api reference: %w", err)
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	source = []byte(strings.ReplaceAll(string(source), "{{base_url}}", strings.TrimRight(baseURL, "/")))

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert(source, &body); err != nil {
		return nil, fmt.Errorf("rendering api reference: %w", err)
	}

	var page bytes.Buffer
	if err := docsPage.Execute(&page, docsData{
		Title: "castpage API reference",
		Body:  template.HTML(body.String()),
	}); err != nil {
		return nil, fmt.Errorf("executing docs template: %w", err)
	}
	return &DocsHandler{page: page.Bytes()}, nil
}

// ServeDocs serves the API documentation page.
func (h *DocsHandler) ServeDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.page)
}
