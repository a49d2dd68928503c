package http

import (
	"embed"
	"html/template"
	"strings"

	"lustroom-portal/domain/model"
	"lustroom-portal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.New("base").Funcs(template.FuncMap{
		"typeHref":     typeHref,
		"isActiveType": isActiveType,
		// Contact blocks are authored HTML from the backend.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}).ParseFS(templateFS, "templates/*.html")
}

// typeHref keeps the current search when switching the type filter.
func typeHref(view *usecase.ContentView, contentType string) string {
	vq := model.ViewQuery{
		View:       string(model.ViewContent),
		PlatformID: view.PlatformID,
		TierID:     view.TierID,
		Query:      view.Filter.Query,
	}
	if !strings.EqualFold(contentType, usecase.FilterAll) {
		vq.Type = contentType
	}
	return usecase.ViewHref(vq)
}

func isActiveType(view *usecase.ContentView, contentType string) bool {
	selected := strings.TrimSpace(view.Filter.Type)
	if selected == "" {
		selected = usecase.FilterAll
	}
	return strings.EqualFold(selected, contentType)
}
