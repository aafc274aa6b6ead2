package handler

import (
	"embed"
	"html/template"

	"roombook/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates maps a page name to its parsed layout+content template set.
var pageTemplates = mustParseTemplates()

func mustParseTemplates() map[string]*template.Template {
	funcs := template.FuncMap{
		"slotLabel": model.SlotLabel,
	}
	pages := []string{"home", "calendar", "booking_form", "booking", "resources", "error"}
	m := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		m[page] = template.Must(template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+page+".html"))
	}
	return m
}
