package handlers

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	indexTmpl  *template.Template
	addTmpl    *template.Template
	updateTmpl *template.Template
	errorTmpl  *template.Template
)

func init() {
	funcMap := template.FuncMap{
		"derefOr": func(s *string, fallback string) string {
			if s == nil {
				return fallback
			}
			return *s
		},
	}

	pages := map[string]**template.Template{
		"index.html":  &indexTmpl,
		"add.html":    &addTmpl,
		"update.html": &updateTmpl,
		"error.html":  &errorTmpl,
	}
	for page, target := range pages {
		*target = template.Must(template.New(page).Funcs(funcMap).ParseFS(
			templateFS,
			"templates/base.html",
			"templates/navigation.html",
			"templates/"+page,
		))
	}
}
