package handlers

import (
	"embed"
	"html/template"
	"time"

	"ttportal/internal/money"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"dinars": money.Format,
	"day": func(t time.Time) string {
		return t.Format(dateLayout)
	},
	"expiry": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(dateLayout)
	},
}

var pageNames = []string{
	"login", "signup", "home", "subscriptions",
	"questions", "answers", "findAgency", "predict",
}

// parseTemplates builds one template set per page, each sharing the base
// layout.
func parseTemplates() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(
			template.New("base.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html"))
	}
	return pages
}
