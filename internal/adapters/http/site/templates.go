package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

var funcs = template.FuncMap{
	// pct maps a 0-10 score to a bar width.
	"pct": func(score float64) float64 {
		switch {
		case score < 0:
			return 0
		case score > 10:
			return 100
		}
		return score * 10
	},
	// link returns "?"+q with key set to value.
	"link": func(q url.Values, key, value string) string {
		next := url.Values{}
		for k, vs := range q {
			next[k] = append([]string(nil), vs...)
		}
		next.Set(key, value)
		return "?" + next.Encode()
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
