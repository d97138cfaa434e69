// Package views renders pages and htmx fragments from embedded templates.
// Each exported function takes the typed data its template expects.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/logger"
	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
)

//go:embed templates/*.html
var files embed.FS

//go:embed static
var static embed.FS

// Static serves the stylesheet under /static/
func Static() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

var funcs = template.FuncMap{
	"initial": models.Initial,
	"games":   models.Games,
	"roles":   models.RolesFor,
	"percent": func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
	"excerpt": func(s string, n int) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return strings.TrimSpace(string(r[:n])) + "…"
	},
	"roleSelect": NewRoleSelect,
	"badgeOOB":   func(n int) BadgeView { return BadgeView{Count: n, OOB: true} },
}

var (
	fragments *template.Template
	pages     = map[string]*template.Template{}
)

var pageFiles = []string{
	"login.html",
	"register.html",
	"home.html",
	"profile.html",
	"edit_profile.html",
	"scrims.html",
	"search.html",
	"teams.html",
	"error.html",
}

func init() {
	fragments = template.Must(template.New("views").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/partials.html"))
	for _, name := range pageFiles {
		pages[name] = template.Must(template.Must(fragments.Clone()).ParseFS(files, "templates/"+name))
	}
}

// render executes into a buffer first so a template error never leaves a
// half-written response. A failure is logged and answered with a 500, so
// handlers may drop the returned error.
func render(w http.ResponseWriter, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "Erro ao renderizar a página.", http.StatusInternalServerError)
		return err
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err := io.Copy(w, &buf)
	return err
}

func page(w http.ResponseWriter, file string, data any) error {
	return render(w, pages[file], "base", data)
}

func fragment(w http.ResponseWriter, name string, data any) error {
	return render(w, fragments, name, data)
}
