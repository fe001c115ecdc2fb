// Package page renders the single-page portfolio from the content catalogue.
package page

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/portfolio/backend/internal/content"
	"github.com/portfolio/backend/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Section is one navigation target.
type Section struct {
	ID    string
	Label string
}

var sections = []Section{
	{"home", "Home"},
	{"about", "About"},
	{"skills", "Skills"},
	{"services", "Services"},
	{"projects", "Projects"},
	{"contact", "Contact"},
}

type viewData struct {
	Profile        model.Profile
	Sections       []Section
	Categories     []string
	ActiveCategory string
	Skills         []model.Skill
	Services       []model.Service
	Projects       []model.Project
	Year           int
}

// Page composes every section into one HTML document.
type Page struct {
	catalogue *content.Catalogue
	tmpl      *template.Template
	now       func() time.Time
}

// New は埋め込みテンプレートを一度だけパースする
func New(catalogue *content.Catalogue) (*Page, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Page{catalogue: catalogue, tmpl: tmpl, now: time.Now}, nil
}

// ServeHTTP handles GET /. The skills filter is taken from ?skills=<category>.
func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	active := p.catalogue.CanonicalCategory(r.URL.Query().Get("skills"))
	data := viewData{
		Profile:        p.catalogue.Profile,
		Sections:       sections,
		Categories:     p.catalogue.Categories(),
		ActiveCategory: active,
		Skills:         p.catalogue.SkillsIn(active),
		Services:       p.catalogue.Services,
		Projects:       p.catalogue.Projects,
		Year:           p.now().Year(),
	}

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		slog.Error("page render failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Static は埋め込みの CSS とスクリプトを /static/ 配下で配信する
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
