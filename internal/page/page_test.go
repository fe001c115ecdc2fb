package page

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/portfolio/backend/internal/content"
)

func newTestPage(t *testing.T) *Page {
	t.Helper()
	cat, err := content.Load("")
	if err != nil {
		t.Fatalf("content.Load: %v", err)
	}
	p, err := New(cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestPage_RendersAllSections(t *testing.T) {
	p := newTestPage(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, got %q", ct)
	}
	body := rec.Body.String()
	for _, id := range []string{`id="home"`, `id="about"`, `id="skills"`, `id="services"`, `id="projects"`, `id="contact"`, `id="contact-form"`} {
		if !strings.Contains(body, id) {
			t.Errorf("expected %s in page", id)
		}
	}
	for _, text := range []string{"E-Commerce Platform", "Frontend Development", "Cypress"} {
		if !strings.Contains(body, text) {
			t.Errorf("expected %q in page", text)
		}
	}
}

func TestPage_SkillFilter(t *testing.T) {
	p := newTestPage(t)
	req := httptest.NewRequest(http.MethodGet, "/?skills=database", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `class="tab active" href="?skills=Database#skills"`) {
		t.Error("expected Database tab to be active")
	}
	if !strings.Contains(body, "<strong>PostgreSQL</strong>") {
		t.Error("expected database skills to be listed")
	}
	if strings.Contains(body, "<strong>React</strong>") {
		t.Error("expected frontend skills to be filtered out")
	}
}

func TestPage_UnknownPath(t *testing.T) {
	p := newTestPage(t)
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStatic_ServesAssets(t *testing.T) {
	srv := httptest.NewServer(Static())
	defer srv.Close()

	for _, name := range []string{"site.css", "contact.js", "reveal.js"} {
		res, err := http.Get(srv.URL + "/static/" + name)
		if err != nil {
			t.Fatalf("GET %s: %v", name, err)
		}
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		if res.StatusCode != http.StatusOK || len(body) == 0 {
			t.Errorf("%s: expected 200 with content, got %d (%d bytes)", name, res.StatusCode, len(body))
		}
	}
}
