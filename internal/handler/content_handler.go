package handler

import (
	"net/http"
	"strings"

	"github.com/portfolio/backend/internal/content"
	"github.com/portfolio/backend/internal/model"
)

// ContentHandler はポートフォリオのコンテンツを JSON で返す（読み取り専用）
type ContentHandler struct {
	catalogue *content.Catalogue
}

func NewContentHandler(catalogue *content.Catalogue) *ContentHandler {
	return &ContentHandler{catalogue: catalogue}
}

type projectsResponse struct {
	Projects []model.Project `json:"projects"`
}

// Projects handles GET /api/projects?technology=
func (h *ContentHandler) Projects(w http.ResponseWriter, r *http.Request) {
	projects := h.catalogue.ProjectsUsing(r.URL.Query().Get("technology"))
	if projects == nil {
		projects = []model.Project{}
	}
	writeJSON(w, http.StatusOK, projectsResponse{Projects: projects})
}

type skillsResponse struct {
	Category   string        `json:"category"`
	Categories []string      `json:"categories"`
	Skills     []model.Skill `json:"skills"`
}

// Skills handles GET /api/skills?category=
// An unknown category is a 404 so the frontend can fall back to "All".
func (h *ContentHandler) Skills(w http.ResponseWriter, r *http.Request) {
	requested := strings.TrimSpace(r.URL.Query().Get("category"))
	category := h.catalogue.CanonicalCategory(requested)
	if requested != "" && category == content.AllCategory && !strings.EqualFold(requested, content.AllCategory) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown category"})
		return
	}

	skills := h.catalogue.SkillsIn(category)
	if skills == nil {
		skills = []model.Skill{}
	}
	writeJSON(w, http.StatusOK, skillsResponse{
		Category:   category,
		Categories: h.catalogue.Categories(),
		Skills:     skills,
	})
}

type servicesResponse struct {
	Services []model.Service `json:"services"`
}

// Services handles GET /api/services
func (h *ContentHandler) Services(w http.ResponseWriter, r *http.Request) {
	services := h.catalogue.Services
	if services == nil {
		services = []model.Service{}
	}
	writeJSON(w, http.StatusOK, servicesResponse{Services: services})
}

// Profile handles GET /api/profile
func (h *ContentHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalogue.Profile)
}
