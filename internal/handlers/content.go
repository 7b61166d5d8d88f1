package handlers

import (
	"net/http"

	"portfolio-backend/internal/models"
	"portfolio-backend/internal/profile"
)

// ContentHandler serves the static portfolio content to the page.
type ContentHandler struct {
	content *profile.Content
}

func NewContentHandler(content *profile.Content) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.Profile)
}

func (h *ContentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects := profile.FilterByCategory(h.content.Projects, r.URL.Query().Get("category"))
	if projects == nil {
		projects = []models.Project{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects":   projects,
		"categories": profile.Categories(h.content.Projects),
	})
}
