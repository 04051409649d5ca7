package api

import (
	"net/http"
	"strconv"

	"github.com/brightpixel/companion/internal/types"
	"github.com/brightpixel/companion/internal/validation"
)

// ListProjects handles GET /api/projects?clientId=
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var clientID int64
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			WriteProblem(w, r, http.StatusBadRequest, "Invalid clientId")
			return
		}
		clientID = parsed
	}

	projects, err := h.store.ListProjects(r.Context(), clientID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

// CreateProject handles POST /api/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.ValidateCreateProject(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	project, err := h.store.CreateProject(r.Context(), req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// UpdateProject handles PATCH /api/projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid project id")
		return
	}

	var req types.UpdateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	project, err := h.store.UpdateProject(r.Context(), id, req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// DeleteProject handles DELETE /api/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid project id")
		return
	}

	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
