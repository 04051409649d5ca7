package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/companion/internal/types"
	"github.com/brightpixel/companion/internal/validation"
)

// shareTask resolves the share token in the URL to its site-map task,
// writing a 404 when it does not resolve.
func (h *Handler) shareTask(w http.ResponseWriter, r *http.Request) (*types.CompanionTask, bool) {
	token := chi.URLParam(r, "shareToken")
	if token == "" {
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
		return nil, false
	}

	task, err := h.store.GetTaskByShareToken(r.Context(), token)
	if err != nil {
		MapStoreError(w, r, err)
		return nil, false
	}
	return task, true
}

// sharedSiteMap is the public view of a shared site-map deliverable.
type sharedSiteMap struct {
	Content  string                 `json:"content"`
	Comments []types.SiteMapComment `json:"comments"`
}

// GetSharedSiteMap handles GET /api/share/site-map/{shareToken}
func (h *Handler) GetSharedSiteMap(w http.ResponseWriter, r *http.Request) {
	task, ok := h.shareTask(w, r)
	if !ok {
		return
	}

	comments, err := h.store.ListComments(r.Context(), task.ID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	var content string
	if task.Content != nil {
		content = *task.Content
	}

	writeJSON(w, http.StatusOK, sharedSiteMap{Content: content, Comments: comments})
}

// CreateSharedComment handles POST /api/share/site-map/{shareToken}/comments
func (h *Handler) CreateSharedComment(w http.ResponseWriter, r *http.Request) {
	task, ok := h.shareTask(w, r)
	if !ok {
		return
	}

	var req types.CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.ValidateComment(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	comment, err := h.store.CreateComment(r.Context(), task.ID, req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// ResolveSharedComment handles PATCH /api/share/site-map/{shareToken}/comments/{commentID}
func (h *Handler) ResolveSharedComment(w http.ResponseWriter, r *http.Request) {
	task, ok := h.shareTask(w, r)
	if !ok {
		return
	}

	commentID, ok := idParam(r, "commentID")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var req struct {
		Resolved bool `json:"resolved"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.store.SetCommentResolved(r.Context(), task.ID, commentID, req.Resolved)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}
