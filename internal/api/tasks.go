package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/companion/internal/types"
	"github.com/brightpixel/companion/internal/validation"
)

// ListTasks handles GET /api/clients/{clientID}/companion-tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	clientID, ok := idParam(r, "clientID")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid client id")
		return
	}

	if _, err := h.store.GetClient(r.Context(), clientID); err != nil {
		MapStoreError(w, r, err)
		return
	}

	tasks, err := h.store.ListTasks(r.Context(), clientID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /api/companion-tasks/{id}
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// CreateTask handles POST /api/clients/{clientID}/companion-tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	clientID, ok := idParam(r, "clientID")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid client id")
		return
	}

	var req types.CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.ValidateCreateTask(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	task, err := h.store.CreateTask(r.Context(), clientID, req.Type, types.TaskPending)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	if req.Content != nil || req.Metadata != nil {
		task, err = h.store.UpdateTask(r.Context(), task.ID, types.UpdateTaskRequest{
			Content:  req.Content,
			Metadata: req.Metadata,
		})
		if err != nil {
			MapStoreError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask handles PATCH /api/companion-tasks/{id}
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req types.UpdateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.store.UpdateTask(r.Context(), id, req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/companion-tasks/{id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Generate handles POST /api/clients/{clientID}/generate/{taskType}
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	clientID, ok := idParam(r, "clientID")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid client id")
		return
	}

	taskType := types.TaskType(chi.URLParam(r, "taskType"))
	if !types.ValidTaskType(taskType) {
		WriteProblem(w, r, http.StatusBadRequest,
			"Invalid task type; must be one of: "+strings.Join(validation.TaskTypeStrings(), ", "))
		return
	}

	// Body is optional; only some deliverables carry discovery notes.
	var req types.GenerateRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	task, err := h.orchestrator.Generate(r.Context(), clientID, taskType, req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}
