package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/brightpixel/companion/internal/types"
	"github.com/brightpixel/companion/internal/validation"
)

// analysisKickoffTimeout bounds the background analysis started on client
// creation, since the originating request no longer limits it.
const analysisKickoffTimeout = 3 * time.Minute

// ListClients handles GET /api/clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := types.ClientFilter{
		Search:        q.Get("search"),
		Status:        types.Phase(q.Get("status")),
		Industry:      q.Get("industry"),
		ProjectStatus: q.Get("projectStatus"),
		Sort:          q.Get("sort"),
	}

	clients, err := h.store.ListClients(r.Context(), filter)
	if err != nil {
		slog.Error("list clients failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	if clients == nil {
		clients = []types.ClientWithProjects{}
	}

	writeJSON(w, http.StatusOK, clients)
}

// GetClient handles GET /api/clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "clientID")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid client id")
		return
	}

	client, err := h.store.GetClient(r.Context(), id)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, client)
}

// CreateClient handles POST /api/clients. On success a company analysis
// generation is kicked off in the background for the new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req types.CreateClientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.ValidateCreateClient(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	client, err := h.store.CreateClient(r.Context(), req)
	if err != nil {
		slog.Error("create client failed", "error", err)
		MapStoreError(w, r, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analysisKickoffTimeout)
		defer cancel()
		if _, err := h.orchestrator.Generate(ctx, client.ID, types.TaskCompanyAnalysis, types.GenerateRequest{}); err != nil {
			slog.Warn("initial company analysis failed", "client_id", client.ID, "error", err)
		}
	}()

	writeJSON(w, http.StatusCreated, client)
}

// UpdateClient handles PATCH /api/clients/{id}
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "clientID")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid client id")
		return
	}

	var req types.UpdateClientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.ValidateUpdateClient(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	client, err := h.store.UpdateClient(r.Context(), id, req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/{id}
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "clientID")
	if !ok {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid client id")
		return
	}

	if err := h.store.DeleteClient(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
