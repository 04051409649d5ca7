package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/brightpixel/companion/internal/auth"
	"github.com/brightpixel/companion/internal/companion"
	"github.com/brightpixel/companion/internal/llm"
	"github.com/brightpixel/companion/internal/store"
	"github.com/brightpixel/companion/internal/types"
)

// Handler implements the API handlers
type Handler struct {
	store        store.Store
	orchestrator *companion.Orchestrator
	sessions     *auth.Sessions
	llm          llm.Completer
	version      string
}

// NewHandler creates a new Handler.
func NewHandler(s store.Store, orchestrator *companion.Orchestrator, sessions *auth.Sessions, completer llm.Completer, version string) *Handler {
	return &Handler{
		store:        s,
		orchestrator: orchestrator,
		sessions:     sessions,
		llm:          completer,
		version:      version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := types.HealthResponse{
		Status:      "healthy",
		Version:     h.version,
		Model:       h.llm.ModelName(),
		ClientCount: stats.ClientCount,
		TaskCount:   stats.TaskCount,
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// idParam parses the named chi URL parameter as an int64 id.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}
