package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/stockbook/internal/service"
)

// ConfirmationSession defines the session methods needed to settle
// pending destructive actions.
// Satisfied by *service.Session; narrow interface for testability.
type ConfirmationSession interface {
	Pending() []service.PendingConfirmation
	Confirm(ctx context.Context, token string) (service.PendingConfirmation, error)
	Cancel(token string) error
}

// ConfirmationHandler handles the second step of delete, import and reset.
type ConfirmationHandler struct {
	session ConfirmationSession
}

// NewConfirmationHandler creates a new ConfirmationHandler.
func NewConfirmationHandler(session ConfirmationSession) *ConfirmationHandler {
	return &ConfirmationHandler{session: session}
}

// RegisterRoutes registers confirmation endpoints.
// Expected to be mounted at /api/confirmations.
func (h *ConfirmationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/{token}", h.Confirm)
	r.Delete("/{token}", h.Cancel)
}

// List returns confirmations that are still waiting.
func (h *ConfirmationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Pending())
}

// Confirm runs the action behind the token. Tokens are single-use.
func (h *ConfirmationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	done, err := h.session.Confirm(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, done)
}

// Cancel discards the action behind the token.
func (h *ConfirmationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Cancel(chi.URLParam(r, "token")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
