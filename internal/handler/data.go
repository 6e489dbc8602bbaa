package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/rs/zerolog/log"
)

// DataSession defines the session methods needed by export/import handlers.
// Satisfied by *service.Session; narrow interface for testability.
type DataSession interface {
	Export() inventory.Document
	RequestImport(raw []byte) (service.PendingConfirmation, error)
	RequestReset() service.PendingConfirmation
}

// DataHandler handles whole-dataset endpoints: export, import and reset.
type DataHandler struct {
	session DataSession
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(session DataSession) *DataHandler {
	return &DataHandler{session: session}
}

// RegisterRoutes registers dataset endpoints.
// Expected to be mounted at /api/data.
func (h *DataHandler) RegisterRoutes(r chi.Router) {
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)
	r.Post("/reset", h.Reset)
}

// Export downloads the full dataset as an indented JSON attachment.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc := h.session.Export()

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		writeError(w, fmt.Errorf("encode export: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, inventory.ExportFilename(doc.ExportedAt)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("handler: failed to write export")
	}
}

// Import validates the uploaded document and returns a confirmation
// token. Nothing is replaced until the token is confirmed.
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "import file too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}

	pending, err := h.session.RequestImport(raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, pending)
}

// Reset returns a confirmation token for clearing every collection.
func (h *DataHandler) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusAccepted, h.session.RequestReset())
}
