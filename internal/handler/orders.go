package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OrderSession defines the session methods needed by order handlers.
// Satisfied by *service.Session; narrow interface for testability.
type OrderSession interface {
	WorkingOrder() inventory.WorkingOrder
	AddItem(productID string, quantity decimal.Decimal) (inventory.WorkingOrder, error)
	ResetOrder() inventory.WorkingOrder
	Finalize(ctx context.Context) (inventory.Order, error)
	ListOrders() []inventory.Order
	FindOrder(id string) (inventory.Order, error)
}

// OrderHandler handles the working order and the order history.
type OrderHandler struct {
	session OrderSession
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(session OrderSession) *OrderHandler {
	return &OrderHandler{session: session}
}

// RegisterRoutes registers working-order endpoints on the given Chi router.
// Expected to be mounted at /api/order.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Current)
	r.Delete("/", h.Reset)
	r.Post("/items", h.AddItem)
	r.Post("/finalize", h.Finalize)
}

// RegisterHistoryRoutes registers order history endpoints.
// Expected to be mounted at /api/orders.
func (h *OrderHandler) RegisterHistoryRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// --- Request types ---

type addItemRequest struct {
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func workingResponse(w inventory.WorkingOrder) orderResponse {
	return toOrderResponse(inventory.Order(w))
}

// --- Handlers ---

// Current returns the order being assembled.
func (h *OrderHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workingResponse(h.session.WorkingOrder()))
}

// Reset discards the working order.
func (h *OrderHandler) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workingResponse(h.session.ResetOrder()))
}

// AddItem appends a line to the working order. Stock is checked, not
// reserved.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "productId is required"})
		return
	}

	order, err := h.session.AddItem(req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workingResponse(order))
}

// Finalize commits the working order to the history.
func (h *OrderHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	order, err := h.session.Finalize(r.Context())
	if err != nil {
		if order.ID != "" {
			log.Error().Err(err).Str("order_id", order.ID).Msg("handler: order committed but not persisted")
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// List returns the order history, oldest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := h.session.ListOrders()

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single historical order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.session.FindOrder(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
