package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/shopspring/decimal"
)

// ProductSession defines the session methods needed by product handlers.
// Satisfied by *service.Session; narrow interface for testability.
type ProductSession interface {
	ListProducts() []inventory.Product
	FindProduct(id string) (inventory.Product, error)
	AddProduct(ctx context.Context, in service.ProductInput) (inventory.Product, error)
	EditProduct(ctx context.Context, id string, in service.ProductInput) (inventory.Product, error)
	RequestDeleteProduct(id string) (service.PendingConfirmation, error)
}

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	session ProductSession
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(session ProductSession) *ProductHandler {
	return &ProductHandler{session: session}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
// Expected to be mounted at /api/products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request types ---

// Decimal fields accept both JSON strings and numbers.
type createProductRequest struct {
	Name     string          `json:"name"`
	UnitKind string          `json:"unitKind"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

type updateProductRequest struct {
	Name             string          `json:"name"`
	UnitKind         string          `json:"unitKind"`
	Price            decimal.Decimal `json:"price"`
	Quantity         decimal.Decimal `json:"quantity"`
	OriginalQuantity decimal.Decimal `json:"originalQuantity"`
}

// --- Handlers ---

// List returns the catalog in insertion order with stock health.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.session.ListProducts()

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single product by ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.session.FindProduct(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Create stocks a new product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.session.AddProduct(r.Context(), service.ProductInput{
		Name:     req.Name,
		UnitKind: inventory.UnitKind(req.UnitKind),
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

// Update replaces every editable field of a product.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.session.EditProduct(r.Context(), chi.URLParam(r, "id"), service.ProductInput{
		Name:             req.Name,
		UnitKind:         inventory.UnitKind(req.UnitKind),
		Price:            req.Price,
		Quantity:         req.Quantity,
		OriginalQuantity: req.OriginalQuantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Delete requests removal of a product. The product stays in the catalog
// until the returned token is confirmed.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pending, err := h.session.RequestDeleteProduct(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, pending)
}
