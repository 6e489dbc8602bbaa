package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/shopspring/decimal"
)

// ReportsSession defines the session methods needed by report handlers.
// Satisfied by *service.Session; narrow interface for testability.
type ReportsSession interface {
	Summary() service.Summary
	TopProducts() []inventory.ProductSales
	InventoryReport() []service.InventoryLine
}

// ReportsHandler handles statistics endpoints.
type ReportsHandler struct {
	session ReportsSession
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(session ReportsSession) *ReportsHandler {
	return &ReportsHandler{session: session}
}

// RegisterRoutes registers statistics endpoints.
// Expected to be mounted at /api/stats.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/top-products", h.TopProducts)
	r.Get("/inventory", h.Inventory)
}

// --- Response types ---

type summaryResponse struct {
	ProductCount   int    `json:"productCount"`
	TotalOrders    int    `json:"totalOrders"`
	TotalRevenue   string `json:"totalRevenue"`
	InventoryValue string `json:"inventoryValue"`
}

type productSalesResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	Revenue   string `json:"revenue"`
}

type inventoryResponse struct {
	Items      []productResponse `json:"items"`
	TotalValue string            `json:"totalValue"`
}

// --- Handlers ---

// Summary returns the dashboard headline figures.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s := h.session.Summary()
	writeJSON(w, http.StatusOK, summaryResponse{
		ProductCount:   s.ProductCount,
		TotalOrders:    s.TotalOrders,
		TotalRevenue:   s.TotalRevenue.StringFixed(2),
		InventoryValue: s.InventoryValue.StringFixed(2),
	})
}

// TopProducts returns per-product sales ordered by revenue, highest first.
// Optional ?limit=N truncates the list.
func (h *ReportsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	sales := h.session.TopProducts()

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		if limit < len(sales) {
			sales = sales[:limit]
		}
	}

	resp := make([]productSalesResponse, len(sales))
	for i, s := range sales {
		resp[i] = productSalesResponse{
			ProductID: s.ProductID,
			Name:      s.Name,
			Quantity:  s.Quantity.String(),
			Revenue:   s.Revenue.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Inventory lists every product with its stock health and value.
func (h *ReportsHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	lines := h.session.InventoryReport()

	resp := inventoryResponse{Items: make([]productResponse, len(lines))}
	total := decimal.Zero
	for i, line := range lines {
		resp.Items[i] = toProductResponse(line.Product)
		total = total.Add(line.Value)
	}
	resp.TotalValue = total.StringFixed(2)
	writeJSON(w, http.StatusOK, resp)
}
