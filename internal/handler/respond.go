package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds request bodies, import documents included.
const maxBodyBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("handler: failed to encode JSON response")
	}
}

// writeError maps a session error to its HTTP status and writes it.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("handler: internal error")
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}

	body := map[string]string{
		"error": err.Error(),
		"kind":  service.ErrorKind(err),
	}
	var stock *service.InsufficientStockError
	if errors.As(err, &stock) {
		body["productId"] = stock.ProductID
		body["requested"] = stock.Requested.String()
		body["available"] = stock.Available.String()
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrImportFormat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrEmptyOrder):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// --- Shared response types ---

type productResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	UnitKind         string `json:"unitKind"`
	Unit             string `json:"unit"`
	Price            string `json:"price"`
	Quantity         string `json:"quantity"`
	OriginalQuantity string `json:"originalQuantity"`
	Value            string `json:"value"`
	StockPercent     string `json:"stockPercent"`
	StockBand        string `json:"stockBand"`
}

// toProductResponse renders money with 2 decimal places and the stock
// percentage rounded to a whole number.
func toProductResponse(p inventory.Product) productResponse {
	health := inventory.HealthOf(p)
	return productResponse{
		ID:               p.ID,
		Name:             p.Name,
		UnitKind:         string(p.UnitKind),
		Unit:             p.UnitKind.Short(),
		Price:            p.Price.StringFixed(2),
		Quantity:         p.Quantity.String(),
		OriginalQuantity: p.OriginalQuantity.String(),
		Value:            p.Value().StringFixed(2),
		StockPercent:     health.Percent.StringFixed(0),
		StockBand:        string(health.Band),
	}
}

type lineItemResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitKind    string `json:"unitKind"`
	Unit        string `json:"unit"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Subtotal    string `json:"subtotal"`
}

type orderResponse struct {
	ID        string             `json:"id"`
	CreatedAt string             `json:"createdAt"`
	Items     []lineItemResponse `json:"items"`
	Total     string             `json:"total"`
}

func toOrderResponse(o inventory.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = lineItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitKind:    string(item.UnitKind),
			Unit:        item.UnitKind.Short(),
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Subtotal:    item.Subtotal.StringFixed(2),
		}
	}
	return orderResponse{
		ID:        o.ID,
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
		Items:     items,
		Total:     o.Total.StringFixed(2),
	}
}
