package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bazar/m/domain"
)

const idempotencyHeader = "Idempotency-Key"

type saleRequest struct {
	CustomerID int64   `json:"customer_id"`
	ProductIDs []int64 `json:"product_ids"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleCashier) {
		return
	}
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sale, err := h.sales.CreateSaleOnce(r.Context(), r.Header.Get(idempotencyHeader), req.CustomerID, req.ProductIDs)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to create sale")
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.ListSales(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "unable to list sales")
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to fetch sale")
		return
	}
	if sale == nil {
		respondError(w, http.StatusNotFound, "sale not found")
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *Handler) saleProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	products, err := h.sales.SaleProducts(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to fetch sale products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	if err := h.sales.DeleteSale(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "unable to delete sale")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func parseDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := time.Parse(domain.DateLayout, chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return date, true
}

func (h *Handler) salesOnDate(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(w, r)
	if !ok {
		return
	}
	sales, err := h.sales.SalesOnDate(r.Context(), date)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to fetch sales")
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(w, r)
	if !ok {
		return
	}
	summary, err := h.sales.DailySummary(r.Context(), date)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to fetch daily sales")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) highestSale(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sales.HighestValueSale(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "unable to fetch highest sale")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
