package api

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"bazar/m/domain"
)

type productRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

func (req productRequest) product() domain.Product {
	return domain.Product{Name: req.Name, Price: req.Price, Quantity: req.Quantity}
}

type updateProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type restockRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	product, err := h.products.Create(r.Context(), req.product())
	if err != nil {
		h.respondServiceError(w, r, err, "unable to create product")
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "unable to list products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) lowStockProducts(w http.ResponseWriter, r *http.Request) {
	threshold := h.lowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = n
	}
	products, err := h.products.LowStock(r.Context(), threshold)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to list low stock products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to fetch product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	product, err := h.products.Update(r.Context(), domain.Product{ID: id, Name: req.Name, Price: req.Price})
	if err != nil {
		h.respondServiceError(w, r, err, "unable to update product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) restockProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req restockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	product, err := h.products.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to restock product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "unable to delete product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
