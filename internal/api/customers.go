package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bazar/m/domain"
)

type customerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DNI       string `json:"dni"`
	Address   string `json:"address"`
}

func (req customerRequest) customer(id int64) domain.Customer {
	return domain.Customer{ID: id, FirstName: req.FirstName, LastName: req.LastName, DNI: req.DNI, Address: req.Address}
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleCashier) {
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	customer, err := h.customers.Create(r.Context(), req.customer(0))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to create customer")
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	limit, offset := 0, 0
	var err error
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil {
			respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
	}
	customers, err := h.customers.List(r.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to list customers")
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "unable to fetch customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) getCustomerByDNI(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.GetByDNI(r.Context(), chi.URLParam(r, "dni"))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to fetch customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	customer, err := h.customers.Update(r.Context(), req.customer(id))
	if err != nil {
		h.respondServiceError(w, r, err, "unable to update customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	if err := h.customers.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "unable to delete customer")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
