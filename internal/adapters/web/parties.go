package web

import (
	"net/http"

	"finboard/internal/app"
)

// apiListCustomers handles GET /api/companies/{code}/customers.
func (h *Handler) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context(), companyCode(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, customers)
}

// apiCreateCustomer handles POST /api/companies/{code}/customers.
func (h *Handler) apiCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req app.CreatePartyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.svc.CreateCustomer(r.Context(), companyCode(r), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, customer)
}

// apiListSuppliers handles GET /api/companies/{code}/suppliers.
func (h *Handler) apiListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context(), companyCode(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, suppliers)
}

// apiCreateSupplier handles POST /api/companies/{code}/suppliers.
func (h *Handler) apiCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req app.CreatePartyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	supplier, err := h.svc.CreateSupplier(r.Context(), companyCode(r), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, supplier)
}
