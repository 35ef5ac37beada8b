package web

import (
	"net/http"

	"finboard/internal/app"
)

// apiRegisterSale handles POST /api/companies/{code}/sales.
func (h *Handler) apiRegisterSale(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CompanyCode = companyCode(r)

	sale, err := h.svc.RegisterSale(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, sale)
}

// apiListSales handles GET /api/companies/{code}/sales.
func (h *Handler) apiListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context(), companyCode(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, sales)
}

// apiGetSale handles GET /api/companies/{code}/sales/{id}.
func (h *Handler) apiGetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	sale, err := h.svc.GetSale(r.Context(), companyCode(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, sale)
}

// apiPaySaleInstallment handles
// POST /api/companies/{code}/sales/{id}/installments/{number}/pay.
func (h *Handler) apiPaySaleInstallment(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	number, ok := intParam(w, r, "number")
	if !ok {
		return
	}

	var req struct {
		PaidAt string `json:"paid_at,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	installment, err := h.svc.PaySaleInstallment(r.Context(), companyCode(r), id, number, req.PaidAt)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, installment)
}
