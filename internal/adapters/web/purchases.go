package web

import (
	"net/http"

	"finboard/internal/app"
)

// apiRegisterPurchase handles POST /api/companies/{code}/purchases.
func (h *Handler) apiRegisterPurchase(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterPurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CompanyCode = companyCode(r)

	purchase, err := h.svc.RegisterPurchase(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, purchase)
}

// apiListPurchases handles GET /api/companies/{code}/purchases.
func (h *Handler) apiListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.ListPurchases(r.Context(), companyCode(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, purchases)
}

// apiGetPurchase handles GET /api/companies/{code}/purchases/{id}.
func (h *Handler) apiGetPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	purchase, err := h.svc.GetPurchase(r.Context(), companyCode(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, purchase)
}

// apiPayPurchaseInstallment handles
// POST /api/companies/{code}/purchases/{id}/installments/{number}/pay.
func (h *Handler) apiPayPurchaseInstallment(w http.ResponseWriter, r *http.Request) {
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

	installment, err := h.svc.PayPurchaseInstallment(r.Context(), companyCode(r), id, number, req.PaidAt)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, installment)
}
