package web

import (
	"net/http"

	"finboard/internal/app"
)

// apiListTransactions handles GET /api/companies/{code}/transactions.
// Supports from, to, type and status query parameters.
func (h *Handler) apiListTransactions(w http.ResponseWriter, r *http.Request) {
	q := app.TransactionQuery{
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Type:   r.URL.Query().Get("type"),
		Status: r.URL.Query().Get("status"),
	}

	transactions, err := h.svc.ListTransactions(r.Context(), companyCode(r), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, transactions)
}

// apiCreateTransaction handles POST /api/companies/{code}/transactions.
func (h *Handler) apiCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req app.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CompanyCode = companyCode(r)

	tx, err := h.svc.CreateTransaction(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, tx)
}

// apiSettleTransaction handles POST /api/companies/{code}/transactions/{id}/settle.
func (h *Handler) apiSettleTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		PaymentDate string `json:"payment_date,omitempty"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.svc.SettleTransaction(r.Context(), companyCode(r), id, req.PaymentDate)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, tx)
}

// apiListCategories handles GET /api/companies/{code}/categories.
func (h *Handler) apiListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context(), companyCode(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, categories)
}

// apiCreateCategory handles POST /api/companies/{code}/categories.
func (h *Handler) apiCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), companyCode(r), req.Name, req.Kind)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, category)
}
