package web

import (
	"net/http"

	"finboard/internal/app"
)

// apiCashFlow handles GET /api/companies/{code}/reports/cash-flow.
// Accepts preset=all_time|next_30_days|next_60_days|next_90_days, or a custom
// from/to pair of YYYY-MM-DD dates.
func (h *Handler) apiCashFlow(w http.ResponseWriter, r *http.Request) {
	req := app.PeriodRequest{
		Preset: r.URL.Query().Get("preset"),
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
	}

	report, err := h.svc.GetCashFlowReport(r.Context(), companyCode(r), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// apiWorkingCapital handles GET /api/companies/{code}/reports/working-capital.
func (h *Handler) apiWorkingCapital(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.GetWorkingCapital(r.Context(), companyCode(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, snapshot)
}

// apiForecast handles POST /api/companies/{code}/reports/forecast.
// Forecast generation hits the AI collaborator, so it is a POST even though it
// does not mutate database state.
func (h *Handler) apiForecast(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GenerateForecast(r.Context(), companyCode(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
