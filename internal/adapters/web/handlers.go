package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"finboard/internal/app"
	"finboard/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Handler holds the ApplicationService and the JWT signing secret.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, log *logrus.Logger, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public API) ─────────────────────────────────────────────────────
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes ─────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(core.CapViewReports))
			r.Get("/api/companies/{code}/reports/cash-flow", h.apiCashFlow)
			r.Get("/api/companies/{code}/reports/working-capital", h.apiWorkingCapital)
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(core.CapGenerateForecasts))
			r.Post("/api/companies/{code}/reports/forecast", h.apiForecast)
		})

		// ── Transactions & categories ─────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(core.CapViewReports))
			r.Get("/api/companies/{code}/transactions", h.apiListTransactions)
			r.Get("/api/companies/{code}/categories", h.apiListCategories)
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(core.CapManageTransactions))
			r.Post("/api/companies/{code}/transactions", h.apiCreateTransaction)
			r.Post("/api/companies/{code}/transactions/{id}/settle", h.apiSettleTransaction)
			r.Post("/api/companies/{code}/categories", h.apiCreateCategory)
		})

		// ── Sales & customers ─────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(core.CapViewReports))
			r.Get("/api/companies/{code}/customers", h.apiListCustomers)
			r.Get("/api/companies/{code}/sales", h.apiListSales)
			r.Get("/api/companies/{code}/sales/{id}", h.apiGetSale)
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(core.CapManageSales))
			r.Post("/api/companies/{code}/customers", h.apiCreateCustomer)
			r.Post("/api/companies/{code}/sales", h.apiRegisterSale)
			r.Post("/api/companies/{code}/sales/{id}/installments/{number}/pay", h.apiPaySaleInstallment)
		})

		// ── Purchases & suppliers ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(core.CapViewReports))
			r.Get("/api/companies/{code}/suppliers", h.apiListSuppliers)
			r.Get("/api/companies/{code}/purchases", h.apiListPurchases)
			r.Get("/api/companies/{code}/purchases/{id}", h.apiGetPurchase)
		})
		r.Group(func(r chi.Router) {
			r.Use(RequireCapability(core.CapManagePurchases))
			r.Post("/api/companies/{code}/suppliers", h.apiCreateSupplier)
			r.Post("/api/companies/{code}/purchases", h.apiRegisterPurchase)
			r.Post("/api/companies/{code}/purchases/{id}/installments/{number}/pay", h.apiPayPurchaseInstallment)
		})
	})

	return r
}

// health returns service status and the loaded company code.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	company, err := h.svc.LoadDefaultCompany(r.Context())
	companyCode := ""
	if err == nil && company != nil {
		companyCode = company.CompanyCode
	}

	type response struct {
		Status  string `json:"status"`
		Company string `json:"company"`
	}

	writeJSON(w, response{Status: "ok", Company: companyCode})
}

// companyCode extracts the {code} URL parameter.
func companyCode(r *http.Request) string {
	return chi.URLParam(r, "code")
}

// intParam extracts a numeric URL parameter, writing a 400 on failure.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, r, "invalid "+name+" parameter", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
