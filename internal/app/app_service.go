package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"finboard/internal/ai"
	"finboard/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type appService struct {
	pool         *pgxpool.Pool
	users        core.UserService
	transactions core.TransactionService
	parties      core.PartyService
	sales        core.SaleService
	purchases    core.PurchaseService
	reporting    core.ReportingService
	evaluator    ai.PromptEvaluator
	now          func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	users core.UserService,
	transactions core.TransactionService,
	parties core.PartyService,
	sales core.SaleService,
	purchases core.PurchaseService,
	reporting core.ReportingService,
	evaluator ai.PromptEvaluator,
) ApplicationService {
	return &appService{
		pool:         pool,
		users:        users,
		transactions: transactions,
		parties:      parties,
		sales:        sales,
		purchases:    purchases,
		reporting:    reporting,
		evaluator:    evaluator,
		now:          time.Now,
	}
}

// AuthenticateUser verifies credentials and returns a session on success.
func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("authentication failed: invalid credentials")
	}

	company, err := s.fetchCompanyByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}

	return &UserSession{
		UserID:       user.ID,
		CompanyID:    user.CompanyID,
		CompanyCode:  company.CompanyCode,
		Username:     user.Username,
		Role:         user.Role,
		Capabilities: user.Capabilities,
	}, nil
}

// GetUser returns a user profile by ID.
func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	company, err := s.fetchCompanyByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	return &UserResult{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		CompanyCode: company.CompanyCode,
	}, nil
}

// LoadDefaultCompany loads the active company, using COMPANY_CODE env var if set.
func (s *appService) LoadDefaultCompany(ctx context.Context) (*core.Company, error) {
	if code := os.Getenv("COMPANY_CODE"); code != "" {
		c := &core.Company{}
		err := s.pool.QueryRow(ctx,
			"SELECT id, company_code, name, currency FROM companies WHERE company_code = $1", code,
		).Scan(&c.ID, &c.CompanyCode, &c.Name, &c.Currency)
		if err != nil {
			return nil, fmt.Errorf("company %s not found: %w", code, err)
		}
		return c, nil
	}

	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies").Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple companies found; set COMPANY_CODE env var")
	}

	c := &core.Company{}
	if err := s.pool.QueryRow(ctx,
		"SELECT id, company_code, name, currency FROM companies LIMIT 1",
	).Scan(&c.ID, &c.CompanyCode, &c.Name, &c.Currency); err != nil {
		return nil, fmt.Errorf("no default company found, have migrations run?: %w", err)
	}
	return c, nil
}

func (s *appService) ListCategories(ctx context.Context, companyCode string) ([]core.Category, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.transactions.GetCategories(ctx, companyID)
}

func (s *appService) CreateCategory(ctx context.Context, companyCode, name, kind string) (*core.Category, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.transactions.CreateCategory(ctx, companyID, name, kind)
}

func (s *appService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*core.Transaction, error) {
	companyID, err := s.resolveCompanyID(ctx, req.CompanyCode)
	if err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date, "date")
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = string(core.StatusPending)
	}

	return s.transactions.Create(ctx, companyID, core.TransactionInput{
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        core.TransactionType(req.Type),
		CategoryID:  req.CategoryID,
		Status:      core.TransactionStatus(status),
	})
}

func (s *appService) ListTransactions(ctx context.Context, companyCode string, q TransactionQuery) ([]core.Transaction, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	var filter core.TransactionFilter
	if q.From != "" {
		from, err := parseDate(q.From, "from")
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := parseDate(q.To, "to")
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}
	if q.Type != "" {
		t := core.TransactionType(q.Type)
		filter.Type = &t
	}
	if q.Status != "" {
		st := core.TransactionStatus(q.Status)
		filter.Status = &st
	}

	return s.transactions.List(ctx, companyID, filter)
}

func (s *appService) SettleTransaction(ctx context.Context, companyCode string, transactionID int, paymentDate string) (*core.Transaction, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	when := s.now()
	if paymentDate != "" {
		if when, err = parseDate(paymentDate, "payment_date"); err != nil {
			return nil, err
		}
	}
	return s.transactions.Settle(ctx, companyID, transactionID, when)
}

func (s *appService) ListCustomers(ctx context.Context, companyCode string) ([]core.Customer, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.parties.GetCustomers(ctx, companyID)
}

func (s *appService) CreateCustomer(ctx context.Context, companyCode string, req CreatePartyRequest) (*core.Customer, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.parties.CreateCustomer(ctx, companyID, core.PartyInput{Name: req.Name, Email: req.Email, Phone: req.Phone})
}

func (s *appService) ListSuppliers(ctx context.Context, companyCode string) ([]core.Supplier, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.parties.GetSuppliers(ctx, companyID)
}

func (s *appService) CreateSupplier(ctx context.Context, companyCode string, req CreatePartyRequest) (*core.Supplier, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.parties.CreateSupplier(ctx, companyID, core.PartyInput{Name: req.Name, Email: req.Email, Phone: req.Phone})
}

func (s *appService) RegisterSale(ctx context.Context, req RegisterSaleRequest) (*core.Sale, error) {
	companyID, err := s.resolveCompanyID(ctx, req.CompanyCode)
	if err != nil {
		return nil, err
	}

	saleDate, err := parseDate(req.SaleDate, "sale_date")
	if err != nil {
		return nil, err
	}
	firstDue, err := parseOptionalDate(req.FirstDueDate, "first_due_date")
	if err != nil {
		return nil, err
	}

	return s.sales.RegisterSale(ctx, companyID, core.SaleInput{
		CustomerID:        req.CustomerID,
		Description:       req.Description,
		TotalAmount:       req.TotalAmount,
		InstallmentCount:  req.InstallmentCount,
		SaleDate:          saleDate,
		FirstDueDate:      firstDue,
		InstallmentAmount: req.InstallmentAmount,
	})
}

func (s *appService) ListSales(ctx context.Context, companyCode string) ([]core.Sale, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.sales.GetSales(ctx, companyID)
}

func (s *appService) GetSale(ctx context.Context, companyCode string, saleID int) (*core.Sale, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.sales.GetSale(ctx, companyID, saleID)
}

func (s *appService) PaySaleInstallment(ctx context.Context, companyCode string, saleID, installmentNumber int, paidAt string) (*core.Installment, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	when := s.now()
	if paidAt != "" {
		if when, err = parseDate(paidAt, "paid_at"); err != nil {
			return nil, err
		}
	}
	return s.sales.PayInstallment(ctx, companyID, saleID, installmentNumber, when)
}

func (s *appService) RegisterPurchase(ctx context.Context, req RegisterPurchaseRequest) (*core.Purchase, error) {
	companyID, err := s.resolveCompanyID(ctx, req.CompanyCode)
	if err != nil {
		return nil, err
	}

	purchaseDate, err := parseDate(req.PurchaseDate, "purchase_date")
	if err != nil {
		return nil, err
	}
	firstDue, err := parseOptionalDate(req.FirstDueDate, "first_due_date")
	if err != nil {
		return nil, err
	}

	return s.purchases.RegisterPurchase(ctx, companyID, core.PurchaseInput{
		SupplierID:        req.SupplierID,
		Description:       req.Description,
		TotalAmount:       req.TotalAmount,
		InstallmentCount:  req.InstallmentCount,
		PurchaseDate:      purchaseDate,
		FirstDueDate:      firstDue,
		InstallmentAmount: req.InstallmentAmount,
	})
}

func (s *appService) ListPurchases(ctx context.Context, companyCode string) ([]core.Purchase, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.purchases.GetPurchases(ctx, companyID)
}

func (s *appService) GetPurchase(ctx context.Context, companyCode string, purchaseID int) (*core.Purchase, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.purchases.GetPurchase(ctx, companyID, purchaseID)
}

func (s *appService) PayPurchaseInstallment(ctx context.Context, companyCode string, purchaseID, installmentNumber int, paidAt string) (*core.Installment, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	when := s.now()
	if paidAt != "" {
		if when, err = parseDate(paidAt, "paid_at"); err != nil {
			return nil, err
		}
	}
	return s.purchases.PayInstallment(ctx, companyID, purchaseID, installmentNumber, when)
}

func (s *appService) GetCashFlowReport(ctx context.Context, companyCode string, req PeriodRequest) (*core.CashFlowReport, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	q := core.PeriodQuery{Preset: core.PeriodPreset(req.Preset)}
	if req.From != "" || req.To != "" {
		from, err := parseOptionalDate(req.From, "from")
		if err != nil {
			return nil, err
		}
		to, err := parseOptionalDate(req.To, "to")
		if err != nil {
			return nil, err
		}
		q.From, q.To = from, to
	}

	return s.reporting.GetCashFlow(ctx, companyID, q)
}

func (s *appService) GetWorkingCapital(ctx context.Context, companyCode string) (*core.WorkingCapitalSnapshot, error) {
	companyID, err := s.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return s.reporting.GetWorkingCapital(ctx, companyID, s.now())
}

// GenerateForecast evaluates the snapshot and hands it to the AI evaluator.
// Evaluator failures surface to the caller unchanged; there is no retry and
// no placeholder analysis at this layer.
func (s *appService) GenerateForecast(ctx context.Context, companyCode string) (*ForecastResult, error) {
	snapshot, err := s.GetWorkingCapital(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	analysis, err := s.evaluator.AnalyzeWorkingCapital(ctx, *snapshot)
	if err != nil {
		return nil, err
	}

	return &ForecastResult{
		Snapshot:    *snapshot,
		Analysis:    *analysis,
		GeneratedAt: s.now(),
	}, nil
}

// ── private helpers ───────────────────────────────────────────────────────────

// resolveCompanyID looks up the integer primary key for a company code.
func (s *appService) resolveCompanyID(ctx context.Context, companyCode string) (int, error) {
	var id int
	if err := s.pool.QueryRow(ctx,
		"SELECT id FROM companies WHERE company_code = $1", companyCode,
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("company %s not found", companyCode)
		}
		return 0, fmt.Errorf("failed to resolve company: %w", err)
	}
	return id, nil
}

func (s *appService) fetchCompanyByID(ctx context.Context, companyID int) (*core.Company, error) {
	c := &core.Company{}
	if err := s.pool.QueryRow(ctx,
		"SELECT id, company_code, name, currency FROM companies WHERE id = $1", companyID,
	).Scan(&c.ID, &c.CompanyCode, &c.Name, &c.Currency); err != nil {
		return nil, fmt.Errorf("company id=%d not found: %w", companyID, err)
	}
	return c, nil
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, core.Validationf("invalid %s %q: expected YYYY-MM-DD", field, value)
	}
	return t, nil
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
