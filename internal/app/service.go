package app

import (
	"context"

	"finboard/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic; implementations contain no
// display logic of any kind.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// LoadDefaultCompany loads the active company. Uses COMPANY_CODE env var
	// if set; otherwise expects exactly one company in the database.
	LoadDefaultCompany(ctx context.Context) (*core.Company, error)

	// ListCategories returns all categories for a company.
	ListCategories(ctx context.Context, companyCode string) ([]core.Category, error)

	// CreateCategory creates an income or expense category.
	CreateCategory(ctx context.Context, companyCode, name, kind string) (*core.Category, error)

	// CreateTransaction records a new transaction.
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*core.Transaction, error)

	// ListTransactions returns transactions matching the query, date ascending.
	ListTransactions(ctx context.Context, companyCode string, q TransactionQuery) ([]core.Transaction, error)

	// SettleTransaction flips a pending transaction to paid.
	SettleTransaction(ctx context.Context, companyCode string, transactionID int, paymentDate string) (*core.Transaction, error)

	// ListCustomers returns all active customers for a company.
	ListCustomers(ctx context.Context, companyCode string) ([]core.Customer, error)

	// CreateCustomer creates a customer record.
	CreateCustomer(ctx context.Context, companyCode string, req CreatePartyRequest) (*core.Customer, error)

	// ListSuppliers returns all active suppliers for a company.
	ListSuppliers(ctx context.Context, companyCode string) ([]core.Supplier, error)

	// CreateSupplier creates a supplier record.
	CreateSupplier(ctx context.Context, companyCode string, req CreatePartyRequest) (*core.Supplier, error)

	// RegisterSale creates a sale and its installment schedule atomically.
	RegisterSale(ctx context.Context, req RegisterSaleRequest) (*core.Sale, error)

	// ListSales returns all sales for a company, newest first.
	ListSales(ctx context.Context, companyCode string) ([]core.Sale, error)

	// GetSale returns one sale with its installment schedule.
	GetSale(ctx context.Context, companyCode string, saleID int) (*core.Sale, error)

	// PaySaleInstallment settles one receivable installment.
	PaySaleInstallment(ctx context.Context, companyCode string, saleID, installmentNumber int, paidAt string) (*core.Installment, error)

	// RegisterPurchase creates a purchase and its installment schedule atomically.
	RegisterPurchase(ctx context.Context, req RegisterPurchaseRequest) (*core.Purchase, error)

	// ListPurchases returns all purchases for a company, newest first.
	ListPurchases(ctx context.Context, companyCode string) ([]core.Purchase, error)

	// GetPurchase returns one purchase with its installment schedule.
	GetPurchase(ctx context.Context, companyCode string, purchaseID int) (*core.Purchase, error)

	// PayPurchaseInstallment settles one payable installment.
	PayPurchaseInstallment(ctx context.Context, companyCode string, purchaseID, installmentNumber int, paidAt string) (*core.Installment, error)

	// GetCashFlowReport resolves the requested period and aggregates the
	// company's cash-flow balances over it.
	GetCashFlowReport(ctx context.Context, companyCode string, req PeriodRequest) (*core.CashFlowReport, error)

	// GetWorkingCapital evaluates the company's liquidity snapshot as of now.
	GetWorkingCapital(ctx context.Context, companyCode string) (*core.WorkingCapitalSnapshot, error)

	// GenerateForecast evaluates the working-capital snapshot, sends it to the
	// AI evaluator, and merges the structured analysis into the report.
	GenerateForecast(ctx context.Context, companyCode string) (*ForecastResult, error)
}
