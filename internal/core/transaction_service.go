package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionInput holds the fields required to record a transaction.
type TransactionInput struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	CategoryID  *int
	Status      TransactionStatus
}

// TransactionFilter narrows List results. Nil fields mean no constraint.
type TransactionFilter struct {
	From   *time.Time
	To     *time.Time
	Type   *TransactionType
	Status *TransactionStatus
}

// TransactionService provides company-scoped transaction persistence.
type TransactionService interface {
	// Create validates and inserts a transaction for the company.
	Create(ctx context.Context, companyID int, input TransactionInput) (*Transaction, error)

	// List returns transactions matching the filter, ordered by date ASC then id ASC.
	List(ctx context.Context, companyID int, filter TransactionFilter) ([]Transaction, error)

	// Settle flips a pending transaction to paid with the given payment date.
	// Settling an already-paid transaction is an error.
	Settle(ctx context.Context, companyID, transactionID int, paymentDate time.Time) (*Transaction, error)

	// GetCategories returns all categories for the company, ordered by name.
	GetCategories(ctx context.Context, companyID int) ([]Category, error)

	// CreateCategory inserts a category. Kind must be 'income' or 'expense'.
	CreateCategory(ctx context.Context, companyID int, name, kind string) (*Category, error)
}

type transactionService struct {
	pool *pgxpool.Pool
}

// NewTransactionService constructs a TransactionService backed by PostgreSQL.
func NewTransactionService(pool *pgxpool.Pool) TransactionService {
	return &transactionService{pool: pool}
}

func (in TransactionInput) validate() error {
	if !in.Amount.IsPositive() {
		return Validationf("transaction amount must be positive, got %s", in.Amount)
	}
	if in.Type != Income && in.Type != Expense {
		return Validationf("transaction type must be %q or %q, got %q", Income, Expense, in.Type)
	}
	if in.Status != StatusPaid && in.Status != StatusPending {
		return Validationf("transaction status must be %q or %q, got %q", StatusPaid, StatusPending, in.Status)
	}
	if in.Date.IsZero() {
		return Validationf("transaction date is required")
	}
	return nil
}

func (s *transactionService) Create(ctx context.Context, companyID int, input TransactionInput) (*Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var paymentDate *time.Time
	if input.Status == StatusPaid {
		d := input.Date
		paymentDate = &d
	}

	t := &Transaction{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO transactions (company_id, date, description, amount, type, category_id, status, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, company_id, date, description, amount, type, category_id, status, payment_date, created_at`,
		companyID, input.Date, input.Description, input.Amount, string(input.Type),
		input.CategoryID, string(input.Status), paymentDate,
	).Scan(&t.ID, &t.CompanyID, &t.Date, &t.Description, &t.Amount, &t.Type,
		&t.CategoryID, &t.Status, &t.PaymentDate, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

func (s *transactionService) List(ctx context.Context, companyID int, filter TransactionFilter) ([]Transaction, error) {
	q := `
		SELECT id, company_id, date, description, amount, type, category_id, status, payment_date, created_at
		FROM transactions
		WHERE company_id = $1`
	args := []any{companyID}

	if filter.From != nil {
		args = append(args, *filter.From)
		q += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		q += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		q += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	q += " ORDER BY date ASC, id ASC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Date, &t.Description, &t.Amount,
			&t.Type, &t.CategoryID, &t.Status, &t.PaymentDate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *transactionService) Settle(ctx context.Context, companyID, transactionID int, paymentDate time.Time) (*Transaction, error) {
	t := &Transaction{}
	err := s.pool.QueryRow(ctx, `
		UPDATE transactions
		SET status = $1, payment_date = $2
		WHERE id = $3 AND company_id = $4 AND status = $5
		RETURNING id, company_id, date, description, amount, type, category_id, status, payment_date, created_at`,
		string(StatusPaid), paymentDate, transactionID, companyID, string(StatusPending),
	).Scan(&t.ID, &t.CompanyID, &t.Date, &t.Description, &t.Amount, &t.Type,
		&t.CategoryID, &t.Status, &t.PaymentDate, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Validationf("transaction %d not found or already settled", transactionID)
		}
		return nil, fmt.Errorf("settle transaction %d: %w", transactionID, err)
	}
	return t, nil
}

func (s *transactionService) GetCategories(ctx context.Context, companyID int) ([]Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, kind
		FROM categories
		WHERE company_id = $1
		ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *transactionService) CreateCategory(ctx context.Context, companyID int, name, kind string) (*Category, error) {
	if name == "" {
		return nil, Validationf("category name is required")
	}
	if kind != string(Income) && kind != string(Expense) {
		return nil, Validationf("category kind must be %q or %q, got %q", Income, Expense, kind)
	}

	c := &Category{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (company_id, name, kind)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, name, kind`,
		companyID, name, kind,
	).Scan(&c.ID, &c.CompanyID, &c.Name, &c.Kind)
	if err != nil {
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}
	return c, nil
}
