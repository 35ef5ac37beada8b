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

// SaleInput holds the fields required to register a sale with its
// amortization schedule. FirstDueDate defaults to SaleDate when nil.
// InstallmentAmount, when set, overrides the even split; the sum of
// installments is then deliberately not reconciled against TotalAmount.
type SaleInput struct {
	CustomerID        int
	Description       string
	TotalAmount       decimal.Decimal
	InstallmentCount  int
	SaleDate          time.Time
	FirstDueDate      *time.Time
	InstallmentAmount *decimal.Decimal
}

// SaleService provides sale registration and receivable settlement.
type SaleService interface {
	// RegisterSale inserts the sale header and its planner-generated
	// installment batch in one database transaction. Installment numbers are
	// assigned by the planner before any insert is dispatched.
	RegisterSale(ctx context.Context, companyID int, input SaleInput) (*Sale, error)

	// GetSales returns all sales for the company, newest first, without installments.
	GetSales(ctx context.Context, companyID int) ([]Sale, error)

	// GetSale returns one sale including its full installment schedule.
	GetSale(ctx context.Context, companyID, saleID int) (*Sale, error)

	// PayInstallment marks one unpaid installment as paid. When it was the
	// last open installment the parent sale flips to 'paid'.
	PayInstallment(ctx context.Context, companyID, saleID, installmentNumber int, paidAt time.Time) (*Installment, error)

	// OpenInstallments returns unpaid installments due on or before dueBefore,
	// across all sales of the company, ordered by due date.
	OpenInstallments(ctx context.Context, companyID int, dueBefore time.Time) ([]Installment, error)
}

type saleService struct {
	pool *pgxpool.Pool
}

// NewSaleService constructs a SaleService backed by PostgreSQL.
func NewSaleService(pool *pgxpool.Pool) SaleService {
	return &saleService{pool: pool}
}

func (s *saleService) RegisterSale(ctx context.Context, companyID int, input SaleInput) (*Sale, error) {
	start := input.SaleDate
	if input.FirstDueDate != nil {
		start = *input.FirstDueDate
	}

	// Plan first: validation failures reject the whole request before any write.
	schedule, err := PlanInstallments(input.TotalAmount, input.InstallmentCount, start, input.InstallmentAmount)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin register sale: %w", err)
	}
	defer tx.Rollback(ctx)

	sale := &Sale{Installments: make([]Installment, 0, len(schedule))}
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (company_id, customer_id, description, total_amount, installment_count, sale_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, company_id, customer_id, description, total_amount, installment_count, sale_date, status, created_at`,
		companyID, input.CustomerID, input.Description, input.TotalAmount,
		input.InstallmentCount, input.SaleDate,
	).Scan(&sale.ID, &sale.CompanyID, &sale.CustomerID, &sale.Description,
		&sale.TotalAmount, &sale.InstallmentCount, &sale.SaleDate, &sale.Status, &sale.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	// The installment inserts are independent of each other; batch them in one
	// round trip.
	batch := &pgx.Batch{}
	for _, p := range schedule {
		batch.Queue(`
			INSERT INTO sale_installments (sale_id, installment_number, amount, due_date, paid)
			VALUES ($1, $2, $3, $4, false)
			RETURNING id, sale_id, installment_number, amount, due_date, paid, paid_at`,
			sale.ID, p.InstallmentNumber, p.Amount, p.DueDate)
	}
	results := tx.SendBatch(ctx, batch)
	for range schedule {
		var inst Installment
		if err := results.QueryRow().Scan(&inst.ID, &inst.ParentID, &inst.InstallmentNumber,
			&inst.Amount, &inst.DueDate, &inst.Paid, &inst.PaidAt); err != nil {
			results.Close()
			return nil, fmt.Errorf("insert sale installment: %w", err)
		}
		sale.Installments = append(sale.Installments, inst)
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("close installment batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit register sale: %w", err)
	}
	return sale, nil
}

func (s *saleService) GetSales(ctx context.Context, companyID int) ([]Sale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.company_id, s.customer_id, c.name, s.description,
		       s.total_amount, s.installment_count, s.sale_date, s.status, s.created_at
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.company_id = $1
		ORDER BY s.sale_date DESC, s.id DESC`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("get sales: %w", err)
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.CompanyID, &sale.CustomerID, &sale.CustomerName,
			&sale.Description, &sale.TotalAmount, &sale.InstallmentCount,
			&sale.SaleDate, &sale.Status, &sale.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

func (s *saleService) GetSale(ctx context.Context, companyID, saleID int) (*Sale, error) {
	sale := &Sale{}
	err := s.pool.QueryRow(ctx, `
		SELECT s.id, s.company_id, s.customer_id, c.name, s.description,
		       s.total_amount, s.installment_count, s.sale_date, s.status, s.created_at
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.id = $1 AND s.company_id = $2`,
		saleID, companyID,
	).Scan(&sale.ID, &sale.CompanyID, &sale.CustomerID, &sale.CustomerName,
		&sale.Description, &sale.TotalAmount, &sale.InstallmentCount,
		&sale.SaleDate, &sale.Status, &sale.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %d not found", saleID)
		}
		return nil, fmt.Errorf("get sale %d: %w", saleID, err)
	}

	sale.Installments, err = queryInstallments(ctx, s.pool, `
		SELECT id, sale_id, installment_number, amount, due_date, paid, paid_at
		FROM sale_installments
		WHERE sale_id = $1
		ORDER BY installment_number`,
		saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale %d installments: %w", saleID, err)
	}
	return sale, nil
}

func (s *saleService) PayInstallment(ctx context.Context, companyID, saleID, installmentNumber int, paidAt time.Time) (*Installment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin pay installment: %w", err)
	}
	defer tx.Rollback(ctx)

	inst := &Installment{}
	err = tx.QueryRow(ctx, `
		UPDATE sale_installments si
		SET paid = true, paid_at = $1
		FROM sales s
		WHERE si.sale_id = s.id
		  AND s.id = $2 AND s.company_id = $3
		  AND si.installment_number = $4 AND si.paid = false
		RETURNING si.id, si.sale_id, si.installment_number, si.amount, si.due_date, si.paid, si.paid_at`,
		paidAt, saleID, companyID, installmentNumber,
	).Scan(&inst.ID, &inst.ParentID, &inst.InstallmentNumber, &inst.Amount,
		&inst.DueDate, &inst.Paid, &inst.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Validationf("installment %d of sale %d not found or already paid", installmentNumber, saleID)
		}
		return nil, fmt.Errorf("pay installment %d of sale %d: %w", installmentNumber, saleID, err)
	}

	var remaining int
	if err := tx.QueryRow(ctx,
		"SELECT count(*) FROM sale_installments WHERE sale_id = $1 AND paid = false", saleID,
	).Scan(&remaining); err != nil {
		return nil, fmt.Errorf("count open installments for sale %d: %w", saleID, err)
	}
	if remaining == 0 {
		if _, err := tx.Exec(ctx, "UPDATE sales SET status = 'paid' WHERE id = $1", saleID); err != nil {
			return nil, fmt.Errorf("mark sale %d paid: %w", saleID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit pay installment: %w", err)
	}
	return inst, nil
}

func (s *saleService) OpenInstallments(ctx context.Context, companyID int, dueBefore time.Time) ([]Installment, error) {
	return queryInstallments(ctx, s.pool, `
		SELECT si.id, si.sale_id, si.installment_number, si.amount, si.due_date, si.paid, si.paid_at
		FROM sale_installments si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.company_id = $1 AND si.paid = false AND si.due_date <= $2
		ORDER BY si.due_date, si.id`,
		companyID, dueBefore)
}

// queryInstallments runs any installment-shaped query and scans the rows.
// Shared between the sale and purchase services.
func queryInstallments(ctx context.Context, pool *pgxpool.Pool, q string, args ...any) ([]Installment, error) {
	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var out []Installment
	for rows.Next() {
		var inst Installment
		if err := rows.Scan(&inst.ID, &inst.ParentID, &inst.InstallmentNumber,
			&inst.Amount, &inst.DueDate, &inst.Paid, &inst.PaidAt); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}
