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

// PurchaseInput mirrors SaleInput for the payable side.
type PurchaseInput struct {
	SupplierID        int
	Description       string
	TotalAmount       decimal.Decimal
	InstallmentCount  int
	PurchaseDate      time.Time
	FirstDueDate      *time.Time
	InstallmentAmount *decimal.Decimal
}

// PurchaseService provides purchase registration and payable settlement.
type PurchaseService interface {
	// RegisterPurchase inserts the purchase header and its installment batch
	// in one database transaction.
	RegisterPurchase(ctx context.Context, companyID int, input PurchaseInput) (*Purchase, error)

	// GetPurchases returns all purchases for the company, newest first, without installments.
	GetPurchases(ctx context.Context, companyID int) ([]Purchase, error)

	// GetPurchase returns one purchase including its full installment schedule.
	GetPurchase(ctx context.Context, companyID, purchaseID int) (*Purchase, error)

	// PayInstallment marks one unpaid installment as paid, flipping the parent
	// purchase to 'paid' when it was the last open one.
	PayInstallment(ctx context.Context, companyID, purchaseID, installmentNumber int, paidAt time.Time) (*Installment, error)

	// OpenInstallments returns unpaid installments due on or before dueBefore,
	// across all purchases of the company, ordered by due date.
	OpenInstallments(ctx context.Context, companyID int, dueBefore time.Time) ([]Installment, error)
}

type purchaseService struct {
	pool *pgxpool.Pool
}

// NewPurchaseService constructs a PurchaseService backed by PostgreSQL.
func NewPurchaseService(pool *pgxpool.Pool) PurchaseService {
	return &purchaseService{pool: pool}
}

func (s *purchaseService) RegisterPurchase(ctx context.Context, companyID int, input PurchaseInput) (*Purchase, error) {
	start := input.PurchaseDate
	if input.FirstDueDate != nil {
		start = *input.FirstDueDate
	}

	schedule, err := PlanInstallments(input.TotalAmount, input.InstallmentCount, start, input.InstallmentAmount)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin register purchase: %w", err)
	}
	defer tx.Rollback(ctx)

	purchase := &Purchase{Installments: make([]Installment, 0, len(schedule))}
	err = tx.QueryRow(ctx, `
		INSERT INTO purchases (company_id, supplier_id, description, total_amount, installment_count, purchase_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, company_id, supplier_id, description, total_amount, installment_count, purchase_date, status, created_at`,
		companyID, input.SupplierID, input.Description, input.TotalAmount,
		input.InstallmentCount, input.PurchaseDate,
	).Scan(&purchase.ID, &purchase.CompanyID, &purchase.SupplierID, &purchase.Description,
		&purchase.TotalAmount, &purchase.InstallmentCount, &purchase.PurchaseDate,
		&purchase.Status, &purchase.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range schedule {
		batch.Queue(`
			INSERT INTO purchase_installments (purchase_id, installment_number, amount, due_date, paid)
			VALUES ($1, $2, $3, $4, false)
			RETURNING id, purchase_id, installment_number, amount, due_date, paid, paid_at`,
			purchase.ID, p.InstallmentNumber, p.Amount, p.DueDate)
	}
	results := tx.SendBatch(ctx, batch)
	for range schedule {
		var inst Installment
		if err := results.QueryRow().Scan(&inst.ID, &inst.ParentID, &inst.InstallmentNumber,
			&inst.Amount, &inst.DueDate, &inst.Paid, &inst.PaidAt); err != nil {
			results.Close()
			return nil, fmt.Errorf("insert purchase installment: %w", err)
		}
		purchase.Installments = append(purchase.Installments, inst)
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("close installment batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit register purchase: %w", err)
	}
	return purchase, nil
}

func (s *purchaseService) GetPurchases(ctx context.Context, companyID int) ([]Purchase, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.company_id, p.supplier_id, sp.name, p.description,
		       p.total_amount, p.installment_count, p.purchase_date, p.status, p.created_at
		FROM purchases p
		JOIN suppliers sp ON sp.id = p.supplier_id
		WHERE p.company_id = $1
		ORDER BY p.purchase_date DESC, p.id DESC`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("get purchases: %w", err)
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SupplierID, &p.SupplierName,
			&p.Description, &p.TotalAmount, &p.InstallmentCount,
			&p.PurchaseDate, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *purchaseService) GetPurchase(ctx context.Context, companyID, purchaseID int) (*Purchase, error) {
	p := &Purchase{}
	err := s.pool.QueryRow(ctx, `
		SELECT p.id, p.company_id, p.supplier_id, sp.name, p.description,
		       p.total_amount, p.installment_count, p.purchase_date, p.status, p.created_at
		FROM purchases p
		JOIN suppliers sp ON sp.id = p.supplier_id
		WHERE p.id = $1 AND p.company_id = $2`,
		purchaseID, companyID,
	).Scan(&p.ID, &p.CompanyID, &p.SupplierID, &p.SupplierName,
		&p.Description, &p.TotalAmount, &p.InstallmentCount,
		&p.PurchaseDate, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase %d not found", purchaseID)
		}
		return nil, fmt.Errorf("get purchase %d: %w", purchaseID, err)
	}

	p.Installments, err = queryInstallments(ctx, s.pool, `
		SELECT id, purchase_id, installment_number, amount, due_date, paid, paid_at
		FROM purchase_installments
		WHERE purchase_id = $1
		ORDER BY installment_number`,
		purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase %d installments: %w", purchaseID, err)
	}
	return p, nil
}

func (s *purchaseService) PayInstallment(ctx context.Context, companyID, purchaseID, installmentNumber int, paidAt time.Time) (*Installment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin pay installment: %w", err)
	}
	defer tx.Rollback(ctx)

	inst := &Installment{}
	err = tx.QueryRow(ctx, `
		UPDATE purchase_installments pi
		SET paid = true, paid_at = $1
		FROM purchases p
		WHERE pi.purchase_id = p.id
		  AND p.id = $2 AND p.company_id = $3
		  AND pi.installment_number = $4 AND pi.paid = false
		RETURNING pi.id, pi.purchase_id, pi.installment_number, pi.amount, pi.due_date, pi.paid, pi.paid_at`,
		paidAt, purchaseID, companyID, installmentNumber,
	).Scan(&inst.ID, &inst.ParentID, &inst.InstallmentNumber, &inst.Amount,
		&inst.DueDate, &inst.Paid, &inst.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Validationf("installment %d of purchase %d not found or already paid", installmentNumber, purchaseID)
		}
		return nil, fmt.Errorf("pay installment %d of purchase %d: %w", installmentNumber, purchaseID, err)
	}

	var remaining int
	if err := tx.QueryRow(ctx,
		"SELECT count(*) FROM purchase_installments WHERE purchase_id = $1 AND paid = false", purchaseID,
	).Scan(&remaining); err != nil {
		return nil, fmt.Errorf("count open installments for purchase %d: %w", purchaseID, err)
	}
	if remaining == 0 {
		if _, err := tx.Exec(ctx, "UPDATE purchases SET status = 'paid' WHERE id = $1", purchaseID); err != nil {
			return nil, fmt.Errorf("mark purchase %d paid: %w", purchaseID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit pay installment: %w", err)
	}
	return inst, nil
}

func (s *purchaseService) OpenInstallments(ctx context.Context, companyID int, dueBefore time.Time) ([]Installment, error) {
	return queryInstallments(ctx, s.pool, `
		SELECT pi.id, pi.purchase_id, pi.installment_number, pi.amount, pi.due_date, pi.paid, pi.paid_at
		FROM purchase_installments pi
		JOIN purchases p ON p.id = pi.purchase_id
		WHERE p.company_id = $1 AND pi.paid = false AND pi.due_date <= $2
		ORDER BY pi.due_date, pi.id`,
		companyID, dueBefore)
}
