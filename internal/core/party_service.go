package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PartyInput holds the fields for creating a customer or supplier.
type PartyInput struct {
	Name  string
	Email string
	Phone string
}

// PartyService manages the counterparties of sales (customers) and purchases
// (suppliers).
type PartyService interface {
	CreateCustomer(ctx context.Context, companyID int, input PartyInput) (*Customer, error)
	GetCustomers(ctx context.Context, companyID int) ([]Customer, error)
	CreateSupplier(ctx context.Context, companyID int, input PartyInput) (*Supplier, error)
	GetSuppliers(ctx context.Context, companyID int) ([]Supplier, error)
}

type partyService struct {
	pool *pgxpool.Pool
}

// NewPartyService constructs a PartyService backed by PostgreSQL.
func NewPartyService(pool *pgxpool.Pool) PartyService {
	return &partyService{pool: pool}
}

func toPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *partyService) CreateCustomer(ctx context.Context, companyID int, input PartyInput) (*Customer, error) {
	if input.Name == "" {
		return nil, Validationf("customer name is required")
	}

	c := &Customer{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (company_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, name, email, phone, is_active, created_at`,
		companyID, input.Name, toPtr(input.Email), toPtr(input.Phone),
	).Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create customer %q: %w", input.Name, err)
	}
	return c, nil
}

func (s *partyService) GetCustomers(ctx context.Context, companyID int) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, email, phone, is_active, created_at
		FROM customers
		WHERE company_id = $1 AND is_active = true
		ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("get customers: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *partyService) CreateSupplier(ctx context.Context, companyID int, input PartyInput) (*Supplier, error) {
	if input.Name == "" {
		return nil, Validationf("supplier name is required")
	}

	sp := &Supplier{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (company_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, name, email, phone, is_active, created_at`,
		companyID, input.Name, toPtr(input.Email), toPtr(input.Phone),
	).Scan(&sp.ID, &sp.CompanyID, &sp.Name, &sp.Email, &sp.Phone, &sp.IsActive, &sp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create supplier %q: %w", input.Name, err)
	}
	return sp, nil
}

func (s *partyService) GetSuppliers(ctx context.Context, companyID int) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, email, phone, is_active, created_at
		FROM suppliers
		WHERE company_id = $1 AND is_active = true
		ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("get suppliers: %w", err)
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.CompanyID, &sp.Name, &sp.Email, &sp.Phone, &sp.IsActive, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
