package app

import "github.com/shopspring/decimal"

// Dates in request types travel as YYYY-MM-DD strings and are parsed at the
// application boundary.

type CreateTransactionRequest struct {
	CompanyCode string          `json:"company_code"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	CategoryID  *int            `json:"category_id,omitempty"`
	Status      string          `json:"status"`
}

type TransactionQuery struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
}

type CreatePartyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type RegisterSaleRequest struct {
	CompanyCode       string           `json:"company_code"`
	CustomerID        int              `json:"customer_id"`
	Description       string           `json:"description"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	InstallmentCount  int              `json:"installment_count"`
	SaleDate          string           `json:"sale_date"`
	FirstDueDate      string           `json:"first_due_date,omitempty"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
}

type RegisterPurchaseRequest struct {
	CompanyCode       string           `json:"company_code"`
	SupplierID        int              `json:"supplier_id"`
	Description       string           `json:"description"`
	TotalAmount       decimal.Decimal  `json:"total_amount"`
	InstallmentCount  int              `json:"installment_count"`
	PurchaseDate      string           `json:"purchase_date"`
	FirstDueDate      string           `json:"first_due_date,omitempty"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
}

// PeriodRequest selects a reporting range: either a preset name or a custom
// from/to pair.
type PeriodRequest struct {
	Preset string `json:"preset,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}
