package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type TransactionStatus string

const (
	StatusPaid    TransactionStatus = "paid"
	StatusPending TransactionStatus = "pending"
)

type Company struct {
	ID          int    `json:"id"`
	CompanyCode string `json:"company_code"`
	Name        string `json:"name"`
	Currency    string `json:"currency"`
}

type User struct {
	ID           int           `json:"id"`
	CompanyID    int           `json:"company_id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         string        `json:"role"`
	Capabilities CapabilitySet `json:"-"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
}

type Category struct {
	ID        int    `json:"id"`
	CompanyID int    `json:"company_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"` // 'income' or 'expense'
}

// Transaction is a single ledger movement. Amount is always positive; Type
// determines the sign in balance computations. Immutable after creation except
// for Status and PaymentDate.
type Transaction struct {
	ID          int               `json:"id"`
	CompanyID   int               `json:"company_id"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	Type        TransactionType   `json:"type"`
	CategoryID  *int              `json:"category_id,omitempty"`
	Status      TransactionStatus `json:"status"`
	PaymentDate *time.Time        `json:"payment_date,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Installment is one scheduled payment within a sale or purchase schedule.
// InstallmentNumber is 1-based and unique per parent.
type Installment struct {
	ID                int             `json:"id"`
	ParentID          int             `json:"parent_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	Paid              bool            `json:"paid"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
}

// Sale is a receivable: money owed to the company, collected over installments.
type Sale struct {
	ID               int             `json:"id"`
	CompanyID        int             `json:"company_id"`
	CustomerID       int             `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	Description      string          `json:"description"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	SaleDate         time.Time       `json:"sale_date"`
	Status           string          `json:"status"` // 'pending' or 'paid'
	CreatedAt        time.Time       `json:"created_at"`
	Installments     []Installment   `json:"installments,omitempty"`
}

// Purchase is a payable: money the company owes, settled over installments.
type Purchase struct {
	ID               int             `json:"id"`
	CompanyID        int             `json:"company_id"`
	SupplierID       int             `json:"supplier_id"`
	SupplierName     string          `json:"supplier_name"`
	Description      string          `json:"description"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	PurchaseDate     time.Time       `json:"purchase_date"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	Installments     []Installment   `json:"installments,omitempty"`
}

type Customer struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Supplier struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CashFlowBalances is the aggregate of one period. Closing always equals
// Opening + Income - Expense.
type CashFlowBalances struct {
	Opening decimal.Decimal `json:"opening"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Closing decimal.Decimal `json:"closing"`
}
