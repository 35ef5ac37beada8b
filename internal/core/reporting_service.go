package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Report types ──────────────────────────────────────────────────────────────

// CashFlowReport pairs a resolved period with its aggregated balances.
type CashFlowReport struct {
	Period   Period           `json:"period"`
	Balances CashFlowBalances `json:"balances"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService loads company-scoped records and delegates to the pure
// aggregation functions. Reports are recomputed on every call; nothing is
// cached.
type ReportingService interface {
	// GetCashFlow resolves the period query against the company's observed
	// transaction date range (for the all_time preset) and aggregates the
	// balances over all of the company's transactions.
	GetCashFlow(ctx context.Context, companyID int, q PeriodQuery) (*CashFlowReport, error)

	// GetWorkingCapital evaluates the liquidity snapshot as of the given
	// moment, from the trailing expense window and the open installments
	// within the settlement horizon.
	GetWorkingCapital(ctx context.Context, companyID int, asOf time.Time) (*WorkingCapitalSnapshot, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool      *pgxpool.Pool
	sales     SaleService
	purchases PurchaseService
	now       func() time.Time
}

// NewReportingService constructs a ReportingService backed by the given pool.
// The sale and purchase services supply the open-installment views.
func NewReportingService(pool *pgxpool.Pool, sales SaleService, purchases PurchaseService) ReportingService {
	return &reportingService{pool: pool, sales: sales, purchases: purchases, now: time.Now}
}

func (s *reportingService) GetCashFlow(ctx context.Context, companyID int, q PeriodQuery) (*CashFlowReport, error) {
	if q.Preset == PresetAllTime && q.MinDate == nil && q.MaxDate == nil {
		minDate, maxDate, err := s.observedDateBounds(ctx, companyID)
		if err != nil {
			return nil, err
		}
		q.MinDate, q.MaxDate = minDate, maxDate
	}

	period, err := ResolvePeriod(q, s.now())
	if err != nil {
		return nil, err
	}

	// The opening balance needs everything dated before the period too, so
	// load the company's full transaction history and let the aggregator
	// bucket it.
	transactions, err := NewTransactionService(s.pool).List(ctx, companyID, TransactionFilter{})
	if err != nil {
		return nil, err
	}

	return &CashFlowReport{
		Period:   period,
		Balances: AggregateCashFlow(transactions, period),
	}, nil
}

func (s *reportingService) GetWorkingCapital(ctx context.Context, companyID int, asOf time.Time) (*WorkingCapitalSnapshot, error) {
	trailingStart := asOf.AddDate(0, -trailingExpenseMonths, 0)
	expenseType := Expense
	transactions, err := NewTransactionService(s.pool).List(ctx, companyID, TransactionFilter{
		From: &trailingStart,
		To:   &asOf,
		Type: &expenseType,
	})
	if err != nil {
		return nil, err
	}

	horizon := asOf.AddDate(0, 0, settlementHorizonDays)
	receivables, err := s.sales.OpenInstallments(ctx, companyID, horizon)
	if err != nil {
		return nil, fmt.Errorf("load open receivables: %w", err)
	}
	payables, err := s.purchases.OpenInstallments(ctx, companyID, horizon)
	if err != nil {
		return nil, fmt.Errorf("load open payables: %w", err)
	}

	snap := EvaluateWorkingCapital(transactions, receivables, payables, asOf)
	return &snap, nil
}

// observedDateBounds returns the earliest and latest transaction dates for a
// company, or nils when the company has no transactions yet.
func (s *reportingService) observedDateBounds(ctx context.Context, companyID int) (*time.Time, *time.Time, error) {
	var minDate, maxDate *time.Time
	err := s.pool.QueryRow(ctx,
		"SELECT MIN(date), MAX(date) FROM transactions WHERE company_id = $1", companyID,
	).Scan(&minDate, &maxDate)
	if err != nil {
		return nil, nil, fmt.Errorf("observed date bounds: %w", err)
	}
	return minDate, maxDate, nil
}
