package core_test

import (
	"context"
	"testing"
	"time"

	"finboard/internal/core"
)

func TestTransactionService_CreateAndList(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewTransactionService(pool)
	ctx := context.Background()

	categoryID := 1
	_, err := svc.Create(ctx, 1, core.TransactionInput{
		Date:        date(2024, time.January, 10),
		Description: "Invoice 42",
		Amount:      dec("1500.00"),
		Type:        core.Income,
		CategoryID:  &categoryID,
		Status:      core.StatusPaid,
	})
	if err != nil {
		t.Fatalf("create income failed: %v", err)
	}

	_, err = svc.Create(ctx, 1, core.TransactionInput{
		Date:        date(2024, time.January, 5),
		Description: "Office rent",
		Amount:      dec("500.00"),
		Type:        core.Expense,
		Status:      core.StatusPending,
	})
	if err != nil {
		t.Fatalf("create expense failed: %v", err)
	}

	list, err := svc.List(ctx, 1, core.TransactionFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d transactions, want 2", len(list))
	}
	// Date ascending: the rent from Jan 5 comes first.
	if list[0].Description != "Office rent" {
		t.Errorf("first transaction = %q, want the earlier one", list[0].Description)
	}

	incomeType := core.Income
	incomes, err := svc.List(ctx, 1, core.TransactionFilter{Type: &incomeType})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if len(incomes) != 1 || incomes[0].Type != core.Income {
		t.Errorf("type filter returned %+v", incomes)
	}
}

func TestTransactionService_CreateRejectsBadInput(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewTransactionService(pool)
	ctx := context.Background()

	tests := []struct {
		name  string
		input core.TransactionInput
	}{
		{"zero amount", core.TransactionInput{
			Date: date(2024, time.January, 1), Description: "x",
			Amount: dec("0"), Type: core.Income, Status: core.StatusPaid,
		}},
		{"negative amount", core.TransactionInput{
			Date: date(2024, time.January, 1), Description: "x",
			Amount: dec("-5.00"), Type: core.Expense, Status: core.StatusPaid,
		}},
		{"unknown type", core.TransactionInput{
			Date: date(2024, time.January, 1), Description: "x",
			Amount: dec("5.00"), Type: "transfer", Status: core.StatusPaid,
		}},
		{"unknown status", core.TransactionInput{
			Date: date(2024, time.January, 1), Description: "x",
			Amount: dec("5.00"), Type: core.Income, Status: "scheduled",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 1, tt.input); !core.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestTransactionService_Settle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewTransactionService(pool)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, core.TransactionInput{
		Date:        date(2024, time.February, 1),
		Description: "Pending invoice",
		Amount:      dec("250.00"),
		Type:        core.Income,
		Status:      core.StatusPending,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	paid, err := svc.Settle(ctx, 1, created.ID, date(2024, time.February, 15))
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if paid.Status != core.StatusPaid {
		t.Errorf("status = %s, want paid", paid.Status)
	}
	if paid.PaymentDate == nil {
		t.Error("payment date not recorded")
	}

	// Settling twice must fail: the row is no longer pending.
	if _, err := svc.Settle(ctx, 1, created.ID, date(2024, time.February, 16)); err == nil {
		t.Error("second settle succeeded, want error")
	}

	// Settling under the wrong company must not touch the row.
	if _, err := svc.Settle(ctx, 999, created.ID, date(2024, time.February, 16)); err == nil {
		t.Error("settle with foreign company succeeded, want error")
	}
}

func TestTransactionService_Categories(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewTransactionService(pool)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, 1, "Consulting", "income")
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if created.Kind != "income" {
		t.Errorf("kind = %s, want income", created.Kind)
	}

	if _, err := svc.CreateCategory(ctx, 1, "Weird", "transfer"); !core.IsValidation(err) {
		t.Errorf("expected validation error for bad kind, got %v", err)
	}

	all, err := svc.GetCategories(ctx, 1)
	if err != nil {
		t.Fatalf("get categories failed: %v", err)
	}
	if len(all) != 3 { // two seeded plus the new one
		t.Errorf("got %d categories, want 3", len(all))
	}
}
