package core_test

import (
	"context"
	"testing"
	"time"

	"finboard/internal/core"
)

func TestSaleService_RegisterSale(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewSaleService(pool)
	ctx := context.Background()

	firstDue := date(2024, time.January, 31)
	sale, err := svc.RegisterSale(ctx, 1, core.SaleInput{
		CustomerID:       1,
		Description:      "3x installment deal",
		TotalAmount:      dec("1200.00"),
		InstallmentCount: 3,
		SaleDate:         date(2024, time.January, 15),
		FirstDueDate:     &firstDue,
	})
	if err != nil {
		t.Fatalf("register sale failed: %v", err)
	}

	if sale.Status != "pending" {
		t.Errorf("status = %s, want pending", sale.Status)
	}
	if len(sale.Installments) != 3 {
		t.Fatalf("got %d installments, want 3", len(sale.Installments))
	}
	for i, in := range sale.Installments {
		if in.InstallmentNumber != i+1 {
			t.Errorf("installment %d has number %d", i, in.InstallmentNumber)
		}
		if !in.Amount.Equal(dec("400.00")) {
			t.Errorf("installment %d amount = %s, want 400.00", i+1, in.Amount)
		}
	}
	// Month-end clamp: Jan 31, Feb 29 (2024 is a leap year), Mar 31.
	if sale.Installments[1].DueDate.Day() != 29 || sale.Installments[1].DueDate.Month() != time.February {
		t.Errorf("second due = %v, want Feb 29", sale.Installments[1].DueDate)
	}

	fetched, err := svc.GetSale(ctx, 1, sale.ID)
	if err != nil {
		t.Fatalf("get sale failed: %v", err)
	}
	if fetched.CustomerName != "Test Customer" {
		t.Errorf("customer name = %q", fetched.CustomerName)
	}
	if len(fetched.Installments) != 3 {
		t.Errorf("fetched %d installments, want 3", len(fetched.Installments))
	}
}

func TestSaleService_RegisterSale_InvalidCountRollsBack(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewSaleService(pool)
	ctx := context.Background()

	_, err := svc.RegisterSale(ctx, 1, core.SaleInput{
		CustomerID:       1,
		Description:      "bad",
		TotalAmount:      dec("100.00"),
		InstallmentCount: 0,
		SaleDate:         date(2024, time.January, 15),
	})
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	sales, err := svc.GetSales(ctx, 1)
	if err != nil {
		t.Fatalf("get sales failed: %v", err)
	}
	if len(sales) != 0 {
		t.Errorf("rejected sale left %d rows behind", len(sales))
	}
}

func TestSaleService_PayInstallment(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewSaleService(pool)
	ctx := context.Background()

	sale, err := svc.RegisterSale(ctx, 1, core.SaleInput{
		CustomerID:       1,
		Description:      "two installments",
		TotalAmount:      dec("500.00"),
		InstallmentCount: 2,
		SaleDate:         date(2024, time.March, 1),
	})
	if err != nil {
		t.Fatalf("register sale failed: %v", err)
	}

	paid, err := svc.PayInstallment(ctx, 1, sale.ID, 1, date(2024, time.March, 5))
	if err != nil {
		t.Fatalf("pay installment 1 failed: %v", err)
	}
	if !paid.Paid || paid.PaidAt == nil {
		t.Errorf("installment not marked paid: %+v", paid)
	}

	mid, err := svc.GetSale(ctx, 1, sale.ID)
	if err != nil {
		t.Fatalf("get sale failed: %v", err)
	}
	if mid.Status != "pending" {
		t.Errorf("sale flipped early to %s with one installment open", mid.Status)
	}

	// Paying the same installment again must fail.
	if _, err := svc.PayInstallment(ctx, 1, sale.ID, 1, date(2024, time.March, 6)); err == nil {
		t.Error("double payment succeeded, want error")
	}

	if _, err := svc.PayInstallment(ctx, 1, sale.ID, 2, date(2024, time.April, 2)); err != nil {
		t.Fatalf("pay installment 2 failed: %v", err)
	}

	done, err := svc.GetSale(ctx, 1, sale.ID)
	if err != nil {
		t.Fatalf("get sale failed: %v", err)
	}
	if done.Status != "paid" {
		t.Errorf("sale status = %s, want paid after last installment", done.Status)
	}
}

func TestSaleService_OpenInstallments(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewSaleService(pool)
	ctx := context.Background()

	_, err := svc.RegisterSale(ctx, 1, core.SaleInput{
		CustomerID:       1,
		Description:      "spread over three months",
		TotalAmount:      dec("900.00"),
		InstallmentCount: 3,
		SaleDate:         date(2024, time.May, 10),
	})
	if err != nil {
		t.Fatalf("register sale failed: %v", err)
	}

	open, err := svc.OpenInstallments(ctx, 1, date(2024, time.June, 10))
	if err != nil {
		t.Fatalf("open installments failed: %v", err)
	}
	if len(open) != 2 { // May 10 and Jun 10; Jul 10 is past the cutoff
		t.Errorf("got %d open installments, want 2", len(open))
	}
}

func TestPurchaseService_MirrorsSales(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPurchaseService(pool)
	ctx := context.Background()

	explicit := dec("300.00")
	purchase, err := svc.RegisterPurchase(ctx, 1, core.PurchaseInput{
		SupplierID:        1,
		Description:       "equipment, explicit amount",
		TotalAmount:       dec("1000.00"),
		InstallmentCount:  2,
		PurchaseDate:      date(2024, time.April, 10),
		InstallmentAmount: &explicit,
	})
	if err != nil {
		t.Fatalf("register purchase failed: %v", err)
	}

	// The explicit amount is used verbatim, not reconciled against the total.
	for i, in := range purchase.Installments {
		if !in.Amount.Equal(explicit) {
			t.Errorf("installment %d amount = %s, want 300.00", i+1, in.Amount)
		}
	}

	if _, err := svc.PayInstallment(ctx, 1, purchase.ID, 1, date(2024, time.April, 15)); err != nil {
		t.Fatalf("pay installment failed: %v", err)
	}
	if _, err := svc.PayInstallment(ctx, 1, purchase.ID, 2, date(2024, time.May, 15)); err != nil {
		t.Fatalf("pay installment failed: %v", err)
	}

	done, err := svc.GetPurchase(ctx, 1, purchase.ID)
	if err != nil {
		t.Fatalf("get purchase failed: %v", err)
	}
	if done.Status != "paid" {
		t.Errorf("purchase status = %s, want paid", done.Status)
	}
	if done.SupplierName != "Test Supplier" {
		t.Errorf("supplier name = %q", done.SupplierName)
	}
}
