package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE sale_installments, sales, purchase_installments, purchases,
			transactions, categories, customers, suppliers, users, companies CASCADE;

		INSERT INTO companies (id, company_code, name, currency) VALUES (1, '1000', 'Test Company', 'USD');

		INSERT INTO customers (id, company_id, name) VALUES (1, 1, 'Test Customer');
		INSERT INTO suppliers (id, company_id, name) VALUES (1, 1, 'Test Supplier');

		INSERT INTO categories (id, company_id, name, kind) VALUES
		(1, 1, 'Sales Revenue', 'income'),
		(2, 1, 'Rent', 'expense');

		-- Seeding with explicit ids leaves the sequences behind; advance them so
		-- service inserts do not collide.
		SELECT setval('companies_id_seq', 100);
		SELECT setval('customers_id_seq', 100);
		SELECT setval('suppliers_id_seq', 100);
		SELECT setval('categories_id_seq', 100);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}
