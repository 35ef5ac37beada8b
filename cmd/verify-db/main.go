package main

import (
	"context"
	"log"
	"os"

	"finboard/internal/db"

	"github.com/joho/godotenv"
)

// Sanity-checks a migrated database: all tables present, migrations recorded,
// and the seed company reachable.
func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	defer pool.Close()
	log.Println("[CONNECT] success")

	tables := []string{
		"schema_migrations", "companies", "users", "categories",
		"customers", "suppliers", "transactions",
		"sales", "sale_installments", "purchases", "purchase_installments",
	}
	for _, table := range tables {
		var exists bool
		err := pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
			table,
		).Scan(&exists)
		if err != nil {
			log.Fatalf("[SCHEMA] query for %s failed: %v", table, err)
		}
		if !exists {
			log.Fatalf("[SCHEMA] table %s is missing, run cmd/migrate", table)
		}
	}
	log.Printf("[SCHEMA] all %d tables present", len(tables))

	var applied int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM schema_migrations").Scan(&applied); err != nil {
		log.Fatalf("[MIGRATIONS] %v", err)
	}
	log.Printf("[MIGRATIONS] %d applied", applied)

	var code, name string
	err = pool.QueryRow(ctx,
		"SELECT company_code, name FROM companies ORDER BY id LIMIT 1",
	).Scan(&code, &name)
	if err != nil {
		log.Fatalf("[SEED] no company found: %v", err)
	}
	log.Printf("[SEED] company %s (%s)", code, name)

	log.Println("[DONE] database verified")
}
