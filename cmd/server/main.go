package main

import (
	"context"
	"net/http"
	"os"

	webAdapter "finboard/internal/adapters/web"
	"finboard/internal/ai"
	"finboard/internal/app"
	"finboard/internal/core"
	"finboard/internal/db"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	users := core.NewUserService(pool)
	transactions := core.NewTransactionService(pool)
	parties := core.NewPartyService(pool)
	sales := core.NewSaleService(pool)
	purchases := core.NewPurchaseService(pool)
	reporting := core.NewReportingService(pool, sales, purchases)

	evaluator := buildEvaluator(log)

	svc := app.NewAppService(pool, users, transactions, parties, sales, purchases, reporting, evaluator)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, log, allowedOrigins, jwtSecret)

	log.WithField("port", port).Info("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// buildEvaluator selects the forecast evaluator. FORECAST_MODE=mock returns
// deterministic canned analyses; anything else uses the live OpenAI client.
func buildEvaluator(log *logrus.Logger) ai.PromptEvaluator {
	if os.Getenv("FORECAST_MODE") == "mock" {
		log.Info("forecast evaluator: mock")
		return &ai.MockEvaluator{}
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Warn("OPENAI_API_KEY is not set; forecast requests will fail")
	}
	return ai.NewAgent(apiKey)
}
