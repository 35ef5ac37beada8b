package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"finboard/internal/ai"
	"finboard/internal/core"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Smoke test for the live forecast evaluator: sends a fixed warning-level
// snapshot and prints the structured analysis.
func main() {
	_ = godotenv.Load() // Load .env if present

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	agent := ai.NewAgent(apiKey)
	ctx := context.Background()

	snapshot := core.WorkingCapitalSnapshot{
		AsOf:                      time.Now(),
		CurrentReceivables:        decimal.NewFromInt(1000),
		CurrentPayables:           decimal.NewFromInt(200),
		WorkingCapital:            decimal.NewFromInt(800),
		AvgMonthlyExpenses:        decimal.NewFromInt(425),
		RecommendedWorkingCapital: decimal.NewFromInt(850),
		Deficit:                   decimal.NewFromInt(50),
		Surplus:                   decimal.Zero,
		Health:                    core.HealthWarning,
	}

	fmt.Println("ANALYZING SNAPSHOT:")
	fmt.Println(snapshot.FigureSummary())

	analysis, err := agent.AnalyzeWorkingCapital(ctx, snapshot)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("\n--- ANALYSIS ---\n")
	fmt.Printf("Risk level: %s\n", analysis.RiskLevel)
	fmt.Printf("Assessment: %s\n", analysis.Assessment)

	fmt.Printf("\nRecommendations:\n")
	for _, rec := range analysis.Recommendations {
		fmt.Printf("- [%s] %s (%s)\n", rec.Priority, rec.Action, rec.Impact)
	}
}
