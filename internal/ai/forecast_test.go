package ai_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"finboard/internal/ai"
	"finboard/internal/core"

	"github.com/shopspring/decimal"
)

func snapshot(health core.HealthStatus) core.WorkingCapitalSnapshot {
	return core.WorkingCapitalSnapshot{
		AsOf:                      time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		CurrentReceivables:        decimal.NewFromInt(1000),
		CurrentPayables:           decimal.NewFromInt(200),
		WorkingCapital:            decimal.NewFromInt(800),
		AvgMonthlyExpenses:        decimal.NewFromInt(425),
		RecommendedWorkingCapital: decimal.NewFromInt(850),
		Deficit:                   decimal.NewFromInt(50),
		Surplus:                   decimal.Zero,
		Health:                    health,
	}
}

func TestBuildForecastPrompt_Deterministic(t *testing.T) {
	snap := snapshot(core.HealthWarning)

	first := ai.BuildForecastPrompt(snap)
	second := ai.BuildForecastPrompt(snap)
	if first != second {
		t.Error("same snapshot produced different prompts")
	}
}

func TestBuildForecastPrompt_ContainsFigures(t *testing.T) {
	prompt := ai.BuildForecastPrompt(snapshot(core.HealthWarning))

	for _, want := range []string{
		"2024-06-01",
		"Receivables due within 30 days: 1000.00",
		"Payables due within 30 days: 200.00",
		"Working capital: 800.00",
		"Recommended working capital (2 months of expenses): 850.00",
		"Deficit against recommendation: 50.00",
		"Health classification: warning",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestForecastSchema(t *testing.T) {
	schema, err := ai.ForecastSchema()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ap, ok := schema["additionalProperties"].(bool); !ok || ap {
		t.Errorf("additionalProperties = %v, want false", schema["additionalProperties"])
	}

	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties map: %v", schema)
	}
	for _, field := range []string{"assessment", "recommendations", "risk_level"} {
		if _, ok := props[field]; !ok {
			t.Errorf("schema missing property %q", field)
		}
	}
}

func TestForecastAnalysis_Validate(t *testing.T) {
	valid := ai.ForecastAnalysis{
		Assessment: "Position is adequate.",
		Recommendations: []ai.Recommendation{
			{Action: "Collect receivables", Impact: "Improves cash", Priority: "high"},
		},
		RiskLevel: "medium",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid analysis rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(a *ai.ForecastAnalysis)
	}{
		{"empty assessment", func(a *ai.ForecastAnalysis) { a.Assessment = "" }},
		{"unknown risk level", func(a *ai.ForecastAnalysis) { a.RiskLevel = "severe" }},
		{"empty risk level", func(a *ai.ForecastAnalysis) { a.RiskLevel = "" }},
		{"recommendation without action", func(a *ai.ForecastAnalysis) { a.Recommendations[0].Action = "" }},
		{"bad recommendation priority", func(a *ai.ForecastAnalysis) { a.Recommendations[0].Priority = "urgent" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			a.Recommendations = []ai.Recommendation{valid.Recommendations[0]}
			tt.mutate(&a)
			if err := a.Validate(); err == nil {
				t.Error("expected validation failure, got nil")
			}
		})
	}
}

func TestMockEvaluator(t *testing.T) {
	var evaluator ai.MockEvaluator
	ctx := context.Background()

	tests := []struct {
		health   core.HealthStatus
		wantRisk string
	}{
		{core.HealthHealthy, "low"},
		{core.HealthWarning, "medium"},
		{core.HealthCritical, "high"},
	}

	for _, tt := range tests {
		t.Run(string(tt.health), func(t *testing.T) {
			analysis, err := evaluator.AnalyzeWorkingCapital(ctx, snapshot(tt.health))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if analysis.RiskLevel != tt.wantRisk {
				t.Errorf("risk = %s, want %s", analysis.RiskLevel, tt.wantRisk)
			}
			if err := analysis.Validate(); err != nil {
				t.Errorf("mock analysis fails its own shape check: %v", err)
			}
			if len(analysis.Recommendations) == 0 {
				t.Error("mock analysis has no recommendations")
			}

			again, err := evaluator.AnalyzeWorkingCapital(ctx, snapshot(tt.health))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if again.Assessment != analysis.Assessment {
				t.Error("mock evaluator is not deterministic")
			}
		})
	}
}

func TestIsExternal(t *testing.T) {
	ext := &ai.ExternalError{Err: context.DeadlineExceeded}
	if !ai.IsExternal(ext) {
		t.Error("ExternalError not recognized")
	}
	if ai.IsExternal(context.DeadlineExceeded) {
		t.Error("plain error misclassified as external")
	}
	if ai.IsExternal(nil) {
		t.Error("nil misclassified as external")
	}
}
