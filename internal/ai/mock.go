package ai

import (
	"context"
	"fmt"

	"finboard/internal/core"
)

// MockEvaluator produces a deterministic analysis without any network call.
// It is selected with FORECAST_MODE=mock for local development and tests.
type MockEvaluator struct{}

func (MockEvaluator) AnalyzeWorkingCapital(_ context.Context, snapshot core.WorkingCapitalSnapshot) (*ForecastAnalysis, error) {
	switch snapshot.Health {
	case core.HealthHealthy:
		return &ForecastAnalysis{
			Assessment: fmt.Sprintf("Working capital of %s meets the recommended %s; the position is comfortable.",
				snapshot.WorkingCapital.StringFixed(2), snapshot.RecommendedWorkingCapital.StringFixed(2)),
			Recommendations: []Recommendation{
				{Action: "Keep the surplus in a liquid reserve", Impact: "Preserves the buffer against slow months", Priority: "low"},
			},
			RiskLevel: "low",
		}, nil
	case core.HealthWarning:
		return &ForecastAnalysis{
			Assessment: fmt.Sprintf("Working capital of %s is below the recommended %s but within 70%% of it.",
				snapshot.WorkingCapital.StringFixed(2), snapshot.RecommendedWorkingCapital.StringFixed(2)),
			Recommendations: []Recommendation{
				{Action: "Accelerate collection of receivables due this month", Impact: "Closes the gap to the coverage target", Priority: "medium"},
				{Action: "Defer non-essential purchases", Impact: "Reduces near-term payables", Priority: "medium"},
			},
			RiskLevel: "medium",
		}, nil
	default:
		return &ForecastAnalysis{
			Assessment: fmt.Sprintf("Working capital of %s is critically below the recommended %s; a deficit of %s must be covered.",
				snapshot.WorkingCapital.StringFixed(2), snapshot.RecommendedWorkingCapital.StringFixed(2),
				snapshot.Deficit.StringFixed(2)),
			Recommendations: []Recommendation{
				{Action: "Negotiate extended payment terms with suppliers", Impact: "Pushes payables beyond the 30-day horizon", Priority: "high"},
				{Action: "Collect overdue receivables immediately", Impact: "Raises near-term cash inflow", Priority: "high"},
				{Action: "Arrange a short-term credit line", Impact: "Covers the remaining deficit", Priority: "medium"},
			},
			RiskLevel: "high",
		}, nil
	}
}
