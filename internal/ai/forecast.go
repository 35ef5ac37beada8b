package ai

import (
	"encoding/json"
	"fmt"

	"finboard/internal/core"

	"github.com/invopop/jsonschema"
)

// Recommendation is one actionable item in a forecast analysis.
type Recommendation struct {
	Action   string `json:"action" jsonschema_description:"Concrete step the company should take"`
	Impact   string `json:"impact" jsonschema_description:"Expected effect on the working-capital position"`
	Priority string `json:"priority" jsonschema:"enum=high,enum=medium,enum=low" jsonschema_description:"Urgency of the action"`
}

// ForecastAnalysis is the structured reply expected from the AI evaluator.
// The same struct drives the JSON schema sent with the request and the
// shape-check applied to the reply.
type ForecastAnalysis struct {
	Assessment      string           `json:"assessment" jsonschema_description:"Narrative assessment of the company's liquidity position"`
	Recommendations []Recommendation `json:"recommendations" jsonschema_description:"Prioritized list of recommended actions"`
	RiskLevel       string           `json:"risk_level" jsonschema:"enum=low,enum=medium,enum=high" jsonschema_description:"Overall liquidity risk classification"`
}

// Validate shape-checks an analysis received from the AI collaborator.
// Replies failing the check surface as a single error to the caller; there is
// no retry and no substituted default forecast.
func (a *ForecastAnalysis) Validate() error {
	if a.Assessment == "" {
		return fmt.Errorf("analysis is missing an assessment")
	}
	switch a.RiskLevel {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("invalid risk_level %q", a.RiskLevel)
	}
	for i, rec := range a.Recommendations {
		if rec.Action == "" {
			return fmt.Errorf("recommendation %d is missing an action", i+1)
		}
		switch rec.Priority {
		case "high", "medium", "low":
		default:
			return fmt.Errorf("recommendation %d has invalid priority %q", i+1, rec.Priority)
		}
	}
	return nil
}

// BuildForecastPrompt renders the deterministic natural-language prompt for a
// working-capital snapshot. Same snapshot, same prompt.
func BuildForecastPrompt(snapshot core.WorkingCapitalSnapshot) string {
	return fmt.Sprintf(`You are a financial analyst advising a small company.
Analyze the working-capital position below and produce a liquidity forecast report.
Rules:
1. Base the assessment strictly on the figures provided.
2. Give concrete, prioritized recommendations.
3. Classify the overall risk as low, medium or high.

Working-capital position as of %s:
%s`, snapshot.AsOf.Format("2006-01-02"), snapshot.FigureSummary())
}

// ForecastSchema reflects ForecastAnalysis into a strict JSON schema map
// suitable for the structured-output request.
func ForecastSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v ForecastAnalysis
	schemaJSON, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("marshal forecast schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("unmarshal forecast schema to map: %w", err)
	}
	return schemaMap, nil
}
