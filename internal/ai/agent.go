package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"finboard/internal/core"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// PromptEvaluator turns a working-capital snapshot into a forecast analysis.
// Two implementations exist: Agent (live OpenAI) and MockEvaluator; the server
// picks one at startup via configuration, never by branching at call sites.
type PromptEvaluator interface {
	AnalyzeWorkingCapital(ctx context.Context, snapshot core.WorkingCapitalSnapshot) (*ForecastAnalysis, error)
}

// ExternalError marks a failure of the AI collaborator: unreachable service,
// empty output, or a reply failing the shape check. The web adapter maps it
// to HTTP 502.
type ExternalError struct {
	Err error
}

func (e *ExternalError) Error() string { return "ai collaborator: " + e.Err.Error() }
func (e *ExternalError) Unwrap() error { return e.Err }

// IsExternal reports whether err is (or wraps) an ExternalError.
func IsExternal(err error) bool {
	var ee *ExternalError
	return errors.As(err, &ee)
}

func externalf(format string, args ...any) error {
	return &ExternalError{Err: fmt.Errorf(format, args...)}
}

// Agent is the live evaluator backed by the OpenAI Responses API with strict
// structured output.
type Agent struct {
	client *openai.Client
}

// NewAgent creates a live evaluator with the given API key.
func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

func (a *Agent) AnalyzeWorkingCapital(ctx context.Context, snapshot core.WorkingCapitalSnapshot) (*ForecastAnalysis, error) {
	prompt := BuildForecastPrompt(snapshot)

	schemaMap, err := ForecastSchema()
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "working_capital_forecast",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A liquidity forecast report for a working-capital snapshot"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, externalf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, externalf("empty response content")
	}

	var analysis ForecastAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, externalf("failed to parse completion: %w", err)
	}
	if err := analysis.Validate(); err != nil {
		return nil, externalf("analysis failed shape check: %w", err)
	}

	return &analysis, nil
}
