// internal/workers/eligibility/evaluate-visa-eligibility/models.go
package evaluatevisaeligibility

import (
	"encoding/json"

	"visa-eligibility-workers/internal/eligibility/model"
)

type Input struct {
	SchemeID     string          `json:"schemeId"`
	Profile      json.RawMessage `json:"profile"`
	PolicyYear   int             `json:"policyYear,omitempty"`
	EvaluationID string          `json:"evaluationId,omitempty"`
}

type Output struct {
	EvaluationID     string        `json:"evaluationId"`
	PolicyYear       int           `json:"policyYear"`
	ConstantsVersion string        `json:"constantsVersion"`
	Passed           bool          `json:"passed"`
	Evaluation       *model.Result `json:"evaluation"`
}
