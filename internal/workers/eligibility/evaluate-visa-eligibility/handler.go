// internal/workers/eligibility/evaluate-visa-eligibility/handler.go
package evaluatevisaeligibility

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/metrics"
	"visa-eligibility-workers/internal/common/validation"
	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/policy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "evaluate-visa-eligibility"

// Evaluator is the slice of the eligibility engine this worker needs.
type Evaluator interface {
	EvaluateWithConstants(ctx context.Context, schemeID string, profile model.Profile, constants policy.ReferenceConstants) (*model.Result, error)
	PolicyYear() int
}

// ConstantsSource resolves the reference constants of a policy year.
type ConstantsSource interface {
	Lookup(ctx context.Context, year int) (policy.ReferenceConstants, error)
}

type Handler struct {
	config       *Config
	evaluator    Evaluator
	constants    ConstantsSource
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, evaluator Evaluator, constants ConstantsSource, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		evaluator:    evaluator,
		constants:    constants,
		validator:    validator,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput([]byte(job.Variables))
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	return h.completeJob(ctx, client, job, output)
}

// parseInput checks the job variables against the task schema before decoding.
func (h *Handler) parseInput(raw []byte) (*Input, error) {
	result, err := h.validator.Validate(TaskType, raw)
	if err != nil {
		return nil, apperrors.NewInputSchemaViolationError(err.Error())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, apperrors.NewInputSchemaViolationError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute validates the profile, resolves the policy-year constants and runs
// the evaluation.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	evaluationID := input.EvaluationID
	if evaluationID == "" {
		evaluationID = uuid.NewString()
	}
	log := h.logger.WithFields(map[string]interface{}{
		"evaluationId": evaluationID,
		"schemeId":     input.SchemeID,
	})

	id, err := model.ParseSchemeID(input.SchemeID)
	if err != nil {
		metrics.RecordEvaluation("unknown", "", metrics.OutcomeRejected)
		return nil, err
	}

	profile, err := h.decodeProfile(id, input.Profile)
	if err != nil {
		metrics.RecordEvaluation(string(id), string(id.Kind()), metrics.OutcomeRejected)
		log.Warn("profile rejected", map[string]interface{}{
			"field": apperrors.FieldOf(err),
			"error": err.Error(),
		})
		return nil, err
	}

	year := input.PolicyYear
	if year == 0 {
		year = h.evaluator.PolicyYear()
	}
	constants, err := h.constants.Lookup(ctx, year)
	if err != nil {
		return nil, err
	}

	result, err := h.evaluator.EvaluateWithConstants(ctx, string(id), profile, constants)
	if err != nil {
		metrics.RecordEvaluation(string(id), string(id.Kind()), metrics.OutcomeRejected)
		return nil, err
	}

	passed := isPassing(result)
	outcome := metrics.OutcomeFail
	if passed {
		outcome = metrics.OutcomePass
	}
	metrics.RecordEvaluation(string(id), string(result.Kind), outcome)
	if result.Score != nil {
		metrics.RecordScore(string(id), result.Score.TotalScore)
	}

	log.Info("evaluation completed", map[string]interface{}{
		"kind":             string(result.Kind),
		"passed":           passed,
		"policyYear":       constants.Year,
		"constantsVersion": constants.Version,
	})

	return &Output{
		EvaluationID:     evaluationID,
		PolicyYear:       constants.Year,
		ConstantsVersion: constants.Version,
		Passed:           passed,
		Evaluation:       result,
	}, nil
}

func (h *Handler) decodeProfile(id model.SchemeID, raw json.RawMessage) (model.Profile, error) {
	if len(raw) == 0 {
		return nil, apperrors.NewInputSchemaViolationError("profile is required")
	}
	result, err := h.validator.Validate(string(id), raw)
	if err != nil {
		return nil, apperrors.NewInputSchemaViolationError(err.Error())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return model.DecodeProfile(id, raw)
}

func isPassing(result *model.Result) bool {
	switch {
	case result.Score != nil:
		return result.Score.IsPassing
	case result.Eligibility != nil:
		return result.Eligibility.Eligible
	default:
		return false
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return apperrors.NewExternalServiceError("zeebe", err)
	}
	return nil
}
