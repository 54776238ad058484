// internal/workers/eligibility/find-visa-pathways/handler.go
package findvisapathways

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/validation"
	"visa-eligibility-workers/internal/eligibility/model"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "find-visa-pathways"

// PathwayFinder enumerates routes between two classifications.
type PathwayFinder interface {
	Pathways(ctx context.Context, current, target string) ([]model.Route, error)
}

type Handler struct {
	config       *Config
	finder       PathwayFinder
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, finder PathwayFinder, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		finder:       finder,
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

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err.Error()})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err.Error()})
		return apperrors.NewExternalServiceError("zeebe", err)
	}
	return nil
}

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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	routes, err := h.finder.Pathways(ctx, input.CurrentScheme, input.TargetScheme)
	if err != nil {
		return nil, err
	}

	output := &Output{
		Routes:     routes,
		RouteCount: len(routes),
		HasPathway: len(routes) > 0,
	}
	if len(routes) > 0 {
		output.FastestYears = routes[0].TotalYears
	}

	h.logger.Info("pathways resolved", map[string]interface{}{
		"current": input.CurrentScheme,
		"target":  input.TargetScheme,
		"routes":  len(routes),
	})
	return output, nil
}
