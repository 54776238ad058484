package evaluatevisaeligibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	apperrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/validation"
	"visa-eligibility-workers/internal/eligibility"
	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/policy"
	"visa-eligibility-workers/internal/refdata"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const passingF27 = `{"age": 27, "education": "master", "topikLevel": 4, "annualIncome": 103440000, "koreaWorkYears": 2, "domesticStudy": "none", "certifications": 1}`

func createTestHandler(t *testing.T, db *sql.DB) *Handler {
	t.Helper()
	engine, err := eligibility.New()
	require.NoError(t, err)
	validator, err := validation.Embedded()
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	_, catalog := policy.MustEmbedded()
	store := refdata.NewStore(db, nil, catalog, refdata.Options{CacheTTL: time.Minute, AllowFallback: true}, log)
	return NewHandler(LoadConfig(), engine, store, validator, log)
}

func createInput(scheme, profile string) *Input {
	return &Input{SchemeID: scheme, Profile: json.RawMessage(profile)}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ScoreScheme(t *testing.T) {
	h := createTestHandler(t, nil)

	output, err := h.Execute(context.Background(), createInput("F-2-7", passingF27))
	require.NoError(t, err)

	_, err = uuid.Parse(output.EvaluationID)
	assert.NoError(t, err)
	assert.Equal(t, 2026, output.PolicyYear)
	assert.Equal(t, "2026 schedule", output.ConstantsVersion)
	assert.True(t, output.Passed)

	require.NotNil(t, output.Evaluation.Score)
	assert.Equal(t, model.KindScore, output.Evaluation.Kind)
	assert.Equal(t, 80, output.Evaluation.Score.TotalScore)
	assert.Nil(t, output.Evaluation.Eligibility)
}

func TestHandler_Execute_PolicyYearAndEvaluationID(t *testing.T) {
	h := createTestHandler(t, nil)
	input := createInput("f-2-7", passingF27)
	input.PolicyYear = 2025
	input.EvaluationID = "eval-42"

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "eval-42", output.EvaluationID)
	assert.Equal(t, 2025, output.PolicyYear)
	assert.Equal(t, "2025 schedule", output.Evaluation.ConstantsVersion)
	assert.Equal(t, model.SchemeF27, output.Evaluation.Scheme)
}

func TestHandler_Execute_FailingOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		scheme  string
		profile string
		kind    model.ResultKind
	}{
		{
			name:    "points below the pass mark",
			scheme:  "F-2-7",
			profile: `{"age": 27, "education": "master", "topikLevel": 4, "koreaWorkYears": 2, "domesticStudy": "none", "certifications": 1}`,
			kind:    model.KindScore,
		},
		{
			name:   "critical requirement unmet",
			scheme: "E-9",
			profile: `{"sector": "construction", "age": 25, "epsTopikScore": 150, "passedHealthCheck": true, "nationality": "NP",
				"hasLabourContract": true, "skillsTestPassed": true, "safetyTraining": true, "hasCriminalRecord": true}`,
			kind: model.KindEligibility,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, nil)

			output, err := h.Execute(context.Background(), createInput(tt.scheme, tt.profile))
			require.NoError(t, err)
			assert.False(t, output.Passed)
			assert.Equal(t, tt.kind, output.Evaluation.Kind)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		wantCode  apperrors.ErrorCode
		wantField string
	}{
		{
			name:     "unknown scheme",
			input:    createInput("H-1", `{}`),
			wantCode: apperrors.ErrCodeUnknownScheme,
		},
		{
			name:     "missing profile",
			input:    createInput("F-2-7", ``),
			wantCode: apperrors.ErrCodeInputSchemaViolation,
		},
		{
			name:     "profile missing required field",
			input:    createInput("F-2-7", `{"education": "master", "domesticStudy": "none"}`),
			wantCode: apperrors.ErrCodeInputSchemaViolation,
		},
		{
			name:     "field from another scheme",
			input:    createInput("D-10", `{"age": 30, "education": "bachelor", "annualIncome": 1}`),
			wantCode: apperrors.ErrCodeInputSchemaViolation,
		},
		{
			name:      "out of range for the engine",
			input:     createInput("F-2-7", `{"age": 27, "education": "master", "domesticStudy": "none", "certifications": 51}`),
			wantCode:  apperrors.ErrCodeProfileValidationFailed,
			wantField: "certifications",
		},
		{
			name: "policy year without constants",
			input: &Input{
				SchemeID:   "F-2-7",
				Profile:    json.RawMessage(passingF27),
				PolicyYear: 1999,
			},
			wantCode: apperrors.ErrCodeReferenceConstantsUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, nil)

			output, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), err.Error())
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, apperrors.FieldOf(err))
			}
		})
	}
}

func TestHandler_Execute_ConstantsQueryFailureIsRetryable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM reference_constants WHERE year = $1")).
		WithArgs(2030).
		WillReturnError(errors.New("connection reset by peer"))

	h := createTestHandler(t, db)
	input := createInput("F-2-7", passingF27)
	input.PolicyYear = 2030

	_, err = h.Execute(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeQueryExecutionFailed))

	bpmnErr := apperrors.ConvertToBPMNError(apperrors.Normalize(err))
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := createTestHandler(t, nil)

	input, err := h.parseInput([]byte(`{"schemeId": "E-9", "profile": {"sector": "service"}, "policyYear": 2026, "processInstance": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, "E-9", input.SchemeID)
	assert.Equal(t, 2026, input.PolicyYear)
	assert.JSONEq(t, `{"sector": "service"}`, string(input.Profile))

	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing scheme", raw: `{"profile": {}}`},
		{name: "profile not an object", raw: `{"schemeId": "E-9", "profile": "x"}`},
		{name: "policy year out of range", raw: `{"schemeId": "E-9", "profile": {}, "policyYear": 1800}`},
		{name: "not json", raw: `{"schemeId":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.parseInput([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInputSchemaViolation), err.Error())
		})
	}
}
