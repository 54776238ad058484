// Package eligibility is the evaluation facade. It dispatches a scheme id and
// profile to the matching evaluator and assembles the advisory result.
package eligibility

import (
	"context"
	"fmt"

	apperrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/eligibility/checklist"
	"visa-eligibility-workers/internal/eligibility/documents"
	"visa-eligibility-workers/internal/eligibility/explain"
	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/pathway"
	"visa-eligibility-workers/internal/eligibility/policy"
	"visa-eligibility-workers/internal/eligibility/scoring"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "visa-eligibility-workers/eligibility"

// Engine is safe for concurrent use; it holds only immutable policy data.
type Engine struct {
	rules      *policy.Rules
	constants  *policy.ConstantsCatalog
	documents  documents.Catalog
	graph      *pathway.Graph
	policyYear int
	tracer     trace.Tracer
}

type Option func(*Engine)

func WithRules(rules *policy.Rules) Option {
	return func(e *Engine) { e.rules = rules }
}

func WithConstants(catalog *policy.ConstantsCatalog) Option {
	return func(e *Engine) { e.constants = catalog }
}

func WithDocuments(catalog documents.Catalog) Option {
	return func(e *Engine) { e.documents = catalog }
}

func WithGraph(graph *pathway.Graph) Option {
	return func(e *Engine) { e.graph = graph }
}

// WithPolicyYear selects the schedule Evaluate uses. Zero means the latest.
func WithPolicyYear(year int) Option {
	return func(e *Engine) { e.policyYear = year }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// New builds an engine over the embedded policy data unless options replace it.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.rules == nil || e.constants == nil {
		rules, constants, err := policy.Embedded()
		if err != nil {
			return nil, err
		}
		if e.rules == nil {
			e.rules = rules
		}
		if e.constants == nil {
			e.constants = constants
		}
	}
	if e.documents == nil {
		catalog, err := documents.Embedded()
		if err != nil {
			return nil, err
		}
		e.documents = catalog
	}
	if e.graph == nil {
		graph, err := pathway.Embedded()
		if err != nil {
			return nil, err
		}
		e.graph = graph
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.policyYear == 0 {
		e.policyYear = e.constants.Latest().Year
	}
	if _, err := e.constants.ForYear(e.policyYear); err != nil {
		return nil, err
	}
	return e, nil
}

// SupportedSchemes lists the scheme ids the engine evaluates.
func (e *Engine) SupportedSchemes() []model.SchemeID {
	return model.SupportedSchemes()
}

// PolicyYear is the schedule year Evaluate uses.
func (e *Engine) PolicyYear() int {
	return e.policyYear
}

// Constants returns the schedule for year, or a ConfigurationError.
func (e *Engine) Constants(year int) (policy.ReferenceConstants, error) {
	return e.constants.ForYear(year)
}

// Evaluate runs the scheme's evaluator with the engine's policy-year constants.
func (e *Engine) Evaluate(ctx context.Context, schemeID string, profile model.Profile) (*model.Result, error) {
	constants, err := e.constants.ForYear(e.policyYear)
	if err != nil {
		return nil, err
	}
	return e.EvaluateWithConstants(ctx, schemeID, profile, constants)
}

// EvaluateWithConstants runs the scheme's evaluator against injected constants.
// Unknown schemes, mismatched or invalid profiles and unusable constants are
// rejected before any scoring starts.
func (e *Engine) EvaluateWithConstants(ctx context.Context, schemeID string, profile model.Profile, constants policy.ReferenceConstants) (*model.Result, error) {
	_, span := e.tracer.Start(ctx, "eligibility.Evaluate", trace.WithAttributes(
		attribute.String("scheme.id", schemeID),
		attribute.String("constants.version", constants.Version),
	))
	defer span.End()

	result, err := e.evaluate(schemeID, profile, constants)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("result.kind", string(result.Kind)))
	if result.Score != nil {
		span.SetAttributes(attribute.Int("result.total_score", result.Score.TotalScore), attribute.Bool("result.passing", result.Score.IsPassing))
	}
	if result.Eligibility != nil {
		span.SetAttributes(attribute.Int("result.eligibility_score", result.Eligibility.EligibilityScore), attribute.Bool("result.eligible", result.Eligibility.Eligible))
	}
	return result, nil
}

func (e *Engine) evaluate(schemeID string, profile model.Profile, constants policy.ReferenceConstants) (*model.Result, error) {
	id, err := model.ParseSchemeID(schemeID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.NewProfileValidationError("profile", "profile is required")
	}
	if profile.Scheme() != id {
		return nil, apperrors.NewProfileValidationError("profile", fmt.Sprintf("%s profile supplied for scheme %s", profile.Scheme(), id))
	}
	if err := constants.Validate(); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	result := &model.Result{
		Scheme:           id,
		Kind:             id.Kind(),
		ConstantsVersion: constants.Version,
	}
	node := string(id)
	if v, ok := profile.(model.Variant); ok {
		result.SubType = v.SubTypeOf()
		if e.graph.Known(result.SubType) {
			node = result.SubType
		}
	}

	docs, err := e.documents.Required(profile)
	if err != nil {
		return nil, err
	}
	assessment := explain.Assess(profile, constants, &e.rules.Thresholds)
	processing := e.rules.ProcessingFor(id)

	switch result.Kind {
	case model.KindScore:
		schedule, err := e.rules.Schedule(id)
		if err != nil {
			return nil, err
		}
		score, err := scoring.Evaluate(schedule, profile, constants)
		if err != nil {
			return nil, err
		}
		tips, err := explain.ImprovementTips(schedule, profile, constants, score)
		if err != nil {
			return nil, err
		}
		score.Recommendation = explain.ScoreRecommendation(score, e.rules.Bands)
		score.Warnings = assessment.Warnings
		score.RequiredDocuments = docs
		score.Pathways = e.graph.From(node)
		score.Processing = explain.ScoreProcessing(processing, score, assessment.Warnings, e.rules.Bands)
		score.ImprovementTips = tips
		result.Score = score
	default:
		verdict, err := checklist.Evaluate(profile, constants, &e.rules.Thresholds)
		if err != nil {
			return nil, err
		}
		verdict.Recommendation = explain.EligibilityRecommendation(verdict, e.rules.Bands)
		verdict.Warnings = assessment.Warnings
		verdict.RequiredDocuments = docs
		verdict.Pathways = e.graph.From(node)
		verdict.Processing = explain.EligibilityProcessing(processing, verdict, assessment, e.rules.Bands)
		result.Eligibility = verdict
	}
	return result, nil
}

// Pathways enumerates curated routes from current to target.
func (e *Engine) Pathways(ctx context.Context, current, target string) ([]model.Route, error) {
	_, span := e.tracer.Start(ctx, "eligibility.Pathways", trace.WithAttributes(
		attribute.String("pathway.current", current),
		attribute.String("pathway.target", target),
	))
	defer span.End()

	routes, err := e.graph.Routes(current, target, pathway.MaxHops)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("pathway.routes", len(routes)))
	return routes, nil
}
