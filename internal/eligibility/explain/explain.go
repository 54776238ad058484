// Package explain turns evaluator output into advisory text: recommendation
// bands, risk warnings, improvement tips and the processing estimate. Nothing
// here changes a pass/fail or eligibility verdict.
package explain

import (
	"fmt"
	"strings"

	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/policy"
)

// ScoreRecommendation picks the message band from the margin above the threshold.
func ScoreRecommendation(result *model.ScoreResult, bands policy.Bands) string {
	margin := result.TotalScore - result.PassingScore
	switch {
	case margin >= bands.ComfortableMargin:
		return fmt.Sprintf("Passing comfortably with %d of %d points, %d above the %d-point threshold.",
			result.TotalScore, result.MaxScore, margin, result.PassingScore)
	case margin >= 0:
		return fmt.Sprintf("Marginally passing with %d points, only %d above the %d-point threshold. Secure supporting evidence for every scored item before applying.",
			result.TotalScore, margin, result.PassingScore)
	default:
		return fmt.Sprintf("Not passing: %d points is %d short of the %d-point threshold. See the improvement tips for the quickest gains.",
			result.TotalScore, -margin, result.PassingScore)
	}
}

// EligibilityRecommendation picks the message band from the critical gate and percentage.
func EligibilityRecommendation(result *model.EligibilityResult, bands policy.Bands) string {
	if !result.Eligible {
		return fmt.Sprintf("Not eligible: unmet critical requirements: %s.", itemsWhere(result.Requirements, true))
	}
	if result.EligibilityScore >= bands.StrongPercent {
		return fmt.Sprintf("Strong case: every critical requirement is met (%d%% of all requirements).", result.EligibilityScore)
	}
	return fmt.Sprintf("Eligible: every critical requirement is met, but these advisory items are not: %s.", itemsWhere(result.Requirements, false))
}

func itemsWhere(checks []model.RequirementCheck, critical bool) string {
	var items []string
	for _, c := range checks {
		if !c.Met && c.Critical == critical {
			items = append(items, c.Item)
		}
	}
	return strings.Join(items, "; ")
}

// ScoreProcessing estimates turnaround for a points-scheme result.
func ScoreProcessing(p policy.ProcessingPolicy, result *model.ScoreResult, warnings []string, bands policy.Bands) model.ProcessingEstimate {
	margin := result.TotalScore - result.PassingScore
	likelihood := model.InterviewHigh
	switch {
	case margin >= bands.ComfortableMargin && len(warnings) == 0:
		likelihood = model.InterviewLow
	case margin >= 0:
		likelihood = model.InterviewMedium
	}
	return estimate(p, likelihood)
}

// EligibilityProcessing estimates turnaround for a checklist result.
func EligibilityProcessing(p policy.ProcessingPolicy, result *model.EligibilityResult, assessment Assessment, bands policy.Bands) model.ProcessingEstimate {
	likelihood := model.InterviewMedium
	switch {
	case !result.Eligible || assessment.HighRisk:
		likelihood = model.InterviewHigh
	case result.EligibilityScore >= bands.StrongPercent && len(assessment.Warnings) == 0:
		likelihood = model.InterviewLow
	}
	return estimate(p, likelihood)
}

func estimate(p policy.ProcessingPolicy, likelihood model.InterviewLikelihood) model.ProcessingEstimate {
	out := model.ProcessingEstimate{
		StandardDays:        p.StandardDays,
		InterviewLikelihood: likelihood,
		Note:                p.Note,
	}
	if p.FastTrackDays != nil {
		days := *p.FastTrackDays
		out.FastTrackDays = &days
	}
	return out
}
