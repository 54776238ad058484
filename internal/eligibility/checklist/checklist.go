// Package checklist evaluates the requirement-based schemes. Each scheme is a
// plain function selected by profile type; sub-types select the rule row.
package checklist

import (
	"fmt"
	"math"

	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/policy"
)

// Requirements returns the ordered requirement trace of a checklist profile.
func Requirements(profile model.Profile, constants policy.ReferenceConstants, thresholds *policy.Thresholds) ([]model.RequirementCheck, error) {
	switch p := profile.(type) {
	case *model.E7Profile:
		return evaluateE7(p, constants, thresholds.E7)
	case *model.F5Profile:
		return evaluateF5(p, constants, thresholds.F5)
	case *model.F6Profile:
		return evaluateF6(p, constants, thresholds.F6)
	case *model.D2Profile:
		return evaluateD2(p, thresholds.D2)
	case *model.E9Profile:
		return evaluateE9(p, thresholds.E9), nil
	case *model.D8Profile:
		return evaluateD8(p, thresholds.D8)
	default:
		return nil, fmt.Errorf("checklist: %s is not a checklist scheme", profile.Scheme())
	}
}

// Evaluate builds the eligibility verdict. Eligible depends only on critical
// checks; the percentage counts every check.
func Evaluate(profile model.Profile, constants policy.ReferenceConstants, thresholds *policy.Thresholds) (*model.EligibilityResult, error) {
	checks, err := Requirements(profile, constants, thresholds)
	if err != nil {
		return nil, err
	}
	return &model.EligibilityResult{
		Eligible:         model.CriticalMet(checks),
		EligibilityScore: model.EligibilityPercent(checks),
		Requirements:     checks,
	}, nil
}

// IncomeThresholdF6 is the sponsor income floor for the declared household.
func IncomeThresholdF6(p *model.F6Profile, constants policy.ReferenceConstants, t policy.F6Thresholds) int64 {
	return scaled(constants.MedianIncomeFor(p.HouseholdSize()), t.MedianIncomeRatio)
}

// RequiredFundsD2 is the proof-of-funds floor after the scholarship share.
func RequiredFundsD2(p *model.D2Profile, t policy.D2Thresholds) (int64, error) {
	rule, ok := t.SubTypes[p.SubType]
	if !ok {
		return 0, fmt.Errorf("checklist: no D-2 rule for %q", p.SubType)
	}
	return scaled(rule.RequiredFunds, 1-p.ScholarshipFraction), nil
}

type trace []model.RequirementCheck

func (t *trace) critical(key, item string, met bool, note string) {
	*t = append(*t, model.RequirementCheck{Key: key, Item: item, Met: met, Critical: true, Note: note})
}

func (t *trace) advisory(key, item string, met bool, note string) {
	*t = append(*t, model.RequirementCheck{Key: key, Item: item, Met: met, Note: note})
}

func scaled(amount int64, ratio float64) int64 {
	return int64(math.Ceil(float64(amount) * ratio))
}
