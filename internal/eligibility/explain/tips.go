package explain

import (
	"fmt"
	"math"

	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/money"
	"visa-eligibility-workers/internal/eligibility/policy"
	"visa-eligibility-workers/internal/eligibility/scoring"
)

// ImprovementTips lists a quantified suggestion for every improvable dimension
// below its maximum. Gains are read from the next bracket of the same table
// that produced the score.
func ImprovementTips(schedule *policy.ScoreSchedule, profile model.Profile, constants policy.ReferenceConstants, result *model.ScoreResult) ([]string, error) {
	inputs, err := scoring.Measure(profile, constants)
	if err != nil {
		return nil, err
	}

	current := make(map[string]int, len(result.Breakdown))
	for _, c := range result.Breakdown {
		current[c.Key] = c.Score
	}

	tips := []string{}
	for _, d := range schedule.Dimensions {
		score := current[d.Key]
		if !d.Improvable || score >= d.MaxScore {
			continue
		}

		next, ok := d.Brackets.Next(inputs[d.Key], score)
		item, unit := d.Item, d.Unit
		if !ok && d.Alternate != nil {
			next, ok = d.Alternate.Brackets.Next(inputs[d.Alternate.Key], score)
			item, unit = d.Alternate.Item, d.Alternate.Unit
		}
		if !ok {
			continue
		}
		tips = append(tips, fmt.Sprintf("+%d points if %s", next.Score-score, condition(item, unit, next, constants)))
	}
	return tips, nil
}

func condition(item, unit string, next policy.Bracket, constants policy.ReferenceConstants) string {
	if next.Label != "" {
		return next.Label
	}
	switch unit {
	case policy.UnitRatio:
		amount := int64(math.Ceil(next.Min * float64(constants.GNIPerCapita)))
		return fmt.Sprintf("%s reaches %s (%.1fx GNI per capita)", item, money.FormatKRW(amount), next.Min)
	case policy.UnitYears:
		return fmt.Sprintf("%s reaches %g years", item, next.Min)
	case policy.UnitLevel:
		return fmt.Sprintf("%s reaches level %g", item, next.Min)
	case policy.UnitStage:
		return fmt.Sprintf("%s reaches stage %g", item, next.Min)
	default:
		return fmt.Sprintf("%s reaches %g", item, next.Min)
	}
}
