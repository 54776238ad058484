// Package scoring evaluates the points-based schemes. Bracket tables come from
// the policy package; this package only measures profiles and applies them.
package scoring

import (
	"fmt"

	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/policy"
)

// Inputs are the measured values of a profile keyed by dimension (or alternate) key.
type Inputs map[string]float64

// Measure extracts the scoring inputs of a points-scheme profile. Income is
// normalised against the GNI benchmark so the same tables serve every policy year.
func Measure(profile model.Profile, constants policy.ReferenceConstants) (Inputs, error) {
	switch p := profile.(type) {
	case *model.F27Profile:
		return Inputs{
			"age":               float64(p.Age),
			"education":         float64(p.Education.Rank()),
			"topik":             float64(p.TopikLevel),
			"kiip":              float64(p.KiipStage),
			"incomeRatio":       ratio(p.AnnualIncome, constants.GNIPerCapita),
			"koreaWorkYears":    p.KoreaWorkYears,
			"domesticStudy":     float64(p.DomesticStudy.Rank()),
			"certifications":    float64(p.Certifications),
			"volunteerHours":    float64(p.VolunteerHours),
			"regionalResidence": flag(p.RegionalResidence),
			"spouseInKorea":     flag(p.SpouseInKorea),
		}, nil
	case *model.D10Profile:
		return Inputs{
			"age":             float64(p.Age),
			"education":       float64(p.Education.Rank()),
			"topik":           float64(p.TopikLevel),
			"kiip":            float64(p.KiipStage),
			"experienceYears": p.ExperienceYears,
			"koreanDegree":    flag(p.KoreanDegree),
			"topUniversity":   flag(p.TopUniversity),
			"certifications":  float64(p.Certifications),
		}, nil
	default:
		return nil, fmt.Errorf("scoring: %s is not a points scheme", profile.Scheme())
	}
}

// Score applies the schedule to inputs. Every dimension appears in the
// breakdown once, in schedule order, including those scoring zero.
func Score(schedule *policy.ScoreSchedule, inputs Inputs) ([]model.ScoringCriterion, error) {
	breakdown := make([]model.ScoringCriterion, 0, len(schedule.Dimensions))
	for _, d := range schedule.Dimensions {
		value, ok := inputs[d.Key]
		if !ok {
			return nil, fmt.Errorf("scoring: %s has no input for dimension %q", schedule.Scheme, d.Key)
		}

		score := d.Brackets.Lookup(value)
		note := ""
		if d.Alternate != nil {
			alt, ok := inputs[d.Alternate.Key]
			if !ok {
				return nil, fmt.Errorf("scoring: %s has no input for alternate %q", schedule.Scheme, d.Alternate.Key)
			}
			if altScore := d.Alternate.Brackets.Lookup(alt); altScore > score {
				score = altScore
				note = fmt.Sprintf("scored by %s %s %g", d.Alternate.Item, d.Alternate.Unit, alt)
			}
		}
		if score > d.MaxScore {
			score = d.MaxScore
		}
		if note == "" && d.Unit == policy.UnitRatio {
			note = fmt.Sprintf("%.2fx benchmark", value)
		}

		breakdown = append(breakdown, model.ScoringCriterion{
			Key:      d.Key,
			Category: d.Category,
			Item:     d.Item,
			Score:    score,
			MaxScore: d.MaxScore,
			Note:     note,
		})
	}
	return breakdown, nil
}

// Evaluate measures the profile and scores it. Recommendation, warnings and
// the other advisory fields are left for the explain and documents packages.
func Evaluate(schedule *policy.ScoreSchedule, profile model.Profile, constants policy.ReferenceConstants) (*model.ScoreResult, error) {
	inputs, err := Measure(profile, constants)
	if err != nil {
		return nil, err
	}
	breakdown, err := Score(schedule, inputs)
	if err != nil {
		return nil, err
	}

	total := model.SumBreakdown(breakdown)
	return &model.ScoreResult{
		TotalScore:   total,
		PassingScore: schedule.PassingScore,
		MaxScore:     schedule.MaxScore,
		IsPassing:    total >= schedule.PassingScore,
		Breakdown:    breakdown,
	}, nil
}

func ratio(amount, benchmark int64) float64 {
	if benchmark <= 0 {
		return 0
	}
	return float64(amount) / float64(benchmark)
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
