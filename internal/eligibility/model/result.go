package model

// ScoringCriterion is one scored dimension. 0 <= Score <= MaxScore always holds.
type ScoringCriterion struct {
	Key      string `json:"key"`
	Category string `json:"category"`
	Item     string `json:"item"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Note     string `json:"note,omitempty"`
}

// RequirementCheck is one named predicate of a checklist scheme.
type RequirementCheck struct {
	Key      string `json:"key"`
	Item     string `json:"item"`
	Met      bool   `json:"met"`
	Critical bool   `json:"critical"`
	Note     string `json:"note,omitempty"`
}

// Difficulty grades a pathway transition.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// Rank orders difficulties; unknown values rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyModerate:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 0
	}
}

// InterviewLikelihood is the advisory chance of an in-person interview.
type InterviewLikelihood string

const (
	InterviewLow    InterviewLikelihood = "low"
	InterviewMedium InterviewLikelihood = "medium"
	InterviewHigh   InterviewLikelihood = "high"
)

type ProcessingEstimate struct {
	StandardDays        int                 `json:"standardDays"`
	FastTrackDays       *int                `json:"fastTrackDays,omitempty"`
	InterviewLikelihood InterviewLikelihood `json:"interviewLikelihood"`
	Note                string              `json:"note,omitempty"`
}

// PathwayEdge is a legal transition between two classifications. Nodes may be
// sub-variants such as "E-7-4".
type PathwayEdge struct {
	From           string     `json:"from" yaml:"from"`
	To             string     `json:"to" yaml:"to"`
	Requirements   []string   `json:"requirements" yaml:"requirements"`
	EstimatedYears float64    `json:"estimatedYears" yaml:"estimatedYears"`
	Difficulty     Difficulty `json:"difficulty" yaml:"difficulty"`
}

// Route is an ordered chain of edges. Difficulty is the hardest edge on the route.
type Route struct {
	Edges      []PathwayEdge `json:"edges"`
	TotalYears float64       `json:"totalYears"`
	Difficulty Difficulty    `json:"difficulty"`
}

type ScoreResult struct {
	TotalScore        int                `json:"totalScore"`
	PassingScore      int                `json:"passingScore"`
	MaxScore          int                `json:"maxScore"`
	IsPassing         bool               `json:"isPassing"`
	Breakdown         []ScoringCriterion `json:"breakdown"`
	Recommendation    string             `json:"recommendation"`
	Warnings          []string           `json:"warnings"`
	RequiredDocuments []string           `json:"requiredDocuments"`
	Pathways          []PathwayEdge      `json:"pathways"`
	Processing        ProcessingEstimate `json:"processing"`
	ImprovementTips   []string           `json:"improvementTips"`
}

type EligibilityResult struct {
	Eligible          bool               `json:"eligible"`
	EligibilityScore  int                `json:"eligibilityScore"`
	Requirements      []RequirementCheck `json:"requirements"`
	Recommendation    string             `json:"recommendation"`
	Warnings          []string           `json:"warnings"`
	RequiredDocuments []string           `json:"requiredDocuments"`
	Pathways          []PathwayEdge      `json:"pathways"`
	Processing        ProcessingEstimate `json:"processing"`
}

// Result is the envelope returned by the facade; exactly one of Score and
// Eligibility is set, matching Kind.
type Result struct {
	Scheme           SchemeID           `json:"schemeId"`
	SubType          string             `json:"subType,omitempty"`
	Kind             ResultKind         `json:"kind"`
	ConstantsVersion string             `json:"constantsVersion"`
	Score            *ScoreResult       `json:"scoreResult,omitempty"`
	Eligibility      *EligibilityResult `json:"eligibilityResult,omitempty"`
}

// SumBreakdown totals the criterion scores.
func SumBreakdown(breakdown []ScoringCriterion) int {
	total := 0
	for _, c := range breakdown {
		total += c.Score
	}
	return total
}

// EligibilityPercent returns round(100 * met / total), rounding halves up.
func EligibilityPercent(checks []RequirementCheck) int {
	if len(checks) == 0 {
		return 0
	}
	met := 0
	for _, c := range checks {
		if c.Met {
			met++
		}
	}
	total := len(checks)
	return (200*met + total) / (2 * total)
}

// CriticalMet reports whether every critical check holds.
func CriticalMet(checks []RequirementCheck) bool {
	for _, c := range checks {
		if c.Critical && !c.Met {
			return false
		}
	}
	return true
}
