package policy

import (
	"fmt"

	"visa-eligibility-workers/internal/eligibility/model"
)

// Dimension units drive how improvement tips phrase the next bracket.
const (
	UnitYears = "years"
	UnitLevel = "level"
	UnitStage = "stage"
	UnitRatio = "ratio"
	UnitRank  = "rank"
	UnitCount = "count"
	UnitFlag  = "flag"
)

// AlternateTable is a second input that can score the same dimension; the
// dimension takes the better of the two.
type AlternateTable struct {
	Key      string `yaml:"key"`
	Item     string `yaml:"item"`
	Unit     string `yaml:"unit"`
	Brackets Table  `yaml:"brackets"`
}

// Dimension is one scored criterion of a points scheme.
type Dimension struct {
	Key        string          `yaml:"key"`
	Category   string          `yaml:"category"`
	Item       string          `yaml:"item"`
	MaxScore   int             `yaml:"maxScore"`
	Unit       string          `yaml:"unit"`
	Improvable bool            `yaml:"improvable"`
	Peaked     bool            `yaml:"peaked"`
	Brackets   Table           `yaml:"brackets"`
	Alternate  *AlternateTable `yaml:"alternate,omitempty"`
}

// ScoreSchedule is the full bracket policy of one points scheme.
type ScoreSchedule struct {
	Scheme       model.SchemeID `yaml:"-"`
	PassingScore int            `yaml:"passingScore"`
	MaxScore     int            `yaml:"maxScore"`
	Dimensions   []Dimension    `yaml:"dimensions"`
}

// Validate checks the schedule is internally consistent. Dimension maxima must
// add up to the scheme maximum and no table may exceed its dimension cap.
func (s *ScoreSchedule) Validate() error {
	if s.PassingScore <= 0 || s.PassingScore > s.MaxScore {
		return fmt.Errorf("%s: passing score %d outside 1..%d", s.Scheme, s.PassingScore, s.MaxScore)
	}

	seen := make(map[string]bool, len(s.Dimensions))
	sum := 0
	for _, d := range s.Dimensions {
		if d.Key == "" {
			return fmt.Errorf("%s: dimension without key", s.Scheme)
		}
		if seen[d.Key] {
			return fmt.Errorf("%s: duplicate dimension %q", s.Scheme, d.Key)
		}
		seen[d.Key] = true

		if err := d.Brackets.validate(!d.Peaked); err != nil {
			return fmt.Errorf("%s/%s: %w", s.Scheme, d.Key, err)
		}
		if d.Brackets.Max() > d.MaxScore {
			return fmt.Errorf("%s/%s: bracket score %d exceeds max %d", s.Scheme, d.Key, d.Brackets.Max(), d.MaxScore)
		}
		if d.Alternate != nil {
			if err := d.Alternate.Brackets.validate(true); err != nil {
				return fmt.Errorf("%s/%s/%s: %w", s.Scheme, d.Key, d.Alternate.Key, err)
			}
			if d.Alternate.Brackets.Max() > d.MaxScore {
				return fmt.Errorf("%s/%s: alternate score exceeds max %d", s.Scheme, d.Key, d.MaxScore)
			}
		}
		sum += d.MaxScore
	}
	if sum != s.MaxScore {
		return fmt.Errorf("%s: dimension maxima add to %d, want %d", s.Scheme, sum, s.MaxScore)
	}
	return nil
}

// Dimension returns the dimension with key.
func (s *ScoreSchedule) Dimension(key string) (Dimension, bool) {
	for _, d := range s.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return Dimension{}, false
}

// Salary bases used by E-7 sub-types.
const (
	SalaryBasisGNI         = "gni"
	SalaryBasisMinimumWage = "minimumWage"
)

// E7Rule is the qualification and salary rule of one E-7 sub-type. A profile
// qualifies through any of: MinEducation plus YearsWithEducation, the
// WaiverEducation alone, ExperienceOnlyYears alone, or LowSkillYears.
type E7Rule struct {
	MinEducation        model.EducationLevel `yaml:"minEducation"`
	YearsWithEducation  float64              `yaml:"yearsWithEducation"`
	WaiverEducation     model.EducationLevel `yaml:"waiverEducation"`
	ExperienceOnlyYears float64              `yaml:"experienceOnlyYears"`
	LowSkillYears       float64              `yaml:"lowSkillYears"`
	SalaryBasis         string               `yaml:"salaryBasis"`
	SalaryRatio         float64              `yaml:"salaryRatio"`
}

type E7Thresholds struct {
	SubTypes              map[string]E7Rule `yaml:"subTypes"`
	MinTopik              int               `yaml:"minTopik"`
	MaxForeignWorkerRatio float64           `yaml:"maxForeignWorkerRatio"`
	MinKoreanStaff        int               `yaml:"minKoreanStaff"`
}

// F5Rule lists the thresholds of one F-5 sub-type. Zero values switch a check off.
type F5Rule struct {
	ResidenceYears        float64 `yaml:"residenceYears"`
	MarriedResidenceYears float64 `yaml:"marriedResidenceYears"`
	F27Years              float64 `yaml:"f27Years"`
	IncomeGNIRatio        float64 `yaml:"incomeGNIRatio"`
	AdvisoryMinimumWage   bool    `yaml:"advisoryMinimumWage"`
	AdvisoryNetAssets     int64   `yaml:"advisoryNetAssets"`
	Investment            int64   `yaml:"investment"`
	KoreanEmployees       int     `yaml:"koreanEmployees"`
}

type F5Thresholds struct {
	SubTypes map[string]F5Rule `yaml:"subTypes"`
	MinTopik int               `yaml:"minTopik"`
}

type F6Thresholds struct {
	MedianIncomeRatio     float64 `yaml:"medianIncomeRatio"`
	AgeGapWarning         int     `yaml:"ageGapWarning"`
	PriorMarriagesWarning int     `yaml:"priorMarriagesWarning"`
}

type D2Rule struct {
	Prerequisite  model.EducationLevel `yaml:"prerequisite"`
	RequiredFunds int64                `yaml:"requiredFunds"`
	MinTopik      int                  `yaml:"minTopik"`
}

type D2Thresholds struct {
	SubTypes          map[string]D2Rule `yaml:"subTypes"`
	FundsWarningRatio float64           `yaml:"fundsWarningRatio"`
}

type E9Thresholds struct {
	MinAge                int      `yaml:"minAge"`
	MaxAge                int      `yaml:"maxAge"`
	MinEpsTopik           int      `yaml:"minEpsTopik"`
	MOUCountries          []string `yaml:"mouCountries"`
	SafetyTrainingSectors []string `yaml:"safetyTrainingSectors"`
	MaxPriorStayYears     float64  `yaml:"maxPriorStayYears"`
}

// IsMOUCountry reports whether code has an employment permit agreement.
func (t E9Thresholds) IsMOUCountry(code string) bool {
	return contains(t.MOUCountries, code)
}

// NeedsSafetyTraining reports whether sector requires safety training.
func (t E9Thresholds) NeedsSafetyTraining(sector string) bool {
	return contains(t.SafetyTrainingSectors, sector)
}

type D8Rule struct {
	MinInvestment  int64                `yaml:"minInvestment"`
	MinEquityShare float64              `yaml:"minEquityShare"`
	MinEducation   model.EducationLevel `yaml:"minEducation"`
	MinOasisPoints int                  `yaml:"minOasisPoints"`
}

type D8Thresholds struct {
	SubTypes               map[string]D8Rule `yaml:"subTypes"`
	InvestmentWarningRatio float64           `yaml:"investmentWarningRatio"`
}

type D10Thresholds struct {
	MinimumFunds int64 `yaml:"minimumFunds"`
}

// Thresholds groups the requirement thresholds of every scheme.
type Thresholds struct {
	E7  E7Thresholds  `yaml:"E-7"`
	F5  F5Thresholds  `yaml:"F-5"`
	F6  F6Thresholds  `yaml:"F-6"`
	D2  D2Thresholds  `yaml:"D-2"`
	E9  E9Thresholds  `yaml:"E-9"`
	D8  D8Thresholds  `yaml:"D-8"`
	D10 D10Thresholds `yaml:"D-10"`
}

func (t *Thresholds) validate() error {
	for _, sub := range []string{model.E7Professional, model.E7SemiProfessional, model.E7GeneralSkilled, model.E7SkilledWorker} {
		rule, ok := t.E7.SubTypes[sub]
		if !ok {
			return fmt.Errorf("E-7: missing sub-type %s", sub)
		}
		if rule.SalaryBasis != SalaryBasisGNI && rule.SalaryBasis != SalaryBasisMinimumWage {
			return fmt.Errorf("E-7/%s: unknown salary basis %q", sub, rule.SalaryBasis)
		}
	}
	for _, sub := range []string{model.F5General, model.F5Marriage, model.F5Points, model.F5Investor} {
		if _, ok := t.F5.SubTypes[sub]; !ok {
			return fmt.Errorf("F-5: missing sub-type %s", sub)
		}
	}
	for _, sub := range []string{model.D2Associate, model.D2Bachelor, model.D2Master, model.D2Doctorate, model.D2Research, model.D2Exchange} {
		rule, ok := t.D2.SubTypes[sub]
		if !ok {
			return fmt.Errorf("D-2: missing sub-type %s", sub)
		}
		if rule.Prerequisite.Rank() < 0 {
			return fmt.Errorf("D-2/%s: unknown prerequisite %q", sub, rule.Prerequisite)
		}
	}
	for _, sub := range []string{model.D8CorporateInvestment, model.D8TechStartup} {
		if _, ok := t.D8.SubTypes[sub]; !ok {
			return fmt.Errorf("D-8: missing sub-type %s", sub)
		}
	}
	if t.F6.MedianIncomeRatio <= 0 {
		return fmt.Errorf("F-6: median income ratio must be positive")
	}
	if t.E9.MinAge >= t.E9.MaxAge || len(t.E9.MOUCountries) == 0 {
		return fmt.Errorf("E-9: incomplete thresholds")
	}
	return nil
}

// ProcessingPolicy is the fixed turnaround of a scheme.
type ProcessingPolicy struct {
	StandardDays  int    `yaml:"standardDays"`
	FastTrackDays *int   `yaml:"fastTrackDays,omitempty"`
	Note          string `yaml:"note,omitempty"`
}

// Bands are the cut-offs used for recommendation text and interview likelihood.
type Bands struct {
	ComfortableMargin int `yaml:"comfortableMargin"`
	StrongPercent     int `yaml:"strongPercent"`
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
