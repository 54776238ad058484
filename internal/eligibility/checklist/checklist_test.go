package checklist

import (
	"testing"

	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures(t *testing.T) (*policy.Thresholds, policy.ReferenceConstants) {
	t.Helper()
	rules, catalog := policy.MustEmbedded()
	constants, err := catalog.ForYear(2026)
	require.NoError(t, err)
	return &rules.Thresholds, constants
}

func check(t *testing.T, checks []model.RequirementCheck, key string) model.RequirementCheck {
	t.Helper()
	for _, c := range checks {
		if c.Key == key {
			return c
		}
	}
	t.Fatalf("no requirement %q", key)
	return model.RequirementCheck{}
}

func eligibleE7() *model.E7Profile {
	return &model.E7Profile{
		SubType:                    model.E7Professional,
		OccupationCode:             "2211",
		HasJobOffer:                true,
		Education:                  model.EducationBachelor,
		RelevantExperienceYears:    2,
		AnnualSalary:               50_000_000,
		TopikLevel:                 3,
		EmployerForeignWorkerRatio: 0.1,
		EmployerKoreanStaff:        10,
	}
}

func eligibleF5() *model.F5Profile {
	return &model.F5Profile{SubType: model.F5General, YearsInKorea: 6, AnnualIncome: 60_000_000, NetAssets: 50_000_000, TopikLevel: 4}
}

func eligibleF6() *model.F6Profile {
	return &model.F6Profile{
		SubType: model.F6Spouse, ApplicantAge: 29, SponsorAge: 33, SponsorAnnualIncome: 40_000_000,
		MetInPerson: true, MarriageRegistered: true, CanCommunicate: true, HasHousing: true,
	}
}

func eligibleD2() *model.D2Profile {
	return &model.D2Profile{
		SubType: model.D2Master, HasAdmission: true, PriorEducation: model.EducationBachelor,
		AvailableFunds: 30_000_000, TopikLevel: 4, InstitutionRank: model.InstitutionCertified,
	}
}

func eligibleE9() *model.E9Profile {
	return &model.E9Profile{
		Sector: model.E9Construction, Age: 25, EpsTopikScore: 150, PassedHealthCheck: true, Nationality: "NP",
		HasLabourContract: true, SkillsTestPassed: true, SafetyTraining: true,
	}
}

func eligibleD8() *model.D8Profile {
	return &model.D8Profile{
		SubType: model.D8CorporateInvestment, InvestmentAmount: 150_000_000, FDIRegistered: true,
		EquityShare: 0.3, HasBusinessPlan: true, Education: model.EducationBachelor,
	}
}

// ==========================
// Dispatch Tests
// ==========================

func TestEvaluate_FullyEligibleFixtures(t *testing.T) {
	thresholds, constants := fixtures(t)

	for _, profile := range []model.Profile{eligibleE7(), eligibleF5(), eligibleF6(), eligibleD2(), eligibleE9(), eligibleD8()} {
		t.Run(string(profile.Scheme()), func(t *testing.T) {
			require.NoError(t, profile.Validate())
			result, err := Evaluate(profile, constants, thresholds)
			require.NoError(t, err)
			assert.True(t, result.Eligible)
			assert.Equal(t, 100, result.EligibilityScore)
		})
	}
}

func TestEvaluate_RejectsScoreProfile(t *testing.T) {
	thresholds, constants := fixtures(t)
	_, err := Evaluate(&model.F27Profile{}, constants, thresholds)
	assert.Error(t, err)
}

// ==========================
// Critical Gate Tests
// ==========================

func TestEvaluate_CriticalGate(t *testing.T) {
	thresholds, constants := fixtures(t)

	tests := []struct {
		name    string
		profile model.Profile
		key     string
	}{
		{"e7 no job offer", func() model.Profile { p := eligibleE7(); p.HasJobOffer = false; return p }(), "jobOffer"},
		{"e7 salary below 80% GNI", func() model.Profile { p := eligibleE7(); p.AnnualSalary = 41_000_000; return p }(), "salaryFloor"},
		{"e7 unqualified", func() model.Profile { p := eligibleE7(); p.RelevantExperienceYears = 0.5; return p }(), "qualification"},
		{"f5 short residence", func() model.Profile { p := eligibleF5(); p.YearsInKorea = 4; return p }(), "residence"},
		{"f5 criminal record", func() model.Profile { p := eligibleF5(); p.HasCriminalRecord = true; return p }(), "noCriminalRecord"},
		{"f6 unregistered", func() model.Profile { p := eligibleF6(); p.MarriageRegistered = false; return p }(), "marriageRegistered"},
		{"f6 sponsor record", func() model.Profile { p := eligibleF6(); p.SponsorCriminalRecord = true; return p }(), "sponsorNoCriminalRecord"},
		{"d2 no admission", func() model.Profile { p := eligibleD2(); p.HasAdmission = false; return p }(), "admission"},
		{"d2 prerequisite", func() model.Profile { p := eligibleD2(); p.PriorEducation = model.EducationAssociate; return p }(), "prerequisite"},
		{"e9 too old", func() model.Profile { p := eligibleE9(); p.Age = 40; return p }(), "age"},
		{"e9 non-mou country", func() model.Profile { p := eligibleE9(); p.Nationality = "US"; return p }(), "mouCountry"},
		{"e9 no safety training", func() model.Profile { p := eligibleE9(); p.SafetyTraining = false; return p }(), "safetyTraining"},
		{"d8 small investment", func() model.Profile { p := eligibleD8(); p.InvestmentAmount = 99_999_999; return p }(), "investment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(tt.profile, constants, thresholds)
			require.NoError(t, err)
			c := check(t, result.Requirements, tt.key)
			assert.True(t, c.Critical)
			assert.False(t, c.Met)
			assert.False(t, result.Eligible)
		})
	}
}

func TestEvaluate_CriminalRecordAtNinetyPercent(t *testing.T) {
	thresholds, constants := fixtures(t)

	p := eligibleE9()
	p.HasCriminalRecord = true

	result, err := Evaluate(p, constants, thresholds)
	require.NoError(t, err)
	assert.Len(t, result.Requirements, 10)
	assert.Equal(t, 90, result.EligibilityScore)
	assert.False(t, result.Eligible)
}

func TestEvaluate_AdvisoryMissDoesNotBlock(t *testing.T) {
	thresholds, constants := fixtures(t)

	p := eligibleE7()
	p.TopikLevel = 0
	p.EmployerForeignWorkerRatio = 0.5

	result, err := Evaluate(p, constants, thresholds)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Equal(t, 71, result.EligibilityScore)
}

// ==========================
// Scheme Rule Tests
// ==========================

func TestE7Qualification(t *testing.T) {
	thresholds, constants := fixtures(t)

	tests := []struct {
		subType   string
		education model.EducationLevel
		years     float64
		lowSkill  float64
		want      bool
	}{
		{model.E7Professional, model.EducationBachelor, 1, 0, true},
		{model.E7Professional, model.EducationBachelor, 0, 0, false},
		{model.E7Professional, model.EducationMaster, 0, 0, true},
		{model.E7Professional, model.EducationHighSchool, 5, 0, true},
		{model.E7SemiProfessional, model.EducationAssociate, 0, 0, true},
		{model.E7SemiProfessional, model.EducationHighSchool, 3, 0, true},
		{model.E7SemiProfessional, model.EducationHighSchool, 2, 0, false},
		{model.E7GeneralSkilled, model.EducationHighSchool, 3, 0, true},
		{model.E7GeneralSkilled, model.EducationNone, 4, 0, false},
		{model.E7SkilledWorker, model.EducationNone, 0, 4, true},
		{model.E7SkilledWorker, model.EducationDoctorate, 10, 3, false},
	}
	for _, tt := range tests {
		p := eligibleE7()
		p.SubType = tt.subType
		p.Education = tt.education
		p.RelevantExperienceYears = tt.years
		p.LowSkillWorkYears = tt.lowSkill

		checks, err := Requirements(p, constants, thresholds)
		require.NoError(t, err)
		assert.Equal(t, tt.want, check(t, checks, "qualification").Met, "%s %s %g/%g", tt.subType, tt.education, tt.years, tt.lowSkill)
	}
}

func TestE7SalaryFloor(t *testing.T) {
	thresholds, constants := fixtures(t)

	floor, err := SalaryFloorE7(model.E7Professional, constants, thresholds.E7)
	require.NoError(t, err)
	assert.Equal(t, int64(41_376_000), floor)

	floor, err = SalaryFloorE7(model.E7SkilledWorker, constants, thresholds.E7)
	require.NoError(t, err)
	assert.Equal(t, constants.MinimumAnnualWage, floor)
}

func TestF5SubTypes(t *testing.T) {
	thresholds, constants := fixtures(t)

	marriage := &model.F5Profile{SubType: model.F5Marriage, HasKoreanSpouse: true, MarriedResidenceYears: 2, KiipCompleted: true}
	result, err := Evaluate(marriage, constants, thresholds)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.False(t, check(t, result.Requirements, "income").Critical)
	assert.True(t, check(t, result.Requirements, "koreanProficiency").Met)

	investor := &model.F5Profile{SubType: model.F5Investor, InvestmentAmount: 600_000_000, KoreanEmployees: 4, YearsInKorea: 3}
	result, err = Evaluate(investor, constants, thresholds)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.False(t, check(t, result.Requirements, "koreanEmployees").Met)

	points := &model.F5Profile{SubType: model.F5Points, F27Years: 3, AnnualIncome: constants.GNIPerCapita}
	result, err = Evaluate(points, constants, thresholds)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
}

func TestF6HouseholdIncomeRecompute(t *testing.T) {
	thresholds, constants := fixtures(t)

	p := eligibleF6()
	p.SponsorAnnualIncome = 20_000_000

	single := IncomeThresholdF6(p, constants, thresholds.F6)
	assert.Equal(t, int64(15_385_428), single)
	checks, err := Requirements(p, constants, thresholds)
	require.NoError(t, err)
	assert.True(t, check(t, checks, "householdIncome").Met)

	p.Children = 2
	withChildren := IncomeThresholdF6(p, constants, thresholds.F6)
	assert.Equal(t, int64(32_154_216), withChildren)
	checks, err = Requirements(p, constants, thresholds)
	require.NoError(t, err)
	assert.False(t, check(t, checks, "householdIncome").Met)
	assert.Contains(t, check(t, checks, "householdIncome").Item, "household of 3")
}

func TestF6ChildRaisingIncomeIsAdvisory(t *testing.T) {
	thresholds, constants := fixtures(t)

	p := &model.F6Profile{SubType: model.F6ChildRaising, HasKoreanChild: true, RaisingChild: true}
	result, err := Evaluate(p, constants, thresholds)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.False(t, check(t, result.Requirements, "householdIncome").Met)
	assert.Equal(t, 75, result.EligibilityScore)
}

func TestD2Funds(t *testing.T) {
	thresholds, _ := fixtures(t)

	p := eligibleD2()
	p.ScholarshipFraction = 0.5
	required, err := RequiredFundsD2(p, thresholds.D2)
	require.NoError(t, err)
	assert.Equal(t, int64(13_500_000), required)

	p.ScholarshipFraction = 1
	required, err = RequiredFundsD2(p, thresholds.D2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), required)
}

func TestD2Exchange(t *testing.T) {
	thresholds, constants := fixtures(t)

	p := eligibleD2()
	p.SubType = model.D2Exchange
	p.PriorEducation = model.EducationHighSchool

	result, err := Evaluate(p, constants, thresholds)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.False(t, check(t, result.Requirements, "exchangeAgreement").Met)

	p.ExchangeAgreement = true
	result, err = Evaluate(p, constants, thresholds)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
}

func TestE9ManufacturingSkipsSafetyTraining(t *testing.T) {
	thresholds, constants := fixtures(t)

	p := eligibleE9()
	p.Sector = model.E9Manufacturing
	p.SafetyTraining = false

	result, err := Evaluate(p, constants, thresholds)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Len(t, result.Requirements, 9)
}

func TestD8TechStartup(t *testing.T) {
	thresholds, constants := fixtures(t)

	p := &model.D8Profile{
		SubType: model.D8TechStartup, Education: model.EducationMaster, OasisPoints: 80,
		CorporationEstablished: true, HasIntellectualProperty: true,
	}
	result, err := Evaluate(p, constants, thresholds)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Equal(t, 83, result.EligibilityScore)

	p.OasisPoints = 79
	result, err = Evaluate(p, constants, thresholds)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
}

func TestEvaluate_Deterministic(t *testing.T) {
	thresholds, constants := fixtures(t)

	first, err := Evaluate(eligibleF6(), constants, thresholds)
	require.NoError(t, err)
	second, err := Evaluate(eligibleF6(), constants, thresholds)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
