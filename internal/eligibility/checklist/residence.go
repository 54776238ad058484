package checklist

import (
	"fmt"

	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/money"
	"visa-eligibility-workers/internal/eligibility/policy"
)

func evaluateF5(p *model.F5Profile, constants policy.ReferenceConstants, t policy.F5Thresholds) ([]model.RequirementCheck, error) {
	rule, ok := t.SubTypes[p.SubType]
	if !ok {
		return nil, fmt.Errorf("checklist: no F-5 rule for %q", p.SubType)
	}

	var checks trace
	if rule.MarriedResidenceYears > 0 {
		checks.critical("koreanSpouse", "Married to a Korean national", p.HasKoreanSpouse, "")
	}
	if rule.Investment > 0 {
		checks.critical("investment", "Investment of at least "+money.FormatKRW(rule.Investment),
			p.InvestmentAmount >= rule.Investment, "invested "+money.FormatKRW(p.InvestmentAmount))
	}
	if rule.KoreanEmployees > 0 {
		checks.critical("koreanEmployees", fmt.Sprintf("At least %d Korean employees", rule.KoreanEmployees),
			p.KoreanEmployees >= rule.KoreanEmployees, "")
	}
	if rule.ResidenceYears > 0 {
		checks.critical("residence", fmt.Sprintf("At least %g years of residence in Korea", rule.ResidenceYears),
			p.YearsInKorea >= rule.ResidenceYears, fmt.Sprintf("%g years declared", p.YearsInKorea))
	}
	if rule.MarriedResidenceYears > 0 {
		checks.critical("marriedResidence", fmt.Sprintf("At least %g years of married residence in Korea", rule.MarriedResidenceYears),
			p.MarriedResidenceYears >= rule.MarriedResidenceYears, "")
	}
	if rule.F27Years > 0 {
		checks.critical("f27Residence", fmt.Sprintf("At least %g years in F-2-7 status", rule.F27Years),
			p.F27Years >= rule.F27Years, "")
	}
	if rule.IncomeGNIRatio > 0 {
		floor := scaled(constants.GNIPerCapita, rule.IncomeGNIRatio)
		checks.critical("income", "Annual income of at least "+money.FormatKRW(floor),
			p.AnnualIncome >= floor, "declared "+money.FormatKRW(p.AnnualIncome))
	}
	checks.critical("noCriminalRecord", "No criminal record", !p.HasCriminalRecord, "")

	if rule.AdvisoryMinimumWage {
		checks.advisory("income", "Annual income of at least "+money.FormatKRW(constants.MinimumAnnualWage),
			p.AnnualIncome >= constants.MinimumAnnualWage, "")
	}
	if rule.AdvisoryNetAssets > 0 {
		checks.advisory("netAssets", "Net assets of at least "+money.FormatKRW(rule.AdvisoryNetAssets),
			p.NetAssets >= rule.AdvisoryNetAssets, "")
	}
	checks.advisory("koreanProficiency", fmt.Sprintf("TOPIK level %d or completed KIIP", t.MinTopik),
		p.TopikLevel >= t.MinTopik || p.KiipCompleted, "")
	return checks, nil
}

func evaluateF6(p *model.F6Profile, constants policy.ReferenceConstants, t policy.F6Thresholds) ([]model.RequirementCheck, error) {
	threshold := IncomeThresholdF6(p, constants, t)
	incomeItem := fmt.Sprintf("Sponsor income of at least %s for a household of %d", money.FormatKRW(threshold), p.HouseholdSize())
	incomeMet := p.SponsorAnnualIncome >= threshold
	incomeNote := "declared " + money.FormatKRW(p.SponsorAnnualIncome)

	var checks trace
	switch p.SubType {
	case model.F6Spouse:
		checks.critical("marriageRegistered", "Marriage registered in both countries", p.MarriageRegistered, "")
		checks.critical("householdIncome", incomeItem, incomeMet, incomeNote)
		checks.critical("sponsorNoCriminalRecord", "Sponsor has no disqualifying criminal record", !p.SponsorCriminalRecord, "")
		checks.advisory("communication", "Couple can communicate in a shared language", p.CanCommunicate, "")
		checks.advisory("housing", "Housing secured for the couple", p.HasHousing, "")
		checks.advisory("metInPerson", "Couple has met in person", p.MetInPerson, "")
	case model.F6ChildRaising:
		checks.critical("koreanChild", "Parent of a Korean national child", p.HasKoreanChild, "")
		checks.critical("raisingChild", "Currently raising the child in Korea", p.RaisingChild, "")
		checks.critical("sponsorNoCriminalRecord", "Sponsor has no disqualifying criminal record", !p.SponsorCriminalRecord, "")
		checks.advisory("householdIncome", incomeItem, incomeMet, incomeNote)
	case model.F6Dissolution:
		checks.critical("marriageRegistered", "Marriage was registered in both countries", p.MarriageRegistered, "")
		checks.critical("notAtFault", "Marriage ended without fault of the applicant", p.DissolutionNotAtFault, "")
		checks.critical("sponsorNoCriminalRecord", "Sponsor has no disqualifying criminal record", !p.SponsorCriminalRecord, "")
	default:
		return nil, fmt.Errorf("checklist: no F-6 rule for %q", p.SubType)
	}
	return checks, nil
}
