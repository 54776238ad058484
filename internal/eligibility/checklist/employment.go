package checklist

import (
	"fmt"
	"strings"

	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/money"
	"visa-eligibility-workers/internal/eligibility/policy"
)

// SalaryFloorE7 returns the annual salary floor of an E-7 sub-type.
func SalaryFloorE7(subType string, constants policy.ReferenceConstants, t policy.E7Thresholds) (int64, error) {
	rule, ok := t.SubTypes[subType]
	if !ok {
		return 0, fmt.Errorf("checklist: no E-7 rule for %q", subType)
	}
	base := constants.MinimumAnnualWage
	if rule.SalaryBasis == policy.SalaryBasisGNI {
		base = constants.GNIPerCapita
	}
	return scaled(base, rule.SalaryRatio), nil
}

func evaluateE7(p *model.E7Profile, constants policy.ReferenceConstants, t policy.E7Thresholds) ([]model.RequirementCheck, error) {
	rule, ok := t.SubTypes[p.SubType]
	if !ok {
		return nil, fmt.Errorf("checklist: no E-7 rule for %q", p.SubType)
	}
	floor, err := SalaryFloorE7(p.SubType, constants, t)
	if err != nil {
		return nil, err
	}

	var checks trace
	checks.critical("jobOffer", "Job offer from a sponsoring employer", p.HasJobOffer, "")
	checks.critical("qualification", "Education and experience for "+p.SubType,
		e7Qualified(p, rule), e7QualificationNote(rule))
	checks.critical("salaryFloor", "Annual salary of at least "+money.FormatKRW(floor),
		p.AnnualSalary >= floor, "offered "+money.FormatKRW(p.AnnualSalary))
	checks.critical("noCriminalRecord", "No criminal record", !p.HasCriminalRecord, "")

	checks.advisory("topik", fmt.Sprintf("TOPIK level %d or higher", t.MinTopik), p.TopikLevel >= t.MinTopik, "")
	checks.advisory("foreignWorkerRatio", fmt.Sprintf("Employer foreign-worker ratio at most %.0f%%", t.MaxForeignWorkerRatio*100),
		p.EmployerForeignWorkerRatio <= t.MaxForeignWorkerRatio, "")
	checks.advisory("koreanStaff", fmt.Sprintf("Employer has at least %d Korean staff", t.MinKoreanStaff),
		p.EmployerKoreanStaff >= t.MinKoreanStaff, "")
	return checks, nil
}

func e7Qualified(p *model.E7Profile, rule policy.E7Rule) bool {
	if rule.MinEducation != "" && p.Education.AtLeast(rule.MinEducation) && p.RelevantExperienceYears >= rule.YearsWithEducation {
		return true
	}
	if rule.WaiverEducation != "" && p.Education.AtLeast(rule.WaiverEducation) {
		return true
	}
	if rule.ExperienceOnlyYears > 0 && p.RelevantExperienceYears >= rule.ExperienceOnlyYears {
		return true
	}
	return rule.LowSkillYears > 0 && p.LowSkillWorkYears >= rule.LowSkillYears
}

func e7QualificationNote(rule policy.E7Rule) string {
	var paths []string
	if rule.MinEducation != "" {
		if rule.YearsWithEducation > 0 {
			paths = append(paths, fmt.Sprintf("%s plus %g years", rule.MinEducation, rule.YearsWithEducation))
		} else {
			paths = append(paths, string(rule.MinEducation))
		}
	}
	if rule.WaiverEducation != "" {
		paths = append(paths, string(rule.WaiverEducation))
	}
	if rule.ExperienceOnlyYears > 0 {
		paths = append(paths, fmt.Sprintf("%g years of experience", rule.ExperienceOnlyYears))
	}
	if rule.LowSkillYears > 0 {
		paths = append(paths, fmt.Sprintf("%g years as an E-9, E-10 or H-2 worker", rule.LowSkillYears))
	}
	return "requires " + strings.Join(paths, " or ")
}

func evaluateE9(p *model.E9Profile, t policy.E9Thresholds) []model.RequirementCheck {
	var checks trace
	checks.critical("age", fmt.Sprintf("Age between %d and %d", t.MinAge, t.MaxAge),
		p.Age >= t.MinAge && p.Age <= t.MaxAge, "")
	checks.critical("epsTopik", fmt.Sprintf("EPS-TOPIK score of at least %d/200", t.MinEpsTopik),
		p.EpsTopikScore >= t.MinEpsTopik, fmt.Sprintf("scored %d", p.EpsTopikScore))
	checks.critical("noCriminalRecord", "No criminal record", !p.HasCriminalRecord, "")
	checks.critical("noPriorDeportation", "No prior deportation from Korea", !p.PriorDeportation, "")
	checks.critical("healthCheck", "Passed the pre-employment health check", p.PassedHealthCheck, "")
	checks.critical("mouCountry", "National of an EPS partner country", t.IsMOUCountry(p.Nationality), p.Nationality)
	if t.NeedsSafetyTraining(p.Sector) {
		checks.critical("safetyTraining", "Completed construction safety training", p.SafetyTraining, "")
	}

	checks.advisory("labourContract", "Signed standard labour contract", p.HasLabourContract, "")
	checks.advisory("skillsTest", "Passed the sector skills test", p.SkillsTestPassed, "")
	checks.advisory("priorStay", fmt.Sprintf("Prior stay in Korea under %g years", t.MaxPriorStayYears),
		p.PriorKoreaStayYears < t.MaxPriorStayYears, "")
	return checks
}
