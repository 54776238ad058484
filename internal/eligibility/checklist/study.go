package checklist

import (
	"fmt"

	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/money"
	"visa-eligibility-workers/internal/eligibility/policy"
)

func evaluateD2(p *model.D2Profile, t policy.D2Thresholds) ([]model.RequirementCheck, error) {
	rule, ok := t.SubTypes[p.SubType]
	if !ok {
		return nil, fmt.Errorf("checklist: no D-2 rule for %q", p.SubType)
	}
	required, err := RequiredFundsD2(p, t)
	if err != nil {
		return nil, err
	}

	fundsNote := ""
	if p.ScholarshipFraction > 0 {
		fundsNote = fmt.Sprintf("reduced by a %.0f%% scholarship", p.ScholarshipFraction*100)
	}

	var checks trace
	checks.critical("admission", "Admission letter from a Korean institution", p.HasAdmission, "")
	checks.critical("prerequisite", fmt.Sprintf("Completed %s or higher", rule.Prerequisite),
		p.PriorEducation.AtLeast(rule.Prerequisite), "")
	checks.critical("funds", "Proof of funds of at least "+money.FormatKRW(required),
		p.AvailableFunds >= required, fundsNote)
	checks.critical("noCriminalRecord", "No criminal record", !p.HasCriminalRecord, "")
	if p.SubType == model.D2Exchange {
		checks.critical("exchangeAgreement", "Exchange agreement between the institutions", p.ExchangeAgreement, "")
	}

	checks.advisory("language", fmt.Sprintf("TOPIK level %d or English proficiency", rule.MinTopik),
		p.TopikLevel >= rule.MinTopik || p.EnglishProficient, "")
	checks.advisory("institutionRank", "Institution certified for international students",
		p.InstitutionRank == model.InstitutionCertified, p.InstitutionRank)
	return checks, nil
}

func evaluateD8(p *model.D8Profile, t policy.D8Thresholds) ([]model.RequirementCheck, error) {
	rule, ok := t.SubTypes[p.SubType]
	if !ok {
		return nil, fmt.Errorf("checklist: no D-8 rule for %q", p.SubType)
	}

	var checks trace
	switch p.SubType {
	case model.D8CorporateInvestment:
		checks.critical("investment", "Investment of at least "+money.FormatKRW(rule.MinInvestment),
			p.InvestmentAmount >= rule.MinInvestment, "invested "+money.FormatKRW(p.InvestmentAmount))
		checks.critical("fdiRegistered", "Foreign direct investment registered", p.FDIRegistered, "")
		checks.critical("noCriminalRecord", "No criminal record", !p.HasCriminalRecord, "")
		checks.advisory("equityShare", fmt.Sprintf("Equity share of at least %.0f%%", rule.MinEquityShare*100),
			p.EquityShare >= rule.MinEquityShare, "")
		checks.advisory("businessPlan", "Business plan prepared", p.HasBusinessPlan, "")
	case model.D8TechStartup:
		checks.critical("education", fmt.Sprintf("Completed %s or higher", rule.MinEducation),
			p.Education.AtLeast(rule.MinEducation), "")
		checks.critical("oasisPoints", fmt.Sprintf("At least %d OASIS points", rule.MinOasisPoints),
			p.OasisPoints >= rule.MinOasisPoints, fmt.Sprintf("%d points", p.OasisPoints))
		checks.critical("corporation", "Corporation established in Korea", p.CorporationEstablished, "")
		checks.critical("noCriminalRecord", "No criminal record", !p.HasCriminalRecord, "")
		checks.advisory("intellectualProperty", "Holds patents or other intellectual property", p.HasIntellectualProperty, "")
		checks.advisory("businessPlan", "Business plan prepared", p.HasBusinessPlan, "")
	}
	return checks, nil
}
