package explain

import (
	"fmt"

	"visa-eligibility-workers/internal/eligibility/checklist"
	"visa-eligibility-workers/internal/eligibility/model"
	"visa-eligibility-workers/internal/eligibility/money"
	"visa-eligibility-workers/internal/eligibility/policy"
)

// Assessment is the outcome of the secondary risk heuristics. HighRisk marks
// warnings that push a checklist case to a likely interview.
type Assessment struct {
	Warnings []string
	HighRisk bool
}

func (a *Assessment) warn(format string, args ...any) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}

func (a *Assessment) risk(format string, args ...any) {
	a.warn(format, args...)
	a.HighRisk = true
}

// Assess runs the risk heuristics of the profile's scheme. Warnings is never nil.
func Assess(profile model.Profile, constants policy.ReferenceConstants, t *policy.Thresholds) Assessment {
	a := Assessment{Warnings: []string{}}

	switch p := profile.(type) {
	case *model.F27Profile:
		if p.AnnualIncome < constants.MinimumAnnualWage {
			a.warn("Declared income %s is below the statutory minimum annual wage of %s.",
				money.FormatKRW(p.AnnualIncome), money.FormatKRW(constants.MinimumAnnualWage))
		}
		criminal(&a, p.HasCriminalRecord)
		if p.TaxArrears {
			a.risk("Unpaid taxes are on record; settle them before applying.")
		}
	case *model.D10Profile:
		if p.ProofOfFunds < t.D10.MinimumFunds {
			a.warn("Proof of funds %s is below the recommended %s for the job-seeking period.",
				money.FormatKRW(p.ProofOfFunds), money.FormatKRW(t.D10.MinimumFunds))
		}
		criminal(&a, p.HasCriminalRecord)
	case *model.E7Profile:
		if p.AnnualSalary < constants.MinimumAnnualWage {
			a.risk("Offered salary %s is below the statutory minimum annual wage of %s.",
				money.FormatKRW(p.AnnualSalary), money.FormatKRW(constants.MinimumAnnualWage))
		}
		if p.EmployerForeignWorkerRatio > t.E7.MaxForeignWorkerRatio {
			a.warn("Employer foreign-worker ratio of %.0f%% exceeds the %.0f%% guideline; expect closer review of the employer.",
				p.EmployerForeignWorkerRatio*100, t.E7.MaxForeignWorkerRatio*100)
		}
		criminal(&a, p.HasCriminalRecord)
	case *model.F5Profile:
		if p.AnnualIncome < constants.MinimumAnnualWage {
			a.warn("Declared income %s is below the statutory minimum annual wage of %s.",
				money.FormatKRW(p.AnnualIncome), money.FormatKRW(constants.MinimumAnnualWage))
		}
		if p.TaxArrears {
			a.risk("Unpaid taxes are on record; settle them before applying.")
		}
		criminal(&a, p.HasCriminalRecord)
	case *model.F6Profile:
		assessF6(&a, p, t.F6)
	case *model.D2Profile:
		if p.InstitutionRank == model.InstitutionRestricted {
			a.risk("The institution is on the restricted list; visa issuance for its students is limited.")
		}
		if required, err := checklist.RequiredFundsD2(p, t.D2); err == nil && required > 0 {
			if float64(p.AvailableFunds) < float64(required)*t.D2.FundsWarningRatio {
				a.warn("Available funds %s leave little margin over the required %s.",
					money.FormatKRW(p.AvailableFunds), money.FormatKRW(required))
			}
		}
		criminal(&a, p.HasCriminalRecord)
	case *model.E9Profile:
		if p.PriorDeportation {
			a.risk("A prior deportation from Korea is on record.")
		}
		if p.PriorKoreaStayYears >= t.E9.MaxPriorStayYears {
			a.warn("A prior stay of %g years in Korea may count against the total permitted stay.", p.PriorKoreaStayYears)
		}
		criminal(&a, p.HasCriminalRecord)
	case *model.D8Profile:
		if rule, ok := t.D8.SubTypes[p.SubType]; ok && rule.MinInvestment > 0 {
			if float64(p.InvestmentAmount) < float64(rule.MinInvestment)*t.D8.InvestmentWarningRatio {
				a.warn("Investment of %s is close to the %s minimum; currency movements could push it below.",
					money.FormatKRW(p.InvestmentAmount), money.FormatKRW(rule.MinInvestment))
			}
		}
		criminal(&a, p.HasCriminalRecord)
	}
	return a
}

func assessF6(a *Assessment, p *model.F6Profile, t policy.F6Thresholds) {
	gap := p.SponsorAge - p.ApplicantAge
	if gap < 0 {
		gap = -gap
	}
	if gap >= t.AgeGapWarning {
		a.warn("The %d-year age gap between the spouses usually leads to a closer review of the relationship.", gap)
	}
	if p.PriorMarriages >= t.PriorMarriagesWarning {
		a.warn("%d prior marriages are declared; the genuineness of the marriage will be examined.", p.PriorMarriages)
	}
	if p.SubType == model.F6Spouse && !p.MetInPerson {
		a.risk("There is no evidence the couple has met in person.")
	}
	if p.SponsorCriminalRecord {
		a.risk("The sponsor has a criminal record that may disqualify the invitation.")
	}
}

func criminal(a *Assessment, record bool) {
	if record {
		a.risk("A criminal record is declared and may lead to refusal.")
	}
}
