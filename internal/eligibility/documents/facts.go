package documents

import "visa-eligibility-workers/internal/eligibility/model"

// facts names the profile properties the catalog conditions can test.
func facts(profile model.Profile) map[string]bool {
	switch p := profile.(type) {
	case *model.F27Profile:
		return map[string]bool{
			"topik":             p.TopikLevel > 0,
			"kiip":              p.KiipStage > 0,
			"domesticStudy":     p.DomesticStudy.Rank() > 0,
			"koreaWork":         p.KoreaWorkYears > 0,
			"certifications":    p.Certifications > 0,
			"volunteer":         p.VolunteerHours > 0,
			"regionalResidence": p.RegionalResidence,
			"spouseInKorea":     p.SpouseInKorea,
		}
	case *model.D10Profile:
		return map[string]bool{
			"topik":          p.TopikLevel > 0,
			"kiip":           p.KiipStage > 0,
			"experience":     p.ExperienceYears > 0,
			"koreanDegree":   p.KoreanDegree,
			"topUniversity":  p.TopUniversity,
			"certifications": p.Certifications > 0,
		}
	case *model.E7Profile:
		return map[string]bool{
			"topik":          p.TopikLevel > 0,
			"criminalRecord": p.HasCriminalRecord,
		}
	case *model.F5Profile:
		return map[string]bool{
			"kiipCompleted": p.KiipCompleted,
			"topik":         p.TopikLevel > 0,
			"taxArrears":    p.TaxArrears,
			"koreanSpouse":  p.HasKoreanSpouse,
		}
	case *model.F6Profile:
		return map[string]bool{
			"children":       p.Children > 0,
			"priorMarriages": p.PriorMarriages > 0,
			"metInPerson":    p.MetInPerson,
			"topik":          p.TopikLevel > 0,
		}
	case *model.D2Profile:
		return map[string]bool{
			"scholarship":       p.ScholarshipFraction > 0,
			"fullScholarship":   p.ScholarshipFraction >= 1,
			"topik":             p.TopikLevel > 0,
			"englishProficient": p.EnglishProficient,
		}
	case *model.E9Profile:
		return map[string]bool{
			"skillsTest": p.SkillsTestPassed,
			"priorStay":  p.PriorKoreaStayYears > 0,
		}
	case *model.D8Profile:
		return map[string]bool{
			"intellectualProperty": p.HasIntellectualProperty,
			"businessPlan":         p.HasBusinessPlan,
		}
	default:
		return nil
	}
}
