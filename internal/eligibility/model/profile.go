package model

// Profile is the tagged union of scheme inputs. Each variant is a flat record
// that is constructed once per evaluation and never mutated afterwards.
type Profile interface {
	Scheme() SchemeID
	Validate() error
}

// Variant is implemented by profiles whose rule set depends on a sub-type.
type Variant interface {
	Profile
	SubTypeOf() string
}

const (
	maxAge        = 120
	maxTopikLevel = 6
	maxKiipStage  = 5
	maxYears      = 80
)

// F27Profile is the input of the F-2-7 points-based residence scheme.
type F27Profile struct {
	Age               int            `json:"age"`
	Education         EducationLevel `json:"education"`
	TopikLevel        int            `json:"topikLevel"`
	KiipStage         int            `json:"kiipStage"`
	AnnualIncome      int64          `json:"annualIncome"`
	KoreaWorkYears    float64        `json:"koreaWorkYears"`
	DomesticStudy     DomesticStudy  `json:"domesticStudy"`
	Certifications    int            `json:"certifications"`
	VolunteerHours    int            `json:"volunteerHours"`
	RegionalResidence bool           `json:"regionalResidence"`
	SpouseInKorea     bool           `json:"spouseInKorea"`
	HasCriminalRecord bool           `json:"hasCriminalRecord"`
	TaxArrears        bool           `json:"taxArrears"`
}

func (p *F27Profile) Scheme() SchemeID { return SchemeF27 }

func (p *F27Profile) Validate() error {
	return firstError(
		intRange("age", p.Age, 0, maxAge),
		education("education", p.Education),
		intRange("topikLevel", p.TopikLevel, 0, maxTopikLevel),
		intRange("kiipStage", p.KiipStage, 0, maxKiipStage),
		nonNegative("annualIncome", p.AnnualIncome),
		floatRange("koreaWorkYears", p.KoreaWorkYears, 0, maxYears),
		domesticStudy("domesticStudy", p.DomesticStudy),
		intRange("certifications", p.Certifications, 0, 50),
		intRange("volunteerHours", p.VolunteerHours, 0, 100000),
	)
}

// D10Profile is the input of the D-10 job-seeker points scheme.
type D10Profile struct {
	Age               int            `json:"age"`
	Education         EducationLevel `json:"education"`
	TopikLevel        int            `json:"topikLevel"`
	KiipStage         int            `json:"kiipStage"`
	ExperienceYears   float64        `json:"experienceYears"`
	KoreanDegree      bool           `json:"koreanDegree"`
	TopUniversity     bool           `json:"topUniversity"`
	Certifications    int            `json:"certifications"`
	ProofOfFunds      int64          `json:"proofOfFunds"`
	HasCriminalRecord bool           `json:"hasCriminalRecord"`
}

func (p *D10Profile) Scheme() SchemeID { return SchemeD10 }

func (p *D10Profile) Validate() error {
	return firstError(
		intRange("age", p.Age, 0, maxAge),
		education("education", p.Education),
		intRange("topikLevel", p.TopikLevel, 0, maxTopikLevel),
		intRange("kiipStage", p.KiipStage, 0, maxKiipStage),
		floatRange("experienceYears", p.ExperienceYears, 0, maxYears),
		intRange("certifications", p.Certifications, 0, 50),
		nonNegative("proofOfFunds", p.ProofOfFunds),
	)
}

// E-7 sub-types.
const (
	E7Professional     = "E-7-1"
	E7SemiProfessional = "E-7-2"
	E7GeneralSkilled   = "E-7-3"
	E7SkilledWorker    = "E-7-4"
)

// E7Profile is the input of the E-7 designated-activity employment scheme.
type E7Profile struct {
	SubType                    string         `json:"subType"`
	OccupationCode             string         `json:"occupationCode"`
	HasJobOffer                bool           `json:"hasJobOffer"`
	Education                  EducationLevel `json:"education"`
	RelevantExperienceYears    float64        `json:"relevantExperienceYears"`
	AnnualSalary               int64          `json:"annualSalary"`
	TopikLevel                 int            `json:"topikLevel"`
	HasCriminalRecord          bool           `json:"hasCriminalRecord"`
	EmployerForeignWorkerRatio float64        `json:"employerForeignWorkerRatio"`
	EmployerKoreanStaff        int            `json:"employerKoreanStaff"`
	LowSkillWorkYears          float64        `json:"lowSkillWorkYears"`
}

func (p *E7Profile) Scheme() SchemeID  { return SchemeE7 }
func (p *E7Profile) SubTypeOf() string { return p.SubType }

func (p *E7Profile) Validate() error {
	return firstError(
		oneOf("subType", p.SubType, []string{E7Professional, E7SemiProfessional, E7GeneralSkilled, E7SkilledWorker}),
		required("occupationCode", p.OccupationCode),
		education("education", p.Education),
		floatRange("relevantExperienceYears", p.RelevantExperienceYears, 0, maxYears),
		nonNegative("annualSalary", p.AnnualSalary),
		intRange("topikLevel", p.TopikLevel, 0, maxTopikLevel),
		floatRange("employerForeignWorkerRatio", p.EmployerForeignWorkerRatio, 0, 1),
		intRange("employerKoreanStaff", p.EmployerKoreanStaff, 0, 1000000),
		floatRange("lowSkillWorkYears", p.LowSkillWorkYears, 0, maxYears),
	)
}

// F-5 sub-types.
const (
	F5General  = "general"
	F5Marriage = "marriage"
	F5Points   = "points"
	F5Investor = "investor"
)

// F5Profile is the input of the F-5 permanent residence scheme.
type F5Profile struct {
	SubType               string  `json:"subType"`
	YearsInKorea          float64 `json:"yearsInKorea"`
	AnnualIncome          int64   `json:"annualIncome"`
	NetAssets             int64   `json:"netAssets"`
	TopikLevel            int     `json:"topikLevel"`
	KiipCompleted         bool    `json:"kiipCompleted"`
	HasCriminalRecord     bool    `json:"hasCriminalRecord"`
	HasKoreanSpouse       bool    `json:"hasKoreanSpouse"`
	MarriedResidenceYears float64 `json:"marriedResidenceYears"`
	F27Years              float64 `json:"f27Years"`
	InvestmentAmount      int64   `json:"investmentAmount"`
	KoreanEmployees       int     `json:"koreanEmployees"`
	TaxArrears            bool    `json:"taxArrears"`
}

func (p *F5Profile) Scheme() SchemeID  { return SchemeF5 }
func (p *F5Profile) SubTypeOf() string { return p.SubType }

func (p *F5Profile) Validate() error {
	return firstError(
		oneOf("subType", p.SubType, []string{F5General, F5Marriage, F5Points, F5Investor}),
		floatRange("yearsInKorea", p.YearsInKorea, 0, maxYears),
		nonNegative("annualIncome", p.AnnualIncome),
		nonNegative("netAssets", p.NetAssets),
		intRange("topikLevel", p.TopikLevel, 0, maxTopikLevel),
		floatRange("marriedResidenceYears", p.MarriedResidenceYears, 0, maxYears),
		floatRange("f27Years", p.F27Years, 0, maxYears),
		nonNegative("investmentAmount", p.InvestmentAmount),
		intRange("koreanEmployees", p.KoreanEmployees, 0, 1000000),
	)
}

// F-6 sub-types.
const (
	F6Spouse       = "F-6-1"
	F6ChildRaising = "F-6-2"
	F6Dissolution  = "F-6-3"
)

// F6Profile is the input of the F-6 marriage migrant scheme. The sponsor is the Korean spouse.
type F6Profile struct {
	SubType               string `json:"subType"`
	ApplicantAge          int    `json:"applicantAge"`
	SponsorAge            int    `json:"sponsorAge"`
	SponsorAnnualIncome   int64  `json:"sponsorAnnualIncome"`
	Dependents            int    `json:"dependents"`
	Children              int    `json:"children"`
	PriorMarriages        int    `json:"priorMarriages"`
	MetInPerson           bool   `json:"metInPerson"`
	MarriageRegistered    bool   `json:"marriageRegistered"`
	CanCommunicate        bool   `json:"canCommunicate"`
	HasHousing            bool   `json:"hasHousing"`
	SponsorCriminalRecord bool   `json:"sponsorCriminalRecord"`
	HasKoreanChild        bool   `json:"hasKoreanChild"`
	RaisingChild          bool   `json:"raisingChild"`
	DissolutionNotAtFault bool   `json:"dissolutionNotAtFault"`
	TopikLevel            int    `json:"topikLevel"`
}

func (p *F6Profile) Scheme() SchemeID  { return SchemeF6 }
func (p *F6Profile) SubTypeOf() string { return p.SubType }

// HouseholdSize counts the sponsor plus declared dependents and children.
func (p *F6Profile) HouseholdSize() int {
	return 1 + p.Dependents + p.Children
}

func (p *F6Profile) Validate() error {
	return firstError(
		oneOf("subType", p.SubType, []string{F6Spouse, F6ChildRaising, F6Dissolution}),
		intRange("applicantAge", p.ApplicantAge, 0, maxAge),
		intRange("sponsorAge", p.SponsorAge, 0, maxAge),
		nonNegative("sponsorAnnualIncome", p.SponsorAnnualIncome),
		intRange("dependents", p.Dependents, 0, 20),
		intRange("children", p.Children, 0, 20),
		intRange("priorMarriages", p.PriorMarriages, 0, 20),
		intRange("topikLevel", p.TopikLevel, 0, maxTopikLevel),
	)
}

// D-2 sub-types.
const (
	D2Associate = "associate"
	D2Bachelor  = "bachelor"
	D2Master    = "master"
	D2Doctorate = "doctorate"
	D2Research  = "research"
	D2Exchange  = "exchange"
)

// Institution ranks published for universities hosting D-2 students.
const (
	InstitutionCertified  = "certified"
	InstitutionGeneral    = "general"
	InstitutionRestricted = "restricted"
)

// D2Profile is the input of the D-2 student scheme.
type D2Profile struct {
	SubType             string         `json:"subType"`
	HasAdmission        bool           `json:"hasAdmission"`
	PriorEducation      EducationLevel `json:"priorEducation"`
	AvailableFunds      int64          `json:"availableFunds"`
	ScholarshipFraction float64        `json:"scholarshipFraction"`
	TopikLevel          int            `json:"topikLevel"`
	EnglishProficient   bool           `json:"englishProficient"`
	InstitutionRank     string         `json:"institutionRank"`
	HasCriminalRecord   bool           `json:"hasCriminalRecord"`
	ExchangeAgreement   bool           `json:"exchangeAgreement"`
}

func (p *D2Profile) Scheme() SchemeID  { return SchemeD2 }
func (p *D2Profile) SubTypeOf() string { return p.SubType }

func (p *D2Profile) Validate() error {
	return firstError(
		oneOf("subType", p.SubType, []string{D2Associate, D2Bachelor, D2Master, D2Doctorate, D2Research, D2Exchange}),
		education("priorEducation", p.PriorEducation),
		nonNegative("availableFunds", p.AvailableFunds),
		floatRange("scholarshipFraction", p.ScholarshipFraction, 0, 1),
		intRange("topikLevel", p.TopikLevel, 0, maxTopikLevel),
		oneOf("institutionRank", p.InstitutionRank, []string{InstitutionCertified, InstitutionGeneral, InstitutionRestricted}),
	)
}

// E-9 sectors.
const (
	E9Manufacturing = "manufacturing"
	E9Construction  = "construction"
	E9Agriculture   = "agriculture"
	E9Fishery       = "fishery"
	E9Service       = "service"
)

// E9Profile is the input of the E-9 employment permit scheme.
type E9Profile struct {
	Sector              string  `json:"sector"`
	Age                 int     `json:"age"`
	EpsTopikScore       int     `json:"epsTopikScore"`
	HasCriminalRecord   bool    `json:"hasCriminalRecord"`
	PriorDeportation    bool    `json:"priorDeportation"`
	PassedHealthCheck   bool    `json:"passedHealthCheck"`
	Nationality         string  `json:"nationality"`
	HasLabourContract   bool    `json:"hasLabourContract"`
	SkillsTestPassed    bool    `json:"skillsTestPassed"`
	SafetyTraining      bool    `json:"safetyTraining"`
	PriorKoreaStayYears float64 `json:"priorKoreaStayYears"`
}

func (p *E9Profile) Scheme() SchemeID  { return SchemeE9 }
func (p *E9Profile) SubTypeOf() string { return p.Sector }

func (p *E9Profile) Validate() error {
	return firstError(
		oneOf("sector", p.Sector, []string{E9Manufacturing, E9Construction, E9Agriculture, E9Fishery, E9Service}),
		intRange("age", p.Age, 0, maxAge),
		intRange("epsTopikScore", p.EpsTopikScore, 0, 200),
		countryCode("nationality", p.Nationality),
		floatRange("priorKoreaStayYears", p.PriorKoreaStayYears, 0, maxYears),
	)
}

// D-8 sub-types.
const (
	D8CorporateInvestment = "D-8-1"
	D8TechStartup         = "D-8-4"
)

// D8Profile is the input of the D-8 corporate investment scheme.
type D8Profile struct {
	SubType                 string         `json:"subType"`
	InvestmentAmount        int64          `json:"investmentAmount"`
	FDIRegistered           bool           `json:"fdiRegistered"`
	EquityShare             float64        `json:"equityShare"`
	HasBusinessPlan         bool           `json:"hasBusinessPlan"`
	HasCriminalRecord       bool           `json:"hasCriminalRecord"`
	Education               EducationLevel `json:"education"`
	OasisPoints             int            `json:"oasisPoints"`
	CorporationEstablished  bool           `json:"corporationEstablished"`
	HasIntellectualProperty bool           `json:"hasIntellectualProperty"`
}

func (p *D8Profile) Scheme() SchemeID  { return SchemeD8 }
func (p *D8Profile) SubTypeOf() string { return p.SubType }

func (p *D8Profile) Validate() error {
	return firstError(
		oneOf("subType", p.SubType, []string{D8CorporateInvestment, D8TechStartup}),
		nonNegative("investmentAmount", p.InvestmentAmount),
		floatRange("equityShare", p.EquityShare, 0, 1),
		education("education", p.Education),
		intRange("oasisPoints", p.OasisPoints, 0, 1000),
	)
}
