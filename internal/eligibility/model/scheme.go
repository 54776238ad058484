// Package model holds the data contracts of the eligibility engine: scheme ids,
// the per-scheme profile variants and the result records.
package model

import (
	"strings"

	apperrors "visa-eligibility-workers/internal/common/errors"
)

// SchemeID identifies one of the modelled visa classifications.
type SchemeID string

const (
	SchemeF27 SchemeID = "F-2-7"
	SchemeE7  SchemeID = "E-7"
	SchemeD10 SchemeID = "D-10"
	SchemeF5  SchemeID = "F-5"
	SchemeF6  SchemeID = "F-6"
	SchemeD2  SchemeID = "D-2"
	SchemeE9  SchemeID = "E-9"
	SchemeD8  SchemeID = "D-8"
)

var supportedSchemes = []SchemeID{
	SchemeF27, SchemeE7, SchemeD10, SchemeF5, SchemeF6, SchemeD2, SchemeE9, SchemeD8,
}

// SupportedSchemes returns the eight scheme ids in a fixed order.
func SupportedSchemes() []SchemeID {
	out := make([]SchemeID, len(supportedSchemes))
	copy(out, supportedSchemes)
	return out
}

// ParseSchemeID normalises s and returns an UnknownSchemeError if it is not supported.
func ParseSchemeID(s string) (SchemeID, error) {
	id := SchemeID(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range supportedSchemes {
		if id == known {
			return id, nil
		}
	}
	return "", apperrors.NewUnknownSchemeError(s)
}

// ResultKind discriminates the two evaluator families.
type ResultKind string

const (
	KindScore       ResultKind = "score"
	KindEligibility ResultKind = "eligibility"
)

// Kind reports which evaluator family handles the scheme.
func (s SchemeID) Kind() ResultKind {
	switch s {
	case SchemeF27, SchemeD10:
		return KindScore
	default:
		return KindEligibility
	}
}

// EducationLevel is the highest completed degree.
type EducationLevel string

const (
	EducationNone       EducationLevel = "none"
	EducationHighSchool EducationLevel = "highSchool"
	EducationAssociate  EducationLevel = "associate"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationDoctorate  EducationLevel = "doctorate"
)

var educationRanks = map[EducationLevel]int{
	EducationNone:       0,
	EducationHighSchool: 1,
	EducationAssociate:  2,
	EducationBachelor:   3,
	EducationMaster:     4,
	EducationDoctorate:  5,
}

// Rank orders education levels from 0 (none) to 5 (doctorate); unknown levels rank -1.
func (e EducationLevel) Rank() int {
	if r, ok := educationRanks[e]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether e is the same as or above min.
func (e EducationLevel) AtLeast(min EducationLevel) bool {
	return e.Rank() >= min.Rank()
}

// DomesticStudy is the highest programme completed at a Korean institution.
type DomesticStudy string

const (
	DomesticStudyNone      DomesticStudy = "none"
	DomesticStudyLanguage  DomesticStudy = "languageCourse"
	DomesticStudyAssociate DomesticStudy = "associate"
	DomesticStudyBachelor  DomesticStudy = "bachelor"
	DomesticStudyGraduate  DomesticStudy = "graduate"
)

var domesticStudyRanks = map[DomesticStudy]int{
	DomesticStudyNone:      0,
	DomesticStudyLanguage:  1,
	DomesticStudyAssociate: 2,
	DomesticStudyBachelor:  3,
	DomesticStudyGraduate:  4,
}

// Rank orders domestic study tiers from 0 to 4; unknown tiers rank -1.
func (d DomesticStudy) Rank() int {
	if r, ok := domesticStudyRanks[d]; ok {
		return r
	}
	return -1
}
