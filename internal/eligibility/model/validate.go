package model

import (
	"fmt"
	"strings"

	apperrors "visa-eligibility-workers/internal/common/errors"
)

func intRange(field string, v, min, max int) error {
	if v < min || v > max {
		return apperrors.NewProfileValidationError(field, fmt.Sprintf("must be between %d and %d, got %d", min, max, v))
	}
	return nil
}

func floatRange(field string, v, min, max float64) error {
	if v != v || v < min || v > max {
		return apperrors.NewProfileValidationError(field, fmt.Sprintf("must be between %g and %g, got %g", min, max, v))
	}
	return nil
}

func nonNegative(field string, v int64) error {
	if v < 0 {
		return apperrors.NewProfileValidationError(field, fmt.Sprintf("must not be negative, got %d", v))
	}
	return nil
}

func education(field string, e EducationLevel) error {
	if e.Rank() < 0 {
		return apperrors.NewProfileValidationError(field, fmt.Sprintf("unknown education level %q", e))
	}
	return nil
}

func domesticStudy(field string, d DomesticStudy) error {
	if d.Rank() < 0 {
		return apperrors.NewProfileValidationError(field, fmt.Sprintf("unknown domestic study tier %q", d))
	}
	return nil
}

func countryCode(field, code string) error {
	if len(code) != 2 || strings.ToUpper(code) != code {
		return apperrors.NewProfileValidationError(field, fmt.Sprintf("must be an upper-case ISO 3166-1 alpha-2 code, got %q", code))
	}
	return nil
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return apperrors.NewProfileValidationError(field, "is required")
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return apperrors.NewProfileValidationError(field, fmt.Sprintf("unknown value %q, expected one of %v", v, allowed))
}

// firstError returns the first non-nil error so field checks run in declaration order.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
