package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "visa-eligibility-workers/internal/common/errors"
)

// NewProfile returns an empty profile variant for the scheme.
func NewProfile(id SchemeID) (Profile, error) {
	switch id {
	case SchemeF27:
		return &F27Profile{}, nil
	case SchemeD10:
		return &D10Profile{}, nil
	case SchemeE7:
		return &E7Profile{}, nil
	case SchemeF5:
		return &F5Profile{}, nil
	case SchemeF6:
		return &F6Profile{}, nil
	case SchemeD2:
		return &D2Profile{}, nil
	case SchemeE9:
		return &E9Profile{}, nil
	case SchemeD8:
		return &D8Profile{}, nil
	default:
		return nil, apperrors.NewUnknownSchemeError(string(id))
	}
}

// DecodeProfile decodes raw JSON into the scheme's profile variant. Unknown
// fields and type mismatches are reported as validation errors naming the field.
func DecodeProfile(id SchemeID, raw []byte) (Profile, error) {
	profile, err := NewProfile(id)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(profile); err != nil {
		return nil, decodeError(err)
	}
	return profile, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.NewProfileValidationError(typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	}
	// encoding/json reports unknown fields only through the message text
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return apperrors.NewProfileValidationError(field, "field is not part of this scheme's profile")
	}
	return apperrors.NewProfileValidationError("profile", err.Error())
}
