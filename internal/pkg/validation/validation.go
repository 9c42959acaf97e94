// Package validation checks request payloads before they reach a service.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"vpcs-backend/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// DefaultRegion is used to parse phone numbers without a country code
const DefaultRegion = "IN"

var (
	nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{2,20}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names so messages match the payload the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		return ValidNickname(fl.Field().String())
	})
	_ = v.RegisterValidation("cashflow_type", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseCashflowType(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidatePhoneNumber(fl.Field().String(), DefaultRegion) == nil
	})
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})

	return v
}

// Struct validates a tagged struct and returns a *domain.ValidationError
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := ProcessValidationErrors(verrs)
	first := verrs[0].Field()
	return &domain.ValidationError{
		Field:   first,
		Message: fields[first],
		Fields:  fields,
	}
}

// ProcessValidationErrors maps each failed field to a readable message
func ProcessValidationErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, ve := range verrs {
		if _, seen := out[ve.Field()]; seen {
			continue
		}
		out[ve.Field()] = message(ve)
	}
	return out
}

func message(ve validator.FieldError) string {
	field := ve.Field()
	switch ve.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email", "simple_email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "nickname":
		return "Nickname must be 2-20 characters and contain only letters, numbers, underscores or hyphens"
	case "cashflow_type":
		return "type must be Inflow or Outflow"
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, ve.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, ve.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, ve.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, ve.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid value", field)
	}
	return fmt.Sprintf("%s is invalid (%s)", field, ve.Tag())
}

// ValidNickname checks the base company nickname format
func ValidNickname(s string) bool {
	return nicknamePattern.MatchString(s)
}

// ValidEmail is the loose format check used on allow-list entries
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidatePhoneNumber parses a phone number for a region and checks it is dialable
func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil
}

// FormatPhoneNumber normalizes a valid number to E.164
func FormatPhoneNumber(phoneNumber, countryCode string) (string, error) {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number is not valid")
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}
