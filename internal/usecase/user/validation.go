package user

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "user-console/pkg/errors"
)

var (
	emailPattern   = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^[0-9\-.()+\s\p{Zs}]*$`)
	websitePattern = regexp.MustCompile(`^(https?://)?(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)
)

// newValidator registers the user form patterns on a fresh validator.
func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "email_pattern", emailPattern)
	mustRegister(v, "phone_chars", phonePattern)
	mustRegister(v, "website_url", websitePattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// fieldKeys maps struct fields to the form field names used by templates and the JSON API.
var fieldKeys = map[string]string{
	"Name":     "name",
	"Username": "username",
	"Email":    "email",
	"Phone":    "phone",
	"Website":  "website",
}

// formatValidationError converts validator.ValidationErrors into per-field messages.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		key, ok := fieldKeys[e.Field()]
		if !ok {
			key = strings.ToLower(e.Field())
		}
		if _, seen := fields[key]; seen {
			continue
		}

		switch e.Tag() {
		case "required":
			fields[key] = e.Field() + " is required"
		case "email_pattern":
			fields[key] = "Invalid email address"
		case "phone_chars":
			fields[key] = "Invalid phone number format"
		case "website_url":
			fields[key] = "Invalid website URL"
		default:
			fields[key] = e.Field() + " is invalid"
		}
	}
	return apperrors.NewFieldsError(fields)
}
