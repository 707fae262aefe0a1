package service

import (
	"errors"
	"go-portfolio-app/internal/data"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var pageTagPattern = regexp.MustCompile(`^[a-z0-9_-]{1,50}$`)

// newValidator returns a validator that reports field names from the form tag
// and knows the application's custom rules.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("strongpw", func(fl validator.FieldLevel) bool {
		var upper, special bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case !unicode.IsLetter(r) && !unicode.IsDigit(r):
				special = true
			}
		}
		return upper && special
	})
	_ = v.RegisterValidation("pagetag", func(fl validator.FieldLevel) bool {
		return pageTagPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("skillcat", func(fl validator.FieldLevel) bool {
		return data.SkillCategory(fl.Field().String()).Valid()
	})
	return v
}

// fieldMessages overrides the generic message for a field/tag pair.
var fieldMessages = map[string]string{
	"password.strongpw":        "Password must contain at least one uppercase letter and one special character.",
	"password.min":             "Password must be at least 8 characters long.",
	"password.max":             "Password must be at most 72 characters long.",
	"confirm_password.eqfield": "Passwords must match.",
	"username.min":             "Username must be between 3 and 20 characters.",
	"username.max":             "Username must be between 3 and 20 characters.",
	"email.email":              "Please enter a valid email address.",
	"content.required":         "Comment cannot be empty.",
	"content.max":              "Comment must be at most 500 characters.",
	"page.pagetag":             "Invalid page name.",
	"category.skillcat":        "Unknown skill category.",
}

// validateStruct runs v over s and converts any failures into a *ValidationError.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
			fields[fe.Field()] = msg
			continue
		}
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "This field is required."
		case "max":
			fields[fe.Field()] = "Must be at most " + fe.Param() + " characters."
		default:
			fields[fe.Field()] = "Invalid value."
		}
	}
	return &ValidationError{Fields: fields}
}

// parseDateField parses a required date form value.
func parseDateField(field, value string) (data.Date, error) {
	d, err := data.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return data.Date{}, fieldError(field, "Dates must be formatted as YYYY-MM-DD or YYYY/MM/DD.")
	}
	return d, nil
}

// parseOptionalDateField returns nil for a blank value.
func parseOptionalDateField(field, value string) (*data.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := parseDateField(field, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// checkDateRange rejects an end date earlier than the start date.
func checkDateRange(start data.Date, end *data.Date) error {
	if end != nil && end.Before(start) {
		return fieldError("end_date", "End date cannot be before the start date.")
	}
	return nil
}
