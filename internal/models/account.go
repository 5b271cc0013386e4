package models

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of date_joined.
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Account is the single resource managed by the service.
type Account struct {
	ID          int64
	Name        string
	Email       string
	Address     string
	PhoneNumber string
	DateJoined  time.Time
}

// FieldError describes why a single key of an account payload was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ValidationError is returned by Deserialize when the payload is incomplete
// or has values of the wrong shape.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid account data: " + strings.Join(parts, "; ")
}

// accountFields holds the required text fields while they are being checked.
// A nil pointer means the key was absent; an empty string is a value.
type accountFields struct {
	Name        *string `json:"name" validate:"required"`
	Email       *string `json:"email" validate:"required"`
	Address     *string `json:"address" validate:"required"`
	PhoneNumber *string `json:"phone_number" validate:"required"`
}

// Serialize renders the account as a plain key-value map.
func (a *Account) Serialize() map[string]any {
	return map[string]any{
		"id":           a.ID,
		"name":         a.Name,
		"email":        a.Email,
		"address":      a.Address,
		"phone_number": a.PhoneNumber,
		"date_joined":  a.DateJoined.Format(DateLayout),
	}
}

// Deserialize copies the fields of data onto the account. The id key is
// ignored. If date_joined is absent the current value is kept. On error the
// account is left untouched.
func (a *Account) Deserialize(data map[string]any) error {
	var fields accountFields
	targets := []struct {
		key string
		dst **string
	}{
		{"name", &fields.Name},
		{"email", &fields.Email},
		{"address", &fields.Address},
		{"phone_number", &fields.PhoneNumber},
	}

	shapeErrs := make(map[string]FieldError)
	for _, t := range targets {
		v, ok := data[t.key]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			shapeErrs[t.key] = FieldError{Field: t.key, Message: "Value must be a string", Type: "string"}
			continue
		}
		*t.dst = &s
	}

	requiredErrs := make(map[string]FieldError)
	if err := validate.Struct(fields); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("failed to validate account: %w", err)
		}
		for _, fe := range verrs {
			requiredErrs[fe.Field()] = FieldError{Field: fe.Field(), Message: errorMessage(fe), Type: fe.Tag()}
		}
	}

	var errs []FieldError
	for _, t := range targets {
		if fe, ok := shapeErrs[t.key]; ok {
			errs = append(errs, fe)
		} else if fe, ok := requiredErrs[t.key]; ok {
			errs = append(errs, fe)
		}
	}

	joined := a.DateJoined
	if v, ok := data["date_joined"]; ok && v != nil {
		s, isString := v.(string)
		if !isString {
			errs = append(errs, FieldError{Field: "date_joined", Message: "Value must be a date string", Type: "date"})
		} else if d, err := time.Parse(DateLayout, s); err != nil {
			errs = append(errs, FieldError{Field: "date_joined", Message: "Invalid date, expected YYYY-MM-DD", Type: "date"})
		} else {
			joined = d
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	a.Name = *fields.Name
	a.Email = *fields.Email
	a.Address = *fields.Address
	a.PhoneNumber = *fields.PhoneNumber
	a.DateJoined = joined
	return nil
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	default:
		return "Invalid value"
	}
}

// Today returns the current UTC date truncated to midnight.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
