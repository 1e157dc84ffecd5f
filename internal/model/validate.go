package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MsgNameRequired   = "name is required"
	MsgSkillsRequired = "skills are required"
	MsgMinLength      = "minimum 2 characters"
	MsgNumericOnly    = "only numeric values are allowed"
)

// FieldOrder is the order fields appear in the form (and in validation results).
var FieldOrder = []string{FieldName, FieldAge, FieldSkills}

// FieldError is a single failed rule for one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a form fails local validation. It never reaches the API.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message returns the error for field, or "".
func (e *ValidationError) Message(field string) string {
	for _, fe := range e.Fields {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

var numeric = validation.By(func(v interface{}) error {
	s, _ := v.(string)
	if _, err := parseDecimal(strings.TrimSpace(s)); err != nil {
		return errors.New(MsgNumericOnly)
	}
	return nil
})

// Validate checks the form: name and skills are required with at least 2 characters,
// age must be numeric when present. It returns nil when the form is valid.
func (f Form) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required.Error(MsgNameRequired),
			validation.RuneLength(2, 0).Error(MsgMinLength),
		),
		validation.Field(&f.Age,
			validation.When(strings.TrimSpace(f.Age) != "", numeric),
		),
		validation.Field(&f.Skills,
			validation.Required.Error(MsgSkillsRequired),
			validation.RuneLength(2, 0).Error(MsgMinLength),
		),
	)
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	out := &ValidationError{}
	for _, field := range FieldOrder {
		if fe, ok := errs[field]; ok && fe != nil {
			out.Fields = append(out.Fields, FieldError{Field: field, Message: fe.Error()})
		}
	}
	return out
}

// Validate is the pure field check used by the controller: nil means the form may be submitted.
func Validate(f Form) []FieldError {
	err := f.Validate()
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return []FieldError{{Field: "", Message: err.Error()}}
}

// ValidateField checks one field in isolation; used by interactive prompts.
func ValidateField(field, value string) error {
	var f Form
	f.Set(field, value)
	// Fill the other fields with something valid so only field is reported.
	for _, other := range FieldOrder {
		if other != field {
			f.Set(other, placeholderFor(other))
		}
	}
	for _, fe := range Validate(f) {
		if fe.Field == field {
			return errors.New(fe.Message)
		}
	}
	return nil
}

func placeholderFor(field string) string {
	if field == FieldAge {
		return ""
	}
	return "ok"
}
