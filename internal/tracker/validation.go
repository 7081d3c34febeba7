package tracker

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgDateRequired      = "Date is required"
	MsgDateFormat        = "Date must be in YYYY-MM-DD format"
	MsgTimeFormat        = "Time must be in HH:MM format"
	MsgCompletedRequired = "Completed is required"
)

var validate = validator.New()

// WorkoutInput is the add and edit form. Empty optional fields mean absent.
// The rules match the binding tags of the HTTP form.
type WorkoutInput struct {
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	ScheduledTime string `json:"scheduledTime" validate:"omitempty,datetime=15:04"`
	Notes         string `json:"notes"`
}

// ValidationError maps form field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid workout: " + strings.Join(parts, ", ")
}

// Validate returns a *ValidationError, or nil when the form can be submitted.
func (in WorkoutInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return &ValidationError{Fields: FieldMessages(verrs)}
}

// FieldMessages turns validator failures of a workout form into messages
// keyed by the form field name.
func FieldMessages(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name, msg := fieldMessage(fe)
		fields[name] = msg
	}
	return fields
}

func fieldMessage(fe validator.FieldError) (string, string) {
	switch fe.Field() {
	case "Date":
		if fe.Tag() == "required" {
			return "date", MsgDateRequired
		}
		return "date", MsgDateFormat
	case "ScheduledTime":
		return "scheduledTime", MsgTimeFormat
	case "Completed":
		return "completed", MsgCompletedRequired
	}
	name := fe.Field()
	return strings.ToLower(name[:1]) + name[1:], fe.Error()
}

// optional maps an empty form value to an absent field.
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
