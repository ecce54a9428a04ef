package form

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-formbind/pkg/rules"
)

// FieldErrorsFromPayload coerces a structured rejection payload (typically a
// decoded JSON body mapping field paths to messages) into rules.FieldErrors so
// submit functions can return it and have the controller distribute the
// messages onto fields. Accepts map[string]string, map[string]any, and
// structs with string fields; returns false for plain strings and anything
// else that does not decode to a non-empty mapping.
func FieldErrorsFromPayload(payload any) (rules.FieldErrors, bool) {
	switch typed := payload.(type) {
	case nil:
		return nil, false
	case string:
		return nil, false
	case rules.FieldErrors:
		if len(typed) == 0 {
			return nil, false
		}
		return typed, true
	}

	decoded := make(map[string]string)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &decoded,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, false
	}
	if err := decoder.Decode(payload); err != nil || len(decoded) == 0 {
		return nil, false
	}
	return rules.FieldErrors(decoded), true
}

// RejectionError wraps a structured rejection payload so it travels as an
// error while exposing the field mapping via errors.As(&rules.FieldErrors{}).
type RejectionError struct {
	Payload any
	fields  rules.FieldErrors
}

// Reject builds the submission rejection for a payload: structured payloads
// come back as a RejectionError carrying field errors, anything else becomes
// a plain error shown through the error callback only.
func Reject(payload any) error {
	if fields, ok := FieldErrorsFromPayload(payload); ok {
		return &RejectionError{Payload: payload, fields: fields}
	}
	return fmt.Errorf("form: submit rejected: %v", payload)
}

// Error implements error.
func (e *RejectionError) Error() string {
	return "form: submit rejected: " + e.fields.Error()
}

// As exposes the field mapping to errors.As.
func (e *RejectionError) As(target any) bool {
	if dest, ok := target.(*rules.FieldErrors); ok {
		*dest = e.fields
		return true
	}
	return false
}
