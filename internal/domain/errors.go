package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrReference         = errors.New("reference violation")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrDuplicateRoomType = errors.New("duplicate room type")
	ErrPersistence       = errors.New("persistence failure")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error is a rule violation or storage failure with a client-facing message.
type Error struct {
	Kind    error
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func Invalid(msg string, fields ...FieldError) *Error {
	return &Error{Kind: ErrValidation, Message: msg, Fields: fields}
}

func InvalidField(field, code, msg string) *Error {
	return Invalid(msg, FieldError{Field: field, Message: msg, Code: code})
}

func NotFound(entity string) *Error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

func MissingReference(field, entity string) *Error {
	msg := fmt.Sprintf("%s does not reference an existing %s", field, entity)
	return &Error{
		Kind:    ErrReference,
		Message: msg,
		Fields:  []FieldError{{Field: field, Message: msg, Code: "exists"}},
	}
}

func CapacityExceeded(total, maxRooms int) *Error {
	return &Error{
		Kind:    ErrCapacityExceeded,
		Message: fmt.Sprintf("total room count %d exceeds the hotel maximum of %d", total, maxRooms),
	}
}

func DuplicateRoomType(t RoomType, a Accommodation) *Error {
	return &Error{
		Kind:    ErrDuplicateRoomType,
		Message: fmt.Sprintf("hotel already has %s rooms with %s accommodation", t, a),
	}
}

// Persistence wraps an unexpected storage error. Errors that already carry a
// domain kind pass through untouched.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &Error{Kind: ErrPersistence, Message: op + " failed", Err: err}
}
