package models

import "fmt"

// ErrorNotFound is returned when an id does not resolve.
type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

// ErrorForbidden covers missing capabilities and transitions attempted from
// the wrong state.
type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

// ErrorUnauthorized covers missing, invalid or expired credentials.
type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

// ErrorValidation is a payload that passed decoding but not the domain rules.
type ErrorValidation struct {
	Field   string
	Message string
}

func (e ErrorValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorConflict is a uniqueness violation (email, practice name).
type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string { return e.Message }

func NotFound(format string, args ...interface{}) error {
	return ErrorNotFound{Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) error {
	return ErrorForbidden{Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) error {
	return ErrorUnauthorized{Message: message}
}

func Conflict(format string, args ...interface{}) error {
	return ErrorConflict{Message: fmt.Sprintf(format, args...)}
}

func Invalid(field, message string) error {
	return ErrorValidation{Field: field, Message: message}
}
