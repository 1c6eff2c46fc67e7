package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies pipeline failures.
type ErrorType string

const (
	ErrTypeResourceNotFound ErrorType = "RESOURCE_NOT_FOUND"
	ErrTypeDecode           ErrorType = "DECODE_FAILURE"
	ErrTypeSchemaMismatch   ErrorType = "SCHEMA_MISMATCH"
	ErrTypeValueParse       ErrorType = "VALUE_PARSE_FAILURE"
	ErrTypeProcessing       ErrorType = "PROCESSING"
	ErrTypeLookupMiss       ErrorType = "LOOKUP_MISS"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// AppError carries the failure type plus the resource, column or value that caused it.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Fatal reports whether the error must abort a pipeline run.
// LookupMiss is the only recoverable type.
func (e *AppError) Fatal() bool {
	return e.Type != ErrTypeLookupMiss
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewResourceNotFound reports a missing input resource.
func NewResourceNotFound(identifier string) *AppError {
	return NewAppError(ErrTypeResourceNotFound, fmt.Sprintf("resource not found: %s", identifier), nil).
		WithContext("resource", identifier)
}

// NewDecodeError reports a resource that is neither UTF-8 nor Latin-1.
func NewDecodeError(identifier string, cause error) *AppError {
	return NewAppError(ErrTypeDecode, fmt.Sprintf("could not decode %s", identifier), cause).
		WithContext("resource", identifier)
}

// NewSchemaMismatch reports a designated column absent from a loaded source.
func NewSchemaMismatch(source, column string) *AppError {
	return NewAppError(ErrTypeSchemaMismatch, fmt.Sprintf("source %s is missing column %q", source, column), nil).
		WithContext("source", source).
		WithContext("column", column)
}

// NewValueParseError reports a cell that could not be converted to a number.
func NewValueParseError(source, column, raw string, cause error) *AppError {
	return NewAppError(ErrTypeValueParse, fmt.Sprintf("source %s column %q has invalid value %q", source, column, raw), cause).
		WithContext("source", source).
		WithContext("column", column).
		WithContext("value", raw)
}

// NewProcessingError is the fallback for read failures that have no better type.
func NewProcessingError(source string, cause error) *AppError {
	return NewAppError(ErrTypeProcessing, fmt.Sprintf("error processing %s", source), cause).
		WithContext("source", source)
}

// NewLookupMiss reports a category an insight expected but did not find.
func NewLookupMiss(table, category string) *AppError {
	return NewAppError(ErrTypeLookupMiss, fmt.Sprintf("%q not found in %s", category, table), nil).
		WithContext("source", table).
		WithContext("category", category)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err's chain holds an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}
