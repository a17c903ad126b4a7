package fileimport

import (
	"errors"
	"fmt"
	"strings"
)

// Row error codes
const (
	ErrCodeRequiredField = "REQUIRED_FIELD"
	ErrCodeInvalidType   = "INVALID_TYPE"
	ErrCodeInvalidLength = "INVALID_LENGTH"
	ErrCodeInvalidRange  = "INVALID_RANGE"
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeValidation    = "VALIDATION_ERROR"
)

// File-level errors
var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrInvalidEncoding   = errors.New("file is not valid UTF-8")
	ErrMissingHeader     = errors.New("file has no header row")
	ErrNoDataRows        = errors.New("file contains no data rows")
	ErrInvalidFile       = errors.New("file cannot be parsed")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrTooManyRows       = errors.New("file has too many rows")
)

// RowError is a problem with one row of an upload
type RowError struct {
	Line    int    `json:"line"`
	Article string `json:"article,omitempty"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column '%s': %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrorCollection keeps the first maxErrors row errors and counts the rest
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequiredError adds a missing value error
func (ec *ErrorCollection) AddRequiredError(row *Row, column string) {
	ec.Add(rowError(row, column, ErrCodeRequiredField, fmt.Sprintf("field '%s' is required", column)))
}

// AddTypeError adds a type validation error
func (ec *ErrorCollection) AddTypeError(row *Row, column, expectedType, value string) {
	ec.Add(rowError(row, column, ErrCodeInvalidType, fmt.Sprintf("expected %s, got '%s'", expectedType, value)))
}

// AddLengthError adds a length validation error
func (ec *ErrorCollection) AddLengthError(row *Row, column string, maxLen int) {
	ec.Add(rowError(row, column, ErrCodeInvalidLength, fmt.Sprintf("length must be at most %d", maxLen)))
}

// AddRangeError adds a range validation error
func (ec *ErrorCollection) AddRangeError(row *Row, column, message string) {
	ec.Add(rowError(row, column, ErrCodeInvalidRange, message))
}

// AddValidationError adds an error with a caller-chosen code
func (ec *ErrorCollection) AddValidationError(row *Row, column, code, message string) {
	ec.Add(rowError(row, column, code, message))
}

func rowError(row *Row, column, code, message string) RowError {
	return RowError{
		Line:    row.Line,
		Article: row.Get("article"),
		Column:  column,
		Code:    code,
		Message: message,
	}
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Count returns the number of kept errors
func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

// TotalCount returns the number of errors including dropped ones
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were dropped
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

// ErrorSummary counts kept errors by code
func (ec *ErrorCollection) ErrorSummary() map[string]int {
	summary := make(map[string]int)
	for _, err := range ec.errors {
		summary[err.Code]++
	}
	return summary
}

// String returns a string representation of all errors
func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) found", ec.totalCount))
	if ec.IsTruncated() {
		sb.WriteString(fmt.Sprintf(" (showing first %d)", ec.maxErrors))
	}
	sb.WriteString(":\n")
	for _, err := range ec.errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}
