package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds. Every typed error below matches exactly one of these
// through errors.Is, so callers can branch on the kind without caring
// about the concrete type.
var (
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgs     = errors.New("invalid arguments")
	ErrMissingField    = errors.New("missing field")
	ErrInvalidValue    = errors.New("invalid value")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrSchemaMismatch  = errors.New("schema mismatch")
)

// Object kinds used in AlreadyExistsError and NotFoundError
const (
	KindDatabase = "database"
	KindTable    = "table"
)

// AlreadyExistsError is returned when creating a database or table whose
// name is taken
type AlreadyExistsError struct {
	Kind string
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// NotFoundError is returned when a named database or table does not exist
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q does not exist", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TablesNotFoundError reports every missing operand of a two-table
// operation
type TablesNotFoundError struct {
	Names []string
}

func (e *TablesNotFoundError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("one or both tables do not exist: %s", strings.Join(quoted, ", "))
}

func (e *TablesNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidArgsError reports a malformed request: empty names, empty
// schemas, unknown type tags
type InvalidArgsError struct {
	Reason string
}

func (e *InvalidArgsError) Error() string {
	return e.Reason
}

func (e *InvalidArgsError) Is(target error) bool {
	return target == ErrInvalidArgs
}

// NewInvalidArgs formats an InvalidArgsError
func NewInvalidArgs(format string, args ...interface{}) *InvalidArgsError {
	return &InvalidArgsError{Reason: fmt.Sprintf(format, args...)}
}

// Constraint names carried by ConstraintError
const (
	ConstraintMissingField = "missing_field"
	ConstraintInvalidValue = "invalid_value"
)

// ConstraintError represents a row that violates its table's schema
type ConstraintError struct {
	Table      string // table name
	Column     string // first offending field, in schema order
	Value      string // offending value (empty for missing fields)
	Type       string // declared type tag of the field
	Constraint string // ConstraintMissingField or ConstraintInvalidValue
	Reason     string // why the value was refused, if known
}

func (e *ConstraintError) Error() string {
	switch e.Constraint {
	case ConstraintMissingField:
		return fmt.Sprintf("field %s is missing", e.Column)
	case ConstraintInvalidValue:
		if e.Reason != "" {
			return fmt.Sprintf("invalid value for field %s: %s", e.Column, e.Reason)
		}
		return fmt.Sprintf("invalid value for field %s: %q is not a valid %s", e.Column, e.Value, e.Type)
	}
	return fmt.Sprintf("constraint violation in %s.%s (%s)", e.Table, e.Column, e.Constraint)
}

func (e *ConstraintError) Is(target error) bool {
	switch e.Constraint {
	case ConstraintMissingField:
		return target == ErrMissingField
	case ConstraintInvalidValue:
		return target == ErrInvalidValue
	}
	return false
}

// NewMissingField reports the first schema field absent from a row
func NewMissingField(table, column, typ string) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Type:       typ,
		Constraint: ConstraintMissingField,
	}
}

// NewInvalidValue reports the first field whose value fails validation.
// reason may be nil.
func NewInvalidValue(table, column, typ, value string, reason error) *ConstraintError {
	e := &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Type:       typ,
		Constraint: ConstraintInvalidValue,
	}
	if reason != nil {
		e.Reason = reason.Error()
	}
	return e
}

// IndexOutOfRangeError is returned when deleting a row position that does
// not exist
type IndexOutOfRangeError struct {
	Table string
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("row index %d out of range for table %q (%d rows)", e.Index, e.Table, e.Count)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// SchemaMismatchError is returned when two tables must share a schema but
// do not
type SchemaMismatchError struct {
	Left  string
	Right string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("table schemas are not equal: %q and %q", e.Left, e.Right)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
