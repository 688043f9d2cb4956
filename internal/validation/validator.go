// Package validation provides input validation utilities for table operations.
// Validators are small reusable checks for column presence, equal column
// lengths and unique column names, each returning a *errors.TableError.
package validation

import (
	"fmt"

	"github.com/paveg/tabular/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider interface for types that provide column information
type ColumnProvider interface {
	HasColumn(name string) bool
	Columns() []string
	Len() int
	Width() int
}

// ColumnValidator validates column existence
type ColumnValidator struct {
	table   ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column operations
func NewColumnValidator(table ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		table:   table,
		columns: columns,
		op:      op,
	}
}

// Validate checks if all columns exist in the table
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.table.HasColumn(column) {
			return errors.NewColumnNotFoundError(v.op, column)
		}
	}
	return nil
}

// LengthValidator validates that a column matches the expected length
type LengthValidator struct {
	expected int
	actual   int
	op       string
	column   string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op, column string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
		column:   column,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		return errors.NewLengthMismatchError(v.op, v.column, v.expected, v.actual)
	}
	return nil
}

// UniqueNamesValidator rejects empty or repeated column names.
type UniqueNamesValidator struct {
	names []string
	op    string
}

// NewUniqueNamesValidator creates a validator for a header or column list.
func NewUniqueNamesValidator(names []string, op string) *UniqueNamesValidator {
	return &UniqueNamesValidator{names: names, op: op}
}

// Validate checks that every name is non-empty and appears once.
func (v *UniqueNamesValidator) Validate() error {
	seen := make(map[string]int, len(v.names))
	for i, name := range v.names {
		if name == "" {
			return errors.NewFormatError(v.op, fmt.Sprintf("column %d has an empty name", i))
		}
		if first, dup := seen[name]; dup {
			return errors.NewFormatError(v.op,
				fmt.Sprintf("column name %q repeated at positions %d and %d", name, first, i))
		}
		seen[name] = i
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateColumns is a convenience function for column validation
func ValidateColumns(table ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(table, op, columns...).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op, column string) error {
	return NewLengthValidator(expected, actual, op, column).Validate()
}

// ValidateUniqueNames is a convenience function for name validation
func ValidateUniqueNames(names []string, op string) error {
	return NewUniqueNamesValidator(names, op).Validate()
}
