// Package coerce validates and converts raw text into typed values.
package coerce

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tobsdb/tdblite/internal/types"
)

var (
	TRUE_VALUES  = []string{"true", "1"}
	FALSE_VALUES = []string{"false", "0"}

	VALID_BOOL_VALUES = append(slices.Clone(TRUE_VALUES), FALSE_VALUES...)
)

// Validate reports whether raw can be converted to t.
func Validate(raw string, t types.ColumnType) bool {
	switch t {
	case types.ColumnTypeInt:
		_, err := strconv.Atoi(raw)
		return err == nil
	case types.ColumnTypeText:
		return true
	case types.ColumnTypeBool:
		return slices.Contains(VALID_BOOL_VALUES, strings.ToLower(raw))
	}
	return false
}

// Convert turns raw into a Value of type t. Callers are expected to
// Validate first; a value that cannot be parsed fails with TypeMismatch.
func Convert(raw string, t types.ColumnType) (types.Value, error) {
	switch t {
	case types.ColumnTypeInt:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return types.Value{}, invalidValueError(raw, t)
		}
		return types.IntValue(i), nil
	case types.ColumnTypeText:
		return types.TextValue(raw), nil
	case types.ColumnTypeBool:
		return types.BoolValue(slices.Contains(TRUE_VALUES, strings.ToLower(raw))), nil
	}
	return types.Value{}, types.QueryErrorf(types.ErrUnsupportedType, "Unsupported type %q", t)
}

// ValidateAndConvert is Convert guarded by Validate.
func ValidateAndConvert(raw string, t types.ColumnType) (types.Value, error) {
	if !Validate(raw, t) {
		return types.Value{}, invalidValueError(raw, t)
	}
	return Convert(raw, t)
}

func invalidValueError(raw string, t types.ColumnType) error {
	return types.QueryErrorf(types.ErrTypeMismatch, "Invalid value %q for type %s", raw, t)
}
