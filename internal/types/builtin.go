package types

import "fmt"

// ColumnType is the declared type of a column. Its string form is the
// spelling used in column definitions and in the metadata file.
type ColumnType string

const (
	ColumnTypeInt  ColumnType = "int"
	ColumnTypeText ColumnType = "str"
	ColumnTypeBool ColumnType = "bool"
)

var VALID_COLUMN_TYPES = []ColumnType{ColumnTypeInt, ColumnTypeText, ColumnTypeBool}

// SYS_PRIMARY_KEY is the synthetic column every table starts with.
const SYS_PRIMARY_KEY = "ID"

func ParseColumnType(s string) (ColumnType, error) {
	for _, t := range VALID_COLUMN_TYPES {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%s is not a valid type", s)
}

func (t ColumnType) Valid() bool {
	_, err := ParseColumnType(string(t))
	return err == nil
}

// Name is the human readable name of the type.
func (t ColumnType) Name() string {
	switch t {
	case ColumnTypeInt:
		return "Int"
	case ColumnTypeText:
		return "Text"
	case ColumnTypeBool:
		return "Bool"
	}
	return string(t)
}
