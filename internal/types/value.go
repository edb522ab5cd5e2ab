package types

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a scalar tagged with the column type it was coerced to.
type Value struct {
	Type ColumnType
	int  int
	text string
	bool bool
}

func IntValue(v int) Value     { return Value{Type: ColumnTypeInt, int: v} }
func TextValue(v string) Value { return Value{Type: ColumnTypeText, text: v} }
func BoolValue(v bool) Value   { return Value{Type: ColumnTypeBool, bool: v} }

func (v Value) Int() int     { return v.int }
func (v Value) Text() string { return v.text }
func (v Value) Bool() bool   { return v.bool }
func (v Value) IsZero() bool { return v.Type == "" }

func (v Value) Equal(o Value) bool { return v.Type == o.Type && v.Compare(o) == 0 }

// Compare orders two values of the same type. Int uses numeric order,
// Text byte-wise order and Bool false < true. Values of different types
// order by type name so that Compare is total.
func (v Value) Compare(o Value) int {
	if v.Type != o.Type {
		return cmp.Compare(v.Type, o.Type)
	}
	switch v.Type {
	case ColumnTypeInt:
		return cmp.Compare(v.int, o.int)
	case ColumnTypeText:
		return cmp.Compare(v.text, o.text)
	case ColumnTypeBool:
		if v.bool == o.bool {
			return 0
		}
		if !v.bool {
			return -1
		}
		return 1
	}
	return 0
}

// Any returns the native Go value.
func (v Value) Any() any {
	switch v.Type {
	case ColumnTypeInt:
		return v.int
	case ColumnTypeText:
		return v.text
	case ColumnTypeBool:
		return v.bool
	}
	return nil
}

func (v Value) String() string {
	switch v.Type {
	case ColumnTypeInt:
		return strconv.Itoa(v.int)
	case ColumnTypeText:
		return v.text
	case ColumnTypeBool:
		return strconv.FormatBool(v.bool)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON takes the type tag from the JSON literal: numbers are Int,
// strings are Text and true/false are Bool.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(&raw); err != nil {
		return err
	}
	val, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// ValueOf tags a decoded JSON scalar.
func ValueOf(raw any) (Value, error) {
	switch raw := raw.(type) {
	case json.Number:
		i, err := strconv.Atoi(raw.String())
		if err != nil {
			return Value{}, fmt.Errorf("%s is not an integer", raw)
		}
		return IntValue(i), nil
	case int:
		return IntValue(raw), nil
	case float64:
		if raw != float64(int(raw)) {
			return Value{}, fmt.Errorf("%v is not an integer", raw)
		}
		return IntValue(int(raw)), nil
	case string:
		return TextValue(raw), nil
	case bool:
		return BoolValue(raw), nil
	}
	return Value{}, fmt.Errorf("unsupported value %v (%T)", raw, raw)
}
