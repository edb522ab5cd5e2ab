package coerce_test

import (
	"testing"

	. "github.com/tobsdb/tdblite/internal/coerce"
	"github.com/tobsdb/tdblite/internal/types"
	"gotest.tools/assert"
)

func TestValidate(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		assert.Assert(t, Validate("42", types.ColumnTypeInt))
		assert.Assert(t, Validate("-7", types.ColumnTypeInt))
		assert.Assert(t, !Validate("4.2", types.ColumnTypeInt))
		assert.Assert(t, !Validate("abc", types.ColumnTypeInt))
		assert.Assert(t, !Validate("", types.ColumnTypeInt))
	})

	t.Run("text accepts anything", func(t *testing.T) {
		assert.Assert(t, Validate("", types.ColumnTypeText))
		assert.Assert(t, Validate("hello world", types.ColumnTypeText))
	})

	t.Run("bool token set", func(t *testing.T) {
		for _, raw := range []string{"true", "TRUE", "1", "false", "False", "0"} {
			assert.Assert(t, Validate(raw, types.ColumnTypeBool), raw)
		}
		for _, raw := range []string{"yes", "no", "2", "t", ""} {
			assert.Assert(t, !Validate(raw, types.ColumnTypeBool), raw)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		assert.Assert(t, !Validate("1", types.ColumnType("float")))
	})
}

func TestConvert(t *testing.T) {
	v, err := Convert("25", types.ColumnTypeInt)
	assert.NilError(t, err)
	assert.Equal(t, v, types.IntValue(25))

	v, err = Convert("John", types.ColumnTypeText)
	assert.NilError(t, err)
	assert.Equal(t, v, types.TextValue("John"))

	v, err = Convert("True", types.ColumnTypeBool)
	assert.NilError(t, err)
	assert.Equal(t, v, types.BoolValue(true))

	v, err = Convert("0", types.ColumnTypeBool)
	assert.NilError(t, err)
	assert.Equal(t, v, types.BoolValue(false))

	_, err = Convert("abc", types.ColumnTypeInt)
	assert.Assert(t, types.IsKind(err, types.ErrTypeMismatch))
}

func TestValidateAndConvert(t *testing.T) {
	_, err := ValidateAndConvert("maybe", types.ColumnTypeBool)
	assert.Assert(t, types.IsKind(err, types.ErrTypeMismatch))
	assert.ErrorContains(t, err, `Invalid value "maybe" for type bool`)

	v, err := ValidateAndConvert("1", types.ColumnTypeBool)
	assert.NilError(t, err)
	assert.Equal(t, v, types.BoolValue(true))
}
