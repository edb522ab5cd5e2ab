package clause

import (
	"strings"

	"github.com/tobsdb/tdblite/internal/coerce"
	"github.com/tobsdb/tdblite/internal/types"
	"github.com/tobsdb/tdblite/pkg"
)

const SET_PATTERN = "column = value[, column = value]"

// SetClause maps a column to its replacement literal.
type SetClause struct {
	values *pkg.InsertSortMap[string, string]
}

func NewSetClause() *SetClause {
	return &SetClause{values: pkg.NewInsertSortMap[string, string]()}
}

func (c *SetClause) Set(column, value string) { c.values.Push(column, value) }
func (c *SetClause) Get(column string) string { return c.values.Get(column) }
func (c *SetClause) Columns() []string        { return c.values.Keys() }
func (c *SetClause) Len() int                 { return c.values.Len() }

// ParseSet parses comma separated assignments with an optional leading SET
// keyword. Later assignments to the same column win.
func ParseSet(assignments string) (*SetClause, error) {
	assignments = stripKeyword(assignments, "SET")
	if assignments == "" {
		return nil, invalidSetError(assignments)
	}

	c := NewSetClause()
	for _, segment := range strings.Split(assignments, ",") {
		column, value, ok := strings.Cut(segment, "=")
		if !ok {
			return nil, invalidSetError(assignments)
		}
		column = strings.TrimSpace(column)
		if column == "" {
			return nil, invalidSetError(assignments)
		}
		c.Set(unquote(column), unquote(strings.TrimSpace(value)))
	}
	return c, nil
}

// Apply overwrites every column present in both the record and the clause,
// except ID, with the literal coerced to the stored value's type. It
// returns the number of columns whose value changed. On error the record
// is untouched.
func (c *SetClause) Apply(r types.Record) (int, error) {
	updates := map[string]types.Value{}
	for _, column := range c.values.Keys() {
		if column == types.SYS_PRIMARY_KEY {
			continue
		}
		stored, ok := r[column]
		if !ok {
			continue
		}
		v, err := coerce.ValidateAndConvert(c.values.Get(column), stored.Type)
		if err != nil {
			return 0, types.QueryErrorf(types.ErrTypeMismatch,
				"Invalid type for column %q. Expected %s", column, stored.Type)
		}
		if stored.Equal(v) {
			continue
		}
		updates[column] = v
	}

	for column, v := range updates {
		r.Set(column, v)
	}
	return len(updates), nil
}

func invalidSetError(assignments string) error {
	return types.QueryErrorf(types.ErrInvalidSetSyntax,
		"Invalid SET clause %q. Use: %s", assignments, SET_PATTERN)
}
