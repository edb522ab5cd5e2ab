package builder

import (
	"regexp"

	"github.com/tobsdb/tdblite/internal/types"
)

var (
	IDENTIFIER_PATTERN = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	// name ":" type; the type is checked separately so that an unknown
	// type is reported as such rather than as a malformed definition
	COLUMN_DEF_PATTERN = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):([^:]*)$`)
)

// ParseColumnDef splits a "name:type" definition.
func ParseColumnDef(def string) (string, types.ColumnType, error) {
	m := COLUMN_DEF_PATTERN.FindStringSubmatch(def)
	if m == nil {
		return "", "", types.QueryErrorf(types.ErrInvalidColumnDefinition,
			"Invalid column definition %q. Use: name:type", def)
	}

	ct, err := types.ParseColumnType(m[2])
	if err != nil {
		return "", "", types.QueryErrorf(types.ErrUnsupportedType,
			"Unsupported data type %q. Supported types: int, str, bool", m[2])
	}
	return m[1], ct, nil
}

// column rules:
// - ID is synthetic and can't be declared
// - a column can't be declared twice
func CheckColumnRules(table *Table, name string) error {
	if name == types.SYS_PRIMARY_KEY {
		return types.QueryErrorf(types.ErrInvalidColumnDefinition,
			"Column %s is created automatically and can't be declared", name)
	}
	if table.Columns.Has(name) {
		return types.QueryErrorf(types.ErrInvalidColumnDefinition, "Duplicate column %s", name)
	}
	return nil
}

func CheckTableName(name string) error {
	if !IDENTIFIER_PATTERN.MatchString(name) {
		return types.QueryErrorf(types.ErrInvalidTableName,
			"Invalid table name %q. Use letters, digits and underscores", name)
	}
	return nil
}
