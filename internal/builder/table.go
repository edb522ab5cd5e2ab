package builder

import (
	"fmt"
	"strings"

	"github.com/tobsdb/tdblite/internal/types"
	"github.com/tobsdb/tdblite/pkg"
)

// Table is the fixed schema of one table: its name and its columns in
// declaration order, starting with the synthetic ID column.
type Table struct {
	Name    string
	Columns *pkg.InsertSortMap[string, types.ColumnType]
}

func NewTable(name string) *Table {
	columns := pkg.NewInsertSortMap[string, types.ColumnType]()
	columns.Push(types.SYS_PRIMARY_KEY, types.ColumnTypeInt)
	return &Table{Name: name, Columns: columns}
}

func (t *Table) ColumnNames() []string { return t.Columns.Keys() }

// DataColumns are the user declared columns, in order, without ID.
func (t *Table) DataColumns() []string {
	return pkg.Filter(t.Columns.Keys(), func(c string) bool { return c != types.SYS_PRIMARY_KEY })
}

func (t *Table) ColumnType(name string) (types.ColumnType, bool) {
	return t.Columns.Lookup(name)
}

// String formats the columns as they are declared, e.g. "ID:int, name:str".
func (t *Table) String() string {
	defs := make([]string, 0, t.Columns.Len())
	t.Columns.Each(func(name string, ct types.ColumnType) {
		defs = append(defs, fmt.Sprintf("%s:%s", name, ct))
	})
	return strings.Join(defs, ", ")
}
