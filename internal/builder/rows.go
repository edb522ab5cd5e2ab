package builder

import (
	"github.com/tobsdb/tdblite/internal/types"
	sorted "github.com/tobshub/go-sortedmap"
)

// Rows indexes a table's records by ID.
type Rows struct {
	Map *sorted.SortedMap[int, types.Record]
}

func rowsComparisonFunc(a, b types.Record) bool {
	return types.GetPrimaryKey(a) < types.GetPrimaryKey(b)
}

func NewRows() *Rows {
	return &Rows{Map: sorted.New[int, types.Record](0, rowsComparisonFunc)}
}

// Insert adds a record under its ID. It returns false if the record has
// no integer ID or the ID is already taken.
func (r *Rows) Insert(record types.Record) bool {
	id, ok := record[types.SYS_PRIMARY_KEY]
	if !ok || id.Type != types.ColumnTypeInt {
		return false
	}
	return r.Map.Insert(id.Int(), record)
}

func (r *Rows) Get(id int) (types.Record, bool) { return r.Map.Get(id) }

func (r *Rows) Len() int { return r.Map.Len() }

// Records returns the records in ascending ID order.
func (r *Rows) Records() []types.Record {
	records := make([]types.Record, 0, r.Len())
	iterCh, err := r.Map.IterCh()
	if err != nil {
		return records
	}
	for row := range iterCh.Records() {
		records = append(records, row.Val)
	}
	return records
}
