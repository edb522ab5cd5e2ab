package query

import (
	"github.com/tobsdb/tdblite/internal/builder"
	"github.com/tobsdb/tdblite/internal/clause"
	"github.com/tobsdb/tdblite/internal/coerce"
	"github.com/tobsdb/tdblite/internal/types"
	"github.com/tobsdb/tdblite/pkg"
)

// BuildRecord validates and converts raw values against the table's data
// columns, in order, and assigns id. Nothing is returned unless every
// value is valid.
func BuildRecord(table *builder.Table, raw_values []string, id int) (types.Record, error) {
	columns := table.DataColumns()
	if len(raw_values) != len(columns) {
		return nil, types.QueryErrorf(types.ErrColumnCountMismatch,
			"Expected %d values, got %d", len(columns), len(raw_values))
	}

	record := types.Record{}
	types.SetPrimaryKey(record, id)
	for i, column := range columns {
		ct := table.Columns.Get(column)
		if !coerce.Validate(raw_values[i], ct) {
			return nil, types.QueryErrorf(types.ErrTypeMismatch,
				"Invalid type for column %q. Expected %s", column, ct)
		}
		v, err := coerce.Convert(raw_values[i], ct)
		if err != nil {
			return nil, err
		}
		record.Set(column, v)
	}
	return record, nil
}

// Select returns the records matching where, in their original order.
// A nil predicate returns records as is.
func Select(records []types.Record, where *clause.Predicate) []types.Record {
	if where == nil {
		return records
	}
	return pkg.Filter(records, where.Match)
}

// Update applies set to every record matching where and returns the full
// sequence along with the number of column values changed. Matched records are
// copied before being written, so on error records is left untouched.
func Update(records []types.Record, set *clause.SetClause, where *clause.Predicate) ([]types.Record, int, error) {
	updated := make([]types.Record, len(records))
	count := 0
	for i, record := range records {
		if !where.Match(record) {
			updated[i] = record
			continue
		}

		record = types.CloneRecord(record)
		n, err := set.Apply(record)
		if err != nil {
			return records, 0, err
		}
		count += n
		updated[i] = record
	}
	return updated, count, nil
}

// Delete removes the records matching where and returns the rest, in
// order, with the number removed.
func Delete(records []types.Record, where *clause.Predicate) ([]types.Record, int) {
	if where == nil {
		return []types.Record{}, len(records)
	}
	removed, kept := pkg.Partition(records, where.Match)
	return kept, len(removed)
}
