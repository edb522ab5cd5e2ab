package query

import (
	"github.com/tobsdb/tdblite/internal/builder"
	"github.com/tobsdb/tdblite/internal/clause"
	"github.com/tobsdb/tdblite/internal/types"
	"github.com/tobsdb/tdblite/pkg"
)

// Engine runs table commands against the files described by its write
// settings. Every call reads the current schema and records from disk,
// works in memory and writes the full result back; nothing is cached
// between calls. There is no locking: two processes writing the same
// files concurrently will overwrite each other's changes.
type Engine struct {
	settings *builder.TDBWriteSettings
}

func NewEngine(settings *builder.TDBWriteSettings) *Engine {
	return &Engine{settings: settings}
}

func (e *Engine) Settings() *builder.TDBWriteSettings { return e.settings }

func (e *Engine) CreateTable(name string, column_defs []string) (*builder.Table, error) {
	schemas := e.settings.SchemaStore()
	table, err := schemas.Create(name, column_defs)
	if err != nil {
		return nil, err
	}

	records := e.settings.RecordStore(table)
	if err := records.Save([]types.Record{}); err != nil {
		return nil, err
	}
	if err := schemas.WriteToFile(); err != nil {
		if rm_err := records.Remove(); rm_err != nil {
			pkg.ErrorLog(rm_err)
		}
		return nil, err
	}

	pkg.InfoLog("created table", name, "with columns", table.String())
	return table, nil
}

func (e *Engine) ListTables() []string {
	return e.settings.SchemaStore().List()
}

// Table returns the schema of an existing table.
func (e *Engine) Table(name string) (*builder.Table, error) {
	return e.settings.SchemaStore().Get(name)
}

// DropTable removes the table definition and its records file. Once the
// definition is written the drop is done; failing to remove the records
// file is only logged.
func (e *Engine) DropTable(name string) error {
	schemas := e.settings.SchemaStore()
	table, err := schemas.Get(name)
	if err != nil {
		return err
	}

	if err := schemas.Drop(name); err != nil {
		return err
	}
	if err := schemas.WriteToFile(); err != nil {
		return err
	}

	pkg.InfoLog("dropped table", name)
	if err := e.settings.RecordStore(table).Remove(); err != nil {
		pkg.ErrorLog("table", name, "dropped but its records file was left behind;", err)
	}
	return nil
}

// Insert appends one record built from raw values given in column order
// and returns it with its assigned ID.
func (e *Engine) Insert(name string, raw_values []string) (types.Record, error) {
	table, store, err := e.open(name)
	if err != nil {
		return nil, err
	}

	records := store.Load()
	record, err := BuildRecord(table, raw_values, builder.NextId(records))
	if err != nil {
		return nil, err
	}

	if err := store.Save(append(records, record)); err != nil {
		return nil, err
	}
	return record, nil
}

func (e *Engine) Select(name string, where *clause.Predicate) (*builder.Table, []types.Record, error) {
	table, store, err := e.open(name)
	if err != nil {
		return nil, nil, err
	}
	return table, Select(store.Load(), where), nil
}

// Update returns the number of column values changed.
func (e *Engine) Update(name string, set *clause.SetClause, where *clause.Predicate) (int, error) {
	_, store, err := e.open(name)
	if err != nil {
		return 0, err
	}

	records, count, err := Update(store.Load(), set, where)
	if err != nil {
		return 0, err
	}

	if err := store.Save(records); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete returns the number of records removed.
func (e *Engine) Delete(name string, where *clause.Predicate) (int, error) {
	_, store, err := e.open(name)
	if err != nil {
		return 0, err
	}

	kept, removed := Delete(store.Load(), where)
	if err := store.Save(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func (e *Engine) open(name string) (*builder.Table, *builder.RecordStore, error) {
	table, err := e.settings.SchemaStore().Get(name)
	if err != nil {
		return nil, nil, err
	}
	return table, e.settings.RecordStore(table), nil
}
