package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/tobsdb/tdblite/internal/types"
	"github.com/tobsdb/tdblite/pkg"
)

// RecordStore persists the records of a single table to one file,
// rewritten whole on every save.
type RecordStore struct {
	dir   string
	table *Table
}

func NewRecordStore(dir string, table *Table) *RecordStore {
	return &RecordStore{dir: dir, table: table}
}

func (s *RecordStore) Path() string {
	return filepath.Join(s.dir, s.table.Name+".json")
}

// Load reads the table's records. A missing or corrupt file yields no
// records. The result is always in ascending ID order, whatever order the
// file holds them in; rows without an integer ID or with an ID seen
// before are skipped.
func (s *RecordStore) Load() []types.Record {
	buf, err := os.ReadFile(s.Path())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			pkg.WarnLog("failed to read table file;", err)
		}
		return []types.Record{}
	}

	var raw []types.Record
	if err := json.Unmarshal(buf, &raw); err != nil {
		pkg.WarnLog("ignoring corrupt table file", s.Path(), err)
		return []types.Record{}
	}

	rows := NewRows()
	for _, record := range raw {
		if !rows.Insert(record) {
			pkg.WarnLog("skipping row with missing or duplicate ID in", s.Path())
		}
	}
	return rows.Records()
}

// Save overwrites the table file with records.
func (s *RecordStore) Save(records []types.Record) error {
	data, err := s.encode(records)
	if err != nil {
		return types.PersistenceError("encoding table "+s.table.Name, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return types.PersistenceError("creating data directory", err)
	}

	if err := os.WriteFile(s.Path(), data, 0644); err != nil {
		return types.PersistenceError("writing table "+s.table.Name, err)
	}
	return nil
}

// Remove deletes the table file. A missing file is not an error.
func (s *RecordStore) Remove() error {
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return types.PersistenceError("removing table "+s.table.Name, err)
	}
	return nil
}

// NextId is one more than the largest ID in records, or 1 when empty.
// IDs of deleted records are not reused.
func NextId(records []types.Record) int {
	max_id := 0
	for _, r := range records {
		if id := types.GetPrimaryKey(r); id > max_id {
			max_id = id
		}
	}
	return max_id + 1
}

// encode writes each record with its keys in schema order, followed by
// any keys the schema doesn't know in sorted order.
func (s *RecordStore) encode(records []types.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, record := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, key := range s.keyOrder(record) {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeJSONKey(&buf, key)
			v, err := json.Marshal(record[key])
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (s *RecordStore) keyOrder(record types.Record) []string {
	keys := pkg.Filter(s.table.ColumnNames(), record.Has)
	extra := pkg.Filter(record.Keys(), func(k string) bool { return !s.table.Columns.Has(k) })
	slices.Sort(extra)
	return append(keys, extra...)
}
