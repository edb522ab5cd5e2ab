package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tobsdb/tdblite/internal/types"
	"github.com/tobsdb/tdblite/pkg"
)

// SchemaStore owns every table definition, keyed by table name in
// creation order, and persists them to a single metadata file.
type SchemaStore struct {
	path   string
	Tables *pkg.InsertSortMap[string, *Table]
}

func NewSchemaStore(path string) *SchemaStore {
	return &SchemaStore{path: path, Tables: pkg.NewInsertSortMap[string, *Table]()}
}

// LoadSchemaStore reads the metadata file at path. A missing or corrupt
// file yields an empty store.
func LoadSchemaStore(path string) *SchemaStore {
	s := NewSchemaStore(path)
	s.Reload()
	return s
}

func (s *SchemaStore) Path() string { return s.path }

// Reload replaces the in-memory definitions with the ones on disk.
func (s *SchemaStore) Reload() {
	s.Tables = pkg.NewInsertSortMap[string, *Table]()
	if s.path == "" {
		return
	}

	buf, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			pkg.WarnLog("failed to read metadata file;", err)
		}
		return
	}

	tables, err := decodeTables(buf)
	if err != nil {
		pkg.WarnLog("ignoring corrupt metadata file", s.path, err)
		return
	}
	s.Tables = tables
	pkg.DebugLog("loaded metadata from file", s.path)
}

func (s *SchemaStore) Create(name string, column_defs []string) (*Table, error) {
	if s.Tables.Has(name) {
		return nil, types.QueryErrorf(types.ErrTableExists, "Table %q already exists", name)
	}

	table, err := ParseTable(name, column_defs)
	if err != nil {
		return nil, err
	}

	s.Tables.Push(name, table)
	return table, nil
}

func (s *SchemaStore) Drop(name string) error {
	if !s.Tables.Has(name) {
		return tableNotFoundError(name)
	}
	s.Tables.Delete(name)
	return nil
}

func (s *SchemaStore) Get(name string) (*Table, error) {
	table, ok := s.Tables.Lookup(name)
	if !ok {
		return nil, tableNotFoundError(name)
	}
	return table, nil
}

func (s *SchemaStore) List() []string { return s.Tables.Keys() }

func (s *SchemaStore) Exists(name string) bool { return s.Tables.Has(name) }

func (s *SchemaStore) WriteToFile() error {
	if s.path == "" {
		return nil
	}

	data, err := s.MarshalJSON()
	if err != nil {
		return types.PersistenceError("encoding metadata", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return types.PersistenceError("creating metadata directory", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return types.PersistenceError("writing metadata", err)
	}
	return nil
}

// MarshalJSON encodes table -> column -> type, keeping both the table and
// column order.
func (s *SchemaStore) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.Tables.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONKey(&buf, name)

		table := s.Tables.Get(name)
		buf.WriteByte('{')
		for j, col := range table.Columns.Keys() {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeJSONKey(&buf, col)
			v, _ := json.Marshal(string(table.Columns.Get(col)))
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSONKey(buf *bytes.Buffer, key string) {
	k, _ := json.Marshal(key)
	buf.Write(k)
	buf.WriteByte(':')
}

func decodeTables(buf []byte) (*pkg.InsertSortMap[string, *Table], error) {
	tables := pkg.NewInsertSortMap[string, *Table]()
	d := json.NewDecoder(bytes.NewReader(buf))

	err := decodeObject(d, func(name string) error {
		table := &Table{Name: name, Columns: pkg.NewInsertSortMap[string, types.ColumnType]()}
		err := decodeObject(d, func(col string) error {
			var raw string
			if err := d.Decode(&raw); err != nil {
				return err
			}
			ct, err := types.ParseColumnType(raw)
			if err != nil {
				return fmt.Errorf("table %s column %s: %w", name, col, err)
			}
			table.Columns.Push(col, ct)
			return nil
		})
		if err != nil {
			return err
		}
		if ct, ok := table.Columns.Lookup(types.SYS_PRIMARY_KEY); !ok || ct != types.ColumnTypeInt {
			return fmt.Errorf("table %s has no %s:int column", name, types.SYS_PRIMARY_KEY)
		}
		tables.Push(name, table)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := d.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after metadata object")
	}
	return tables, nil
}

// decodeObject walks the keys of a JSON object in document order, calling
// f to consume each value.
func decodeObject(d *json.Decoder, f func(key string) error) error {
	tok, err := d.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for d.More() {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := f(key); err != nil {
			return err
		}
	}

	_, err = d.Token()
	return err
}

func tableNotFoundError(name string) error {
	return types.QueryErrorf(types.ErrTableNotFound, "Table %q does not exist", name)
}
