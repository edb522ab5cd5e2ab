package builder

import (
	"path/filepath"
)

const (
	DEFAULT_META_FILE = "db_meta.json"
	DEFAULT_DATA_DIR  = "data"
)

// TDBWriteSettings says where the metadata file and the table files live.
type TDBWriteSettings struct {
	MetaPath string
	DataDir  string
}

func NewWriteSettings(meta_path, data_dir string) *TDBWriteSettings {
	if meta_path == "" {
		meta_path = DEFAULT_META_FILE
	}
	if data_dir == "" {
		data_dir = DEFAULT_DATA_DIR
	}
	return &TDBWriteSettings{MetaPath: filepath.Clean(meta_path), DataDir: filepath.Clean(data_dir)}
}

// SchemaStore reads the current table definitions from disk.
func (w *TDBWriteSettings) SchemaStore() *SchemaStore {
	return LoadSchemaStore(w.MetaPath)
}

func (w *TDBWriteSettings) RecordStore(table *Table) *RecordStore {
	return NewRecordStore(w.DataDir, table)
}
