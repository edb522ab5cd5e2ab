package query_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tobsdb/tdblite/internal/builder"
	"github.com/tobsdb/tdblite/internal/clause"
	. "github.com/tobsdb/tdblite/internal/query"
	"github.com/tobsdb/tdblite/internal/types"
	"gotest.tools/assert"
)

func newTestEngine(t *testing.T) *Engine {
	dir := t.TempDir()
	return NewEngine(builder.NewWriteSettings(filepath.Join(dir, "db_meta.json"), filepath.Join(dir, "data")))
}

func newUsersEngine(t *testing.T) *Engine {
	e := newTestEngine(t)
	_, err := e.CreateTable("users", []string{"name:str", "age:int", "active:bool"})
	assert.NilError(t, err)
	return e
}

func TestEngineCreateTable(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		e := newTestEngine(t)
		table, err := e.CreateTable("t", []string{"a:int", "b:str"})

		assert.NilError(t, err)
		assert.DeepEqual(t, e.ListTables(), []string{"t"})
		assert.Equal(t, table.String(), "ID:int, a:int, b:str")

		_, records, err := e.Select("t", nil)
		assert.NilError(t, err)
		assert.Equal(t, len(records), 0)

		_, err = os.Stat(filepath.Join(e.Settings().DataDir, "t.json"))
		assert.NilError(t, err)
	})

	t.Run("twice", func(t *testing.T) {
		e := newTestEngine(t)
		_, err := e.CreateTable("t", []string{"a:int", "b:str"})
		assert.NilError(t, err)

		_, err = e.CreateTable("t", []string{"c:bool"})
		assert.Assert(t, types.IsKind(err, types.ErrTableExists))

		table, err := e.Table("t")
		assert.NilError(t, err)
		assert.Equal(t, table.String(), "ID:int, a:int, b:str")
	})

	t.Run("invalid definition", func(t *testing.T) {
		e := newTestEngine(t)
		_, err := e.CreateTable("t", []string{"a int"})
		assert.Assert(t, types.IsKind(err, types.ErrInvalidColumnDefinition))
		assert.Equal(t, len(e.ListTables()), 0)
	})
}

func TestEngineDropTable(t *testing.T) {
	e := newUsersEngine(t)
	e.Insert("users", []string{"John", "25", "true"})

	assert.NilError(t, e.DropTable("users"))
	assert.Equal(t, len(e.ListTables()), 0)

	_, err := os.Stat(filepath.Join(e.Settings().DataDir, "users.json"))
	assert.Assert(t, os.IsNotExist(err))

	err = e.DropTable("users")
	assert.Assert(t, types.IsKind(err, types.ErrTableNotFound))

	// a recreated table starts empty
	_, err = e.CreateTable("users", []string{"name:str"})
	assert.NilError(t, err)
	_, records, _ := e.Select("users", nil)
	assert.Equal(t, len(records), 0)
}

func TestEngineDropTableKeepsRecordsFile(t *testing.T) {
	e := newUsersEngine(t)

	// a non-empty directory in place of the records file cannot be removed
	path := filepath.Join(e.Settings().DataDir, "users.json")
	assert.NilError(t, os.Remove(path))
	assert.NilError(t, os.MkdirAll(filepath.Join(path, "keep"), 0755))

	assert.NilError(t, e.DropTable("users"))
	assert.Equal(t, len(e.ListTables()), 0)

	_, err := e.Table("users")
	assert.Assert(t, types.IsKind(err, types.ErrTableNotFound))
}

func TestEngineInsert(t *testing.T) {
	t.Run("ids", func(t *testing.T) {
		e := newUsersEngine(t)
		for i := 1; i <= 3; i++ {
			r, err := e.Insert("users", []string{"John", "25", "true"})
			assert.NilError(t, err)
			assert.Equal(t, types.GetPrimaryKey(r), i)
		}

		removed, err := e.Delete("users", nil)
		assert.NilError(t, err)
		assert.Equal(t, removed, 3)

		r, err := e.Insert("users", []string{"Ann", "30", "false"})
		assert.NilError(t, err)
		assert.Equal(t, types.GetPrimaryKey(r), 1)
	})

	t.Run("ids are not reused after deleting the last", func(t *testing.T) {
		e := newUsersEngine(t)
		e.Insert("users", []string{"a", "1", "true"})
		e.Insert("users", []string{"b", "2", "true"})
		e.Insert("users", []string{"c", "3", "true"})
		e.Delete("users", where(t, "ID = 2"))

		r, err := e.Insert("users", []string{"d", "4", "true"})
		assert.NilError(t, err)
		assert.Equal(t, types.GetPrimaryKey(r), 4)
	})

	t.Run("unknown table", func(t *testing.T) {
		e := newTestEngine(t)
		_, err := e.Insert("nope", []string{"1"})
		assert.Assert(t, types.IsKind(err, types.ErrTableNotFound))
	})

	t.Run("column count mismatch appends nothing", func(t *testing.T) {
		e := newTestEngine(t)
		e.CreateTable("t", []string{"a:int", "b:str"})
		_, err := e.Insert("t", []string{"1"})
		assert.Assert(t, types.IsKind(err, types.ErrColumnCountMismatch))

		_, records, _ := e.Select("t", nil)
		assert.Equal(t, len(records), 0)
	})

	t.Run("type mismatch appends nothing", func(t *testing.T) {
		e := newTestEngine(t)
		e.CreateTable("t", []string{"a:int", "b:str"})
		_, err := e.Insert("t", []string{"abc", "x"})
		assert.Assert(t, types.IsKind(err, types.ErrTypeMismatch))

		_, records, _ := e.Select("t", nil)
		assert.Equal(t, len(records), 0)
	})
}

func TestEngineSelectUpdateDelete(t *testing.T) {
	e := newUsersEngine(t)
	e.Insert("users", []string{"John", "19", "true"})
	e.Insert("users", []string{"Ann", "34", "true"})
	e.Insert("users", []string{"John", "22", "true"})

	_, found, err := e.Select("users", where(t, "WHERE age > 20"))
	assert.NilError(t, err)
	assert.Equal(t, len(found), 2)
	assert.Equal(t, types.GetPrimaryKey(found[0]), 2)
	assert.Equal(t, types.GetPrimaryKey(found[1]), 3)

	set, _ := clause.ParseSet("SET active = false")
	count, err := e.Update("users", set, where(t, "name = John"))
	assert.NilError(t, err)
	assert.Equal(t, count, 2)

	_, inactive, _ := e.Select("users", where(t, "active = false"))
	assert.Equal(t, len(inactive), 2)

	set, _ = clause.ParseSet("SET age = old")
	_, err = e.Update("users", set, nil)
	assert.Assert(t, types.IsKind(err, types.ErrTypeMismatch))
	_, all, _ := e.Select("users", nil)
	assert.Equal(t, all[1].Get("age"), types.IntValue(34))

	removed, err := e.Delete("users", where(t, "age < 0"))
	assert.NilError(t, err)
	assert.Equal(t, removed, 0)

	removed, err = e.Delete("users", where(t, "name = John"))
	assert.NilError(t, err)
	assert.Equal(t, removed, 2)

	_, rest, _ := e.Select("users", nil)
	assert.Equal(t, len(rest), 1)
	assert.Equal(t, rest[0].Get("name"), types.TextValue("Ann"))
}

func TestEngineRereadsStorage(t *testing.T) {
	e := newUsersEngine(t)
	other := NewEngine(e.Settings())

	_, err := other.Insert("users", []string{"John", "25", "true"})
	assert.NilError(t, err)

	_, records, err := e.Select("users", nil)
	assert.NilError(t, err)
	assert.Equal(t, len(records), 1)
}
