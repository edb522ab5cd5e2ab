package command_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tobsdb/tdblite/internal/builder"
	. "github.com/tobsdb/tdblite/internal/command"
	"github.com/tobsdb/tdblite/internal/query"
	"github.com/tobsdb/tdblite/internal/types"
	"gotest.tools/assert"
)

func newTestDispatcher(t *testing.T, confirm Confirmer) *Dispatcher {
	dir := t.TempDir()
	settings := builder.NewWriteSettings(filepath.Join(dir, "db_meta.json"), filepath.Join(dir, "data"))
	return NewDispatcher(query.NewEngine(settings), confirm)
}

func exec(t *testing.T, d *Dispatcher, line string) *Result {
	t.Helper()
	res, err := d.ExecLine(line)
	assert.NilError(t, err)
	return res
}

func TestDispatcherSession(t *testing.T) {
	d := newTestDispatcher(t, nil)

	res := exec(t, d, "create_table users name:str age:int active:bool")
	assert.Equal(t, res.Command, CommandCreateTable)
	assert.Equal(t, res.Message, `Table "users" created with columns: ID:int, name:str, age:int, active:bool`)

	res = exec(t, d, `insert users "John Doe" 30 true`)
	assert.Equal(t, res.Message, `Record with ID=1 inserted into table "users".`)
	res = exec(t, d, "insert users Jane 25 no")
	assert.Equal(t, res.Message, `Record with ID=2 inserted into table "users".`)

	res = exec(t, d, "select users WHERE age > 26")
	assert.Equal(t, len(res.Rows), 1)
	assert.Equal(t, res.Rows[0].Get("name").Text(), "John Doe")
	assert.DeepEqual(t, res.Table.ColumnNames(), []string{"ID", "name", "age", "active"})

	res = exec(t, d, `update users SET name = "Jane Doe", active = yes WHERE ID = 2`)
	assert.Equal(t, res.Message, `Updated 2 fields in table "users".`)

	res = exec(t, d, "select users where active = true")
	assert.Equal(t, len(res.Rows), 2)
	assert.Equal(t, res.Rows[1].Get("name").Text(), "Jane Doe")

	res = exec(t, d, "delete users WHERE age <= 25")
	assert.Equal(t, res.Message, `Deleted 1 records from table "users".`)

	res = exec(t, d, "info users")
	assert.Equal(t, res.Message, "Table: users\nColumns: ID:int, name:str, age:int, active:bool\nRecords: 1")

	res = exec(t, d, "list_tables")
	assert.Equal(t, res.Message, "Tables:\n- users")

	res = exec(t, d, "drop_table users")
	assert.Equal(t, res.Message, `Table "users" dropped.`)

	res = exec(t, d, "list_tables")
	assert.Equal(t, res.Message, "No tables in the database.")
}

func TestDispatcherErrors(t *testing.T) {
	d := newTestDispatcher(t, nil)
	exec(t, d, "create_table t a:int b:str")

	t.Run("unknown command", func(t *testing.T) {
		_, err := d.ExecLine("frobnicate t")
		assert.Assert(t, errors.Is(err, ErrUnknownCommand))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := d.Exec(nil)
		assert.Assert(t, errors.Is(err, ErrUsage))
	})

	t.Run("unbalanced quotes", func(t *testing.T) {
		_, err := d.ExecLine(`insert t 1 "x`)
		assert.Assert(t, errors.Is(err, ErrUsage))
	})

	t.Run("usage", func(t *testing.T) {
		_, err := d.ExecLine("create_table t")
		assert.Assert(t, errors.Is(err, ErrUsage))
		assert.ErrorContains(t, err, Usage(CommandCreateTable))

		_, err = d.ExecLine("drop_table")
		assert.Assert(t, errors.Is(err, ErrUsage))
	})

	t.Run("query errors pass through", func(t *testing.T) {
		_, err := d.ExecLine("insert t 1")
		assert.Assert(t, types.IsKind(err, types.ErrColumnCountMismatch))

		_, err = d.ExecLine("insert t x y")
		assert.Assert(t, types.IsKind(err, types.ErrTypeMismatch))

		_, err = d.ExecLine("select nope")
		assert.Assert(t, types.IsKind(err, types.ErrTableNotFound))

		_, err = d.ExecLine("select t WHERE a ! 1")
		assert.Assert(t, types.IsKind(err, types.ErrInvalidPredicateSyntax))

		_, err = d.ExecLine("update t WHERE a = 1")
		assert.Assert(t, types.IsKind(err, types.ErrInvalidSetSyntax))
	})

	t.Run("case insensitive command", func(t *testing.T) {
		res, err := d.ExecLine("LIST_TABLES")
		assert.NilError(t, err)
		assert.Equal(t, res.Command, CommandListTables)
	})
}

func TestDispatcherWhereKeyword(t *testing.T) {
	d := newTestDispatcher(t, nil)
	exec(t, d, "create_table t a:int note:str")
	exec(t, d, "insert t 1 x")
	exec(t, d, "insert t 2 y")
	exec(t, d, "insert t 3 z")

	t.Run("keyword without condition", func(t *testing.T) {
		for _, line := range []string{
			"delete t WHERE",
			"update t SET a = 9 WHERE",
			"select t WHERE",
		} {
			_, err := d.ExecLine(line)
			assert.Assert(t, types.IsKind(err, types.ErrInvalidPredicateSyntax), line)
		}

		res := exec(t, d, "select t")
		assert.Equal(t, len(res.Rows), 3)
		for i, row := range res.Rows {
			assert.Equal(t, row.Get("a").Int(), i+1)
		}
	})

	t.Run("quoted value starting with where", func(t *testing.T) {
		res := exec(t, d, `update t SET note = "where now" WHERE ID = 1`)
		assert.Equal(t, res.Message, `Updated 1 fields in table "t".`)

		res = exec(t, d, `update t SET note = "where now"`)
		assert.Equal(t, res.Message, `Updated 2 fields in table "t".`)

		res = exec(t, d, `select t WHERE note = "where now"`)
		assert.Equal(t, len(res.Rows), 3)
	})

	t.Run("single token condition", func(t *testing.T) {
		res := exec(t, d, `update t SET note = w "where a = 3"`)
		assert.Equal(t, res.Message, `Updated 1 fields in table "t".`)

		res = exec(t, d, "select t WHERE note = w")
		assert.Equal(t, len(res.Rows), 1)
		assert.Equal(t, res.Rows[0].Get("a").Int(), 3)
	})
}

func TestDispatcherConfirm(t *testing.T) {
	var asked []string
	answer := false
	d := newTestDispatcher(t, ConfirmFunc(func(action string) bool {
		asked = append(asked, action)
		return answer
	}))

	exec(t, d, "create_table t a:int")
	exec(t, d, "insert t 1")
	exec(t, d, "insert t 2")

	t.Run("declined", func(t *testing.T) {
		res := exec(t, d, "delete t WHERE a = 1")
		assert.Equal(t, res.Message, CANCELLED_MESSAGE)
		res = exec(t, d, "drop_table t")
		assert.Equal(t, res.Message, CANCELLED_MESSAGE)

		res = exec(t, d, "select t")
		assert.Equal(t, len(res.Rows), 2)
		assert.DeepEqual(t, asked, []string{"delete from t", "drop table t"})
	})

	t.Run("missing table is not confirmed", func(t *testing.T) {
		asked = nil
		_, err := d.ExecLine("drop_table nope")
		assert.Assert(t, types.IsKind(err, types.ErrTableNotFound))
		assert.Equal(t, len(asked), 0)
	})

	t.Run("accepted", func(t *testing.T) {
		answer = true
		res := exec(t, d, "delete t WHERE a = 1")
		assert.Equal(t, res.Message, `Deleted 1 records from table "t".`)
	})

	t.Run("read only commands never ask", func(t *testing.T) {
		asked = nil
		exec(t, d, "select t")
		exec(t, d, "info t")
		assert.Equal(t, len(asked), 0)
	})
}

func TestCommandNames(t *testing.T) {
	assert.Assert(t, CommandSelect.IsReadOnly())
	assert.Assert(t, !CommandInsert.IsReadOnly())
	assert.Assert(t, !CommandDropTable.IsReadOnly())
	for _, n := range COMMANDS {
		assert.Assert(t, Usage(n) != "", n)
	}
}
