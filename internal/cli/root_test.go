package cli_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/tobsdb/tdblite/internal/cli"
	"gotest.tools/assert"
)

type cliRun struct {
	t    *testing.T
	dir  string
	opts []string
}

func newCliRun(t *testing.T) *cliRun {
	dir := t.TempDir()
	return &cliRun{t, dir, []string{
		"--data-dir", filepath.Join(dir, "data"),
		"--meta-file", filepath.Join(dir, "db_meta.json"),
		"--log-level", "none",
	}}
}

func (r *cliRun) exec(stdin string, args ...string) (string, string, error) {
	cmd := NewRootCmd()
	var out, err_out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&err_out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(append([]string{}, r.opts...), args...))
	err := cmd.Execute()
	return out.String(), err_out.String(), err
}

func (r *cliRun) mustExec(args ...string) string {
	r.t.Helper()
	out, _, err := r.exec("", args...)
	assert.NilError(r.t, err)
	return out
}

func TestRootCommands(t *testing.T) {
	r := newCliRun(t)

	out := r.mustExec("create_table", "t", "a:int", "b:str")
	assert.Equal(t, out, "Table \"t\" created with columns: ID:int, a:int, b:str\n")

	out = r.mustExec("insert", "t", "--", "-5", "hello world")
	assert.Equal(t, out, "Record with ID=1 inserted into table \"t\".\n")
	r.mustExec("insert", "t", "7", "x")

	out = r.mustExec("select", "t", "WHERE a < 0")
	assert.Assert(t, strings.Contains(out, "hello world"), out)
	assert.Assert(t, strings.Contains(out, "(1 rows)"), out)

	out = r.mustExec("--output", "json", "select", "t", "WHERE b = x")
	assert.Assert(t, strings.Contains(out, `"b": "x"`), out)

	out = r.mustExec("update", "t", "SET b = y", "WHERE ID = 2")
	assert.Equal(t, out, "Updated 1 fields in table \"t\".\n")

	out = r.mustExec("list_tables")
	assert.Equal(t, out, "Tables:\n- t\n")

	out = r.mustExec("info", "t")
	assert.Equal(t, out, "Table: t\nColumns: ID:int, a:int, b:str\nRecords: 2\n")

	_, _, err := r.exec("", "select", "nope")
	assert.ErrorContains(t, err, `Table "nope" does not exist`)
}

func TestRootConfirmation(t *testing.T) {
	r := newCliRun(t)
	r.mustExec("create_table", "t", "a:int")
	r.mustExec("insert", "t", "1")

	out, err_out, err := r.exec("n\n", "delete", "t")
	assert.NilError(t, err)
	assert.Equal(t, out, "Operation cancelled.\n")
	assert.Equal(t, err_out, `Are you sure you want to perform "delete from t"? [y/n] `)

	out, _, err = r.exec("y\n", "delete", "t")
	assert.NilError(t, err)
	assert.Equal(t, out, "Deleted 1 records from table \"t\".\n")

	out = r.mustExec("--yes", "drop_table", "t")
	assert.Equal(t, out, "Table \"t\" dropped.\n")
}
