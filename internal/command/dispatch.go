package command

import (
	"fmt"
	"strings"

	"github.com/tobsdb/tdblite/internal/clause"
	"github.com/tobsdb/tdblite/internal/query"
	"github.com/tobsdb/tdblite/internal/types"
	"github.com/tobsdb/tdblite/pkg"
)

// Confirmer asks the user before a destructive command runs.
type Confirmer interface {
	Confirm(action string) bool
}

type ConfirmFunc func(action string) bool

func (f ConfirmFunc) Confirm(action string) bool { return f(action) }

const CANCELLED_MESSAGE = "Operation cancelled."

type Dispatcher struct {
	engine  *query.Engine
	confirm Confirmer
}

// NewDispatcher returns a dispatcher running commands on engine. A nil
// confirm runs destructive commands without asking.
func NewDispatcher(engine *query.Engine, confirm Confirmer) *Dispatcher {
	return &Dispatcher{engine: engine, confirm: confirm}
}

func (d *Dispatcher) Engine() *query.Engine { return d.engine }

// ExecLine tokenizes line and runs it.
func (d *Dispatcher) ExecLine(line string) (*Result, error) {
	args, err := Tokenize(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUsage, err)
	}
	return d.Exec(args)
}

// Exec runs one tokenized command: the command name followed by its
// arguments. Errors leave storage as it was before the call.
func (d *Dispatcher) Exec(args []string) (res *Result, err error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrUsage)
	}

	name := Name(strings.ToLower(args[0]))
	args = args[1:]

	run, ok := d.handlers()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	pkg.TimeLog(string(name), func() {
		res, err = run(args)
	})
	if res != nil {
		res.Command = name
	}
	return res, err
}

func (d *Dispatcher) handlers() map[Name]func(args []string) (*Result, error) {
	return map[Name]func(args []string) (*Result, error){
		CommandCreateTable: d.createTable,
		CommandListTables:  d.listTables,
		CommandDropTable:   d.dropTable,
		CommandInsert:      d.insert,
		CommandSelect:      d.selectRows,
		CommandUpdate:      d.update,
		CommandDelete:      d.delete,
		CommandInfo:        d.info,
		CommandHelp:        d.help,
	}
}

func (d *Dispatcher) createTable(args []string) (*Result, error) {
	if len(args) < 2 {
		return nil, usageError(CommandCreateTable)
	}
	table, err := d.engine.CreateTable(args[0], args[1:])
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Table %q created with columns: %s", table.Name, table.String())}, nil
}

func (d *Dispatcher) listTables(args []string) (*Result, error) {
	if len(args) != 0 {
		return nil, usageError(CommandListTables)
	}
	names := d.engine.ListTables()
	if len(names) == 0 {
		return &Result{Message: "No tables in the database."}, nil
	}

	var b strings.Builder
	b.WriteString("Tables:")
	for _, name := range names {
		fmt.Fprintf(&b, "\n- %s", name)
	}
	return &Result{Message: b.String()}, nil
}

func (d *Dispatcher) dropTable(args []string) (*Result, error) {
	if len(args) != 1 {
		return nil, usageError(CommandDropTable)
	}
	name := args[0]
	if _, err := d.engine.Table(name); err != nil {
		return nil, err
	}
	if !d.confirmed(fmt.Sprintf("drop table %s", name)) {
		return &Result{Message: CANCELLED_MESSAGE}, nil
	}

	if err := d.engine.DropTable(name); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Table %q dropped.", name)}, nil
}

func (d *Dispatcher) insert(args []string) (*Result, error) {
	if len(args) < 1 {
		return nil, usageError(CommandInsert)
	}
	record, err := d.engine.Insert(args[0], args[1:])
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Record with ID=%d inserted into table %q.", types.GetPrimaryKey(record), args[0])}, nil
}

func (d *Dispatcher) selectRows(args []string) (*Result, error) {
	if len(args) < 1 {
		return nil, usageError(CommandSelect)
	}
	where, err := parseWhereArgs(args[1:])
	if err != nil {
		return nil, err
	}

	table, rows, err := d.engine.Select(args[0], where)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("Found %d records in table %q.", len(rows), table.Name),
		Table:   table,
		Rows:    rows,
	}, nil
}

func (d *Dispatcher) update(args []string) (*Result, error) {
	if len(args) < 2 {
		return nil, usageError(CommandUpdate)
	}
	set_args, where_args := splitWhere(args[1:])

	set, err := clause.ParseSet(strings.Join(set_args, " "))
	if err != nil {
		return nil, err
	}
	where, err := parseWhereArgs(where_args)
	if err != nil {
		return nil, err
	}

	count, err := d.engine.Update(args[0], set, where)
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Updated %d fields in table %q.", count, args[0])}, nil
}

func (d *Dispatcher) delete(args []string) (*Result, error) {
	if len(args) < 1 {
		return nil, usageError(CommandDelete)
	}
	name := args[0]
	where, err := parseWhereArgs(args[1:])
	if err != nil {
		return nil, err
	}
	if _, err := d.engine.Table(name); err != nil {
		return nil, err
	}
	if !d.confirmed(fmt.Sprintf("delete from %s", name)) {
		return &Result{Message: CANCELLED_MESSAGE}, nil
	}

	removed, err := d.engine.Delete(name, where)
	if err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Deleted %d records from table %q.", removed, name)}, nil
}

func (d *Dispatcher) info(args []string) (*Result, error) {
	if len(args) != 1 {
		return nil, usageError(CommandInfo)
	}
	table, rows, err := d.engine.Select(args[0], nil)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("Table: %s\nColumns: %s\nRecords: %d", table.Name, table.String(), len(rows)),
		Table:   table,
	}, nil
}

func (d *Dispatcher) help(args []string) (*Result, error) {
	return &Result{Message: HelpText()}, nil
}

func (d *Dispatcher) confirmed(action string) bool {
	return d.confirm == nil || d.confirm.Confirm(action)
}

// parseWhereArgs parses the arguments following a table name or SET
// clause. No arguments selects every record; blank ones are an error.
func parseWhereArgs(args []string) (*clause.Predicate, error) {
	if len(args) == 0 {
		return nil, nil
	}
	condition := strings.Join(args, " ")
	if strings.TrimSpace(condition) == "" {
		return nil, types.QueryErrorf(types.ErrInvalidPredicateSyntax,
			"Invalid WHERE condition %q. Use: %s", condition, clause.WHERE_PATTERN)
	}
	return clause.ParseWhere(condition)
}

// splitWhere splits arguments at the WHERE keyword: either a lone
// "WHERE" token or a single "WHERE <condition>" token holding an
// operator. Quoted values that merely start with the word stay put.
func splitWhere(args []string) (before, after []string) {
	for i, arg := range args {
		if isWhereArg(arg) {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

func isWhereArg(arg string) bool {
	fields := strings.Fields(arg)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "where") {
		return false
	}
	if len(fields) == 1 {
		return strings.EqualFold(arg, "where")
	}
	return clause.HasOperator(arg)
}
