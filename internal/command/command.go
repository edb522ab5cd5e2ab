// Package command executes tokenized commands against a query.Engine.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/tobsdb/tdblite/internal/builder"
	"github.com/tobsdb/tdblite/internal/types"
)

type Name string

const (
	CommandCreateTable Name = "create_table"
	CommandListTables  Name = "list_tables"
	CommandDropTable   Name = "drop_table"
	CommandInsert      Name = "insert"
	CommandSelect      Name = "select"
	CommandUpdate      Name = "update"
	CommandDelete      Name = "delete"
	CommandInfo        Name = "info"
	CommandHelp        Name = "help"
	CommandExit        Name = "exit"
)

var COMMANDS = []Name{
	CommandCreateTable, CommandListTables, CommandDropTable,
	CommandInsert, CommandSelect, CommandUpdate, CommandDelete,
	CommandInfo, CommandHelp, CommandExit,
}

// IsReadOnly reports whether the command never writes to storage.
func (n Name) IsReadOnly() bool {
	switch n {
	case CommandListTables, CommandSelect, CommandInfo, CommandHelp, CommandExit:
		return true
	}
	return false
}

var usage = map[Name]string{
	CommandCreateTable: "create_table <name> <column:type> ...",
	CommandListTables:  "list_tables",
	CommandDropTable:   "drop_table <name>",
	CommandInsert:      "insert <name> <value> ...",
	CommandSelect:      "select <name> [WHERE <column> <op> <value>]",
	CommandUpdate:      "update <name> SET <column>=<value>[, ...] [WHERE <column> <op> <value>]",
	CommandDelete:      "delete <name> [WHERE <column> <op> <value>]",
	CommandInfo:        "info <name>",
	CommandHelp:        "help",
	CommandExit:        "exit",
}

func Usage(n Name) string { return usage[n] }

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

func usageError(n Name) error {
	return fmt.Errorf("%w: %s", ErrUsage, usage[n])
}

// Result is what a command produced. Table and Rows are set by select.
type Result struct {
	Command Name
	Message string
	Table   *builder.Table
	Rows    []types.Record
}

// Tokenize splits a command line the way a shell would, honouring quotes.
func Tokenize(line string) ([]string, error) {
	return shlex.Split(line)
}

// HelpText lists every command with its usage.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, n := range COMMANDS {
		fmt.Fprintf(&b, "  %s\n", usage[n])
	}
	b.WriteString("\nOperators: =, <, >, <=, >=. Types: int, str, bool.")
	return b.String()
}
