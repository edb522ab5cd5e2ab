// Package cli provides the tdblite command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tobsdb/tdblite/internal/command"
	"github.com/tobsdb/tdblite/internal/conn"
	"github.com/tobsdb/tdblite/internal/query"
)

var Version = "0.1.0"

type configKey struct{}

func GetConfig(cmd *cobra.Command) *Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*Config); ok {
		return cfg
	}
	return nil
}

func NewRootCmd() *cobra.Command {
	var cfg_file string

	root := &cobra.Command{
		Use:   "tdblite",
		Short: "tdblite - a single-user, file-backed table store",
		Long: `tdblite keeps typed tables in JSON files: one metadata file with the
table definitions and one file of records per table.

Run without a command to start the interactive shell. Values starting
with "-" must follow a "--" argument, e.g. tdblite insert t -- -5.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := LoadConfig(cfg_file, cmd.Flags())
			if err != nil {
				return err
			}
			cfg.ApplyLogLevel()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunREPL(GetConfig(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg_file, "config", "", "config file (default: ./tdblite.yaml)")
	flags.String("data-dir", "", "Directory holding the table files")
	flags.String("meta-file", "", "Path to the table metadata file")
	flags.String("log-level", "", "Log level (none|error|debug)")
	flags.String("history-file", "", "Shell history file")
	flags.BoolP("yes", "y", false, "Don't ask before drop_table and delete")
	flags.StringP("output", "o", "", "Output format (table|json)")

	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{OutputTable, OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newReplCmd())
	root.AddCommand(newServeCmd())
	for _, name := range command.COMMANDS {
		if name == command.CommandExit {
			continue
		}
		root.AddCommand(newDataCmd(name))
	}

	return root
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunREPL(GetConfig(cmd), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

var dataCmdShort = map[command.Name]string{
	command.CommandCreateTable: "Create a table",
	command.CommandListTables:  "List tables",
	command.CommandDropTable:   "Drop a table and its records",
	command.CommandInsert:      "Insert a record",
	command.CommandSelect:      "Select records",
	command.CommandUpdate:      "Update records",
	command.CommandDelete:      "Delete records",
	command.CommandInfo:        "Show a table's columns",
	command.CommandHelp:        "List shell commands",
}

// newDataCmd runs one command non-interactively. Arguments are passed to
// the dispatcher as they are; quote WHERE and SET clauses in the shell.
func newDataCmd(name command.Name) *cobra.Command {
	use := command.Usage(name)
	if name == command.CommandHelp {
		use = "commands"
	}

	return &cobra.Command{
		Use:   use,
		Short: dataCmdShort[name],
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd)
			engine := query.NewEngine(cfg.WriteSettings())

			var confirm command.Confirmer
			if cfg.Confirm {
				confirm = NewReaderConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
			}

			d := command.NewDispatcher(engine, confirm)
			res, err := d.Exec(append([]string{string(name)}, args...))
			if err != nil {
				return err
			}
			return NewRenderer(cmd.OutOrStdout(), cfg.Output).Render(res)
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve commands over websocket connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd)
			user, err := cfg.ServerUser()
			if err != nil {
				return err
			}

			s := conn.NewServer(query.NewEngine(cfg.WriteSettings()), user)
			return s.Listen(cmd.Context(), cfg.Addr)
		},
	}
	cmd.Flags().String("addr", "", fmt.Sprintf("Listen address (default %s)", DEFAULT_ADDR))
	return cmd
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
