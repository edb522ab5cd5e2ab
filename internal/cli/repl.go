package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/tobsdb/tdblite/internal/command"
	"github.com/tobsdb/tdblite/internal/query"
)

const PROMPT = "tdblite> "

// LineReader is the part of readline.Instance a Session needs.
type LineReader interface {
	Readline() (string, error)
}

// PromptConfirmer asks a yes/no question through ask and accepts y or yes.
type PromptConfirmer struct {
	ask func(prompt string) (string, error)
}

func NewPromptConfirmer(ask func(prompt string) (string, error)) *PromptConfirmer {
	return &PromptConfirmer{ask: ask}
}

// NewReaderConfirmer prompts on w and reads answers from r.
func NewReaderConfirmer(r io.Reader, w io.Writer) *PromptConfirmer {
	scanner := bufio.NewScanner(r)
	return NewPromptConfirmer(func(prompt string) (string, error) {
		fmt.Fprint(w, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return scanner.Text(), nil
	})
}

func ConfirmPrompt(action string) string {
	return fmt.Sprintf("Are you sure you want to perform %q? [y/n] ", action)
}

func (c *PromptConfirmer) Confirm(action string) bool {
	answer, err := c.ask(ConfirmPrompt(action))
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// Session reads command lines until exit or end of input, printing each
// result or error and carrying on after errors.
type Session struct {
	Reader     LineReader
	Dispatcher *command.Dispatcher
	Renderer   *Renderer
	Err        io.Writer
}

func (s *Session) Run() error {
	for {
		line, err := s.Reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args, err := command.Tokenize(line)
		if err != nil {
			fmt.Fprintf(s.Err, "Error: %v\n", err)
			continue
		}
		if len(args) > 0 && command.Name(strings.ToLower(args[0])) == command.CommandExit {
			return nil
		}

		res, err := s.Dispatcher.Exec(args)
		if err != nil {
			if errors.Is(err, command.ErrUnknownCommand) {
				fmt.Fprintf(s.Err, "Error: %v (type help for commands)\n", err)
			} else {
				fmt.Fprintf(s.Err, "Error: %v\n", err)
			}
			continue
		}
		if err := s.Renderer.Render(res); err != nil {
			return err
		}
	}
}

// newCompleter completes command names and, for commands taking one,
// the names of existing tables.
func newCompleter(engine *query.Engine) *readline.PrefixCompleter {
	tables := readline.PcItemDynamic(func(string) []string {
		return engine.ListTables()
	})

	var items []readline.PrefixCompleterInterface
	for _, name := range command.COMMANDS {
		switch name {
		case command.CommandListTables, command.CommandHelp, command.CommandExit, command.CommandCreateTable:
			items = append(items, readline.PcItem(string(name)))
		default:
			items = append(items, readline.PcItem(string(name), tables))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// RunREPL starts an interactive shell on the terminal.
func RunREPL(cfg *Config, out, err_out io.Writer) error {
	engine := query.NewEngine(cfg.WriteSettings())

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          PROMPT,
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    newCompleter(engine),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer rl.Close()

	var confirm command.Confirmer
	if cfg.Confirm {
		confirm = NewPromptConfirmer(func(prompt string) (string, error) {
			rl.SetPrompt(prompt)
			defer rl.SetPrompt(PROMPT)
			return rl.Readline()
		})
	}

	fmt.Fprintf(out, "tdblite shell (meta: %s, data: %s)\n", engine.Settings().MetaPath, engine.Settings().DataDir)
	fmt.Fprintln(out, "Type help for commands, exit to quit")

	session := &Session{
		Reader:     rl,
		Dispatcher: command.NewDispatcher(engine, confirm),
		Renderer:   NewRenderer(out, cfg.Output),
		Err:        err_out,
	}
	return session.Run()
}
