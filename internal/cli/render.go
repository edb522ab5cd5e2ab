package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tobsdb/tdblite/internal/command"
	"github.com/tobsdb/tdblite/internal/types"
)

// Renderer prints command results as text tables or JSON.
type Renderer struct {
	w      io.Writer
	format string
}

func NewRenderer(w io.Writer, format string) *Renderer {
	return &Renderer{w: w, format: format}
}

func (r *Renderer) Render(res *command.Result) error {
	if r.format == OutputJSON {
		return r.renderJSON(res)
	}
	if res.Command == command.CommandSelect && res.Table != nil {
		return r.renderTable(res)
	}
	_, err := fmt.Fprintln(r.w, res.Message)
	return err
}

func (r *Renderer) renderTable(res *command.Result) error {
	if len(res.Rows) == 0 {
		_, err := fmt.Fprintln(r.w, "(0 rows)")
		return err
	}

	cols := res.Table.ColumnNames()

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, record := range res.Rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(record, col)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, err := fmt.Fprintf(r.w, "(%d rows)\n", len(res.Rows))
	return err
}

type jsonResult struct {
	Command command.Name   `json:"command"`
	Message string         `json:"message"`
	Columns []string       `json:"columns,omitempty"`
	Rows    any            `json:"rows,omitempty"`
}

func (r *Renderer) renderJSON(res *command.Result) error {
	out := jsonResult{Command: res.Command, Message: res.Message}
	if res.Table != nil {
		out.Columns = res.Table.ColumnNames()
	}
	if res.Command == command.CommandSelect {
		rows := res.Rows
		if rows == nil {
			rows = []types.Record{}
		}
		out.Rows = rows
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatValue(record types.Record, col string) string {
	v, ok := record[col]
	if !ok {
		return "NULL"
	}
	return v.String()
}
