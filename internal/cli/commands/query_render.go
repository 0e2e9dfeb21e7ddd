package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

// Renderer writes query results in the configured output format.
type Renderer struct {
	w      io.Writer
	format string
}

// NewRenderer creates a renderer for format (table, json, csv, md or yaml).
func NewRenderer(w io.Writer, format string) *Renderer {
	return &Renderer{w: w, format: strings.ToLower(format)}
}

// Result renders a query result. A result carrying an error is returned as one.
func (r *Renderer) Result(res core.Result) error {
	if res.HasError() {
		return fmt.Errorf("query failed: %s", res.Error)
	}

	switch r.format {
	case "json":
		return r.json(res)
	case "yaml":
		return r.yaml(res)
	case "csv":
		if res.IsEmpty() {
			return nil
		}
		r.writer(res.Columns, res.Rows).RenderCSV()
		return nil
	case "md", "markdown":
		if res.IsEmpty() {
			_, _ = fmt.Fprintln(r.w, "(0 rows)")
			return nil
		}
		r.writer(res.Columns, res.Rows).RenderMarkdown()
		return nil
	default:
		return r.table(res)
	}
}

// Tables renders a list of table names.
func (r *Renderer) Tables(tables []string) error {
	switch r.format {
	case "json":
		return r.json(tables)
	case "yaml":
		return r.yaml(tables)
	}

	rows := make([]core.Row, len(tables))
	for i, name := range tables {
		rows[i] = core.Row{name}
	}
	return r.Result(core.Result{Columns: []string{"name"}, Rows: rows})
}

// Columns renders the columns of one table.
func (r *Renderer) Columns(table string, cols []core.Column) error {
	switch r.format {
	case "json":
		return r.json(core.Table{Name: table, Columns: cols})
	case "yaml":
		return r.yaml(core.Table{Name: table, Columns: cols})
	}

	if len(cols) == 0 {
		return fmt.Errorf("table %s not found", table)
	}

	rows := make([]core.Row, len(cols))
	for i, c := range cols {
		rows[i] = core.Row{c.Name, c.DeclaredType, yesNo(c.NotNull), c.Default, yesNo(c.PrimaryKey)}
	}
	return r.Result(core.Result{
		Columns: []string{"column", "type", "not null", "default", "pk"},
		Rows:    rows,
	})
}

func (r *Renderer) table(res core.Result) error {
	if res.IsEmpty() {
		_, _ = fmt.Fprintln(r.w, "OK")
		return nil
	}
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintf(r.w, "%s\n(0 rows)\n", strings.Join(res.Columns, " | "))
		return nil
	}

	t := r.writer(res.Columns, res.Rows)
	t.SetStyle(table.StyleLight)
	t.Render()
	_, _ = fmt.Fprintf(r.w, "(%d rows)\n", len(res.Rows))
	return nil
}

func (r *Renderer) writer(cols []string, rows []core.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rows {
		out := make(table.Row, len(row))
		for i, v := range row {
			out[i] = formatValue(v)
		}
		t.AppendRow(out)
	}
	return t
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) yaml(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(x)) + "'"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
