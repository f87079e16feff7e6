package repl

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/leengari/recordstore/internal/domain/data"
	"github.com/leengari/recordstore/internal/domain/schema"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(header)
	return tw
}

// PrintList renders names as a one-column table
func PrintList(w io.Writer, header string, names []string) {
	tw := newTable(w, header)
	for _, name := range names {
		tw.Append([]string{name})
	}
	tw.Render()
}

// PrintSchema renders one line per field, in schema order
func PrintSchema(w io.Writer, s schema.Schema) {
	tw := newTable(w, "FIELD", "TYPE")
	for _, col := range s.Columns {
		tw.Append([]string{col.Name, col.Type.String()})
	}
	tw.Render()
}

// PrintRows renders rows with the schema's fields as columns. withIndex
// adds the position used by delete-row.
func PrintRows(w io.Writer, s schema.Schema, rows []data.Row, withIndex bool) {
	fields := s.Names()
	header := fields
	if withIndex {
		header = append([]string{"#"}, fields...)
	}

	tw := newTable(w, header...)
	for i, row := range rows {
		line := make([]string, 0, len(header))
		if withIndex {
			line = append(line, strconv.Itoa(i))
		}
		for _, f := range fields {
			line = append(line, row.Data[f])
		}
		tw.Append(line)
	}
	tw.Render()
}
