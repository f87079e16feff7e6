package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leengari/recordstore/internal/domain/schema"
	"github.com/leengari/recordstore/internal/domain/types"
	"github.com/leengari/recordstore/internal/engine"
)

const help = `Commands:
  ls | list                              list databases
  create <db>                            create a database
  drop <db>                              drop a database
  tables <db>                            list tables
  add-table <db> <table> <field:type>... create a table
  drop-table <db> <table>                delete a table
  schema <db> <table>                    show a table's schema
  rows <db> <table>                      show rows with their index
  insert <db> <table> <field=value>...   add a row; quote values with spaces
  delete-row <db> <table> <index>        delete the row at index
  intersect <db> <left> <right>          rows of left also in right
  help                                   this text
  exit | \q                              leave the shell
`

// Start reads commands from in until EOF or exit and writes results to out
func Start(eng *engine.Engine, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Welcome to recordstore")
	fmt.Fprintln(out, "Type 'help' for commands, 'exit' or '\\q' to quit.")

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "\\q" {
			return
		}

		args, err := SplitArgs(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		if err := Execute(eng, out, args); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

// Execute runs one shell command
func Execute(eng *engine.Engine, out io.Writer, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, args := args[0], args[1:]

	need := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s %s", cmd, usage)
		}
		return nil
	}

	switch cmd {
	case "help":
		fmt.Fprint(out, help)

	case "ls", "list":
		names, err := eng.ListDatabases()
		if err != nil {
			return err
		}
		PrintList(out, "DATABASE", names)

	case "create":
		if err := need(1, "<db>"); err != nil {
			return err
		}
		if err := eng.CreateDatabase(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s created successfully\n", args[0])

	case "drop":
		if err := need(1, "<db>"); err != nil {
			return err
		}
		if err := eng.DropDatabase(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Database %s dropped successfully\n", args[0])

	case "tables":
		if err := need(1, "<db>"); err != nil {
			return err
		}
		names, err := eng.ListTables(args[0])
		if err != nil {
			return err
		}
		PrintList(out, "TABLE", names)

	case "add-table":
		if err := need(3, "<db> <table> <field:type>..."); err != nil {
			return err
		}
		s, err := parseSchema(args[2:])
		if err != nil {
			return err
		}
		if err := eng.AddTable(args[0], args[1], s); err != nil {
			return err
		}
		fmt.Fprintf(out, "Table %s added successfully\n", args[1])

	case "drop-table":
		if err := need(2, "<db> <table>"); err != nil {
			return err
		}
		if err := eng.DeleteTable(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Table %s deleted successfully\n", args[1])

	case "schema":
		if err := need(2, "<db> <table>"); err != nil {
			return err
		}
		s, err := eng.GetSchema(args[0], args[1])
		if err != nil {
			return err
		}
		PrintSchema(out, s)

	case "rows":
		if err := need(2, "<db> <table>"); err != nil {
			return err
		}
		s, err := eng.GetSchema(args[0], args[1])
		if err != nil {
			return err
		}
		rows, err := eng.GetRows(args[0], args[1])
		if err != nil {
			return err
		}
		PrintRows(out, s, rows, true)

	case "insert":
		if err := need(2, "<db> <table> <field=value>..."); err != nil {
			return err
		}
		values := make(map[string]string)
		for _, kv := range args[2:] {
			field, value, ok := strings.Cut(kv, "=")
			if !ok || field == "" {
				return fmt.Errorf("expected field=value, got %q", kv)
			}
			values[field] = value
		}
		if _, err := eng.AddRow(args[0], args[1], values); err != nil {
			return err
		}
		fmt.Fprintln(out, "Row added successfully")

	case "delete-row":
		if err := need(3, "<db> <table> <index>"); err != nil {
			return err
		}
		index, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("row index %q is not an integer", args[2])
		}
		if err := eng.DeleteRow(args[0], args[1], index); err != nil {
			return err
		}
		fmt.Fprintln(out, "Row deleted successfully")

	case "intersect":
		if err := need(3, "<db> <left> <right>"); err != nil {
			return err
		}
		rows, err := eng.Intersect(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		s, err := eng.GetSchema(args[0], args[1])
		if err != nil {
			return err
		}
		PrintRows(out, s, rows, false)

	default:
		return fmt.Errorf("unknown command %q; type 'help'", cmd)
	}
	return nil
}

func parseSchema(fields []string) (schema.Schema, error) {
	cols := make([]schema.Column, 0, len(fields))
	for _, field := range fields {
		name, tag, ok := strings.Cut(field, ":")
		if !ok {
			return schema.Schema{}, fmt.Errorf("expected field:type, got %q", field)
		}
		cols = append(cols, schema.Column{Name: name, Type: types.TypeTag(tag)})
	}
	return schema.NewSchema(cols...), nil
}

// SplitArgs splits a command line on spaces. Double quotes group words
// and a backslash escapes the next character inside them.
func SplitArgs(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inQuote, escaped, started := false, false, false

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
