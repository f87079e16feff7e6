package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leengari/recordstore/internal/engine"
	"github.com/leengari/recordstore/internal/repl"
)

// newInspectCmds returns the offline commands that work directly on the
// storage root
func newInspectCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "databases",
			Short: "List databases",
			Args:  cobra.NoArgs,
			RunE: a.withEngine(func(eng *engine.Engine, args []string) error {
				names, err := eng.ListDatabases()
				if err != nil {
					return err
				}
				repl.PrintList(a.out, "DATABASE", names)
				return nil
			}),
		},
		{
			Use:   "create <db>",
			Short: "Create an empty database",
			Args:  cobra.ExactArgs(1),
			RunE: a.withEngine(func(eng *engine.Engine, args []string) error {
				if err := eng.CreateDatabase(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Database %s created successfully\n", args[0])
				return nil
			}),
		},
		{
			Use:   "drop <db>",
			Short: "Delete a database and all its tables",
			Args:  cobra.ExactArgs(1),
			RunE: a.withEngine(func(eng *engine.Engine, args []string) error {
				if err := eng.DropDatabase(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Database %s dropped successfully\n", args[0])
				return nil
			}),
		},
		{
			Use:   "tables <db>",
			Short: "List the tables of a database",
			Args:  cobra.ExactArgs(1),
			RunE: a.withEngine(func(eng *engine.Engine, args []string) error {
				names, err := eng.ListTables(args[0])
				if err != nil {
					return err
				}
				repl.PrintList(a.out, "TABLE", names)
				return nil
			}),
		},
		{
			Use:   "schema <db> <table>",
			Short: "Show a table's schema",
			Args:  cobra.ExactArgs(2),
			RunE: a.withEngine(func(eng *engine.Engine, args []string) error {
				s, err := eng.GetSchema(args[0], args[1])
				if err != nil {
					return err
				}
				repl.PrintSchema(a.out, s)
				return nil
			}),
		},
		{
			Use:   "rows <db> <table>",
			Short: "Print every row of a table with its index",
			Args:  cobra.ExactArgs(2),
			RunE: a.withEngine(func(eng *engine.Engine, args []string) error {
				s, err := eng.GetSchema(args[0], args[1])
				if err != nil {
					return err
				}
				rows, err := eng.GetRows(args[0], args[1])
				if err != nil {
					return err
				}
				repl.PrintRows(a.out, s, rows, true)
				return nil
			}),
		},
		{
			Use:   "intersect <db> <left> <right>",
			Short: "Print the rows of left that also appear in right",
			Args:  cobra.ExactArgs(3),
			RunE: a.withEngine(func(eng *engine.Engine, args []string) error {
				rows, err := eng.Intersect(args[0], args[1], args[2])
				if err != nil {
					return err
				}
				s, err := eng.GetSchema(args[0], args[1])
				if err != nil {
					return err
				}
				repl.PrintRows(a.out, s, rows, false)
				return nil
			}),
		},
		{
			Use:   "shell",
			Short: "Run an interactive shell on the storage root",
			Args:  cobra.NoArgs,
			RunE: a.withEngine(func(eng *engine.Engine, args []string) error {
				repl.Start(eng, a.in, a.out)
				return nil
			}),
		},
	}
}

func (a *app) withEngine(fn func(eng *engine.Engine, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		eng, registry, err := a.openEngine()
		if err != nil {
			return err
		}
		defer registry.Close()
		return fn(eng, args)
	}
}
