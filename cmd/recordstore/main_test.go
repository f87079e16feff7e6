package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/recordstore/internal/domain/schema"
	"github.com/leengari/recordstore/internal/domain/types"
	"github.com/leengari/recordstore/internal/engine"
	storageengine "github.com/leengari/recordstore/internal/storage/engine"
	"github.com/leengari/recordstore/internal/storage/manager"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, "", args...)
}

func runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(input), &out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seed(t *testing.T, root string) {
	t.Helper()
	se, err := storageengine.New(storageengine.BackendFile, root)
	assert.NilError(t, err)
	registry := manager.NewRegistry(se)
	defer registry.Close()
	eng := engine.New(registry)

	s := schema.NewSchema(
		schema.Column{Name: "id", Type: types.TypeInteger},
		schema.Column{Name: "name", Type: types.TypeString},
	)
	assert.NilError(t, eng.CreateDatabase("shop"))
	assert.NilError(t, eng.AddTable("shop", "table1", s))
	assert.NilError(t, eng.AddTable("shop", "table2", s))
	for table, names := range map[string][]string{
		"table1": {"1:Alice", "2:Bob"},
		"table2": {"2:Bob", "3:Charlie"},
	} {
		for _, n := range names {
			id, name, _ := strings.Cut(n, ":")
			_, err := eng.AddRow("shop", table, map[string]string{"id": id, "name": name})
			assert.NilError(t, err)
		}
	}
}

func TestInspectCommands(t *testing.T) {
	root := t.TempDir()
	seed(t, root)
	base := []string{"--no-config", "--storage-root", root}

	out, err := run(t, append(base, "databases")...)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "DATABASE"), out)
	assert.Assert(t, strings.Contains(out, "shop"), out)

	out, err = run(t, append(base, "tables", "shop")...)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "table1"), out)
	assert.Assert(t, strings.Contains(out, "table2"), out)

	out, err = run(t, append(base, "schema", "shop", "table1")...)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "integer"), out)

	out, err = run(t, append(base, "rows", "shop", "table1")...)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "Alice"), out)
	assert.Assert(t, strings.Contains(out, "Bob"), out)

	out, err = run(t, append(base, "intersect", "shop", "table1", "table2")...)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "Bob"), out)
	assert.Assert(t, !strings.Contains(out, "Alice"), out)
	assert.Assert(t, !strings.Contains(out, "Charlie"), out)

	_, err = run(t, append(base, "schema", "shop", "missing")...)
	assert.ErrorContains(t, err, "does not exist")
}

func TestCreateAndDrop(t *testing.T) {
	root := t.TempDir()
	base := []string{"--no-config", "--storage-root", root}

	out, err := run(t, append(base, "create", "fresh")...)
	assert.NilError(t, err)
	assert.Equal(t, out, "Database fresh created successfully\n")

	_, err = os.Stat(filepath.Join(root, "fresh.json"))
	assert.NilError(t, err)

	_, err = run(t, append(base, "create", "fresh")...)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, append(base, "drop", "fresh")...)
	assert.NilError(t, err)
	_, err = run(t, append(base, "drop", "fresh")...)
	assert.ErrorContains(t, err, "does not exist")
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	fileRoot := filepath.Join(dir, "from-file")
	flagRoot := filepath.Join(dir, "from-flag")
	cfgPath := filepath.Join(dir, "recordstore.hcl")
	assert.NilError(t, os.WriteFile(cfgPath, []byte(`storage_root = "`+fileRoot+`"`), 0644))

	_, err := run(t, "--config", cfgPath, "create", "a")
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(fileRoot, "a.json"))
	assert.NilError(t, err)

	_, err = run(t, "--config", cfgPath, "--storage-root", flagRoot, "create", "b")
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(flagRoot, "b.json"))
	assert.NilError(t, err)
}

func TestInvalidConfig(t *testing.T) {
	_, err := run(t, "--no-config", "--storage-root", t.TempDir(), "--backend", "redis", "databases")
	assert.ErrorContains(t, err, "backend must be file or bbolt")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "absent.hcl"), "databases")
	assert.ErrorContains(t, err, "config")
}

func TestBBoltBackend(t *testing.T) {
	root := t.TempDir()
	base := []string{"--no-config", "--storage-root", root, "--backend", "bbolt"}

	_, err := run(t, append(base, "create", "shop")...)
	assert.NilError(t, err)

	out, err := run(t, append(base, "databases")...)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "shop"), out)

	_, err = os.Stat(filepath.Join(root, storageengine.BBoltFileName))
	assert.NilError(t, err)
}

func TestShellCommand(t *testing.T) {
	root := t.TempDir()
	seed(t, root)

	out, err := runWithInput(t, "rows shop table2\nexit\n", "--no-config", "--storage-root", root, "shell")
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out, "Welcome to recordstore"), out)
	assert.Assert(t, strings.Contains(out, "Charlie"), out)
}
