package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/leengari/recordstore/internal/domain/data"
	"github.com/leengari/recordstore/internal/domain/schema"
)

const schemaURL = "recordstore://snapshot.schema.json"

//go:embed snapshot.schema.json
var documentSchema string

var compiled = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader([]byte(documentSchema))); err != nil {
		panic(fmt.Sprintf("snapshot: bad embedded schema: %v", err))
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("snapshot: bad embedded schema: %v", err))
	}
	return sch
}

// Encode serializes the whole database as one snapshot document
func Encode(db *schema.Database) ([]byte, error) {
	doc := Document{Tables: make(map[string]TableDoc, len(db.Tables))}
	for name, t := range db.Tables {
		rows := t.Rows
		if rows == nil {
			rows = []data.Row{}
		}
		doc.Tables[name] = TableDoc{Schema: t.Schema, Rows: rows}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot for %s: %w", db.Name, err)
	}
	return out, nil
}

// Decode checks raw against the snapshot document schema and rebuilds the
// database it describes
func Decode(name string, raw []byte) (*schema.Database, error) {
	if err := Check(raw); err != nil {
		return nil, fmt.Errorf("invalid snapshot for %s: %w", name, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot for %s: %w", name, err)
	}

	db := schema.NewDatabase(name)
	for tableName, td := range doc.Tables {
		t := schema.NewTable(tableName, td.Schema)
		if td.Rows != nil {
			t.Rows = td.Rows
		}
		db.Tables[tableName] = t
	}
	return db, nil
}

// Check validates raw against the embedded snapshot document schema
func Check(raw []byte) error {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return compiled.Validate(v)
}

// Empty returns the snapshot of a database without tables
func Empty(name string) ([]byte, error) {
	return Encode(schema.NewDatabase(name))
}
