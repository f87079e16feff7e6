package snapshot

import (
	"github.com/leengari/recordstore/internal/domain/data"
	"github.com/leengari/recordstore/internal/domain/schema"
)

// Document is the persisted form of one database:
// {"tables": {name: {"schema": {field: type}, "rows": [{field: value}]}}}
type Document struct {
	Tables map[string]TableDoc `json:"tables"`
}

// TableDoc is the persisted form of one table
type TableDoc struct {
	Schema schema.Schema `json:"schema"`
	Rows   []data.Row    `json:"rows"`
}
