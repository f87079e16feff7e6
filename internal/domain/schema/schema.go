package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/leengari/recordstore/internal/domain/types"
)

// Column is one declared field of a table
type Column struct {
	Name string
	Type types.TypeTag
}

// Schema is the ordered list of a table's columns. The order is kept for
// display and for reporting the first failing field of a row; it does not
// take part in equality.
type Schema struct {
	Columns []Column
}

// NewSchema builds a schema from (name, type) pairs, keeping their order
func NewSchema(columns ...Column) Schema {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return Schema{Columns: cols}
}

// Len returns the number of columns
func (s Schema) Len() int {
	return len(s.Columns)
}

// IsEmpty reports whether the schema declares no columns
func (s Schema) IsEmpty() bool {
	return len(s.Columns) == 0
}

// Lookup returns the type of the named column
func (s Schema) Lookup(name string) (types.TypeTag, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c.Type, true
		}
	}
	return "", false
}

// Names returns column names in schema order
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Equal reports whether both schemas declare the same set of field names
// with identical type tags. Column order is irrelevant.
func (s Schema) Equal(other Schema) bool {
	if len(s.Columns) != len(other.Columns) {
		return false
	}
	for _, c := range s.Columns {
		t, ok := other.Lookup(c.Name)
		if !ok || t != c.Type {
			return false
		}
	}
	return true
}

// Check validates the schema's shape: at least one column, non-empty
// unique names and known type tags
func (s Schema) Check() error {
	if s.IsEmpty() {
		return fmt.Errorf("schema must declare at least one field")
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema field names must not be empty")
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate schema field %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if !c.Type.Known() {
			return fmt.Errorf("field %s: unknown type %q", c.Name, c.Type)
		}
	}
	return nil
}

// MarshalJSON writes the schema as a JSON object {field: type} in column
// order
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		typ, err := json.Marshal(string(c.Type))
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(typ)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object {field: type}, keeping key order.
// Duplicate keys are rejected.
func (s *Schema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		s.Columns = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema must be a JSON object")
	}

	cols := make([]Column, 0)
	seen := make(map[string]struct{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("schema field name must be a string")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate schema field %q", name)
		}
		seen[name] = struct{}{}

		var typ string
		if err := dec.Decode(&typ); err != nil {
			return fmt.Errorf("field %s: type tag must be a string", name)
		}
		cols = append(cols, Column{Name: name, Type: types.TypeTag(typ)})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	s.Columns = cols
	return nil
}
