package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Row represents a single table row
// Key = field name, Value = raw field value
type Row struct {
	Data map[string]string
}

// NewRow creates a new Row with the given data
func NewRow(data map[string]string) Row {
	if data == nil {
		data = make(map[string]string)
	}
	return Row{Data: data}
}

// Copy creates a deep copy of the row to prevent mutation
func (r Row) Copy() Row {
	copy := make(map[string]string, len(r.Data))
	for k, v := range r.Data {
		copy[k] = v
	}
	return Row{Data: copy}
}

// Get returns the value of a field and whether it is present
func (r Row) Get(field string) (string, bool) {
	v, ok := r.Data[field]
	return v, ok
}

// Equal reports whether both rows hold the same fields with the same values
func (r Row) Equal(other Row) bool {
	if len(r.Data) != len(other.Data) {
		return false
	}
	for k, v := range r.Data {
		ov, ok := other.Data[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// UnmarshalJSON implements json.Unmarshaler interface
// This allows Row to be unmarshaled from JSON as a map
func (r *Row) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.Data = m
	if r.Data == nil {
		r.Data = make(map[string]string)
	}
	return nil
}

// MarshalJSON implements json.Marshaler interface
// This allows Row to be marshaled to JSON as a map
func (r Row) MarshalJSON() ([]byte, error) {
	if r.Data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Data)
}

// Fields holds raw field values decoded from a request body. Values whose
// JSON form was an array or object are kept apart in Rejected, as raw JSON
// text, so that they fail only when the table declares that field.
type Fields struct {
	Values   map[string]string
	Rejected map[string]string
}

// FieldsOf wraps plain string values
func FieldsOf(values map[string]string) Fields {
	return Fields{Values: values}
}

// FieldsFromJSON decodes a request body into raw field values.
// Strings are kept as is, numbers and booleans become their literal text,
// null is treated as an absent field. Arrays and objects go to Rejected.
func FieldsFromJSON(body []byte) (Fields, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return Fields{}, err
	}
	if m == nil {
		return Fields{}, fmt.Errorf("row body must be a JSON object")
	}

	fields := Fields{
		Values:   make(map[string]string, len(m)),
		Rejected: make(map[string]string),
	}
	for name, raw := range m {
		v, kind, err := scalarText(raw)
		if err != nil {
			return Fields{}, fmt.Errorf("field %s: %w", name, err)
		}
		switch kind {
		case valueScalar:
			fields.Values[name] = v
		case valueComposite:
			fields.Rejected[name] = v
		}
	}
	return fields, nil
}

type valueKind int

const (
	valueNull valueKind = iota
	valueScalar
	valueComposite
)

func scalarText(raw json.RawMessage) (string, valueKind, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", valueNull, err
	}

	switch val := v.(type) {
	case nil:
		return "", valueNull, nil
	case string:
		return val, valueScalar, nil
	case json.Number:
		return val.String(), valueScalar, nil
	case bool:
		return strconv.FormatBool(val), valueScalar, nil
	default:
		return string(bytes.TrimSpace(raw)), valueComposite, nil
	}
}
