package testutil

import (
	"testing"

	"github.com/leengari/recordstore/internal/domain/data"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertRows checks that rows equal expected, position by position
func AssertRows(t *testing.T, rows []data.Row, expected []map[string]string, context string) {
	t.Helper()
	if len(rows) != len(expected) {
		t.Fatalf("%s: expected %d rows, got %d: %v", context, len(expected), len(rows), rows)
	}
	for i := range rows {
		if !rows[i].Equal(data.NewRow(expected[i])) {
			t.Errorf("%s: row %d: expected %v, got %v", context, i, expected[i], rows[i].Data)
		}
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}
