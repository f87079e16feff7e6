package operations

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/leengari/recordstore/internal/domain/data"
	"github.com/leengari/recordstore/internal/domain/errors"
	"github.com/leengari/recordstore/internal/domain/schema"
)

// Intersect returns the rows of table left that are equal to at least one
// row of table right. Both tables must exist and share a schema.
//
// This is a membership test per row of left, not a set intersection: the
// result keeps left's order and any duplicates it contains.
func Intersect(db *schema.Database, left, right string) ([]data.Row, error) {
	leftTable, leftOK := db.Tables[left]
	rightTable, rightOK := db.Tables[right]

	var missing []string
	if !leftOK {
		missing = append(missing, left)
	}
	if !rightOK && right != left {
		missing = append(missing, right)
	}
	if len(missing) > 0 {
		return nil, &errors.TablesNotFoundError{Names: missing}
	}

	if !leftTable.Schema.Equal(rightTable.Schema) {
		return nil, &errors.SchemaMismatchError{Left: left, Right: right}
	}

	return IntersectTables(leftTable, rightTable), nil
}

// IntersectTables runs the row comparison without the existence and schema
// checks
func IntersectTables(leftTable, rightTable *schema.Table) []data.Row {
	slog.Debug("Starting INTERSECT",
		slog.String("left_table", leftTable.Name),
		slog.String("right_table", rightTable.Name),
		slog.Int("left_rows", len(leftTable.Rows)),
		slog.Int("right_rows", len(rightTable.Rows)),
	)

	// Build hash set on right table
	rightKeys := make(map[string]struct{}, len(rightTable.Rows))
	for _, row := range rightTable.Rows {
		rightKeys[rowKey(row)] = struct{}{}
	}

	results := make([]data.Row, 0)
	for _, row := range leftTable.Rows {
		if _, found := rightKeys[rowKey(row)]; found {
			results = append(results, row.Copy())
		}
	}

	slog.Debug("INTERSECT completed",
		slog.String("left_table", leftTable.Name),
		slog.String("right_table", rightTable.Name),
		slog.Int("result_rows", len(results)),
	)

	return results
}

// rowKey encodes a row so that two rows share a key exactly when they hold
// the same fields with the same values. Lengths are written before each
// part so no value can imitate a separator.
func rowKey(row data.Row) string {
	fields := make([]string, 0, len(row.Data))
	for k := range row.Data {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, k := range fields {
		v := row.Data[k]
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
