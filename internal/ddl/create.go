// Package ddl defines a small, backend-agnostic model for SQL DDL and a
// helper to render CREATE TABLE statements from it.
//
// The package stays generic: identifiers are emitted as-is, and dialect
// differences are limited to the type names callers put in ColumnDef.SQLType.
// Backend packages build a TableDef from the row schema with their own type
// mapping and apply the rendered statement through their Repository.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef describes a single column in a table definition.
type ColumnDef struct {
	// Name is the logical column name, emitted unquoted.
	Name string

	// SQLType is the dialect-specific type (e.g., TEXT, BIGINT, REAL).
	SQLType string

	// Nullable controls whether NOT NULL is appended.
	Nullable bool
}

// TableDef holds the destination table name and an ordered column list. FQN
// may be schema-qualified ("public.flights") and is emitted verbatim.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// BuildCreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement from a
// TableDef. Each column is rendered as "<Name> <SQLType> [NOT NULL]".
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		fqn,
		strings.Join(cols, ",\n  "),
	)
	return stmt, nil
}
