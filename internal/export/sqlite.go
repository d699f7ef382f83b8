package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"datatools/internal/table"
)

// sqliteBatchRows bounds the number of rows per multi-value INSERT so
// the statement stays under SQLite's bound-variable limit for wide
// tables.
const sqliteBatchRows = 100

// SQLite writes the table into a new single-table SQLite database file
// at path. Every column gets TEXT affinity; cells are rendered the same
// way the text encodings render them.
func SQLite(ctx context.Context, path, tableName string, tbl *table.Table) error {
	header := tbl.Header()
	if len(header) == 0 {
		return fmt.Errorf("export: table has no columns")
	}
	if strings.TrimSpace(tableName) == "" {
		return fmt.Errorf("export: sqlite table name is empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("export: open sqlite %s: %w", path, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("export: open sqlite %s: %w", path, err)
	}

	cols := make([]string, len(header))
	for i, c := range header {
		cols[i] = sqlIdent(c) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", sqlIdent(tableName), strings.Join(cols, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("export: create table %s: %w", tableName, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("export: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows := tbl.Rows()
	for start := 0; start < len(rows); start += sqliteBatchRows {
		end := start + sqliteBatchRows
		if end > len(rows) {
			end = len(rows)
		}
		if err := insertBatch(ctx, tx, tableName, header, rows[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("export: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, tableName string, header []string, rows []*table.Row) error {
	colList := make([]string, len(header))
	for i, c := range header {
		colList[i] = sqlIdent(c)
	}
	placeholders := "(" + strings.TrimRight(strings.Repeat("?,", len(header)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(tableName))
	b.WriteString(" (")
	b.WriteString(strings.Join(colList, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(header))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		for _, col := range header {
			v, _ := row.Get(col)
			args = append(args, table.CellString(v))
		}
	}

	if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("export: insert into %s: %w", tableName, err)
	}
	return nil
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
