package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"playharvest/pkg/models"
	"playharvest/pkg/storage"

	_ "modernc.org/sqlite"
)

// SQLiteExporter writes rows into a fresh table of a new database file.
// Column types follow the Go type of the first row's values.
type SQLiteExporter struct {
	Path  string
	Table string
}

func (e *SQLiteExporter) Export(ctx context.Context, rows []models.Row) error {
	cols, err := header(rows)
	if err != nil {
		return err
	}

	staged, err := storage.Stage(e.Path)
	if err != nil {
		return err
	}
	if err := e.write(ctx, staged.Path(), cols, rows); err != nil {
		staged.Discard()
		return err
	}
	return staged.Commit()
}

func (e *SQLiteExporter) write(ctx context.Context, path string, cols []string, rows []models.Row) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	defs := make([]string, len(cols))
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		defs[i] = quoted[i] + " " + sqliteType(cell(rows[0], i, c))
	}

	table := quoteIdent(e.Table)
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE `+table+` (`+strings.Join(defs, ", ")+`)`); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+table+` (`+strings.Join(quoted, ", ")+`) VALUES (`+ph+`)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, len(cols))
	for r, row := range rows {
		for i, c := range cols {
			args[i] = cell(row, i, c)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", r+1, err)
		}
	}

	return tx.Commit()
}

func sqliteType(v interface{}) string {
	switch v.(type) {
	case int, int64, bool:
		return "INTEGER"
	case float64:
		return "REAL"
	default:
		return "TEXT"
	}
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
