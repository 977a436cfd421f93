// Package export writes collected rows to a tabular file.
//
// The writer is chosen by file extension: .xlsx (one sheet), .csv, or a
// SQLite database (.db, .sqlite, .sqlite3). Columns follow the key order of
// the first row and values are written unchanged. Files are replaced
// atomically.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"playharvest/pkg/models"
)

// DefaultSheet is the worksheet (or table, lower-cased) that receives rows
const DefaultSheet = "Apps"

// ErrNoRows is returned when there is nothing to write
var ErrNoRows = errors.New("no rows to export")

// Exporter writes rows to a destination
type Exporter interface {
	Export(ctx context.Context, rows []models.Row) error
}

// New returns the exporter for path's extension. sheet names the xlsx
// worksheet and the sqlite table; empty means DefaultSheet.
func New(path, sheet string) (Exporter, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return &XLSXExporter{Path: path, Sheet: sheet}, nil
	case ".csv":
		return &CSVExporter{Path: path}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteExporter{Path: path, Table: strings.ToLower(sheet)}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use .xlsx, .csv or .db)", filepath.Ext(path))
	}
}

// Supported reports whether path has an extension New accepts
func Supported(path string) bool {
	_, err := New(path, "")
	return err == nil
}

func header(rows []models.Row) ([]string, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0].Keys(), nil
}

// cell returns the value of key in row, or nil when the row lacks it
func cell(row models.Row, i int, key string) interface{} {
	if i < len(row) && row[i].Key == key {
		return row[i].Value
	}
	for _, f := range row {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}
