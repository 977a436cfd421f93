package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"playharvest/pkg/models"
	"playharvest/pkg/storage"
)

// CSVExporter writes a header line followed by one line per row
type CSVExporter struct {
	Path string
}

func (e *CSVExporter) Export(ctx context.Context, rows []models.Row) error {
	cols, err := header(rows)
	if err != nil {
		return err
	}

	return storage.WriteFile(e.Path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write(cols); err != nil {
			return err
		}

		record := make([]string, len(cols))
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i, c := range cols {
				record[i] = formatCSV(cell(row, i, c))
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}

		w.Flush()
		return w.Error()
	})
}

func formatCSV(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
