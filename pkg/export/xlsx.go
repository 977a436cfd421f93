package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"playharvest/pkg/models"
	"playharvest/pkg/storage"
)

// XLSXExporter writes a workbook with a single sheet
type XLSXExporter struct {
	Path  string
	Sheet string
}

func (e *XLSXExporter) Export(ctx context.Context, rows []models.Row) error {
	cols, err := header(rows)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", e.Sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(e.Sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	headerCells := make([]interface{}, len(cols))
	for i, c := range cols {
		headerCells[i] = c
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells := make([]interface{}, len(cols))
		for i, c := range cols {
			cells[i] = cell(row, i, c)
		}
		ref, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(ref, cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	return storage.WriteFile(e.Path, func(w io.Writer) error {
		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	})
}
