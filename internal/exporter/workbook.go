package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "springcli/internal/errors"
	"springcli/internal/table"
)

// maxSheetName is Excel's limit on sheet name length
const maxSheetName = 31

// WorkbookExporter writes derived tables into one xlsx workbook, one sheet per table
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// Export writes the workbook to path, replacing any existing file.
// Numeric cells are stored as numbers, everything else as text.
func (e *WorkbookExporter) Export(ctx context.Context, path string, tables []*table.Table) error {
	if len(tables) == 0 {
		return apperrors.NewValidationError("no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}

	for i, t := range tables {
		sheet := sheetName(t.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return apperrors.NewStorageError("failed to rename sheet", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to create sheet %s", sheet), err)
		}

		if err := writeSheet(f, sheet, t, headerStyle); err != nil {
			return err
		}

		e.logger.DebugContext(ctx, "Wrote workbook sheet",
			slog.String("sheet", sheet),
			slog.Int("rows", t.Len()))
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save workbook %s", path), err)
	}

	e.logger.InfoContext(ctx, "Workbook exported",
		slog.String("path", path),
		slog.Int("sheets", len(tables)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *table.Table, headerStyle int) error {
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write header of %s", sheet), err)
	}

	if len(t.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err != nil {
			return apperrors.NewStorageError("invalid header range", err)
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return apperrors.NewStorageError("failed to style header", err)
		}
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			if v, ok := table.ParseFloat(cell); ok {
				values[i] = v
			} else {
				values[i] = cell
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return apperrors.NewStorageError("invalid cell reference", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d of %s", r, sheet), err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}
