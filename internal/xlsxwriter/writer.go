// =============================================================================
// e-SUS Parser - XLSX Writer Module
// =============================================================================
//
// This module serializes the normalized table into a single-sheet workbook.
//
// SHEET LAYOUT (index column enabled):
//
//   |   | NM_PACIENT | SEXO | ... |
//   |---|------------|------|-----|
//   | 0 | JOAO       | M    | ... |
//   | 1 | MARIA      | F    | ... |
//
//   - Row 1 is the header row; the index header cell is blank
//   - The index column holds 0-based row numbers as numeric cells
//   - Header and index cells are bold with a thin border
//   - Data cells are written as text, exactly as they appear in the table
//
// Rows are written through excelize's stream writer, so the workbook is
// produced in one sequential pass over the table.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/esus-parser/internal/types"
)

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// Options contains options for workbook generation.
type Options struct {
	// SheetName is the name of the single worksheet.
	// Default: "COVID"
	SheetName string

	// IncludeIndex adds the leading 0-based row number column.
	IncludeIndex bool
}

// DefaultOptions returns the standard export layout.
func DefaultOptions() Options {
	return Options{
		SheetName:    "COVID",
		IncludeIndex: true,
	}
}

// Stats describes what was written.
type Stats struct {
	// DataRows is the number of rows below the header.
	DataRows int

	// Columns is the number of columns, index column included.
	Columns int
}

// =============================================================================
// EXPORT
// =============================================================================

// Write exports table to a workbook at path.
//
// RETURNS:
//   - What was written.
//   - A types.ErrIO error if the workbook cannot be built or saved.
func Write(table *types.Table, path string, opts Options) (Stats, error) {
	if opts.SheetName == "" {
		opts.SheetName = DefaultOptions().SheetName
	}

	stats := Stats{DataRows: len(table.Rows), Columns: len(table.Columns)}
	if opts.IncludeIndex {
		stats.Columns++
	}

	if stats.DataRows+1 > excelize.TotalRows {
		return stats, types.NewIOError("export", path,
			fmt.Errorf("%d rows exceed the worksheet limit of %d", stats.DataRows+1, excelize.TotalRows))
	}
	if stats.Columns > excelize.MaxColumns {
		return stats, types.NewIOError("export", path,
			fmt.Errorf("%d columns exceed the worksheet limit of %d", stats.Columns, excelize.MaxColumns))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), opts.SheetName); err != nil {
		return stats, types.NewIOError("export", path, fmt.Errorf("failed to name sheet: %w", err))
	}

	if err := writeSheet(f, table, opts); err != nil {
		return stats, types.NewIOError("export", path, err)
	}

	if err := f.SaveAs(path); err != nil {
		return stats, types.NewIOError("export", path, fmt.Errorf("failed to save workbook: %w", err))
	}

	return stats, nil
}

// writeSheet streams the header and data rows into the sheet.
func writeSheet(f *excelize.File, table *types.Table, opts Options) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	indexStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index style: %w", err)
	}

	sw, err := f.NewStreamWriter(opts.SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	offset := 0
	if opts.IncludeIndex {
		offset = 1
	}
	width := len(table.Columns) + offset

	// Header.
	header := make([]interface{}, width)
	if opts.IncludeIndex {
		header[0] = excelize.Cell{StyleID: headerStyle, Value: ""}
	}
	for i, column := range table.Columns {
		header[i+offset] = excelize.Cell{StyleID: headerStyle, Value: column}
	}
	if err := setRow(sw, 1, header); err != nil {
		return err
	}

	// Data.
	for r, row := range table.Rows {
		values := make([]interface{}, width)
		if opts.IncludeIndex {
			values[0] = excelize.Cell{StyleID: indexStyle, Value: r}
		}
		for c, cell := range row {
			values[c+offset] = cell
		}
		if err := setRow(sw, r+2, values); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	return nil
}

// setRow writes values starting at column A of the given 1-based row.
func setRow(sw *excelize.StreamWriter, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// thinBorder returns a thin black border on all four sides.
func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
