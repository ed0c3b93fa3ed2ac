// =============================================================================
// e-SUS Parser - XLSX Reader
// =============================================================================
//
// This module reads exported workbooks back. It backs the 'inspect' command
// and lets the tests check exported files cell by cell.
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is the content of one worksheet.
type Sheet struct {
	// Name is the worksheet name.
	Name string

	// Header is the first row.
	Header []string

	// Rows are the rows below the header, padded to the header width.
	Rows [][]string
}

// DataRows returns the number of rows below the header.
func (s *Sheet) DataRows() int {
	return len(s.Rows)
}

// Summary describes a workbook.
type Summary struct {
	// Path is the workbook location.
	Path string

	// Sheets lists every worksheet name in workbook order.
	Sheets []string

	// First is the content of the first worksheet.
	First *Sheet
}

// ReadSheet reads the named sheet of the workbook at path.
// An empty sheet name selects the first sheet.
func ReadSheet(path, sheetName string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheetName)
}

// Summarize lists the sheets of the workbook at path and reads the first.
func Summarize(path string) (*Summary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	first, err := readSheet(f, "")
	if err != nil {
		return nil, err
	}

	return &Summary{
		Path:   path,
		Sheets: f.GetSheetList(),
		First:  first,
	}, nil
}

func readSheet(f *excelize.File, sheetName string) (*Sheet, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, fmt.Errorf("invalid sheet name %q: %w", sheetName, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	sheet := &Sheet{Name: sheetName, Rows: [][]string{}}
	if len(rows) == 0 {
		return sheet, nil
	}

	sheet.Header = rows[0]
	width := len(sheet.Header)
	for _, row := range rows[1:] {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}
