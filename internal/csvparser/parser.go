// =============================================================================
// e-SUS Parser - CSV Parser Module
// =============================================================================
//
// This module parses the normalized intermediate artifact into a Table.
//
// PARSING RULES:
//   - The first record is the header row
//   - Empty header cells are named "Unnamed: <position>" (0-based)
//   - Repeated header names are made unique as NAME, NAME.1, NAME.2, ...
//   - Records shorter than the header are padded with empty cells, which
//     the converter later fills with the missing-value sentinel
//   - Records longer than the header are rejected (inconsistent field count)
//   - Blank lines are skipped; a line made only of delimiters is a row
//   - Cell values are kept verbatim (no trimming, no type inference)
//   - Quoting follows the rules documented on recordReader (reader.go)
//
// =============================================================================

package csvparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/ginjaninja78/esus-parser/internal/config"
	"github.com/ginjaninja78/esus-parser/internal/types"
)

// ErrNoHeader is returned for input without a header line.
var ErrNoHeader = errors.New("no columns to parse from file")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the delimited file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - A pointer to the Table.
//   - A types.ErrIO error if the file cannot be opened, or a types.ErrParse
//     error if its content is not a well-formed delimited table.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, types.NewIOError("open", filePath, err)
	}
	defer file.Close()

	table, err := ParseReader(bufio.NewReader(file), filePath, settings)
	if err != nil {
		return nil, err
	}

	return table, nil
}

// ParseReader parses delimited data from r. name is only used in errors.
func ParseReader(r io.Reader, name string, settings config.CSVSettings) (*types.Table, error) {
	reader := newRecordReader(r, delimiter(settings))

	// Headers.
	header, err := reader.Read()
	if err == io.EOF {
		return nil, types.NewParseError("parse", name, 0, ErrNoHeader)
	}
	if err != nil {
		return nil, types.NewIOError("read", name, err)
	}

	table := &types.Table{
		Columns: cleanHeaders(header),
		Rows:    [][]string{},
	}
	width := len(table.Columns)

	// Data rows.
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, types.NewIOError("read", name, err)
		}

		if len(record) > width {
			return nil, types.NewParseError("parse", name, reader.Line(),
				fmt.Errorf("expected %d fields, saw %d", width, len(record)))
		}

		table.Rows = append(table.Rows, padRecord(record, width))
	}

	return table, nil
}

// delimiter returns the configured field delimiter, ';' by default.
func delimiter(settings config.CSVSettings) rune {
	if r, _ := utf8.DecodeRuneInString(settings.Delimiter); r != utf8.RuneError {
		return r
	}
	return ';'
}

// cleanHeaders names empty headers and de-duplicates repeated ones.
//
// EXAMPLE:
//   Input:  "A", "", "A", "A.1"
//   Output: "A", "Unnamed: 1", "A.1", "A.1.1"
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}
		cleaned[i] = header
	}

	return dedupeHeaders(cleaned)
}

// dedupeHeaders renames the second and later occurrences of a header by
// appending ".<n>". A generated name that is itself taken gets its own
// suffix in turn.
func dedupeHeaders(headers []string) []string {
	counts := make(map[string]int, len(headers))
	result := make([]string, len(headers))

	for i, header := range headers {
		for n := counts[header]; n > 0; n = counts[header] {
			counts[header] = n + 1
			header = fmt.Sprintf("%s.%d", header, n)
		}
		counts[header]++
		result[i] = header
	}

	return result
}

// padRecord returns record extended with empty cells up to width.
func padRecord(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	padded := make([]string, width)
	copy(padded, record)
	return padded
}
