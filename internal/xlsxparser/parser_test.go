package xlsxparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "COVID"))
	_, err := f.NewSheet("NOTES")
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow("COVID", "A1", &[]interface{}{"A", "B", "C"}))
	require.NoError(t, f.SetSheetRow("COVID", "A2", &[]interface{}{"1", "2"}))
	require.NoError(t, f.SaveAs(path))
}

func TestReadSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeWorkbook(t, path)

	sheet, err := ReadSheet(path, "COVID")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, sheet.Header)
	assert.Equal(t, [][]string{{"1", "2", ""}}, sheet.Rows)

	empty, err := ReadSheet(path, "NOTES")
	require.NoError(t, err)
	assert.Nil(t, empty.Header)
	assert.Equal(t, 0, empty.DataRows())

	_, err = ReadSheet(path, "ABSENT")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeWorkbook(t, path)

	summary, err := Summarize(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"COVID", "NOTES"}, summary.Sheets)
	assert.Equal(t, "COVID", summary.First.Name)
	assert.Equal(t, 1, summary.First.DataRows())
}

func TestReadSheet_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("A;B\n"), 0644))

	_, err := ReadSheet(path, "")
	assert.Error(t, err)
}
