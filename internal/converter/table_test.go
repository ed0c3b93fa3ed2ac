package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/esus-parser/internal/config"
	"github.com/ginjaninja78/esus-parser/internal/types"
)

func TestFillMissing(t *testing.T) {
	table := &types.Table{
		Columns: []string{"A", "B", "C"},
		Rows: [][]string{
			{"", "X", "NULL"},
			{"N/A", "", "NA"},
			{"NONE", "0", " "},
		},
	}

	filled := FillMissing(table, "N/A", config.DefaultMissingMarkers())

	assert.Equal(t, 4, filled)
	assert.Equal(t, [][]string{
		{"N/A", "X", "N/A"},
		{"N/A", "N/A", "N/A"},
		{"NONE", "0", " "},
	}, table.Rows)
}

func TestFillMissing_EmptyCellBecomesSentinel(t *testing.T) {
	table := &types.Table{Columns: []string{"A"}, Rows: [][]string{{""}}}

	FillMissing(table, "N/A", nil)
	assert.Equal(t, "N/A", table.Rows[0][0])
}

func TestRenameColumns(t *testing.T) {
	table := &types.Table{
		Columns: []string{"NOME COMPLETO", "BAIRRO", "bairro", "SEXO", "TIPO DE TESTE", "EXTRA"},
	}

	renamed := RenameColumns(table, config.DefaultColumnRenames())

	assert.Equal(t, 3, renamed)
	assert.Equal(t, []string{"NM_PACIENT", "NM_BAIRRO", "bairro", "SEXO", "REQUI_GAL", "EXTRA"}, table.Columns)
}

func TestRenameColumns_AllDefaults(t *testing.T) {
	renames := config.DefaultColumnRenames()
	table := &types.Table{}
	for from := range renames {
		table.Columns = append(table.Columns, from)
	}

	assert.Equal(t, len(renames), RenameColumns(table, renames))
	for _, column := range table.Columns {
		_, stillSource := renames[column]
		assert.False(t, stillSource, "column %q was not renamed", column)
	}
}

func newTable() *types.Table {
	return &types.Table{
		Columns: []string{"NOME COMPLETO", "SEXO", "BAIRRO"},
		Rows: [][]string{
			{"JOAO", "MASCULINO", ""},
			{"MARIA", "FEMININO", "CENTRO"},
			{"ALEX", "OUTRO", "NULL"},
			{"", "", "SUL"},
		},
	}
}

func TestNormalizeTable(t *testing.T) {
	cfg := config.Default()
	transformer, err := NewTransformer(cfg.TransformationRules)
	require.NoError(t, err)

	table := newTable()
	stats := NormalizeTable(table, cfg, transformer)

	assert.Equal(t, NormalizeStats{CellsFilled: 4, ColumnsRenamed: 2, CellsTransformed: 2}, stats)
	assert.Equal(t, []string{"NM_PACIENT", "SEXO", "NM_BAIRRO"}, table.Columns)
	assert.Equal(t, [][]string{
		{"JOAO", "M", "N/A"},
		{"MARIA", "F", "CENTRO"},
		{"ALEX", "OUTRO", "N/A"},
		{"N/A", "N/A", "SUL"},
	}, table.Rows)
	assert.Equal(t, 4, table.RowCount())
}

func TestNormalizeTable_Idempotent(t *testing.T) {
	cfg := config.Default()
	transformer, err := NewTransformer(cfg.TransformationRules)
	require.NoError(t, err)

	once := newTable()
	NormalizeTable(once, cfg, transformer)

	twice := newTable()
	NormalizeTable(twice, cfg, transformer)
	stats := NormalizeTable(twice, cfg, transformer)

	assert.Equal(t, NormalizeStats{}, stats)
	assert.Equal(t, once, twice)
}

func TestNormalizeTable_WithoutSexColumn(t *testing.T) {
	cfg := config.Default()
	transformer, err := NewTransformer(cfg.TransformationRules)
	require.NoError(t, err)

	table := &types.Table{Columns: []string{"BAIRRO"}, Rows: [][]string{{"MASCULINO"}}}
	stats := NormalizeTable(table, cfg, transformer)

	assert.Equal(t, 0, stats.CellsTransformed)
	assert.Equal(t, [][]string{{"MASCULINO"}}, table.Rows)
}
