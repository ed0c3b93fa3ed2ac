package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ";", cfg.CSVSettings.Delimiter)
	assert.Equal(t, "N/A", cfg.CSVSettings.MissingValue)
	assert.Contains(t, cfg.CSVSettings.MissingMarkers, "NULL")
	assert.Equal(t, "COVID", cfg.ExportSettings.SheetName)
	assert.True(t, cfg.ExportSettings.WithIndex())
	assert.Equal(t, "_normalized.xlsx", cfg.ExportSettings.OutputSuffix)
	assert.Equal(t, ".temp", cfg.ExportSettings.TempSuffix)
	assert.Equal(t, DefaultColumnRenames(), cfg.ColumnRenames)
	require.Len(t, cfg.TransformationRules, 1)
	assert.Equal(t, "SEXO", cfg.TransformationRules[0].Field)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestDefaultColumnRenames(t *testing.T) {
	renames := DefaultColumnRenames()

	assert.Len(t, renames, 15)
	assert.Equal(t, "NM_BAIRRO", renames["BAIRRO"])
	assert.Equal(t, "REQUI_GAL", renames["TIPO DE TESTE"])
	assert.Equal(t, "OUT_SINT", renames["SINTOMA- OUTROS"])

	// Each call hands out its own map.
	renames["BAIRRO"] = "X"
	assert.Equal(t, "NM_BAIRRO", DefaultColumnRenames()["BAIRRO"])
}

func TestParse_MergesRenamesAndKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
csv_settings:
  delimiter: ","
column_renames:
  "NOME DA MAE": "NM_MAE"
  "BAIRRO": "BAIRRO_RES"
export_settings:
  include_index: false
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, ",", cfg.CSVSettings.Delimiter)
	assert.Equal(t, "NM_MAE", cfg.ColumnRenames["NOME DA MAE"])
	assert.Equal(t, "BAIRRO_RES", cfg.ColumnRenames["BAIRRO"])
	assert.Equal(t, "NM_PACIENT", cfg.ColumnRenames["NOME COMPLETO"])
	assert.False(t, cfg.ExportSettings.WithIndex())
	assert.Equal(t, "COVID", cfg.ExportSettings.SheetName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Len(t, cfg.TransformationRules, 1)
}

func TestParse_RulesReplaceDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
transformation_rules:
  - field: "RACA/COR"
    actions:
      - type: "trim"
`))
	require.NoError(t, err)
	require.Len(t, cfg.TransformationRules, 1)
	assert.Equal(t, "RACA/COR", cfg.TransformationRules[0].Field)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "csv_settings: [1, 2"},
		{"multi-char delimiter", "csv_settings:\n  delimiter: \";;\""},
		{"quote delimiter", "csv_settings:\n  delimiter: '\"'"},
		{"bad sheet name", "export_settings:\n  sheet_name: \"a/b\""},
		{"empty rename target", "column_renames:\n  BAIRRO: \"\""},
		{"unknown action", "transformation_rules:\n  - field: SEXO\n    actions:\n      - type: explode"},
		{"rule without field", "transformation_rules:\n  - actions:\n      - type: trim"},
		{"bad log level", "log_level: loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing optional file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "absent.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing required file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.yaml"), true)
		assert.Error(t, err)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "esus.yaml")
		require.NoError(t, os.WriteFile(path, []byte("export_settings:\n  sheet_name: CASOS\n"), 0644))

		cfg, err := Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, "CASOS", cfg.ExportSettings.SheetName)
	})
}
