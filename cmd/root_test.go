package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/esus-parser/internal/config"
	"github.com/ginjaninja78/esus-parser/internal/xlsxparser"
	"github.com/ginjaninja78/esus-parser/pkg/utils"
)

// execute runs rootCmd with args and returns what it printed on stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile = config.DefaultConfigFile
	verbose, keepTemp, noClear = false, false, false
	for _, name := range []string{"config", "verbose"} {
		rootCmd.PersistentFlags().Lookup(name).Changed = false
	}
	for _, name := range []string{"keep-temp", "no-clear"} {
		rootCmd.Flags().Lookup(name).Changed = false
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	content := "NOME COMPLETO;SEXO;BAIRRO\nJosé;MASCULINO;Centro\nAna;FEMININO;\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoot_ConvertsFile(t *testing.T) {
	input := writeCSV(t)

	out, err := execute(t, "--no-clear", input)
	require.NoError(t, err)

	output := filepath.Join(filepath.Dir(input), "export_normalized.xlsx")
	assert.Contains(t, out, "= eSUS Parser =")
	assert.Contains(t, out, "Loaded 2 entries")
	assert.Contains(t, out, "Input size: 63 bytes")
	assert.Contains(t, out, "Total time: ")
	assert.Contains(t, out, "Output: "+output)
	assert.Contains(t, out, "Done.")
	assert.NotContains(t, out, "\033[H\033[2J")
	assert.False(t, utils.FileExists(input+".temp"))

	sheet, err := xlsxparser.ReadSheet(output, "COVID")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "NM_PACIENT", "SEXO", "NM_BAIRRO"}, sheet.Header)
	assert.Equal(t, [][]string{
		{"0", "JOSE", "M", "CENTRO"},
		{"1", "ANA", "F", "N/A"},
	}, sheet.Rows)
}

func TestRoot_KeepTemp(t *testing.T) {
	input := writeCSV(t)

	out, err := execute(t, "--no-clear", "--keep-temp", input)
	require.NoError(t, err)

	assert.Contains(t, out, "Temporary file kept: "+input+".temp")
	assert.True(t, utils.FileExists(input+".temp"))
}

func TestRoot_RequiresOneArgument(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "a.csv", "b.csv")
	assert.Error(t, err)
}

func TestRoot_MissingInput(t *testing.T) {
	_, err := execute(t, "--no-clear", filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestRoot_ExplicitConfigMustExist(t *testing.T) {
	input := writeCSV(t)

	_, err := execute(t, "--no-clear", "--config", filepath.Join(t.TempDir(), "missing.yaml"), input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRoot_ConfigOverridesSheetName(t *testing.T) {
	input := writeCSV(t)
	cfgPath := filepath.Join(t.TempDir(), "esus.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("export_settings:\n  sheet_name: NOTIFICACOES\n"), 0644))

	_, err := execute(t, "--no-clear", "--config", cfgPath, input)
	require.NoError(t, err)

	summary, err := xlsxparser.Summarize(filepath.Join(filepath.Dir(input), "export_normalized.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, []string{"NOTIFICACOES"}, summary.Sheets)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "eSUS Parser")
	assert.Contains(t, out, "Version:    "+Version)
}

func TestInspect(t *testing.T) {
	input := writeCSV(t)
	_, err := execute(t, "--no-clear", input)
	require.NoError(t, err)

	out, err := execute(t, "inspect", filepath.Join(filepath.Dir(input), "export_normalized.xlsx"))
	require.NoError(t, err)

	assert.Contains(t, out, "Sheets:   COVID")
	assert.Contains(t, out, "Columns:  ;NM_PACIENT;SEXO;NM_BAIRRO")
	assert.Contains(t, out, "Rows:     2")
}
