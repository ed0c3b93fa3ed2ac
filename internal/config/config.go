// =============================================================================
// e-SUS Parser - Configuration Module
// =============================================================================
//
// This module is responsible for loading the optional YAML configuration.
// Every setting has a built-in default that reproduces the standard e-SUS VE
// export layout, so the tool runs without any configuration file at all.
//
// CONFIGURATION FILE (esus.yaml):
//   csv_settings:
//     delimiter: ";"
//     missing_value: "N/A"
//   export_settings:
//     sheet_name: "COVID"
//     include_index: true
//   column_renames:
//     "NOME DA MAE": "NM_MAE"        # merged over the built-in dictionary
//   transformation_rules:
//     - field: "SEXO"
//       actions:
//         - type: "lookup"
//           lookup_table: {"MASCULINO": "M", "FEMININO": "F"}
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is
// not given. Its absence is not an error.
const DefaultConfigFile = "esus.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// CSVSettings controls how the intermediate artifact is parsed.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// ExportSettings controls the spreadsheet output.
	ExportSettings ExportSettings `yaml:"export_settings"`

	// ColumnRenames maps source headers to canonical short codes.
	// Matching is exact, after text normalization (so keys are upper-case
	// and accent-free). Entries from a file are merged over the defaults.
	ColumnRenames map[string]string `yaml:"column_renames"`

	// TransformationRules are applied to the renamed table, field by field.
	// A file that sets this list replaces the default rules.
	TransformationRules []TransformationRule `yaml:"transformation_rules"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// KeepTemp leaves the intermediate artifact on disk after the run.
	KeepTemp bool `yaml:"keep_temp"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing the normalized text.
type CSVSettings struct {
	// Delimiter is the single character separating fields.
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// MissingValue is the sentinel written into empty cells.
	// Default: "N/A"
	MissingValue string `yaml:"missing_value"`

	// MissingMarkers are cell values treated as missing, in addition to the
	// empty string. The defaults are the usual spreadsheet/dataframe
	// missing-value spellings that survive upper-casing.
	MissingMarkers []string `yaml:"missing_markers"`
}

// =============================================================================
// EXPORT SETTINGS STRUCTURE
// =============================================================================

// ExportSettings contains settings for the spreadsheet output.
type ExportSettings struct {
	// SheetName is the name of the single worksheet.
	// Default: "COVID"
	SheetName string `yaml:"sheet_name"`

	// IncludeIndex adds a leading 0-based row number column.
	// Default: true
	IncludeIndex *bool `yaml:"include_index"`

	// OutputSuffix is appended to the input stem to name the workbook.
	// Default: "_normalized.xlsx"
	OutputSuffix string `yaml:"output_suffix"`

	// TempSuffix is appended to the input file name to name the
	// intermediate artifact.
	// Default: ".temp"
	TempSuffix string `yaml:"temp_suffix"`
}

// WithIndex reports whether the index column is written.
func (e ExportSettings) WithIndex() bool {
	return e.IncludeIndex == nil || *e.IncludeIndex
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines a transformation to apply to a specific field.
type TransformationRule struct {
	// Field is the name of the column to transform, after renaming.
	Field string `yaml:"field"`

	// Actions is a list of transformations to apply to this field.
	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the type of transformation to apply.
	// Supported types:
	//   - "lookup"               : Replace value using a lookup table
	//   - "lookup_with_default"  : Lookup, using Value for unknown values
	//   - "if_empty_use_default" : Use Value when the cell is empty
	//   - "trim"                 : Remove leading and trailing whitespace
	//   - "uppercase"            : Convert to uppercase
	//   - "lowercase"            : Convert to lowercase
	//   - "replace"              : Replace Find with Value
	//   - "regex_replace"        : Replace matches of Find with Value
	//   - "prepend_string"       : Add Value to the beginning
	//   - "append_string"        : Add Value to the end
	Type string `yaml:"type"`

	// Value is the parameter for the transformation.
	Value string `yaml:"value"`

	// Find is used for "replace" and "regex_replace" transformations.
	Find string `yaml:"find,omitempty"`

	// LookupTable maps input values to output values.
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// SupportedActions lists every transformation type the converter knows.
var SupportedActions = map[string]bool{
	"lookup":               true,
	"lookup_with_default":  true,
	"if_empty_use_default": true,
	"trim":                 true,
	"uppercase":            true,
	"lowercase":            true,
	"replace":              true,
	"regex_replace":        true,
	"prepend_string":       true,
	"append_string":        true,
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultColumnRenames returns the e-SUS VE header dictionary.
// A fresh map is returned on every call.
func DefaultColumnRenames() map[string]string {
	return map[string]string{
		"DATA DA NOTIFICACAO":         "DT_NOTIFIC",
		"DATA DE NASCIMENTO":          "DAT_NASC",
		"DATA DE COLETA DO TESTE":     "DT_COLETA",
		"DATA DO INICIO DOS SINTOMAS": "DT_SIN_PRI",
		"BAIRRO":                      "NM_BAIRRO",
		"MUNICIPIO DE RESIDENCIA":     "MUN_RES",
		"NOME COMPLETO":               "NM_PACIENT",
		"NUMERO DA NOTIFICACAO":       "NU_NOTIFIC",
		"RESULTADO DO TESTE":          "RESULTADO",
		"SINTOMA- DISPNEIA":           "DISPNEIA",
		"SINTOMA- DOR DE GARGANTA":    "GARGANTA",
		"SINTOMA- FEBRE":              "FEBRE",
		"SINTOMA- TOSSE":              "TOSSE",
		"SINTOMA- OUTROS":             "OUT_SINT",
		"TIPO DE TESTE":               "REQUI_GAL",
	}
}

// DefaultMissingMarkers returns the values treated as missing besides "".
func DefaultMissingMarkers() []string {
	return []string{
		"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL",
	}
}

// DefaultTransformationRules returns the SEXO normalization rule.
func DefaultTransformationRules() []TransformationRule {
	return []TransformationRule{
		{
			Field: "SEXO",
			Actions: []TransformationAction{
				{
					Type: "lookup",
					LookupTable: map[string]string{
						"MASCULINO": "M",
						"FEMININO":  "F",
					},
				},
			},
		},
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: When false, a missing file yields the defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string, required bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration data, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ";"
	}
	if cfg.CSVSettings.MissingValue == "" {
		cfg.CSVSettings.MissingValue = "N/A"
	}
	if cfg.CSVSettings.MissingMarkers == nil {
		cfg.CSVSettings.MissingMarkers = DefaultMissingMarkers()
	}

	if cfg.ExportSettings.SheetName == "" {
		cfg.ExportSettings.SheetName = "COVID"
	}
	if cfg.ExportSettings.OutputSuffix == "" {
		cfg.ExportSettings.OutputSuffix = "_normalized.xlsx"
	}
	if cfg.ExportSettings.TempSuffix == "" {
		cfg.ExportSettings.TempSuffix = ".temp"
	}

	// User entries are merged over the built-in dictionary.
	renames := DefaultColumnRenames()
	for from, to := range cfg.ColumnRenames {
		renames[from] = to
	}
	cfg.ColumnRenames = renames

	if cfg.TransformationRules == nil {
		cfg.TransformationRules = DefaultTransformationRules()
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks the configuration for values the pipeline cannot use.
func validate(cfg *Config) error {
	if utf8.RuneCountInString(cfg.CSVSettings.Delimiter) != 1 {
		return fmt.Errorf("csv_settings.delimiter must be a single character, got %q", cfg.CSVSettings.Delimiter)
	}
	switch cfg.CSVSettings.Delimiter {
	case "\"", "\r", "\n":
		return fmt.Errorf("csv_settings.delimiter %q is not allowed", cfg.CSVSettings.Delimiter)
	}

	if len(cfg.ExportSettings.SheetName) > 31 || strings.ContainsAny(cfg.ExportSettings.SheetName, `:\/?*[]`) {
		return fmt.Errorf("export_settings.sheet_name %q is not a valid worksheet name", cfg.ExportSettings.SheetName)
	}

	for from, to := range cfg.ColumnRenames {
		if strings.TrimSpace(to) == "" {
			return fmt.Errorf("column_renames[%q] has an empty target", from)
		}
	}

	for i, rule := range cfg.TransformationRules {
		if rule.Field == "" {
			return fmt.Errorf("transformation_rules[%d] has no field", i)
		}
		for _, action := range rule.Actions {
			if !SupportedActions[action.Type] {
				return fmt.Errorf("transformation_rules[%d] (%s): unknown transformation type %q", i, rule.Field, action.Type)
			}
		}
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}

	return nil
}
