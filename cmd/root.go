// =============================================================================
// e-SUS Parser - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Called with a single
// file argument, the root command converts that file (see process.go).
//
// COBRA CLI STRUCTURE:
//   rootCmd (esus-parser <input_file>)
//   ├── inspectCmd (esus-parser inspect <workbook>)
//   └── versionCmd (esus-parser version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/esus-parser/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// keepTemp leaves the intermediate artifact on disk.
var keepTemp bool

// noClear disables clearing the terminal before the banner.
var noClear bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "esus-parser <input_file>",
	Short: "Um parser para dados do sistema e-SUS VE ( https://notifica.saude.gov.br )",
	Long: `esus-parser converts a semicolon-delimited e-SUS VE notification export
into a normalized spreadsheet.

The input text is stripped of accents and upper-cased, well-known columns are
renamed to their short codes (NOME COMPLETO -> NM_PACIENT, BAIRRO -> NM_BAIRRO,
...), empty cells are filled with N/A and SEXO is reduced to M/F. The result
is written next to the input as <name>_normalized.xlsx, on a sheet named COVID.

Example Usage:
  esus-parser notificacoes.csv
  esus-parser --config esus.yaml notificacoes.csv
  esus-parser inspect notificacoes_normalized.xlsx`,

	Args: cobra.ExactArgs(1),

	// Errors are printed once, by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args[0])
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file (optional unless given explicitly)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.Flags().BoolVar(
		&keepTemp,
		"keep-temp",
		false,
		"Keep the intermediate .temp file after the run",
	)

	rootCmd.Flags().BoolVar(
		&noClear,
		"no-clear",
		false,
		"Do not clear the terminal before printing the banner",
	)
}
