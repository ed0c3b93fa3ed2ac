// =============================================================================
// e-SUS Parser - Main Entry Point
// =============================================================================
//
// This is the main entry point for the e-SUS Parser CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   esus-parser <input_file>    - Normalize one e-SUS VE CSV export
//   esus-parser inspect <xlsx>  - Show the layout of an exported workbook
//   esus-parser version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (text normalizer, CSV parser, converter,
//                      XLSX writer/reader, configuration, shared types)
//   - pkg/           : Shared utilities (artifact naming and cleanup)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/esus-parser/cmd"
)

func main() {
	cmd.Execute()
}
