// =============================================================================
// e-SUS Parser - Process Command
// =============================================================================
//
// This file holds the conversion run behind the root command. It wires the
// configuration, logging and interrupt handling around converter.Run.
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Clear the terminal (interactive sessions only) and print the banner
//   3. Run the converter under an interrupt-aware context
//   4. Print a summary
//
// INTERRUPTS:
//   CTRL-C cancels the context. The converter stops at the next stage
//   boundary, removes the intermediate file and the command exits with
//   status 0 after printing a notice.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/esus-parser/internal/config"
	"github.com/ginjaninja78/esus-parser/internal/converter"
	"github.com/ginjaninja78/esus-parser/pkg/utils"
)

const banner = "\n===============\n= eSUS Parser =\n===============\n"

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess converts inputPath and reports the outcome on cmd's output.
func runProcess(cmd *cobra.Command, inputPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if keepTemp {
		cfg.KeepTemp = true
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	if !noClear {
		clearScreen(out)
	}
	fmt.Fprint(out, banner+"\n")

	conv, err := converter.New(inputPath, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "Processing %s...\n", inputPath)
	result, err := conv.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\nCTRL-C detected. Exiting...")
			return nil
		}
		return err
	}

	fmt.Fprintf(out, "Input size: %d bytes\n", result.Stats.InputSize)
	fmt.Fprintf(out, "Loaded %d entries\n", result.Stats.RowsProcessed)
	fmt.Fprintf(out, "Text normalized in %s\n", utils.FormatDuration(result.Stats.TextTime))
	fmt.Fprintf(out, "Data normalized in %s\n", utils.FormatDuration(result.Stats.TableTime))
	fmt.Fprintf(out, "Export finished in %s\n", utils.FormatDuration(result.Stats.ExportTime))
	if cfg.KeepTemp {
		fmt.Fprintf(out, "Temporary file kept: %s\n", result.TempFile)
	}
	fmt.Fprintf(out, "Output: %s\n", result.OutputFile)
	fmt.Fprintf(out, "Total time: %s\n", utils.FormatDuration(result.Stats.ProcessingTime))
	fmt.Fprintln(out, "Done.")

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newLogger builds the stderr logger. --verbose forces debug level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// clearScreen clears the terminal when w is one.
func clearScreen(w io.Writer) {
	f, ok := w.(*os.File)
	if !ok {
		return
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return
	}
	fmt.Fprint(f, "\033[H\033[2J")
}
