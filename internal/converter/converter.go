// =============================================================================
// e-SUS Parser - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the whole
// pipeline for a single input file.
//
// CONVERSION PIPELINE:
//   1. Text-normalize the input (accents stripped, upper-cased)
//   2. Write the intermediate artifact next to the input
//   3. Parse the artifact into a table
//   4. Fill missing cells, rename columns, apply transformation rules
//   5. Export the table to the output workbook
//   6. Remove the intermediate artifact
//
// CANCELLATION:
//   The context is checked between stages. Whatever the exit path (success,
//   failure or cancellation) the intermediate artifact is removed, unless
//   the caller asked to keep it.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/esus-parser/internal/config"
	"github.com/ginjaninja78/esus-parser/internal/csvparser"
	"github.com/ginjaninja78/esus-parser/internal/textnorm"
	"github.com/ginjaninja78/esus-parser/internal/types"
	"github.com/ginjaninja78/esus-parser/internal/xlsxwriter"
	"github.com/ginjaninja78/esus-parser/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// FilePath is the path to the input file that was processed.
	FilePath string

	// TempFile is the path of the intermediate artifact.
	TempFile string

	// OutputFile is the path to the generated workbook.
	// This is empty if processing failed before the export.
	OutputFile string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// InputSize is the size of the input file in bytes.
	InputSize int64

	// RowsProcessed is the number of data rows read from the input.
	RowsProcessed int

	// Columns is the number of columns of the table.
	Columns int

	// Normalize counts what the table normalization changed.
	Normalize NormalizeStats

	// TextTime, TableTime and ExportTime are the per-stage durations.
	TextTime   time.Duration
	TableTime  time.Duration
	ExportTime time.Duration

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single CSV file to a workbook.
type Converter struct {
	// inputPath is the path to the input CSV file.
	inputPath string

	// cfg is the application configuration.
	cfg *config.Config

	// transformer applies the configured per-column rules.
	transformer *Transformer

	logger *slog.Logger
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the input CSV file.
//   - cfg: The application configuration.
//   - logger: Destination for progress logs; nil discards them.
//
// RETURNS:
//   - A new Converter instance.
//   - An error if the transformation rules cannot be compiled.
func New(inputPath string, cfg *config.Config, logger *slog.Logger) (*Converter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	transformer, err := NewTransformer(cfg.TransformationRules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile transformation rules: %w", err)
	}

	return &Converter{
		inputPath:   inputPath,
		cfg:         cfg,
		transformer: transformer,
		logger:      logger,
	}, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
//
// RETURNS:
//   - A Result describing the run; it is filled as far as the run got.
//   - The first error encountered, or ctx.Err() if the run was cancelled.
func (c *Converter) Run(ctx context.Context) (Result, error) {
	startTime := time.Now()

	res := Result{
		RunID:    uuid.New().String(),
		FilePath: c.inputPath,
		TempFile: utils.TempFilePath(c.inputPath, c.cfg.ExportSettings.TempSuffix),
	}
	logger := c.logger.With("run_id", res.RunID, "input", c.inputPath)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	// =========================================================================
	// STAGE 1: TEXT NORMALIZATION
	// =========================================================================

	logger.Info("processing input file")
	stageStart := time.Now()

	size, err := utils.GetFileSize(c.inputPath)
	if err != nil {
		return res, types.NewIOError("stat", c.inputPath, err)
	}
	res.Stats.InputSize = size

	text, err := textnorm.NormalizeFile(c.inputPath)
	if err != nil {
		return res, err
	}

	artifact := utils.NewTempArtifact(res.TempFile, c.cfg.KeepTemp)
	defer func() {
		if releaseErr := artifact.Release(); releaseErr != nil {
			logger.Warn("could not remove temporary file", "path", res.TempFile, "error", releaseErr)
		} else if !artifact.Keep {
			logger.Debug("removed temporary file", "path", res.TempFile)
		}
	}()

	logger.Debug("saving temporary file", "path", res.TempFile)
	if err := textnorm.WriteArtifact(res.TempFile, text); err != nil {
		return res, err
	}

	res.Stats.TextTime = time.Since(stageStart)
	logger.Info("removed accents", "elapsed", utils.FormatDuration(res.Stats.TextTime))

	if err := ctx.Err(); err != nil {
		return res, err
	}

	// =========================================================================
	// STAGE 2: TABLE NORMALIZATION
	// =========================================================================

	logger.Info("loading entries", "path", res.TempFile)
	stageStart = time.Now()

	table, err := csvparser.Parse(res.TempFile, c.cfg.CSVSettings)
	if err != nil {
		return res, err
	}
	res.Stats.RowsProcessed = table.RowCount()
	logger.Info("loaded entries", "rows", table.RowCount(), "columns", len(table.Columns))

	res.Stats.Normalize = NormalizeTable(table, c.cfg, c.transformer)
	res.Stats.Columns = len(table.Columns)
	res.Stats.TableTime = time.Since(stageStart)
	logger.Info("normalized data",
		"cells_filled", res.Stats.Normalize.CellsFilled,
		"columns_renamed", res.Stats.Normalize.ColumnsRenamed,
		"cells_transformed", res.Stats.Normalize.CellsTransformed,
		"elapsed", utils.FormatDuration(res.Stats.TableTime))

	if err := ctx.Err(); err != nil {
		return res, err
	}

	// =========================================================================
	// STAGE 3: EXPORT
	// =========================================================================

	outputPath := utils.OutputFilePath(c.inputPath, c.cfg.ExportSettings.OutputSuffix)
	logger.Info("exporting excel file", "output", outputPath)
	stageStart = time.Now()

	if _, err := xlsxwriter.Write(table, outputPath, xlsxwriter.Options{
		SheetName:    c.cfg.ExportSettings.SheetName,
		IncludeIndex: c.cfg.ExportSettings.WithIndex(),
	}); err != nil {
		return res, err
	}

	res.OutputFile = outputPath
	res.Stats.ExportTime = time.Since(stageStart)
	logger.Info("export finished", "elapsed", utils.FormatDuration(res.Stats.ExportTime))

	res.Stats.ProcessingTime = time.Since(startTime)
	logger.Info("processing finished", "elapsed", utils.FormatDuration(res.Stats.ProcessingTime))
	return res, nil
}
