package converter

import (
	"github.com/ginjaninja78/esus-parser/internal/config"
	"github.com/ginjaninja78/esus-parser/internal/types"
)

// FillMissing replaces empty cells, and cells equal to one of markers, with
// sentinel. It returns the number of cells replaced.
func FillMissing(table *types.Table, sentinel string, markers []string) int {
	missing := make(map[string]bool, len(markers)+1)
	missing[""] = true
	for _, marker := range markers {
		missing[marker] = true
	}

	filled := 0
	for _, row := range table.Rows {
		for i, cell := range row {
			if missing[cell] && cell != sentinel {
				row[i] = sentinel
				filled++
			}
		}
	}
	return filled
}

// RenameColumns renames headers that exactly match a key of renames.
// Headers without an entry are left alone. It returns the number of columns
// renamed.
func RenameColumns(table *types.Table, renames map[string]string) int {
	renamed := 0
	for i, column := range table.Columns {
		if to, ok := renames[column]; ok && to != column {
			table.Columns[i] = to
			renamed++
		}
	}
	return renamed
}

// NormalizeStats counts what NormalizeTable changed.
type NormalizeStats struct {
	CellsFilled      int
	ColumnsRenamed   int
	CellsTransformed int
}

// NormalizeTable runs the table normalization steps in order: missing-value
// fill, column renaming, then the per-column transformation rules.
// The table is modified in place.
func NormalizeTable(table *types.Table, cfg *config.Config, transformer *Transformer) NormalizeStats {
	var stats NormalizeStats

	stats.CellsFilled = FillMissing(table, cfg.CSVSettings.MissingValue, cfg.CSVSettings.MissingMarkers)
	stats.ColumnsRenamed = RenameColumns(table, cfg.ColumnRenames)
	stats.CellsTransformed = transformer.TransformTable(table)

	return stats
}
