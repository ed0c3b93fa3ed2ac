// =============================================================================
// e-SUS Parser - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter:
//   - Artifact naming (intermediate text file, output workbook)
//   - Scoped ownership of the intermediate artifact
//   - Small file helpers
//
// NAMING:
//   input:         data/notificacoes.csv
//   intermediate:  data/notificacoes.csv.temp
//   output:        data/notificacoes_normalized.xlsx
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// ARTIFACT NAMING
// =============================================================================

// SplitExt splits path into stem and extension, where the extension starts
// at the last dot of the final element. Leading dots of the final element
// do not start an extension, so ".env" has no extension.
//
// EXAMPLE:
//   "data/in.csv"  -> "data/in", ".csv"
//   "data/in"      -> "data/in", ""
//   "data/.hidden" -> "data/.hidden", ""
func SplitExt(path string) (string, string) {
	base := filepath.Base(path)
	trimmed := strings.TrimLeft(base, ".")
	dot := strings.LastIndex(trimmed, ".")
	if dot < 0 {
		return path, ""
	}
	ext := trimmed[dot:]
	return path[:len(path)-len(ext)], ext
}

// TempFilePath returns the intermediate artifact path for input:
// <stem><ext><suffix>, next to the input.
func TempFilePath(input, suffix string) string {
	stem, ext := SplitExt(input)
	return stem + ext + suffix
}

// OutputFilePath returns the workbook path for input: <stem><suffix>.
func OutputFilePath(input, suffix string) string {
	stem, _ := SplitExt(input)
	return stem + suffix
}

// =============================================================================
// TEMP ARTIFACT
// =============================================================================

// TempArtifact owns the intermediate file of one run. Release removes it;
// calling Release more than once is safe.
//
// USAGE:
//   artifact := utils.NewTempArtifact(path, keep)
//   defer artifact.Release()
type TempArtifact struct {
	// Path is the location of the artifact.
	Path string

	// Keep leaves the file on disk when released.
	Keep bool

	once sync.Once
	err  error
}

// NewTempArtifact returns an artifact handle for path.
func NewTempArtifact(path string, keep bool) *TempArtifact {
	return &TempArtifact{Path: path, Keep: keep}
}

// Release removes the artifact file unless Keep is set. A file that was
// never created is not an error.
func (a *TempArtifact) Release() error {
	a.once.Do(func() {
		if a.Keep {
			return
		}
		if err := os.Remove(a.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			a.err = fmt.Errorf("failed to remove temporary file %s: %w", a.Path, err)
		}
	})
	return a.err
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FormatDuration renders a stage duration the way progress lines show it.
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
