package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/aisearch/internal/model"
)

// FileWriter persists one extraction result as a markdown document, with
// an optional JSON sidecar holding the full structured result.
//
// Design decision: The three destination modes (explicit path, results
// directory, derived name) are resolved here rather than in the CLI so
// batch mode and single mode share the exact same naming rules.
type FileWriter struct {
	// outputPath, when set, overrides all name derivation.
	outputPath string

	// saveToResults writes into resultsDir with a timestamped name
	// instead of the working directory.
	saveToResults bool

	// resultsDir is the destination for saveToResults mode.
	resultsDir string

	// jsonSidecar writes the full result as JSON next to the document.
	jsonSidecar bool

	// now is injectable for deterministic file names in tests.
	now func() time.Time

	// logger for structured logging.
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithOutputPath sets an explicit destination path.
func WithOutputPath(path string) FileWriterOption {
	return func(w *FileWriter) {
		w.outputPath = path
	}
}

// WithResultsDir enables saving into the given results directory with a
// timestamped file name.
func WithResultsDir(dir string) FileWriterOption {
	return func(w *FileWriter) {
		w.saveToResults = true
		w.resultsDir = dir
	}
}

// WithJSONSidecar enables the JSON sidecar file.
func WithJSONSidecar(enabled bool) FileWriterOption {
	return func(w *FileWriter) {
		w.jsonSidecar = enabled
	}
}

// WithClock replaces the time source used for timestamped names.
func WithClock(now func() time.Time) FileWriterOption {
	return func(w *FileWriter) {
		w.now = now
	}
}

// WithWriterLogger sets a custom logger.
func WithWriterLogger(logger *slog.Logger) FileWriterOption {
	return func(w *FileWriter) {
		w.logger = logger
	}
}

// NewFileWriter creates a FileWriter.
func NewFileWriter(opts ...FileWriterOption) *FileWriter {
	w := &FileWriter{
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// DocumentPath resolves the destination for the markdown document.
func (w *FileWriter) DocumentPath(req model.ExtractionRequest) string {
	switch {
	case w.outputPath != "":
		return w.outputPath
	case w.saveToResults:
		return filepath.Join(w.resultsDir, req.TimestampedFileName(w.now()))
	default:
		return "result_" + req.SafeFileName() + ".md"
	}
}

// Write persists the result document and, when enabled, the JSON sidecar.
// It returns the path of the written markdown file. Failed results carry
// no document; callers are expected to skip Write for them.
func (w *FileWriter) Write(req model.ExtractionRequest, result *model.ExtractionResult) (string, error) {
	path := w.DocumentPath(req)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(result.Markdown), 0600); err != nil {
		return "", fmt.Errorf("failed to write result document: %w", err)
	}
	w.logger.Info("result written", "path", path, "bytes", len(result.Markdown))

	if w.jsonSidecar {
		sidecar := sidecarPath(path)
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize result: %w", err)
		}
		if err := os.WriteFile(sidecar, data, 0600); err != nil {
			return "", fmt.Errorf("failed to write JSON sidecar: %w", err)
		}
		w.logger.Info("sidecar written", "path", sidecar)
	}

	return path, nil
}

// sidecarPath swaps the document extension for .json.
func sidecarPath(docPath string) string {
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".json"
}

// Preview returns the first limit runes of the document, with an ellipsis
// when it was cut. Used for the terminal preview after a run.
func Preview(doc string, limit int) string {
	runes := []rune(doc)
	if len(runes) <= limit {
		return doc
	}
	return string(runes[:limit]) + "…"
}
