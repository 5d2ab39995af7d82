package pandoc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// pdfEngines are tried in order; whichever the host has installed wins.
var pdfEngines = []string{"pdflatex", "xelatex", "lualatex", "wkhtmltopdf"}

// Writer renders review text into the artifact directory. The text is
// written first, then converted to PDF with pandoc. When no engine succeeds
// the plain-text file stays as the artifact, so a run never loses content.
type Writer struct {
	dir    string
	logger *slog.Logger

	// run is swapped in tests.
	run func(ctx context.Context, name string, args ...string) error
}

func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		dir:    dir,
		logger: logger,
		run: func(ctx context.Context, name string, args ...string) error {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Stdout = nil
			cmd.Stderr = nil
			return cmd.Run()
		},
	}
}

func (w *Writer) WriteReview(ctx context.Context, baseName, content string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create review directory: %w", err)
	}

	txtName := baseName + ".txt"
	txtPath := filepath.Join(w.dir, txtName)
	if err := os.WriteFile(txtPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write review text: %w", err)
	}

	pdfName := baseName + ".pdf"
	pdfPath := filepath.Join(w.dir, pdfName)
	for _, engine := range pdfEngines {
		err := w.run(ctx, "pandoc", txtPath,
			"-o", pdfPath,
			"--pdf-engine="+engine,
			"-V", "geometry:margin=1in",
		)
		if err != nil {
			w.logger.Debug("pdf engine failed", "engine", engine, "review", baseName, "error", err)
			continue
		}
		if err := os.Remove(txtPath); err != nil {
			w.logger.Warn("leftover review text not removed", "path", txtPath, "error", err)
		}
		return pdfName, nil
	}

	w.logger.Warn("pdf rendering unavailable, keeping plain text", "review", baseName)
	return txtName, nil
}
