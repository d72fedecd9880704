// Package fs persists order records as per-order files: a line-oriented
// text summary and a companion file with the raw page markup.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/orderdesk/walmart-importer/internal/order/domain"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

type Writer struct {
	log *slog.Logger
	dir string
}

func NewWriter(log *slog.Logger, dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir %s: %w", dir, err)
	}
	return &Writer{log: log, dir: dir}, nil
}

func (w *Writer) Persist(_ context.Context, s domain.OrderSummary, rawHTML string) error {
	base := sanitizeFilename(s.OrderNo)

	txtPath := filepath.Join(w.dir, base+".txt")
	if err := os.WriteFile(txtPath, []byte(domain.RenderText(s)), 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", txtPath, err)
	}

	htmlPath := filepath.Join(w.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(rawHTML), 0o644); err != nil {
		return fmt.Errorf("write markup %s: %w", htmlPath, err)
	}

	w.log.Info("order files written", "order", s.OrderNo, "txt", txtPath, "html", htmlPath)
	return nil
}

func sanitizeFilename(name string) string {
	return invalidFilenameChars.ReplaceAllString(name, "_")
}
