package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Edusharks/block-ide-vite-sub001/internal/compiler"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
)

// FallbackFileName is used when the derived type is empty.
const FallbackFileName = "custom_block"

// FileName returns the export file name for a block type, e.g. "custom_move.json".
func FileName(blockType, format string) string {
	if blockType == "" {
		blockType = FallbackFileName
	}
	return blockType + "." + format
}

// Export writes the artifact of the last snapshot to w and returns its file name.
func (e *Editor) Export(ctx context.Context, w io.Writer, format string) (string, error) {
	f, err := compiler.ParseFormat(format)
	if err != nil {
		return "", err
	}
	data, err := compiler.Encode(e.snap.Bundle, f)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	name := FileName(e.snap.Bundle.Shape.Type, f)
	e.exported(ctx, name, f, len(data))
	return name, nil
}

// ExportFile writes the artifact into dir atomically and returns the full path.
// The file handle is closed before ExportFile returns.
func (e *Editor) ExportFile(ctx context.Context, dir, format string) (string, error) {
	f, err := compiler.ParseFormat(format)
	if err != nil {
		return "", err
	}
	data, err := compiler.Encode(e.snap.Bundle, f)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure export directory: %w", err)
	}

	name := FileName(e.snap.Bundle.Shape.Type, f)
	dest := filepath.Join(dir, name)
	if err := writeAtomic(dir, dest, data); err != nil {
		return "", err
	}

	e.logger.Info("block exported", "file", dest, "format", f)
	e.exported(ctx, name, f, len(data))
	return dest, nil
}

func (e *Editor) exported(ctx context.Context, name, format string, n int) {
	if e.hooks.OnExport == nil {
		return
	}
	e.hooks.OnExport(ctx, &domain.ExportEvent{
		EventBase: e.base(domain.HookExport),
		FileName:  name,
		Format:    format,
		Bytes:     n,
	})
}

// writeAtomic writes to a temp file in the same directory, fsyncs it and renames it over dest.
func writeAtomic(dir, dest string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "tmp-"+filepath.Base(dest)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}
