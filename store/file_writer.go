package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileWriter writes one text file per hand under Dir.
type FileWriter struct {
	Dir string
}

func NewFileWriter(dir string) (*FileWriter, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("hand history dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create hand history dir: %w", err)
	}
	return &FileWriter{Dir: filepath.Clean(dir)}, nil
}

func FileName(sessionID string, handNumber int) string {
	return fmt.Sprintf("%s_hand%04d.txt", sessionID, handNumber)
}

// Write stores entry.Text atomically (temp file + rename) and sets entry.Path.
func (w *FileWriter) Write(ctx context.Context, entry *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := entry.validate(); err != nil {
		return err
	}

	path := filepath.Join(w.Dir, FileName(entry.SessionID, entry.HandNumber))

	tmp, err := os.CreateTemp(w.Dir, ".hand-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp hand history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(entry.Text); err != nil {
		tmp.Close()
		return fmt.Errorf("write hand history: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync hand history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close hand history: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename hand history: %w", err)
	}

	entry.Path = path
	return nil
}
