package fileio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileIO is the file system surface used by the generators.
type FileIO interface {
	Exists(path string) bool
	ReadAllText(path string) (string, error)
	WriteAllText(path string, content string) error
	CreateDirectory(path string) error
}

// OS implements FileIO on the local file system.
// Writes go through a temp file in the target directory followed by a rename,
// so readers never observe a half-written project file.
type OS struct{}

// Exists reports whether a file or directory exists at path.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadAllText returns the content of path.
func (OS) ReadAllText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteAllText replaces the content of path, creating parent directories as needed.
func (OS) WriteAllText(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return WriteAtomic(path, []byte(content))
}

// CreateDirectory creates path and any missing parents.
func (OS) CreateDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteAtomic writes data to a temp file next to path and renames it over path.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".vscodesync-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// SyncFileIfNotChanged writes content to path unless the file already holds exactly
// that content. A failed read is logged and the write is still attempted.
// It reports whether a write happened.
func SyncFileIfNotChanged(fio FileIO, path string, content string, logger *slog.Logger) (bool, error) {
	if fio.Exists(path) {
		existing, err := fio.ReadAllText(path)
		if err != nil {
			if logger != nil {
				logger.Warn("reading existing file failed, rewriting", "path", path, "error", err)
			}
		} else if existing == content {
			if logger != nil {
				logger.Debug("unchanged, skipping write", "path", path)
			}
			return false, nil
		}
	}

	if err := fio.WriteAllText(path, content); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
