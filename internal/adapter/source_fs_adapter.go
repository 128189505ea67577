// Package adapter contains filesystem and configuration adapters for regroup.
package adapter

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	m "gooze.dev/pkg/regroup/internal/model"
)

// ErrInvalidEncoding is returned when a source file is not valid UTF-8.
var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SourceFSAdapter abstracts the filesystem operations the workflow needs so
// the domain layer can be tested without touching the disk.
type SourceFSAdapter interface {
	// ReadFile loads a UTF-8 text file in full.
	ReadFile(path m.Path) (string, error)

	// HashFile returns a stable fingerprint (SHA-256) of the file at path.
	HashFile(path m.Path) (string, error)

	// WriteFile replaces the file at path with content. The original file is
	// left intact if the write fails.
	WriteFile(path m.Path, content string) error

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// LocalSourceFSAdapter implements SourceFSAdapter on the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads file contents from disk. A leading byte order mark is kept
// as part of the buffer so it survives the rewrite.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) (string, error) {
	// #nosec G304 - path is the registry file chosen by the operator
	data, err := os.ReadFile(string(path))
	if err != nil {
		return "", err
	}

	if !utf8.Valid(bytes.TrimPrefix(data, utf8BOM)) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
	}

	return string(data), nil
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	// #nosec G304 - path is the registry file chosen by the operator
	data, err := os.ReadFile(string(path))
	if err != nil {
		return "", err
	}

	return HashContent(string(data)), nil
}

// HashContent returns the fingerprint HashFile would report for a file
// holding content.
func HashContent(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

// WriteFile writes content to a temporary file next to path and renames it
// over the original, keeping the original permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content string) error {
	dest := string(path)

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(dest); err == nil {
		perm = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return err
	}

	dir := filepath.Dir(dest)

	tmp, err := os.CreateTemp(dir, ".regroup-*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.WriteString(content); err != nil {
		cleanup()
		return err
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}
