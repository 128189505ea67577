package adapter

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	m "gooze.dev/pkg/regroup/internal/model"
)

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "features.ts")
	writeTestFile(t, path, "{ id: 'dashboard' }\n")

	got, err := adapter.ReadFile(m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got != "{ id: 'dashboard' }\n" {
		t.Fatalf("ReadFile() = %q", got)
	}
}

func TestLocalSourceFSAdapter_ReadFile_KeepsBOM(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "features.ts")
	writeTestFile(t, path, "\ufeff{ id: 'a' }")

	got, err := adapter.ReadFile(m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got != "\ufeff{ id: 'a' }" {
		t.Fatalf("ReadFile() dropped the byte order mark: %q", got)
	}
}

func TestLocalSourceFSAdapter_ReadFile_InvalidUTF8(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "latin1.ts")
	if err := os.WriteFile(path, []byte{'i', 'd', 0xff, 0xfe}, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := adapter.ReadFile(m.Path(path))
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("ReadFile() error = %v, want ErrInvalidEncoding", err)
	}
}

func TestLocalSourceFSAdapter_ReadFile_Missing(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	_, err := adapter.ReadFile(m.Path(filepath.Join(t.TempDir(), "nope.ts")))
	if !os.IsNotExist(err) {
		t.Fatalf("ReadFile() error = %v, want not-exist", err)
	}
}

func TestLocalSourceFSAdapter_HashFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "features.ts")
	content := "export const FEATURES = [];\n"
	writeTestFile(t, path, content)

	got, err := adapter.HashFile(m.Path(path))
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	want := fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
	if got != want {
		t.Fatalf("HashFile() = %s, want %s", got, want)
	}
}

func TestHashContent_MatchesHashFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "features.ts")
	content := "\ufeff{ id: 'a' }\r\n"
	writeTestFile(t, path, content)

	fromDisk, err := adapter.HashFile(m.Path(path))
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}

	if got := HashContent(content); got != fromDisk {
		t.Fatalf("HashContent() = %s, HashFile() = %s", got, fromDisk)
	}
}

func TestLocalSourceFSAdapter_WriteFile(t *testing.T) {
	t.Run("replaces content and keeps mode", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("file modes are not preserved on windows")
		}

		adapter := NewLocalSourceFSAdapter()

		dir := t.TempDir()
		path := filepath.Join(dir, "features.ts")
		writeTestFile(t, path, "old")

		if err := os.Chmod(path, 0o640); err != nil {
			t.Fatalf("chmod: %v", err)
		}

		if err := adapter.WriteFile(m.Path(path), "new"); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}

		if string(data) != "new" {
			t.Fatalf("WriteFile() content = %q, want new", data)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}

		if info.Mode().Perm() != 0o640 {
			t.Fatalf("WriteFile() mode = %v, want 0640", info.Mode().Perm())
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("readdir: %v", err)
		}

		if len(entries) != 1 {
			t.Fatalf("WriteFile() left temporary files behind: %d entries", len(entries))
		}
	})

	t.Run("missing directory fails without creating files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		path := filepath.Join(t.TempDir(), "missing", "features.ts")
		if err := adapter.WriteFile(m.Path(path), "x"); err == nil {
			t.Fatalf("WriteFile() expected error for missing directory")
		}
	})
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	dir := t.TempDir()
	path := filepath.Join(dir, "features.ts")
	writeTestFile(t, path, "x")

	info, err := adapter.FileInfo(m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported a directory for %s", path)
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
