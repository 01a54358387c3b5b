package fileio

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_SyncFileIfNotChanged_NewFile(t *testing.T) {
	mem := NewMemory()

	written, err := SyncFileIfNotChanged(mem, "/p/A.csproj", "<Project />", testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !written {
		t.Error("expected a write for a new file")
	}
	if mem.WriteCount("/p/A.csproj") != 1 {
		t.Errorf("expected 1 write, got %d", mem.WriteCount("/p/A.csproj"))
	}
}

func Test_SyncFileIfNotChanged_IdenticalContentSkipsWrite(t *testing.T) {
	mem := NewMemory()
	mem.WriteAllText("/p/A.csproj", "<Project />")
	mem.ResetWriteCounts()

	written, err := SyncFileIfNotChanged(mem, "/p/A.csproj", "<Project />", testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written {
		t.Error("expected no write for identical content")
	}
	if mem.TotalWrites() != 0 {
		t.Errorf("expected 0 writes, got %d", mem.TotalWrites())
	}
}

func Test_SyncFileIfNotChanged_ReadErrorStillWrites(t *testing.T) {
	mem := NewMemory()
	mem.WriteAllText("/p/A.csproj", "<Project />")
	mem.ResetWriteCounts()
	mem.ReadErrors["/p/A.csproj"] = errors.New("locked")

	written, err := SyncFileIfNotChanged(mem, "/p/A.csproj", "<Project />", testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !written {
		t.Error("expected best-effort write after a read failure")
	}
}

func Test_SyncFileIfNotChanged_WriteErrorReturned(t *testing.T) {
	mem := NewMemory()
	mem.WriteErrors["/p/A.csproj"] = errors.New("disk full")

	written, err := SyncFileIfNotChanged(mem, "/p/A.csproj", "x", testLogger())
	if err == nil {
		t.Fatal("expected write error")
	}
	if written {
		t.Error("expected written=false on failure")
	}
}

func Test_OS_IdenticalContentPreservesModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Game.sln")
	if err := os.WriteFile(path, []byte("solution"), 0644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	written, err := SyncFileIfNotChanged(OS{}, path, "solution", testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written {
		t.Error("expected no write")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Errorf("expected mod time %v to be preserved, got %v", old, info.ModTime())
	}
}

func Test_OS_WriteAllTextCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".vscode", "settings.json")

	if err := (OS{}).WriteAllText(path, "{}"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("expected {}, got %q", string(data))
	}

	matches, _ := filepath.Glob(filepath.Join(dir, ".vscode", ".vscodesync-*.tmp"))
	if len(matches) != 0 {
		t.Errorf("expected no temp files left behind, got %v", matches)
	}
}
