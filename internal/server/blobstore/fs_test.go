package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/filecrate/internal/common"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	return s
}

func TestFileStore_SaveOpenDelete(t *testing.T) {
	t.Parallel()

	s := newFileStore(t)
	ctx := context.Background()
	content := []byte("hello, blob")

	n, err := s.Save(ctx, "users/1/abc", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if n != int64(len(content)) {
		t.Fatalf("size mismatch: got %d want %d", n, len(content))
	}

	rc, err := s.Open(ctx, "users/1/abc")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("content mismatch: got %q", got)
	}

	if err := s.Delete(ctx, "users/1/abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Open(ctx, "users/1/abc"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound after delete, got %v", err)
	}
}

func TestFileStore_OpenMissing(t *testing.T) {
	t.Parallel()

	s := newFileStore(t)
	if _, err := s.Open(context.Background(), "no/such/key"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestFileStore_DeleteMissing(t *testing.T) {
	t.Parallel()

	s := newFileStore(t)
	if err := s.Delete(context.Background(), "no/such/key"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestFileStore_RejectsEscapingKeys(t *testing.T) {
	t.Parallel()

	s := newFileStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../etc/passwd", "a/../../b", "/abs/path"} {
		if _, err := s.Save(ctx, key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFileStore_SaveCancelledContext(t *testing.T) {
	t.Parallel()

	s := newFileStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Save(ctx, "users/1/xyz", strings.NewReader("data")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFileStore_FailedSaveLeavesNoPartial(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	// reader that fails partway through
	r := io.MultiReader(strings.NewReader("partial"), &failingReader{})
	if _, err := s.Save(context.Background(), "users/1/bad", r); err == nil {
		t.Fatal("expected error from failing reader")
	}

	entries, err := os.ReadDir(filepath.Join(dir, "users", "1"))
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatalf("readdir error: %v", err)
	}
	for _, e := range entries {
		if e.Name() == "bad" {
			t.Fatal("partial blob left under final key")
		}
		if strings.HasPrefix(e.Name(), ".upload-") {
			t.Fatal("temp file left behind")
		}
	}
}

type failingReader struct{}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("read failed")
}
