package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "Die Stimmlippen schwingen im Kehlkopf."
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := NewFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.ReadStatus() != Unread {
		t.Errorf("Expect unread file, but got status %d", f.ReadStatus())
	}
	text, err := Text(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if text != content {
		t.Errorf("Expect %q, but got %q", content, text)
	}
	if f.ReadStatus() != ReadCompleted {
		t.Errorf("Expect completed read, but got status %d", f.ReadStatus())
	}
	if !f.MIME().Is("text/plain") {
		t.Errorf("Expect text/plain, but got %s", f.MIME())
	}
	meta := f.Meta()
	if meta["source"] != path || meta["filename"] != "notes.txt" {
		t.Errorf("unexpected meta %v", meta)
	}
	meta["source"] = "changed"
	if f.Meta()["source"] != path {
		t.Errorf("Expect Meta to return a copy")
	}
}

func TestNewFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewFile(dir); err == nil {
		t.Errorf("Expect error for directory")
	}
	if _, err := NewFile(filepath.Join(dir, "missing.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expect os.ErrNotExist, but got %v", err)
	}
}

func TestUnsupportedType(t *testing.T) {
	doc := NewDocument([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}, nil)
	if _, err := ParserFor(doc.MIME()); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expect ErrUnsupportedType, but got %v", err)
	}
}
