package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mime, err := store.Save(ctx, "companies/7", "logo.png", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(key, "companies/7/") || !strings.HasSuffix(key, "_logo.png") {
		t.Fatalf("unexpected key %q", key)
	}
	if size != 5 {
		t.Fatalf("expected size 5, got %d", size)
	}
	if mime == "" {
		t.Fatalf("expected detected mime type")
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "hello" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if _, err := store.Open(ctx, "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
	if _, _, _, err := store.Save(ctx, "companies/1", "../x.png", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal file name to be rejected")
	}
}
