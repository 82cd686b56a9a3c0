package object

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "companies/3/logo.png", want: "companies/3/logo.png"},
		{in: "/companies//3/", want: "companies/3"},
		{in: " companies/3 ", want: "companies/3"},
		{in: "", wantErr: true},
		{in: "/", wantErr: true},
		{in: "companies/../etc", wantErr: true},
		{in: `companies\3`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanKey(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidKey) {
				t.Errorf("CleanKey(%q) err = %v, want ErrInvalidKey", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("CleanKey(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestNewKeyIsUniquePerCall(t *testing.T) {
	a, err := NewKey("companies/9", "Acme Logo.png")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	b, _ := NewKey("companies/9", "Acme Logo.png")
	if a == b {
		t.Fatalf("expected distinct keys, got %q twice", a)
	}
	if !strings.HasPrefix(a, "companies/9/") || !strings.HasSuffix(a, "_Acme_Logo.png") {
		t.Fatalf("unexpected key %q", a)
	}
	if _, err := NewKey("../x", "logo.png"); err == nil {
		t.Fatalf("expected invalid namespace to fail")
	}
}

func TestSniffReplaysHead(t *testing.T) {
	payload := "\x89PNG\r\n\x1a\n" + strings.Repeat("x", 600)
	mimeType, r, err := Sniff(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if mimeType != "image/png" {
		t.Fatalf("mime = %q", mimeType)
	}
	got, _ := io.ReadAll(r)
	if string(got) != payload {
		t.Fatalf("replayed %d bytes, want %d", len(got), len(payload))
	}
}
