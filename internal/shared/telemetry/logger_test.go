package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
)

func TestWriteEmitsFlatJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Warn("access.orphan", map[string]any{
		"resource": "resume#1",
		"err":      errors.New("boom"),
	})

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if payload["msg"] != "access.orphan" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["resource"] != "resume#1" {
		t.Fatalf("unexpected resource: %v", payload["resource"])
	}
	if payload["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %v", payload["err"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}
