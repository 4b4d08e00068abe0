package driver

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"
)

func TestCompileFileRoundTripsAGobEncodedUnit(t *testing.T) {
	unit := emptyPublicClass("Greeter")

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(unit); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "Greeter.ast")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	data, err := CompileFile(path)
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty class bytes")
	}
}

func TestCompileFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.ast")
	if err := os.WriteFile(path, []byte("not a gob stream"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CompileFile(path); err == nil {
		t.Error("expected an error decoding a non-gob file")
	}
}

func TestCompileFileRejectsMissingFile(t *testing.T) {
	if _, err := CompileFile(filepath.Join(t.TempDir(), "missing.ast")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

