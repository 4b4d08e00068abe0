package driver

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/cwbudde/go-javac/internal/ast"
)

// CompileFile is a single-file convenience wrapper around Compile,
// mirrored from the original implementation's `compile_file` driver
// entry point (pyjopa/codegen/generator.py): this repo has no Java
// front end of its own (the AST is consumed, not produced, per
// spec.md §6.2), so its input is a gob-encoded ast.CompilationUnit a
// front end would hand it — the AST package registers every concrete
// node type with encoding/gob for exactly this purpose (ast/gob.go).
func CompileFile(path string, opts ...Option) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: reading %s: %w", path, err)
	}

	var unit ast.CompilationUnit
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&unit); err != nil {
		return nil, fmt.Errorf("driver: decoding AST in %s: %w", path, err)
	}

	c := New(opts...)
	defer c.Close()

	classes, err := c.Compile([]Unit{{AST: &unit, Source: "", File: path}})
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("driver: %s produced no classes", path)
	}
	return classes[0].Bytes, nil
}
