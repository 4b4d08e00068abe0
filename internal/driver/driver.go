// Package driver is the CLI's collaborator (spec.md §6.4): it collects
// compilation units, orders them so a type's dependencies are compiled
// before it, runs internal/compiler over each in turn, and writes the
// resulting class files to disk — mirroring the teacher CLI's
// lex/parse/typecheck/compile/serialize/write pipeline in
// cmd/dwscript/cmd/compile.go, generalized from "one script" to "a
// topologically ordered set of compilation units".
package driver

import (
	"log"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classpath"
	"github.com/cwbudde/go-javac/internal/compiler"
	"github.com/cwbudde/go-javac/internal/resolve"
)

// Unit is one compilation unit paired with the source text and file
// name the generator needs for diagnostic rendering (internal/errors'
// source-line + caret).
type Unit struct {
	AST    *ast.CompilationUnit
	Source string
	File   string
}

// Compiler runs a batch of Units through internal/compiler, sharing
// one classpath.Resolver across the whole batch (spec.md §5: "entries
// within one driver invocation persist to satisfy forward
// references").
type Compiler struct {
	classpath *classpath.Resolver
	logger    *log.Logger
}

// Option configures a Compiler, mirroring go-dws's own
// `CompilerOption func(*Compiler)` pattern (compiler_core.go).
type Option func(*Compiler)

// WithClasspath adds one directory or .jar/.zip archive to the
// compiler's class-path search order; later calls are searched after
// earlier ones, matching `java -cp`'s precedence.
func WithClasspath(path string) Option {
	return func(c *Compiler) {
		if err := c.classpath.Add(path); err != nil && c.logger != nil {
			c.logger.Printf("classpath: skipping %s: %v", path, err)
		}
	}
}

// WithLogger installs a *log.Logger for warnings the driver surfaces
// without failing the build: a class-path entry that WithClasspath
// cannot add (an archive that fails to open, for instance) is logged
// and skipped — the one ambient
// consumer of the stdlib log package in this repo (SPEC_FULL.md §4.A).
func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// New creates a Compiler ready to accept Units.
func New(opts ...Option) *Compiler {
	c := &Compiler{classpath: classpath.NewResolver()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the compiler's class-path resolver (open archive
// handles, memory mappings). A Compiler must not be used after Close.
func (c *Compiler) Close() error {
	return c.classpath.Close()
}

// Compile lowers every unit to its class files, in dependency order
// (Order), continuing past a failing unit rather than aborting the
// whole batch (spec.md §6.4: "the driver aborts that unit and
// continues with the next file at its discretion"). Every per-unit
// error is combined into the returned error via go.uber.org/multierr
// so none is lost, and every class emitted by a unit that compiled
// cleanly is still returned.
func (c *Compiler) Compile(units []Unit) ([]compiler.ClassFile, error) {
	ordered := Order(units)

	var classes []compiler.ClassFile
	var errs error
	for _, u := range ordered {
		resolver := resolve.New(c.classpath)
		cs, err := compiler.CompileUnit(u.AST, resolver, u.Source, u.File)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		classes = append(classes, cs...)
	}
	return classes, errs
}

// WriteClasses writes each class to <outDir>/<internal_name>.class,
// creating package directories as needed (spec.md §6.4).
func WriteClasses(outDir string, classes []compiler.ClassFile) error {
	var errs error
	for _, cls := range classes {
		path := filepath.Join(outDir, filepath.FromSlash(cls.InternalName)+".class")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := os.WriteFile(path, cls.Bytes, 0o644); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
