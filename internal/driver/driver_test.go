package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/go-javac/internal/ast"
)

func emptyPublicClass(name string) *ast.CompilationUnit {
	return &ast.CompilationUnit{
		Package: &ast.PackageDecl{Name: "pkg"},
		Types: []ast.TypeDecl{
			&ast.ClassDecl{
				Modifiers: []*ast.Modifier{{Keyword: "public"}},
				Name:      name,
			},
		},
	}
}

func TestCompileProducesAClassPerUnit(t *testing.T) {
	c := New()
	defer c.Close()

	classes, err := c.Compile([]Unit{
		{AST: emptyPublicClass("Foo"), File: "Foo.java"},
		{AST: emptyPublicClass("Bar"), File: "Bar.java"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
	names := map[string]bool{}
	for _, cls := range classes {
		names[cls.InternalName] = true
	}
	if !names["pkg/Foo"] || !names["pkg/Bar"] {
		t.Errorf("unexpected class names: %v", names)
	}
}

func TestCompileContinuesPastAFailingUnit(t *testing.T) {
	c := New()
	defer c.Close()

	bad := &ast.CompilationUnit{
		Types: []ast.TypeDecl{
			&ast.ClassDecl{
				Modifiers: []*ast.Modifier{{Keyword: "public"}},
				Name:      "Bad",
				Body: []ast.ClassBodyDecl{
					&ast.MethodDecl{
						Modifiers:  []*ast.Modifier{{Keyword: "public"}},
						ReturnType: &ast.PrimitiveType{Name: "void"},
						Name:       "oops",
						Body: &ast.Block{Statements: []ast.Stmt{
							&ast.ExprStmt{Expression: &ast.Identifier{Name: "thisNameDoesNotExistAnywhere"}},
						}},
					},
				},
			},
		},
	}

	classes, err := c.Compile([]Unit{
		{AST: bad, File: "Bad.java"},
		{AST: emptyPublicClass("Good"), File: "Good.java"},
	})
	if err == nil {
		t.Fatal("expected an aggregated error for the failing unit")
	}
	found := false
	for _, cls := range classes {
		if cls.InternalName == "pkg/Good" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Good.java to compile despite Bad.java failing, got classes=%v", classes)
	}
}

func TestWriteClassesCreatesPackageDirectories(t *testing.T) {
	dir := t.TempDir()
	c := New()
	defer c.Close()

	classes, err := c.Compile([]Unit{{AST: emptyPublicClass("Foo"), File: "Foo.java"}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if err := WriteClasses(dir, classes); err != nil {
		t.Fatalf("WriteClasses: %v", err)
	}

	want := filepath.Join(dir, "pkg", "Foo.class")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected %s to exist: %v", want, err)
	}
}
