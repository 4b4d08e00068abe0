package compiler

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	"github.com/cwbudde/go-javac/internal/resolve"
)

func intType() ast.TypeNode      { return &ast.PrimitiveType{Name: "int"} }
func publicMod() []*ast.Modifier { return []*ast.Modifier{{Keyword: "public"}} }

// disassembleClass compiles unit and returns the disassembly of the
// class named internalName, failing the test if compilation errors or
// the class isn't among those produced.
func disassembleClass(t *testing.T, unit *ast.CompilationUnit, internalName string) string {
	t.Helper()
	classes, err := CompileUnit(unit, resolve.New(nil), "", "Test.java")
	if err != nil {
		t.Fatalf("CompileUnit: %v", err)
	}
	for _, c := range classes {
		if c.InternalName == internalName {
			out, err := classfile.Disassemble(c.Bytes)
			if err != nil {
				t.Fatalf("Disassemble: %v", err)
			}
			return out
		}
	}
	var names []string
	for _, c := range classes {
		names = append(names, c.InternalName)
	}
	t.Fatalf("class %s not produced; got %v", internalName, names)
	return ""
}

// TestCompileFieldAndConstructor builds:
//
//	public class Counter {
//	    private int value;
//	    public Counter(int start) { this.value = start; }
//	    public int get() { return value; }
//	}
func TestCompileFieldAndConstructor(t *testing.T) {
	ctorBody := &ast.Block{Statements: []ast.Stmt{
		&ast.ExprStmt{Expression: &ast.AssignmentExpr{
			Target:   &ast.FieldAccessExpr{Target: &ast.ThisExpr{}, Field: "value"},
			Operator: "=",
			Value:    &ast.Identifier{Name: "start"},
		}},
	}}
	getBody := &ast.Block{Statements: []ast.Stmt{
		&ast.ReturnStmt{Expression: &ast.Identifier{Name: "value"}},
	}}

	unit := &ast.CompilationUnit{
		Types: []ast.TypeDecl{
			&ast.ClassDecl{
				Modifiers: publicMod(),
				Name:      "Counter",
				Body: []ast.ClassBodyDecl{
					&ast.FieldDecl{
						Modifiers:   []*ast.Modifier{{Keyword: "private"}},
						Type:        intType(),
						Declarators: []*ast.VariableDeclarator{{Name: "value"}},
					},
					&ast.ConstructorDecl{
						Modifiers: publicMod(),
						Name:      "Counter",
						Parameters: []*ast.FormalParameter{
							{Type: intType(), Name: "start"},
						},
						Body: ctorBody,
					},
					&ast.MethodDecl{
						Modifiers:  publicMod(),
						ReturnType: intType(),
						Name:       "get",
						Body:       getBody,
					},
				},
			},
		},
	}

	out := disassembleClass(t, unit, "Counter")
	for _, want := range []string{
		"class Counter extends java/lang/Object",
		"field", "value", "I",
		"method", "<init>", "(I)V",
		"method", "get", "()I",
		"putfield",
		"getfield",
		"ireturn",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q; got:\n%s", want, out)
		}
	}
}

// TestCompileStaticMethodArithmetic builds:
//
//	public class Math2 {
//	    public static int add(int a, int b) { return a + b; }
//	}
func TestCompileStaticMethodArithmetic(t *testing.T) {
	body := &ast.Block{Statements: []ast.Stmt{
		&ast.ReturnStmt{Expression: &ast.BinaryExpr{
			Left:     &ast.Identifier{Name: "a"},
			Operator: "+",
			Right:    &ast.Identifier{Name: "b"},
		}},
	}}

	unit := &ast.CompilationUnit{
		Types: []ast.TypeDecl{
			&ast.ClassDecl{
				Modifiers: publicMod(),
				Name:      "Math2",
				Body: []ast.ClassBodyDecl{
					&ast.MethodDecl{
						Modifiers:  []*ast.Modifier{{Keyword: "public"}, {Keyword: "static"}},
						ReturnType: intType(),
						Name:       "add",
						Parameters: []*ast.FormalParameter{
							{Type: intType(), Name: "a"},
							{Type: intType(), Name: "b"},
						},
						Body: body,
					},
				},
			},
		},
	}

	out := disassembleClass(t, unit, "Math2")
	for _, want := range []string{"method", "add", "(II)I", "iadd", "ireturn"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q; got:\n%s", want, out)
		}
	}
}

// TestCompileEmptyClassGetsDefaultConstructor builds an empty public
// class and checks a zero-arg <init> is still emitted (JLS 8.8.9).
func TestCompileEmptyClassGetsDefaultConstructor(t *testing.T) {
	unit := &ast.CompilationUnit{
		Types: []ast.TypeDecl{
			&ast.ClassDecl{Modifiers: publicMod(), Name: "Empty"},
		},
	}

	out := disassembleClass(t, unit, "Empty")
	if !strings.Contains(out, "<init>") || !strings.Contains(out, "()V") {
		t.Errorf("expected a default ()V <init>; got:\n%s", out)
	}
}

// TestCompilePackageQualifiesInternalName confirms a declared package
// becomes the class's internal-name prefix (spec.md's slash-separated
// internal names).
func TestCompilePackageQualifiesInternalName(t *testing.T) {
	unit := &ast.CompilationUnit{
		Package: &ast.PackageDecl{Name: "com.example"},
		Types: []ast.TypeDecl{
			&ast.ClassDecl{Modifiers: publicMod(), Name: "Widget"},
		},
	}

	classes, err := CompileUnit(unit, resolve.New(nil), "", "Test.java")
	if err != nil {
		t.Fatalf("CompileUnit: %v", err)
	}
	if len(classes) != 1 || classes[0].InternalName != "com/example/Widget" {
		t.Fatalf("expected com/example/Widget, got %+v", classes)
	}
}

// TestCompileNonStaticNestedClassConstruction builds:
//
//	public class Outer {
//	    class Inner {}
//	    public void makeInner() { new Inner(); }
//	}
//
// exercising the this$0 hidden-argument path in expr_new.go's
// compileNewInstance: Inner's only constructor takes Outer's internal
// name as a leading parameter, so `new Inner()` from within an Outer
// instance method must resolve it by retrying FindConstructor with
// that type prepended and push `this` for it.
func TestCompileNonStaticNestedClassConstruction(t *testing.T) {
	unit := &ast.CompilationUnit{
		Types: []ast.TypeDecl{
			&ast.ClassDecl{
				Modifiers: publicMod(),
				Name:      "Outer",
				Body: []ast.ClassBodyDecl{
					&ast.NestedTypeDecl{Decl: &ast.ClassDecl{Name: "Inner"}},
					&ast.MethodDecl{
						Modifiers:  publicMod(),
						ReturnType: &ast.PrimitiveType{Name: "void"},
						Name:       "makeInner",
						Body: &ast.Block{Statements: []ast.Stmt{
							&ast.ExprStmt{Expression: &ast.NewInstanceExpr{
								Type: &ast.ClassType{Name: "Outer$Inner"},
							}},
						}},
					},
				},
			},
		},
	}

	inner := disassembleClass(t, unit, "Outer$Inner")
	if !strings.Contains(inner, "<init>") || !strings.Contains(inner, "(LOuter;)V") {
		t.Errorf("expected Outer$Inner's <init> to take a hidden Outer argument; got:\n%s", inner)
	}
	if !strings.Contains(inner, "this$0") {
		t.Errorf("expected a this$0 field on Outer$Inner; got:\n%s", inner)
	}

	outer := disassembleClass(t, unit, "Outer")
	if !strings.Contains(outer, "new") || !strings.Contains(outer, "Outer$Inner") {
		t.Errorf("expected makeInner to instantiate Outer$Inner; got:\n%s", outer)
	}
	if !strings.Contains(outer, "aload_0") {
		t.Errorf("expected makeInner to push `this` as the hidden outer argument; got:\n%s", outer)
	}
}

