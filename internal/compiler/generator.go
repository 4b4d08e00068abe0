// Package compiler lowers a resolved Java AST (internal/ast) into one
// or more JVM class files, mirroring the teacher compiler's single
// shared-state design: "expression compilation", "statement
// compilation" and "declaration compilation" are views into one
// Generator rather than separate actors (spec.md §9 "Mixin
// composition").
package compiler

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/resolve"
	"github.com/cwbudde/go-javac/internal/types"
)

// ClassFile is one emitted class, named by its internal (slash-
// separated) name, ready to be written under <out>/<InternalName>.class.
type ClassFile struct {
	InternalName string
	Bytes        []byte
}

// unitState is shared by every Generator spawned while compiling one
// CompilationUnit: nested classes, anonymous classes and lambda
// holders all need unique synthetic names drawn from one counter, and
// every class they produce accumulates into one output slice.
type unitState struct {
	source string
	file   string

	anonCounter   int
	lambdaCounter int

	classes []ClassFile
}

// Generator holds the mutable state for lowering exactly one
// class/interface/enum/annotation-type declaration, plus a link to its
// enclosing Generator when it is a nested or anonymous type (spec.md
// §9 "Global / per-instance mutable state ... modeled as fields of the
// Generator with explicit save/restore at nested-class entry").
type Generator struct {
	resolver *resolve.Resolver
	names    *resolve.NameResolver
	unit     *unitState
	imports  map[string]string
	pkg      string

	internalName string
	superName    string
	interfaces   []string
	isInterface  bool
	isEnum       bool
	isAnonymous  bool

	builder *classfile.Builder
	local   *resolve.LocalClass

	outer      *Generator
	outerField string // "this$0" when outer != nil

	// clinitStmts/ctorPrelude are static and instance field
	// initializers plus initializer blocks, collected in declaration
	// order (spec.md §6 "initializer ordering") and replayed into
	// <clinit> and the head of every constructor respectively.
	clinitStmts  []ast.Stmt
	ctorPrelude  []ast.Stmt

	// enumConstants is non-nil only while compiling an enum, holding
	// the constant declarations in source order for the values()/
	// $VALUES/valueOf machinery (spec.md §4.8 "Enum lowering").
	enumConstants []*ast.EnumConstant
	userCtorArity int // count of user-declared params on an enum's constructors, for the synthetic (String,int,...) ctor

	// classTypeVars holds this declaration's own type-parameter names
	// plus every enclosing class's, so a field/method signature built
	// from it can tell a bare name like "T" apart from an ordinary
	// class reference (spec.md §4.1 "set_signature").
	classTypeVars map[string]bool
}

// CompileUnit lowers every top-level type declaration (and, through
// recursion, every nested member type) in unit into one class file
// apiece. Anonymous class bodies are not lowered: compileNewInstance
// rejects them with an UnsupportedAst error.
func CompileUnit(unit *ast.CompilationUnit, resolver *resolve.Resolver, source, file string) ([]ClassFile, error) {
	pkg := ""
	if unit.Package != nil {
		pkg = strings.ReplaceAll(unit.Package.Name, ".", "/")
	}
	singleImports := map[string]string{}
	for _, imp := range unit.Imports {
		if imp.IsWildcard || imp.IsStatic {
			continue
		}
		name := strings.ReplaceAll(imp.Name, ".", "/")
		simple := name
		if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
			simple = name[idx+1:]
		}
		singleImports[simple] = name
	}

	us := &unitState{source: source, file: file}

	if err := registerUnit(unit, resolver, pkg, singleImports); err != nil {
		return nil, err
	}

	for _, td := range unit.Types {
		if err := compileTopLevelType(td, resolver, us, pkg, singleImports); err != nil {
			return nil, err
		}
	}
	return us.classes, nil
}

func compileTopLevelType(td ast.TypeDecl, resolver *resolve.Resolver, us *unitState, pkg string, singleImports map[string]string) error {
	switch decl := td.(type) {
	case *ast.ClassDecl:
		g := newGenerator(resolver, us, pkg, singleImports, decl.Name, nil)
		return g.compileClassDecl(decl)
	case *ast.InterfaceDecl:
		g := newGenerator(resolver, us, pkg, singleImports, decl.Name, nil)
		return g.compileInterfaceDecl(decl)
	case *ast.EnumDecl:
		g := newGenerator(resolver, us, pkg, singleImports, decl.Name, nil)
		return g.compileEnumDecl(decl)
	case *ast.AnnotationTypeDecl:
		g := newGenerator(resolver, us, pkg, singleImports, decl.Name, nil)
		return g.compileAnnotationTypeDecl(decl)
	default:
		return g0error(us, ast.Position{}, "unsupported top-level type declaration")
	}
}

func newGenerator(resolver *resolve.Resolver, us *unitState, pkg string, singleImports map[string]string, simpleName string, outer *Generator) *Generator {
	internal := simpleName
	if outer != nil {
		internal = outer.internalName + "$" + simpleName
	} else if pkg != "" {
		internal = pkg + "/" + simpleName
	}
	// outerField is set by the caller (decl_class.go), not here: only a
	// non-static nested class captures this$0, and newGenerator doesn't
	// know the nested type's modifiers.
	return &Generator{
		resolver:     resolver,
		names:        resolve.NewNameResolver(internal, singleImports),
		unit:         us,
		imports:      singleImports,
		pkg:          pkg,
		internalName: internal,
		outer:        outer,
	}
}

func (g *Generator) pos(n ast.Node) ast.Position {
	if n == nil {
		return ast.Position{}
	}
	return n.Pos()
}

func (g *Generator) errf(kind cgerrors.Kind, pos ast.Position, symbol, format string, args ...any) error {
	return cgerrors.New(kind, pos, fmt.Sprintf(format, args...), symbol, g.unit.source, g.unit.file)
}

func g0error(us *unitState, pos ast.Position, format string, args ...any) error {
	return cgerrors.New(cgerrors.InternalError, pos, fmt.Sprintf(format, args...), "", us.source, us.file)
}

// resolveType maps an ast.TypeNode (nil meaning void) to its
// internal/types representation, qualifying class names through this
// generator's name-resolution chain.
func (g *Generator) resolveType(t ast.TypeNode) types.Type {
	switch tt := t.(type) {
	case nil:
		return types.Void
	case *ast.PrimitiveType:
		return primitiveByName(tt.Name)
	case *ast.ClassType:
		return types.NewClass(g.names.Resolve(tt.Name))
	case *ast.ArrayType:
		return types.NewArray(g.resolveType(tt.ElementType), tt.Dimensions)
	default:
		return types.Object
	}
}

func primitiveByName(name string) types.Type {
	switch name {
	case "void":
		return types.Void
	case "boolean":
		return types.Boolean
	case "byte":
		return types.Byte
	case "char":
		return types.Char
	case "short":
		return types.Short
	case "int":
		return types.Int
	case "long":
		return types.Long
	case "float":
		return types.Float
	case "double":
		return types.Double
	default:
		return types.Int
	}
}

// emitKindOf maps a types.Type to the emitter's load/store/return
// category: every reference and array type shares KindRef.
func emitKindOf(t types.Type) emitter.Kind {
	p, ok := t.(types.Primitive)
	if !ok {
		return emitter.KindRef
	}
	switch p {
	case types.Long:
		return emitter.KindLong
	case types.Float:
		return emitter.KindFloat
	case types.Double:
		return emitter.KindDouble
	default:
		return emitter.KindInt
	}
}
