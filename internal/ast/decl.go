package ast

// Modifier is a single modifier keyword (public, static, final, ...)
// or an annotation attached to a declaration.
type Modifier struct {
	basePos
	Keyword    string // "" when this modifier is an annotation
	Annotation *Annotation
}

// Annotation is `@Name` or `@Name(args)`.
type Annotation struct {
	basePos
	Name      string
	Arguments []*AnnotationArgument
}

// AnnotationArgument is one `name = value` pair, or a bare value for
// single-element annotations.
type AnnotationArgument struct {
	basePos
	Name  string // "" for the single-element form
	Value Expr
}

// CompilationUnit is the root of one source file's AST.
type CompilationUnit struct {
	basePos
	Package *PackageDecl // nil for the default package
	Imports []*ImportDecl
	Types   []TypeDecl
}

func (*CompilationUnit) Pos() Position { return Position{Line: 1, Column: 1} }

// PackageDecl is `package com.example;`.
type PackageDecl struct {
	basePos
	Annotations []*Annotation
	Name        string // dotted form, e.g. "com.example"
}

// ImportDecl is a single/on-demand, static/non-static import declaration.
type ImportDecl struct {
	basePos
	Name       string // dotted form; trailing ".*" stripped when IsWildcard is true
	IsStatic   bool
	IsWildcard bool
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	basePos
	Modifiers      []*Modifier
	Name           string
	TypeParameters []*TypeParameter
	Extends        TypeNode // nil implies java.lang.Object
	Implements     []TypeNode
	Body           []ClassBodyDecl
}

func (*ClassDecl) typeDeclNode() {}

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	basePos
	Modifiers      []*Modifier
	Name           string
	TypeParameters []*TypeParameter
	Extends        []TypeNode
	Body           []InterfaceBodyDecl
}

func (*InterfaceDecl) typeDeclNode() {}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	basePos
	Modifiers  []*Modifier
	Name       string
	Implements []TypeNode
	Constants  []*EnumConstant
	Body       []ClassBodyDecl
}

func (*EnumDecl) typeDeclNode() {}

// EnumConstant is one constant of an enum declaration, with optional
// constructor arguments and an optional constant-specific class body.
type EnumConstant struct {
	basePos
	Annotations []*Annotation
	Name        string
	Arguments   []Expr
	Body        []ClassBodyDecl // nil unless this constant has a body
}

// AnnotationTypeDecl is `@interface Name { ... }`.
type AnnotationTypeDecl struct {
	basePos
	Modifiers []*Modifier
	Name      string
	Body      []*AnnotationTypeElement
}

func (*AnnotationTypeDecl) typeDeclNode() {}

// AnnotationTypeElement is one element of an annotation type body.
type AnnotationTypeElement struct {
	basePos
	Modifiers    []*Modifier
	Type         TypeNode
	Name         string
	DefaultValue Expr // nil when the element has no default
}

// FieldDecl is a field declaration, one or more comma-joined
// declarators sharing a base type and modifier set.
type FieldDecl struct {
	basePos
	Modifiers   []*Modifier
	Type        TypeNode
	Declarators []*VariableDeclarator
}

func (*FieldDecl) classBodyDeclNode()     {}
func (*FieldDecl) interfaceBodyDeclNode() {}

// VariableDeclarator is one `name[] = initializer` entry within a
// field or local-variable declaration; Dimensions holds legacy
// trailing `[]` dimensions written after the name.
type VariableDeclarator struct {
	basePos
	Name        string
	Dimensions  int
	Initializer Expr // nil when absent; *ArrayInitializerExpr for `{...}`
}

// MethodDecl is a method declaration; Body is nil for an abstract,
// native, or interface method without a default implementation.
type MethodDecl struct {
	basePos
	Modifiers      []*Modifier
	TypeParameters []*TypeParameter
	ReturnType     TypeNode
	Name           string
	Parameters     []*FormalParameter
	Throws         []TypeNode
	Body           *Block
	Dimensions     int  // legacy `Type name()[]` trailing dimensions
	DefaultValue   Expr // annotation-method default, nil otherwise
}

func (*MethodDecl) classBodyDeclNode()     {}
func (*MethodDecl) interfaceBodyDeclNode() {}

// ConstructorDecl is a constructor declaration.
type ConstructorDecl struct {
	basePos
	Modifiers      []*Modifier
	TypeParameters []*TypeParameter
	Name           string // simple class name, must match the enclosing type
	Parameters     []*FormalParameter
	Throws         []TypeNode
	Body           *Block
}

func (*ConstructorDecl) classBodyDeclNode() {}

// StaticInitializer is a `static { ... }` block.
type StaticInitializer struct {
	basePos
	Body *Block
}

func (*StaticInitializer) classBodyDeclNode() {}

// InstanceInitializer is an unlabeled `{ ... }` block at class scope.
type InstanceInitializer struct {
	basePos
	Body *Block
}

func (*InstanceInitializer) classBodyDeclNode() {}

// FormalParameter is one method or constructor parameter.
type FormalParameter struct {
	basePos
	Modifiers  []*Modifier
	Type       TypeNode
	Varargs    bool
	Name       string
	Dimensions int // legacy trailing `[]` after the parameter name
}

// NestedTypeDecl wraps a TypeDecl so it can appear as a class or
// interface body member.
type NestedTypeDecl struct {
	basePos
	Decl TypeDecl
}

func (*NestedTypeDecl) classBodyDeclNode()     {}
func (*NestedTypeDecl) interfaceBodyDeclNode() {}
