// Package signature parses and renders JVMS 4.7.9.1 generic Signature
// attribute strings — ClassSignature, MethodSignature, and
// FieldSignature — and erases them to their raw descriptor form
// (spec.md §4.4 "Generics").
package signature

import "strings"

// TypeParam is one formal type parameter declaration, e.g. "T extends
// Comparable<T> & Serializable".
type TypeParam struct {
	Name           string
	ClassBound     TypeSig // nil if the bound is implicitly Object and there are interface bounds
	InterfaceBounds []TypeSig
}

// WildcardKind is the variance indicator on a type argument.
type WildcardKind int

const (
	NoWildcard WildcardKind = iota
	Extends                 // "? extends T" -> "+T"
	Super                   // "? super T" -> "-T"
	Unbounded               // "?" -> "*"
)

// TypeArgument is one actual type argument in a parameterized type,
// e.g. the "? extends Number" in List<? extends Number>.
type TypeArgument struct {
	Wildcard WildcardKind
	Type     TypeSig // nil when Wildcard == Unbounded
}

// TypeSig is any of the four reference/primitive type-signature forms.
type TypeSig interface{ isTypeSig() }

// Primitive is one of the eight primitive descriptor characters, or V
// (void, return-type position only).
type Primitive struct{ Descriptor byte } // 'Z','B','C','S','I','J','F','D','V'

func (Primitive) isTypeSig() {}

// ClassTypeSig is a (possibly parameterized, possibly nested) class
// or interface type, e.g. "Ljava/util/List<Ljava/lang/String;>;".
type ClassTypeSig struct {
	Name      string // internal name, e.g. "java/util/List"
	Args      []TypeArgument
	Inner     *ClassTypeSig // non-nil for a ClassTypeSignatureSuffix ("Outer<T>.Inner<U>")
}

func (*ClassTypeSig) isTypeSig() {}

// TypeVar is a reference to a type parameter, e.g. "TT;".
type TypeVar struct{ Name string }

func (TypeVar) isTypeSig() {}

// ArrayTypeSig is an array whose element is itself a TypeSig.
type ArrayTypeSig struct{ Element TypeSig }

func (ArrayTypeSig) isTypeSig() {}

// ClassSignature is the parsed Signature attribute of a class or
// interface declaration.
type ClassSignature struct {
	TypeParams []TypeParam
	Super      *ClassTypeSig
	Interfaces []*ClassTypeSig
}

// MethodSignature is the parsed Signature attribute of a method or
// constructor.
type MethodSignature struct {
	TypeParams []TypeParam
	Params     []TypeSig
	Return     TypeSig
	Throws     []TypeSig // each is *ClassTypeSig or TypeVar
}

// FieldSignature is the parsed Signature attribute of a field: always
// exactly one reference type.
type FieldSignature struct {
	Type TypeSig
}

var primitiveDescriptors = "ZBCSIJFD"

func isPrimitiveDescriptor(c byte) bool {
	return strings.IndexByte(primitiveDescriptors, c) >= 0
}
