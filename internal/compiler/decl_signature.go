package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/signature"
)

// typeVarScope merges a declaration's own type-parameter names with
// its enclosing class's, so astTypeSig can tell a bare name like "T"
// apart from an ordinary class reference anywhere inside this class's
// members, including a non-static nested class referencing its
// outer's type parameters.
func (g *Generator) typeVarScope(typeParams []*ast.TypeParameter) map[string]bool {
	scope := map[string]bool{}
	if g.outer != nil {
		for name := range g.outer.classTypeVars {
			scope[name] = true
		}
	}
	for _, tp := range typeParams {
		scope[tp.Name] = true
	}
	return scope
}

// classSignature builds this class/interface's Signature attribute
// value (spec.md §4.1 "set_signature", JVMS 4.7.9.1), or "" when
// nothing here is actually generic: a non-generic class extending and
// implementing only raw types has no Signature attribute at all, its
// descriptor-level super/interfaces already say everything a reader
// needs (spec.md §6 "attributes are written as needed").
func (g *Generator) classSignature(typeParams []*ast.TypeParameter, extends ast.TypeNode, implements []ast.TypeNode) string {
	vars := g.typeVarScope(typeParams)

	needsSig := len(typeParams) > 0 || g.typeNeedsSignature(extends, vars)
	for _, it := range implements {
		needsSig = needsSig || g.typeNeedsSignature(it, vars)
	}
	if !needsSig {
		return ""
	}

	sig := &signature.ClassSignature{}
	for _, tp := range typeParams {
		sig.TypeParams = append(sig.TypeParams, g.astTypeParam(tp, vars))
	}
	sig.Super = g.astClassTypeSig(extends, vars)
	if sig.Super == nil {
		sig.Super = &signature.ClassTypeSig{Name: "java/lang/Object"}
	}
	for _, it := range implements {
		if cts := g.astClassTypeSig(it, vars); cts != nil {
			sig.Interfaces = append(sig.Interfaces, cts)
		}
	}
	return signature.RenderClassSignature(sig)
}

// methodSignature builds a method or constructor's Signature attribute
// value, or "" when every parameter, the return type, and the method's
// own type parameters are all non-generic.
func (g *Generator) methodSignature(typeParams []*ast.TypeParameter, params []*ast.FormalParameter, ret ast.TypeNode) string {
	vars := g.typeVarScope(typeParams)

	needsSig := len(typeParams) > 0 || g.typeNeedsSignature(ret, vars)
	for _, p := range params {
		needsSig = needsSig || g.typeNeedsSignature(p.Type, vars)
	}
	if !needsSig {
		return ""
	}

	sig := &signature.MethodSignature{Return: g.astTypeSig(ret, vars)}
	for _, tp := range typeParams {
		sig.TypeParams = append(sig.TypeParams, g.astTypeParam(tp, vars))
	}
	for _, p := range params {
		sig.Params = append(sig.Params, g.astTypeSig(p.Type, vars))
	}
	return signature.RenderMethodSignature(sig)
}

// fieldSignature builds a field's Signature attribute value, or "" for
// a plain, non-generic field type.
func (g *Generator) fieldSignature(t ast.TypeNode) string {
	vars := g.classTypeVars
	if !g.typeNeedsSignature(t, vars) {
		return ""
	}
	return signature.RenderFieldSignature(&signature.FieldSignature{Type: g.astTypeSig(t, vars)})
}

// typeNeedsSignature reports whether t mentions a parameterized type
// or a type variable anywhere within it, the two things a plain
// descriptor string cannot express.
func (g *Generator) typeNeedsSignature(t ast.TypeNode, vars map[string]bool) bool {
	switch tt := t.(type) {
	case nil:
		return false
	case *ast.PrimitiveType:
		return false
	case *ast.ArrayType:
		return g.typeNeedsSignature(tt.ElementType, vars)
	case *ast.ClassType:
		if len(tt.TypeArguments) > 0 {
			return true
		}
		return vars[tt.Name]
	default:
		return false
	}
}

// astTypeSig converts an ast type node to its signature.TypeSig form.
func (g *Generator) astTypeSig(t ast.TypeNode, vars map[string]bool) signature.TypeSig {
	switch tt := t.(type) {
	case nil:
		return signature.Primitive{Descriptor: 'V'}
	case *ast.PrimitiveType:
		return signature.Primitive{Descriptor: primitiveSignatureByte(tt.Name)}
	case *ast.ArrayType:
		return signature.ArrayTypeSig{Element: g.astTypeSig(tt.ElementType, vars)}
	case *ast.ClassType:
		if len(tt.TypeArguments) == 0 && vars[tt.Name] {
			return signature.TypeVar{Name: tt.Name}
		}
		args := make([]signature.TypeArgument, len(tt.TypeArguments))
		for i, ta := range tt.TypeArguments {
			args[i] = g.astTypeArgument(ta, vars)
		}
		return &signature.ClassTypeSig{Name: g.names.Resolve(tt.Name), Args: args}
	default:
		return &signature.ClassTypeSig{Name: "java/lang/Object"}
	}
}

// astClassTypeSig is astTypeSig narrowed to the ClassTypeSig result
// classSignature's Super/Interfaces slots require; nil (meaning
// "no explicit supertype", i.e. implicit Object) stays nil rather than
// becoming a bogus zero-value signature.
func (g *Generator) astClassTypeSig(t ast.TypeNode, vars map[string]bool) *signature.ClassTypeSig {
	if t == nil {
		return nil
	}
	cts, _ := g.astTypeSig(t, vars).(*signature.ClassTypeSig)
	return cts
}

func (g *Generator) astTypeArgument(ta *ast.TypeArgument, vars map[string]bool) signature.TypeArgument {
	switch ta.Wildcard {
	case ast.ExtendsWildcard:
		return signature.TypeArgument{Wildcard: signature.Extends, Type: g.astTypeSig(ta.Type, vars)}
	case ast.SuperWildcard:
		return signature.TypeArgument{Wildcard: signature.Super, Type: g.astTypeSig(ta.Type, vars)}
	default:
		if ta.Type == nil {
			return signature.TypeArgument{Wildcard: signature.Unbounded}
		}
		return signature.TypeArgument{Type: g.astTypeSig(ta.Type, vars)}
	}
}

// astTypeParam converts a declared type parameter and its bounds.
// JVMS 4.7.9.1 splits bounds into one optional ClassBound followed by
// zero or more InterfaceBounds; since telling a class bound from an
// interface bound apart requires knowing which one it is, the first
// bound is routed to ClassBound unless the resolver already knows it
// names an interface (the common multiple-bound case, "T extends
// Comparable<T> & Serializable"), in which case ClassBound is left
// empty (implicitly Object) and every bound becomes an interface bound.
func (g *Generator) astTypeParam(tp *ast.TypeParameter, vars map[string]bool) signature.TypeParam {
	out := signature.TypeParam{Name: tp.Name}
	for i, b := range tp.Bounds {
		bs := g.astTypeSig(b, vars)
		if i == 0 && !g.boundIsInterface(b) {
			out.ClassBound = bs
			continue
		}
		out.InterfaceBounds = append(out.InterfaceBounds, bs)
	}
	return out
}

func (g *Generator) boundIsInterface(t ast.TypeNode) bool {
	ct, ok := t.(*ast.ClassType)
	if !ok {
		return false
	}
	return g.resolver.IsInterface(g.names.Resolve(ct.Name))
}

func primitiveSignatureByte(name string) byte {
	switch name {
	case "boolean":
		return 'Z'
	case "byte":
		return 'B'
	case "char":
		return 'C'
	case "short":
		return 'S'
	case "int":
		return 'I'
	case "long":
		return 'J'
	case "float":
		return 'F'
	case "double":
		return 'D'
	default:
		return 'V'
	}
}
