package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	"github.com/cwbudde/go-javac/internal/types"
)

// convertIfNeeded emits the numeric-conversion opcode to move the
// value just pushed (of static type actual) to target, a no-op when
// both share the emitter's Kind (byte/short/char/int are all KindInt
// on the operand stack already, so no instruction is needed between
// them).
func (g *Generator) convertIfNeeded(mc *methodContext, actual, target types.Type) {
	ap, aok := actual.(types.Primitive)
	tp, tok := target.(types.Primitive)
	if !aok || !tok || ap == tp {
		return
	}
	fromK, toK := emitKindOf(ap), emitKindOf(tp)
	if fromK == toK {
		return
	}
	mc.emit.Convert(fromK, toK)
}

func hasModifier(mods []*ast.Modifier, keyword string) bool {
	for _, m := range mods {
		if m.Keyword == keyword {
			return true
		}
	}
	return false
}

func accessFlagsFromModifiers(mods []*ast.Modifier) classfile.AccessFlags {
	var f classfile.AccessFlags
	table := map[string]classfile.AccessFlags{
		"public": classfile.AccPublic, "private": classfile.AccPrivate,
		"protected": classfile.AccProtected, "static": classfile.AccStatic,
		"final": classfile.AccFinal, "abstract": classfile.AccAbstract,
		"synchronized": classfile.AccSynchronized, "native": classfile.AccNative,
		"strictfp": classfile.AccStrict, "transient": classfile.AccTransient,
		"volatile": classfile.AccVolatile,
	}
	for _, m := range mods {
		f |= table[m.Keyword]
	}
	return f
}

// paramType resolves one formal parameter's effective type, folding
// varargs and C-style trailing array brackets into its dimension count
// (spec.md's "Variadic parameter" glossary entry: packaged as an array
// type at the descriptor level).
func (g *Generator) paramType(p *ast.FormalParameter) types.Type {
	base := g.resolveType(p.Type)
	dims := p.Dimensions
	if p.Varargs {
		dims++
	}
	if dims == 0 {
		return base
	}
	if arr, ok := base.(types.Array); ok {
		return types.NewArray(arr.Elem, arr.Dims+dims)
	}
	return types.NewArray(base, dims)
}

func (g *Generator) paramTypes(params []*ast.FormalParameter) []types.Type {
	out := make([]types.Type, len(params))
	for i, p := range params {
		out[i] = g.paramType(p)
	}
	return out
}

func isVarargs(params []*ast.FormalParameter) bool {
	return len(params) > 0 && params[len(params)-1].Varargs
}

// internalNames resolves a list of type nodes (extends/implements
// clauses) to internal class names via the name-resolution chain.
func (g *Generator) internalNames(ts []ast.TypeNode) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		if ct, ok := t.(*ast.ClassType); ok {
			out = append(out, g.names.Resolve(ct.Name))
		}
	}
	return out
}
