package compiler

import (
	"strings"

	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileIdentifier resolves a bare name against, in order, the
// current method's locals, the enclosing class's own fields, and —
// for an inner class — the this$0 chain of its enclosing instances
// (spec.md §4.8 "Inner-class capture").
func (g *Generator) compileIdentifier(mc *methodContext, expr *ast.Identifier) (types.Type, error) {
	if lv, ok := mc.locals[expr.Name]; ok {
		mc.emit.Load(emitKindOf(lv.typ), lv.slot)
		return lv.typ, nil
	}

	owner, f, depth := g.findFieldThroughOuters(expr.Name)
	if f == nil {
		return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), expr.Name, "cannot resolve name %q", expr.Name)
	}
	if f.IsStatic {
		mc.emit.GetStatic(mc.emit.ConstantPool().AddFieldref(f.Owner, expr.Name, f.Type.Descriptor()), f.Type.Size())
		return f.Type, nil
	}
	g.loadOuterThis(mc, depth)
	mc.emit.GetField(mc.emit.ConstantPool().AddFieldref(owner, expr.Name, f.Type.Descriptor()), f.Type.Size())
	return f.Type, nil
}

// findFieldThroughOuters looks up name on this class, then walks
// outward through enclosing Generators (this$0, this$0.this$0, ...)
// until it finds a declaring class, returning how many this$0 hops
// were needed.
func (g *Generator) findFieldThroughOuters(name string) (owner string, f *resolvedFieldLike, depth int) {
	for gen, d := g, 0; gen != nil; gen, d = gen.outer, d+1 {
		rf, err := g.resolver.FindField(gen.internalName, name)
		if err == nil && rf != nil {
			return rf.Owner, &resolvedFieldLike{Type: rf.Type, IsStatic: rf.IsStatic, Owner: rf.Owner}, d
		}
	}
	return "", nil, 0
}

// resolvedFieldLike is the subset of resolve.ResolvedField the name
// chain needs, kept local so this file doesn't need to import the
// resolve package's full type for a two-field read.
type resolvedFieldLike struct {
	Owner    string
	Type     types.Type
	IsStatic bool
}

// loadOuterThis pushes `this`, then walks depth this$0 hops outward,
// used whenever a name resolves to an enclosing instance's field.
func (g *Generator) loadOuterThis(mc *methodContext, depth int) {
	mc.emit.Load(emitter.KindRef, 0)
	gen := g
	for i := 0; i < depth; i++ {
		mc.emit.GetField(mc.emit.ConstantPool().AddFieldref(gen.internalName, "this$0", "L"+gen.outer.internalName+";"), 1)
		gen = gen.outer
	}
}

// compileFieldAccess lowers `target.field`, disambiguating a
// class-qualified static access (`System.out`) from an instance access
// by checking whether target, as a bare identifier, already resolves
// to a local or a field on the enclosing class chain.
func (g *Generator) compileFieldAccess(mc *methodContext, expr *ast.FieldAccessExpr) (types.Type, error) {
	if ident, ok := expr.Target.(*ast.Identifier); ok {
		if _, isLocal := mc.locals[ident.Name]; !isLocal {
			if _, f, _ := g.findFieldThroughOuters(ident.Name); f == nil {
				return g.compileStaticQualifiedField(mc, expr, ident.Name)
			}
		}
	}

	targetType, err := g.compileExpr(mc, expr.Target)
	if err != nil {
		return nil, err
	}
	if arr, ok := targetType.(types.Array); ok && expr.Field == "length" {
		_ = arr
		mc.emit.ArrayLength()
		return types.Int, nil
	}
	cls, ok := targetType.(types.Class)
	if !ok {
		return nil, g.errf(cgerrors.TypeMismatch, g.pos(expr), "", "field access %q on non-class type %s", expr.Field, targetType)
	}
	f, err := g.resolver.FindField(cls.Internal, expr.Field)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), cls.Internal+"."+expr.Field, "cannot resolve field %q on %s", expr.Field, cls.Internal)
	}
	mc.emit.GetField(mc.emit.ConstantPool().AddFieldref(f.Owner, expr.Field, f.Type.Descriptor()), f.Type.Size())
	return f.Type, nil
}

// compileStaticQualifiedField resolves a `ClassName.field` static
// access where className does not name a local variable or a visible
// instance field.
func (g *Generator) compileStaticQualifiedField(mc *methodContext, expr *ast.FieldAccessExpr, className string) (types.Type, error) {
	internal := g.names.Resolve(className)
	f, err := g.resolver.FindField(internal, expr.Field)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), internal+"."+expr.Field, "cannot resolve field %q on %s", expr.Field, internal)
	}
	mc.emit.GetStatic(mc.emit.ConstantPool().AddFieldref(f.Owner, expr.Field, f.Type.Descriptor()), f.Type.Size())
	return f.Type, nil
}

// compileQualifiedName lowers a dotted name the parser has not yet
// disambiguated into field-access nodes: the first segment resolves
// through the usual identifier chain (local, field, else a class
// name), and every following segment is a static or instance field
// access off the previous segment's type.
func (g *Generator) compileQualifiedName(mc *methodContext, expr *ast.QualifiedName) (types.Type, error) {
	parts := expr.Parts
	curType, consumed, err := g.compileQualifiedNamePrefix(mc, parts)
	if err != nil {
		return nil, err
	}
	for i := consumed; i < len(parts); i++ {
		curType, err = g.compileQualifiedStep(mc, curType, parts[i], expr)
		if err != nil {
			return nil, err
		}
	}
	return curType, nil
}

// compileQualifiedNamePrefix emits code for the first resolvable
// segment (possibly several segments, when they together name a
// package-qualified class), returning how many segments it consumed.
func (g *Generator) compileQualifiedNamePrefix(mc *methodContext, parts []string) (types.Type, int, error) {
	if lv, ok := mc.locals[parts[0]]; ok {
		mc.emit.Load(emitKindOf(lv.typ), lv.slot)
		return lv.typ, 1, nil
	}
	if owner, f, depth := g.findFieldThroughOuters(parts[0]); f != nil {
		if f.IsStatic {
			mc.emit.GetStatic(mc.emit.ConstantPool().AddFieldref(f.Owner, parts[0], f.Type.Descriptor()), f.Type.Size())
		} else {
			g.loadOuterThis(mc, depth)
			mc.emit.GetField(mc.emit.ConstantPool().AddFieldref(owner, parts[0], f.Type.Descriptor()), f.Type.Size())
		}
		return f.Type, 1, nil
	}
	// Not a local or a field: parts[0] (growing to include however many
	// leading segments are needed) names a class, and the next segment
	// is a static field on it.
	for end := 1; end < len(parts); end++ {
		candidate := strings.Join(parts[:end], "/")
		internal := g.names.Resolve(candidate)
		f, err := g.resolver.FindField(internal, parts[end])
		if err == nil && f != nil {
			mc.emit.GetStatic(mc.emit.ConstantPool().AddFieldref(f.Owner, parts[end], f.Type.Descriptor()), f.Type.Size())
			return f.Type, end + 1, nil
		}
	}
	return nil, 0, g.errf(cgerrors.UnresolvedSymbol, ast.Position{}, strings.Join(parts, "."), "cannot resolve qualified name %q", strings.Join(parts, "."))
}

func (g *Generator) compileQualifiedStep(mc *methodContext, curType types.Type, field string, expr ast.Expr) (types.Type, error) {
	if arr, ok := curType.(types.Array); ok && field == "length" {
		_ = arr
		mc.emit.ArrayLength()
		return types.Int, nil
	}
	cls, ok := curType.(types.Class)
	if !ok {
		return nil, g.errf(cgerrors.TypeMismatch, g.pos(expr), "", "field access %q on non-class type %s", field, curType)
	}
	f, err := g.resolver.FindField(cls.Internal, field)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), cls.Internal+"."+field, "cannot resolve field %q on %s", field, cls.Internal)
	}
	mc.emit.GetField(mc.emit.ConstantPool().AddFieldref(f.Owner, field, f.Type.Descriptor()), f.Type.Size())
	return f.Type, nil
}

// resolveQualifiedNameType is typeOf's non-emitting mirror of
// compileQualifiedName, used ahead of codegen when only the static
// type (not the value) is needed.
func (g *Generator) resolveQualifiedNameType(mc *methodContext, parts []string) (types.Type, error) {
	var curType types.Type
	consumed := 0
	if lv, ok := mc.locals[parts[0]]; ok {
		curType, consumed = lv.typ, 1
	} else if _, f, _ := g.findFieldThroughOuters(parts[0]); f != nil {
		curType, consumed = f.Type, 1
	} else {
		found := false
		for end := 1; end < len(parts); end++ {
			candidate := strings.Join(parts[:end], "/")
			internal := g.names.Resolve(candidate)
			f, err := g.resolver.FindField(internal, parts[end])
			if err == nil && f != nil {
				curType, consumed, found = f.Type, end+1, true
				break
			}
		}
		if !found {
			return nil, g.errf(cgerrors.UnresolvedSymbol, ast.Position{}, strings.Join(parts, "."), "cannot resolve qualified name %q", strings.Join(parts, "."))
		}
	}
	for i := consumed; i < len(parts); i++ {
		if arr, ok := curType.(types.Array); ok && parts[i] == "length" {
			_ = arr
			curType = types.Int
			continue
		}
		cls, ok := curType.(types.Class)
		if !ok {
			return nil, g.errf(cgerrors.TypeMismatch, ast.Position{}, "", "field access %q on non-class type %s", parts[i], curType)
		}
		f, err := g.resolver.FindField(cls.Internal, parts[i])
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, g.errf(cgerrors.UnresolvedSymbol, ast.Position{}, cls.Internal+"."+parts[i], "cannot resolve field %q on %s", parts[i], cls.Internal)
		}
		curType = f.Type
	}
	return curType, nil
}
