package compiler

import (
	"strings"

	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileNewInstance lowers `new Type(args)` via the standard
// new/dup/args/invokespecial <init> sequence (JVMS 4.10.2.4 on the
// uninitialized-this rule). A non-static nested class's constructor
// additionally takes the enclosing instance as a hidden leading
// argument (this$0, spec.md §4.8 "Inner-class capture"), resolved from
// expr.Qualifier (`outer.new Inner()`) when present, or else from the
// nearest enclosing generator whose internal name matches. Anonymous
// class bodies belong to the declaration compiler and are not yet
// supported here.
func (g *Generator) compileNewInstance(mc *methodContext, expr *ast.NewInstanceExpr) (types.Type, error) {
	if expr.Body != nil {
		return nil, g.errf(cgerrors.UnsupportedAst, g.pos(expr), "", "anonymous class bodies are not yet supported")
	}

	t := g.resolveType(expr.Type)
	cls, ok := t.(types.Class)
	if !ok {
		return nil, g.errf(cgerrors.TypeMismatch, g.pos(expr), "", "new expects a class type, got %s", t)
	}

	argTypes, err := g.argTypesOf(mc, expr.Arguments)
	if err != nil {
		return nil, err
	}

	rm, err := g.resolver.FindConstructor(cls.Internal, argTypes)
	if err != nil {
		return nil, err
	}

	outerInternal := ""
	if rm == nil {
		if idx := strings.LastIndexByte(cls.Internal, '$'); idx >= 0 {
			outerInternal = cls.Internal[:idx]
			augmented := append([]types.Type{types.NewClass(outerInternal)}, argTypes...)
			rm, err = g.resolver.FindConstructor(cls.Internal, augmented)
			if err != nil {
				return nil, err
			}
		}
	}
	if rm == nil {
		return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), cls.Internal+".<init>", "cannot resolve constructor for %s", cls.Internal)
	}

	classIdx := mc.emit.ConstantPool().AddClass(cls.Internal)
	mc.emit.New(classIdx)
	mc.emit.Dup()
	if outerInternal != "" {
		if err := g.loadEnclosingInstance(mc, expr.Qualifier, outerInternal); err != nil {
			return nil, err
		}
	}
	if err := g.compileCallArguments(mc, expr.Arguments, argTypes, rm); err != nil {
		return nil, err
	}
	methodrefIdx := mc.emit.ConstantPool().AddMethodref(rm.Owner, "<init>", rm.Descriptor)
	mc.emit.InvokeSpecial(methodrefIdx, paramSlotsFor(rm), 0)
	return cls, nil
}

// loadEnclosingInstance pushes the this$0 argument for constructing a
// non-static nested class of outerInternal: an explicit qualifier
// expression (`outer.new Inner()`) when given, otherwise the nearest
// enclosing generator in this one's outer chain whose class matches.
func (g *Generator) loadEnclosingInstance(mc *methodContext, qualifier ast.Expr, outerInternal string) error {
	if qualifier != nil {
		vt, err := g.compileExpr(mc, qualifier)
		if err != nil {
			return err
		}
		g.convertIfNeeded(mc, vt, types.NewClass(outerInternal))
		return nil
	}
	for gen, depth := g, 0; gen != nil; gen, depth = gen.outer, depth+1 {
		if gen.internalName == outerInternal {
			g.loadOuterThis(mc, depth)
			return nil
		}
	}
	// Fallback: no enclosing instance of the right type is in scope
	// (shouldn't happen for code that resolved correctly); push `this`
	// so the emitted bytecode stays well-formed rather than unbalanced.
	mc.emit.Load(emitter.KindRef, 0)
	return nil
}

// compileNewArray lowers `new Type[dims]...` and `new Type[]{...}`.
func (g *Generator) compileNewArray(mc *methodContext, expr *ast.NewArrayExpr) (types.Type, error) {
	base := g.resolveType(expr.Type)
	total := len(expr.Dimensions)
	if total == 0 {
		total = 1
	}

	if expr.Initializer != nil {
		return g.compileArrayInitializer(mc, base, total, expr.Initializer)
	}

	explicit := 0
	for _, d := range expr.Dimensions {
		if d == nil {
			break
		}
		explicit++
	}
	for i := 0; i < explicit; i++ {
		dt, err := g.compileExpr(mc, expr.Dimensions[i])
		if err != nil {
			return nil, err
		}
		g.convertIfNeeded(mc, dt, types.Int)
	}

	result := types.NewArray(base, total)
	if total == 1 {
		g.emitNewArrayFor(mc, base)
		return result, nil
	}
	classIdx := mc.emit.ConstantPool().AddClass(result.Descriptor())
	mc.emit.MultiANewArray(classIdx, byte(explicit))
	return result, nil
}

// emitNewArrayFor creates a single-dimension array of elem, assuming
// its length is already on top of the stack.
func (g *Generator) emitNewArrayFor(mc *methodContext, elem types.Type) {
	if p, ok := elem.(types.Primitive); ok {
		mc.emit.NewArray(arrayTypeFor(p))
		return
	}
	classIdx := mc.emit.ConstantPool().AddClass(elem.Descriptor())
	mc.emit.ANewArray(classIdx)
}

func arrayTypeFor(p types.Primitive) byte {
	switch p {
	case types.Boolean:
		return emitter.ArrayTypeBoolean
	case types.Char:
		return emitter.ArrayTypeChar
	case types.Float:
		return emitter.ArrayTypeFloat
	case types.Double:
		return emitter.ArrayTypeDouble
	case types.Byte:
		return emitter.ArrayTypeByte
	case types.Short:
		return emitter.ArrayTypeShort
	case types.Long:
		return emitter.ArrayTypeLong
	default:
		return emitter.ArrayTypeInt
	}
}

// compileArrayInitializer builds and fills an array literal, recursing
// one dimension at a time for a nested `{{1,2},{3,4}}` form.
func (g *Generator) compileArrayInitializer(mc *methodContext, base types.Type, dims int, init *ast.ArrayInitializerExpr) (types.Type, error) {
	arrType := types.NewArray(base, dims)
	n := len(init.Elements)
	mc.emit.Iconst(int32(n))

	var component types.Type
	if dims == 1 {
		component = base
		g.emitNewArrayFor(mc, base)
	} else {
		component = types.Array{Elem: base, Dims: dims - 1}
		classIdx := mc.emit.ConstantPool().AddClass(component.Descriptor())
		mc.emit.ANewArray(classIdx)
	}

	for i, elemExpr := range init.Elements {
		mc.emit.Dup()
		mc.emit.Iconst(int32(i))
		if nested, ok := elemExpr.(*ast.ArrayInitializerExpr); ok && dims > 1 {
			if _, err := g.compileArrayInitializer(mc, base, dims-1, nested); err != nil {
				return nil, err
			}
		} else {
			vt, err := g.compileExpr(mc, elemExpr)
			if err != nil {
				return nil, err
			}
			g.convertIfNeeded(mc, vt, component)
		}
		g.emitArrayStoreByDesc(mc, component.Descriptor())
	}
	return arrType, nil
}
