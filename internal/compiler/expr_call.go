package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/resolve"
	"github.com/cwbudde/go-javac/internal/types"
)

// callPlan is the outcome of resolving a method-invocation expression
// without emitting any bytecode: which receiver form applies, how many
// this$0 hops an unqualified outer-method call needs, and the chosen
// overload.
type callPlan struct {
	method      *resolve.ResolvedMethod
	argTypes    []types.Type
	receiver    receiverKind
	outerDepth  int  // only meaningful when receiver == receiverOuterInstance
}

type receiverKind int

const (
	receiverNone receiverKind = iota // static call, no receiver pushed
	receiverThis                      // unqualified instance call on this class
	receiverOuterInstance              // unqualified instance call resolved on an enclosing class
	receiverSuper                      // Target is `super`
	receiverExpr                       // Target is an arbitrary expression
)

// resolveCall plans expr without emitting, used by expr_type.go's
// typeOf to learn a call's return type ahead of any codegen decision
// that depends on it.
func (g *Generator) resolveCall(mc *methodContext, expr *ast.MethodInvocationExpr) (*resolve.ResolvedMethod, error) {
	plan, err := g.planCall(mc, expr)
	if err != nil {
		return nil, err
	}
	return plan.method, nil
}

func (g *Generator) argTypesOf(mc *methodContext, args []ast.Expr) ([]types.Type, error) {
	out := make([]types.Type, len(args))
	for i, a := range args {
		t, err := g.typeOf(mc, a)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (g *Generator) planCall(mc *methodContext, expr *ast.MethodInvocationExpr) (*callPlan, error) {
	argTypes, err := g.argTypesOf(mc, expr.Arguments)
	if err != nil {
		return nil, err
	}

	switch target := expr.Target.(type) {
	case nil:
		for gen, depth := g, 0; gen != nil; gen, depth = gen.outer, depth+1 {
			rm, err := g.resolver.FindMethod(gen.internalName, expr.Method, argTypes)
			if err != nil {
				return nil, err
			}
			if rm != nil {
				rk := receiverThis
				if depth > 0 {
					rk = receiverOuterInstance
				}
				if rm.IsStatic {
					rk = receiverNone
				}
				return &callPlan{method: rm, argTypes: argTypes, receiver: rk, outerDepth: depth}, nil
			}
		}
		return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), expr.Method, "cannot resolve method %q", expr.Method)

	case *ast.SuperExpr:
		rm, err := g.resolver.FindMethod(g.superName, expr.Method, argTypes)
		if err != nil {
			return nil, err
		}
		if rm == nil {
			return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), expr.Method, "cannot resolve method %q on %s", expr.Method, g.superName)
		}
		return &callPlan{method: rm, argTypes: argTypes, receiver: receiverSuper}, nil

	case *ast.Identifier:
		if _, isLocal := mc.locals[target.Name]; !isLocal {
			if _, f, _ := g.findFieldThroughOuters(target.Name); f == nil {
				internal := g.names.Resolve(target.Name)
				rm, err := g.resolver.FindMethod(internal, expr.Method, argTypes)
				if err != nil {
					return nil, err
				}
				if rm != nil {
					return &callPlan{method: rm, argTypes: argTypes, receiver: receiverNone}, nil
				}
			}
		}
	}

	// Fallback: target is (or reduces to) an arbitrary expression whose
	// static type names the receiver class.
	targetType, err := g.typeOf(mc, expr.Target)
	if err != nil {
		return nil, err
	}
	cls, ok := targetType.(types.Class)
	if !ok {
		return nil, g.errf(cgerrors.TypeMismatch, g.pos(expr), "", "method call %q on non-class type %s", expr.Method, targetType)
	}
	rm, err := g.resolver.FindMethod(cls.Internal, expr.Method, argTypes)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), cls.Internal+"."+expr.Method, "cannot resolve method %q on %s", expr.Method, cls.Internal)
	}
	return &callPlan{method: rm, argTypes: argTypes, receiver: receiverExpr}, nil
}

// compileMethodInvocation lowers a call, packaging trailing arguments
// into a synthetic array when the chosen overload is variadic
// (spec.md GLOSSARY "Variadic parameter").
func (g *Generator) compileMethodInvocation(mc *methodContext, expr *ast.MethodInvocationExpr) (types.Type, error) {
	plan, err := g.planCall(mc, expr)
	if err != nil {
		return nil, err
	}
	rm := plan.method

	switch plan.receiver {
	case receiverThis:
		mc.emit.Load(emitter.KindRef, 0)
	case receiverOuterInstance:
		g.loadOuterThis(mc, plan.outerDepth)
	case receiverSuper:
		mc.emit.Load(emitter.KindRef, 0)
	case receiverExpr:
		if _, err := g.compileExpr(mc, expr.Target); err != nil {
			return nil, err
		}
	}

	if err := g.compileCallArguments(mc, expr.Arguments, plan.argTypes, rm); err != nil {
		return nil, err
	}

	argSlots := paramSlotsFor(rm)
	retSlots := rm.Return.Size()
	if rm.Return == types.Void {
		retSlots = 0
	}
	methodrefIdx := g.methodrefFor(mc, rm)

	switch {
	case rm.IsStatic:
		mc.emit.InvokeStatic(methodrefIdx, argSlots, retSlots)
	case plan.receiver == receiverSuper:
		mc.emit.InvokeSpecial(methodrefIdx, argSlots, retSlots)
	case rm.IsInterface:
		mc.emit.InvokeInterface(methodrefIdx, argSlots, retSlots)
	default:
		mc.emit.InvokeVirtual(methodrefIdx, argSlots, retSlots)
	}
	return rm.Return, nil
}

func (g *Generator) methodrefFor(mc *methodContext, rm *resolve.ResolvedMethod) uint16 {
	if rm.IsInterface {
		return mc.emit.ConstantPool().AddInterfaceMethodref(rm.Owner, rm.Name, rm.Descriptor)
	}
	return mc.emit.ConstantPool().AddMethodref(rm.Owner, rm.Name, rm.Descriptor)
}

func paramSlotsFor(rm *resolve.ResolvedMethod) int {
	n := 0
	for _, p := range rm.Params {
		n += p.Size()
	}
	return n
}

// compileCallArguments emits each argument converted to its formal
// parameter's type, packaging any trailing arguments into a fresh
// array when rm.Varargs and the call wasn't already passed an array
// directly (the common case for a source-level variadic call).
func (g *Generator) compileCallArguments(mc *methodContext, args []ast.Expr, argTypes []types.Type, rm *resolve.ResolvedMethod) error {
	fixed := len(rm.Params)
	if rm.Varargs {
		fixed--
	}
	for i := 0; i < fixed && i < len(args); i++ {
		if _, err := g.compileExprWithTarget(mc, args[i], rm.Params[i]); err != nil {
			return err
		}
		g.convertIfNeeded(mc, argTypes[i], rm.Params[i])
	}
	if !rm.Varargs {
		return nil
	}

	arrType, ok := rm.Params[fixed].(types.Array)
	if !ok {
		return nil
	}
	// A single trailing argument whose own type already matches the
	// array parameter is passed straight through (JLS 15.12.4.2).
	if len(args)-fixed == 1 {
		if at, ok := argTypes[fixed].(types.Array); ok && types.Equal(at, arrType) {
			if _, err := g.compileExpr(mc, args[fixed]); err != nil {
				return err
			}
			return nil
		}
	}

	elem := arrType.Elem
	count := len(args) - fixed
	mc.emit.Iconst(int32(count))
	g.emitNewArrayFor(mc, elem)
	for i := fixed; i < len(args); i++ {
		mc.emit.Dup()
		mc.emit.Iconst(int32(i - fixed))
		vt, err := g.compileExpr(mc, args[i])
		if err != nil {
			return err
		}
		g.convertIfNeeded(mc, vt, elem)
		g.emitArrayStoreByDesc(mc, elem.Descriptor())
	}
	return nil
}
