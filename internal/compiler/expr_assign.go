package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

var compoundOps = map[string]emitter.BinaryOp{
	"+=": emitter.Add, "-=": emitter.Sub, "*=": emitter.Mul, "/=": emitter.Div, "%=": emitter.Rem,
	"<<=": emitter.Shl, ">>=": emitter.Shr, ">>>=": emitter.Ushr,
	"&=": emitter.And, "|=": emitter.Or, "^=": emitter.Xor,
}

// compileAssignment lowers `target op= value`, leaving the assigned
// (post-conversion) value on the stack so assignment can itself be
// used as an expression (JLS 15.26).
func (g *Generator) compileAssignment(mc *methodContext, expr *ast.AssignmentExpr) (types.Type, error) {
	if ident, ok := expr.Target.(*ast.Identifier); ok {
		if lv, isLocal := mc.locals[ident.Name]; isLocal {
			return g.compileLocalAssignment(mc, lv, expr)
		}
	}

	switch target := expr.Target.(type) {
	case *ast.ArrayAccessExpr:
		return g.compileArrayAssignment(mc, target, expr)
	default:
		return g.compileFieldLikeAssignment(mc, expr)
	}
}

func (g *Generator) compileLocalAssignment(mc *methodContext, lv *localVar, expr *ast.AssignmentExpr) (types.Type, error) {
	if expr.Operator == "=" {
		vt, err := g.compileExpr(mc, expr.Value)
		if err != nil {
			return nil, err
		}
		g.convertIfNeeded(mc, vt, lv.typ)
		mc.emit.Store(emitKindOf(lv.typ), lv.slot)
		mc.emit.Load(emitKindOf(lv.typ), lv.slot)
		return lv.typ, nil
	}

	mc.emit.Load(emitKindOf(lv.typ), lv.slot)
	if err := g.compileCompoundRHS(mc, expr.Operator, lv.typ, expr.Value); err != nil {
		return nil, err
	}
	g.narrowToTarget(mc, lv.typ)
	mc.emit.Store(emitKindOf(lv.typ), lv.slot)
	mc.emit.Load(emitKindOf(lv.typ), lv.slot)
	return lv.typ, nil
}

// fieldTarget resolves expr.Target to the field it names, alongside
// whether an objectref needs to be pushed.
func (g *Generator) fieldTarget(mc *methodContext, target ast.Expr) (owner, name string, typ types.Type, isStatic bool, err error) {
	switch t := target.(type) {
	case *ast.Identifier:
		o, f, depth := g.findFieldThroughOuters(t.Name)
		if f == nil {
			return "", "", nil, false, g.errf(cgerrors.UnresolvedSymbol, g.pos(target), t.Name, "cannot resolve name %q", t.Name)
		}
		_ = depth
		return o, t.Name, f.Type, f.IsStatic, nil
	case *ast.FieldAccessExpr:
		tt, err := g.typeOf(mc, t.Target)
		if err != nil {
			return "", "", nil, false, err
		}
		cls, ok := tt.(types.Class)
		if !ok {
			return "", "", nil, false, g.errf(cgerrors.TypeMismatch, g.pos(target), "", "field assignment target is not a class type")
		}
		f, err := g.resolver.FindField(cls.Internal, t.Field)
		if err != nil {
			return "", "", nil, false, err
		}
		if f == nil {
			return "", "", nil, false, g.errf(cgerrors.UnresolvedSymbol, g.pos(target), cls.Internal+"."+t.Field, "cannot resolve field %q", t.Field)
		}
		return f.Owner, t.Field, f.Type, f.IsStatic, nil
	case *ast.QualifiedName:
		qt, err := g.resolveQualifiedNameType(mc, t.Parts[:len(t.Parts)-1])
		if err != nil {
			return "", "", nil, false, err
		}
		cls, ok := qt.(types.Class)
		if !ok {
			return "", "", nil, false, g.errf(cgerrors.TypeMismatch, g.pos(target), "", "field assignment target is not a class type")
		}
		last := t.Parts[len(t.Parts)-1]
		f, err := g.resolver.FindField(cls.Internal, last)
		if err != nil {
			return "", "", nil, false, err
		}
		if f == nil {
			return "", "", nil, false, g.errf(cgerrors.UnresolvedSymbol, g.pos(target), cls.Internal+"."+last, "cannot resolve field %q", last)
		}
		return f.Owner, last, f.Type, f.IsStatic, nil
	default:
		return "", "", nil, false, g.errf(cgerrors.UnsupportedAst, g.pos(target), "", "unsupported assignment target %T", target)
	}
}

// fieldObjectExpr returns the instance expression to compile for
// a non-static field target, or nil for `this`/outer-captured fields
// whose receiver the caller must load via loadOuterThis separately.
func (g *Generator) fieldObjectExpr(target ast.Expr) (ast.Expr, int, bool) {
	switch t := target.(type) {
	case *ast.Identifier:
		_, f, depth := g.findFieldThroughOuters(t.Name)
		if f != nil && !f.IsStatic {
			return nil, depth, true
		}
	case *ast.FieldAccessExpr:
		return t.Target, 0, true
	}
	return nil, 0, false
}

func (g *Generator) compileFieldLikeAssignment(mc *methodContext, expr *ast.AssignmentExpr) (types.Type, error) {
	owner, name, ftype, isStatic, err := g.fieldTarget(mc, expr.Target)
	if err != nil {
		return nil, err
	}
	fieldrefIdx := func() uint16 { return mc.emit.ConstantPool().AddFieldref(owner, name, ftype.Descriptor()) }

	objExpr, outerDepth, hasObj := g.fieldObjectExpr(expr.Target)
	if !isStatic && hasObj {
		if objExpr != nil {
			if _, err := g.compileExpr(mc, objExpr); err != nil {
				return nil, err
			}
		} else {
			g.loadOuterThis(mc, outerDepth)
		}
	}

	if expr.Operator == "=" {
		vt, err := g.compileExpr(mc, expr.Value)
		if err != nil {
			return nil, err
		}
		g.convertIfNeeded(mc, vt, ftype)
		if isStatic {
			mc.emit.Dup()
			mc.emit.PutStatic(fieldrefIdx(), ftype.Size())
		} else if ftype.Size() == 2 {
			mc.emit.Dup2X1()
			mc.emit.PutField(fieldrefIdx(), ftype.Size())
		} else {
			mc.emit.DupX1()
			mc.emit.PutField(fieldrefIdx(), ftype.Size())
		}
		return ftype, nil
	}

	if isStatic {
		mc.emit.GetStatic(fieldrefIdx(), ftype.Size())
	} else {
		mc.emit.Dup()
		mc.emit.GetField(fieldrefIdx(), ftype.Size())
	}
	if err := g.compileCompoundRHS(mc, expr.Operator, ftype, expr.Value); err != nil {
		return nil, err
	}
	g.narrowToTarget(mc, ftype)

	if isStatic {
		mc.emit.Dup()
		mc.emit.PutStatic(fieldrefIdx(), ftype.Size())
	} else if ftype.Size() == 2 {
		mc.emit.Dup2X1()
		mc.emit.PutField(fieldrefIdx(), ftype.Size())
	} else {
		mc.emit.DupX1()
		mc.emit.PutField(fieldrefIdx(), ftype.Size())
	}
	return ftype, nil
}

func (g *Generator) compileArrayAssignment(mc *methodContext, target *ast.ArrayAccessExpr, expr *ast.AssignmentExpr) (types.Type, error) {
	at, err := g.compileExpr(mc, target.Array)
	if err != nil {
		return nil, err
	}
	arr, ok := at.(types.Array)
	if !ok {
		return nil, g.errf(cgerrors.TypeMismatch, g.pos(target), "", "array assignment on non-array type %s", at)
	}
	elem := arr.Elem
	if arr.Dims > 1 {
		elem = types.Array{Elem: arr.Elem, Dims: arr.Dims - 1}
	}
	if _, err := g.compileExpr(mc, target.Index); err != nil {
		return nil, err
	}

	if expr.Operator == "=" {
		vt, err := g.compileExpr(mc, expr.Value)
		if err != nil {
			return nil, err
		}
		g.convertIfNeeded(mc, vt, elem)
		if elem.Size() == 2 {
			mc.emit.Dup2X2()
		} else {
			mc.emit.DupX2()
		}
		g.emitArrayStoreByDesc(mc, elem.Descriptor())
		return elem, nil
	}

	mc.emit.Dup2()
	g.emitArrayLoadByDesc(mc, elem.Descriptor())
	if err := g.compileCompoundRHS(mc, expr.Operator, elem, expr.Value); err != nil {
		return nil, err
	}
	g.narrowToTarget(mc, elem)
	if elem.Size() == 2 {
		mc.emit.Dup2X2()
	} else {
		mc.emit.DupX2()
	}
	g.emitArrayStoreByDesc(mc, elem.Descriptor())
	return elem, nil
}

// compileCompoundRHS finishes a compound assignment: the current
// target value (of leftType) is already on the stack; this converts it
// to the binary operator's promoted type, compiles rhs and converts
// that too, then applies the operator — each conversion is emitted
// immediately after its operand is pushed, since a stack-machine
// conversion can only affect the value on top (mirrors cond.go's
// compileComparison).
func (g *Generator) compileCompoundRHS(mc *methodContext, operator string, leftType types.Type, rhs ast.Expr) error {
	op, ok := compoundOps[operator]
	if !ok {
		return g.errf(cgerrors.UnsupportedAst, g.pos(rhs), "", "unsupported compound assignment operator %q", operator)
	}
	if op == emitter.Shl || op == emitter.Shr || op == emitter.Ushr {
		promoted := types.UnaryPromote(leftType.(types.Primitive))
		g.convertIfNeeded(mc, leftType, promoted)
		rt, err := g.compileExpr(mc, rhs)
		if err != nil {
			return err
		}
		g.convertIfNeeded(mc, rt, types.Int)
		mc.emit.Binary(op, emitKindOf(promoted))
		return nil
	}

	if op == emitter.Add && isStringType(leftType) {
		return g.compileStringConcatAssign(mc, rhs)
	}

	rt, err := g.typeOf(mc, rhs)
	if err != nil {
		return err
	}
	promoted := types.PromotedType(leftType, rt)
	g.convertIfNeeded(mc, leftType, promoted)
	if _, err := g.compileExpr(mc, rhs); err != nil {
		return err
	}
	g.convertIfNeeded(mc, rt, promoted)
	mc.emit.Binary(op, emitKindOf(promoted))
	return nil
}

// compileStringConcatAssign finishes `str += x` given str's current
// value is already on the stack: it is a reference, so Swap alone
// reorders it under a freshly constructed StringBuilder (spec.md §4.6
// string concatenation via StringBuilder).
func (g *Generator) compileStringConcatAssign(mc *methodContext, rhs ast.Expr) error {
	cp := mc.emit.ConstantPool()
	sbClass := "java/lang/StringBuilder"
	classIdx := cp.AddClass(sbClass)
	mc.emit.New(classIdx)
	mc.emit.Dup()
	mc.emit.InvokeSpecial(cp.AddMethodref(sbClass, "<init>", "()V"), 0, 0)
	mc.emit.Swap()
	mc.emit.InvokeVirtual(cp.AddMethodref(sbClass, "append", "(Ljava/lang/String;)Ljava/lang/StringBuilder;"), 1, 1)
	if err := g.appendOperand(mc, rhs); err != nil {
		return err
	}
	mc.emit.InvokeVirtual(cp.AddMethodref(sbClass, "toString", "()Ljava/lang/String;"), 0, 1)
	return nil
}

// narrowToTarget applies the implicit narrowing cast a compound
// assignment performs back to its target's declared type (JLS 15.26.2),
// beyond what convertIfNeeded's same-Kind no-op would leave undone.
func (g *Generator) narrowToTarget(mc *methodContext, target types.Type) {
	p, ok := target.(types.Primitive)
	if !ok {
		return
	}
	switch p {
	case types.Byte:
		mc.emit.NarrowInt(emitter.I2b)
	case types.Char:
		mc.emit.NarrowInt(emitter.I2c)
	case types.Short:
		mc.emit.NarrowInt(emitter.I2s)
	}
}
