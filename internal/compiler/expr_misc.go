package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileCast lowers `(Type) expr`: a primitive cast narrows/widens via
// the usual Convert chain (plus a NarrowInt step when the target is
// byte/char/short, since those share KindInt on the operand stack and
// need an explicit truncation beyond what Convert alone provides), a
// reference cast emits checkcast.
func (g *Generator) compileCast(mc *methodContext, expr *ast.CastExpr) (types.Type, error) {
	target := g.resolveType(expr.Type)
	actual, err := g.compileExpr(mc, expr.Expression)
	if err != nil {
		return nil, err
	}

	tp, targetIsPrim := target.(types.Primitive)
	ap, actualIsPrim := actual.(types.Primitive)
	if !targetIsPrim {
		if !actualIsPrim {
			classIdx := mc.emit.ConstantPool().AddClass(classConstName(target))
			mc.emit.CheckCast(classIdx)
		}
		return target, nil
	}
	if !actualIsPrim {
		return nil, g.errf(cgerrors.TypeMismatch, g.pos(expr), "", "cannot cast reference type %s to %s", actual, target)
	}

	g.emitPrimitiveCast(mc, ap, tp)
	return target, nil
}

// emitPrimitiveCast converts the value on top of the stack from one
// primitive type to another, narrowing byte/char/short through int
// first since the JVM has no direct *2b/*2c/*2s opcode from long/float/
// double.
func (g *Generator) emitPrimitiveCast(mc *methodContext, from, to types.Primitive) {
	if from == to {
		return
	}
	var narrow emitter.Op
	switch to {
	case types.Byte:
		narrow, to = emitter.I2b, types.Int
	case types.Char:
		narrow, to = emitter.I2c, types.Int
	case types.Short:
		narrow, to = emitter.I2s, types.Int
	}

	fromK, toK := emitKindOf(from), emitKindOf(to)
	if fromK != toK {
		mc.emit.Convert(fromK, toK)
	}
	if narrow != 0 {
		mc.emit.NarrowInt(narrow)
	}
}

// compileInstanceOf lowers `expr instanceof Type`.
func (g *Generator) compileInstanceOf(mc *methodContext, expr *ast.InstanceOfExpr) (types.Type, error) {
	if _, err := g.compileExpr(mc, expr.Expression); err != nil {
		return nil, err
	}
	target := g.resolveType(expr.Type)
	classIdx := mc.emit.ConstantPool().AddClass(classConstName(target))
	mc.emit.InstanceOf(classIdx)
	return types.Boolean, nil
}

// classConstName returns the name a CONSTANT_Class entry expects: a
// class's internal name (no "L...;" wrapper), or an array's full
// descriptor (arrays are named by descriptor in the constant pool).
func classConstName(t types.Type) string {
	if c, ok := t.(types.Class); ok {
		return c.Internal
	}
	return t.Descriptor()
}

// compileConditional lowers `cond ? then : else` via the condition
// compiler's branch-to-label form, converting each arm to the pair's
// promoted type immediately after it is compiled so both arms leave the
// same Kind on the stack regardless of which one executes.
func (g *Generator) compileConditional(mc *methodContext, expr *ast.ConditionalExpr) (types.Type, error) {
	thenType, err := g.typeOf(mc, expr.Then)
	if err != nil {
		return nil, err
	}
	elseType, err := g.typeOf(mc, expr.Else)
	if err != nil {
		return nil, err
	}
	result := thenType
	if types.IsNumeric(thenType) && types.IsNumeric(elseType) {
		result = types.PromotedType(thenType, elseType)
	}

	elseLabel := mc.emit.NewLabel()
	endLabel := mc.emit.NewLabel()
	if err := g.compileCond(mc, expr.Condition, elseLabel, false); err != nil {
		return nil, err
	}
	if _, err := g.compileExpr(mc, expr.Then); err != nil {
		return nil, err
	}
	g.convertIfNeeded(mc, thenType, result)
	mc.emit.Goto(endLabel)
	mc.emit.BindLabel(elseLabel)
	if _, err := g.compileExpr(mc, expr.Else); err != nil {
		return nil, err
	}
	g.convertIfNeeded(mc, elseType, result)
	mc.emit.BindLabel(endLabel)
	return result, nil
}
