package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

var arithOps = map[string]emitter.BinaryOp{
	"+": emitter.Add, "-": emitter.Sub, "*": emitter.Mul, "/": emitter.Div, "%": emitter.Rem,
	"<<": emitter.Shl, ">>": emitter.Shr, ">>>": emitter.Ushr,
	"&": emitter.And, "|": emitter.Or, "^": emitter.Xor,
}

// compileBinary lowers every binary operator that is not one of the
// condition compiler's own forms (&&, ||, and the comparisons, which
// cond.go handles directly so if/while/ternary never materialize an
// intermediate boolean): arithmetic, bitwise, shifts, and string
// concatenation.
func (g *Generator) compileBinary(mc *methodContext, e *ast.BinaryExpr) (types.Type, error) {
	switch e.Operator {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return g.compileBoolValuedCond(mc, e)
	}

	lt, err := g.typeOf(mc, e.Left)
	if err != nil {
		return nil, err
	}
	if e.Operator == "+" && isStringType(lt) {
		return g.compileStringConcat(mc, e.Left, e.Right)
	}
	rt, err := g.typeOf(mc, e.Right)
	if err != nil {
		return nil, err
	}
	if e.Operator == "+" && isStringType(rt) {
		return g.compileStringConcat(mc, e.Left, e.Right)
	}

	op, ok := arithOps[e.Operator]
	if !ok {
		return nil, g.errf(cgerrors.UnsupportedAst, g.pos(e), "", "unsupported binary operator %q", e.Operator)
	}

	if op == emitter.Shl || op == emitter.Shr || op == emitter.Ushr {
		promoted := types.UnaryPromote(lt.(types.Primitive))
		if _, err := g.compileExpr(mc, e.Left); err != nil {
			return nil, err
		}
		g.convertIfNeeded(mc, lt, promoted)
		if _, err := g.compileExpr(mc, e.Right); err != nil {
			return nil, err
		}
		g.convertIfNeeded(mc, rt, types.Int)
		mc.emit.Binary(op, emitKindOf(promoted))
		return promoted, nil
	}

	promoted := types.PromotedType(lt, rt)
	if _, err := g.compileExpr(mc, e.Left); err != nil {
		return nil, err
	}
	g.convertIfNeeded(mc, lt, promoted)
	if _, err := g.compileExpr(mc, e.Right); err != nil {
		return nil, err
	}
	g.convertIfNeeded(mc, rt, promoted)
	mc.emit.Binary(op, emitKindOf(promoted))
	return promoted, nil
}

// compileBoolValuedCond lowers a boolean-valued expression used in a
// value context (e.g. `boolean b = a < c;`) by materializing 1/0 via
// the condition compiler's branch-to-label form.
func (g *Generator) compileBoolValuedCond(mc *methodContext, e ast.Expr) (types.Type, error) {
	trueLabel := mc.emit.NewLabel()
	endLabel := mc.emit.NewLabel()
	if err := g.compileCond(mc, e, trueLabel, true); err != nil {
		return nil, err
	}
	mc.emit.Iconst(0)
	mc.emit.Goto(endLabel)
	mc.emit.BindLabel(trueLabel)
	mc.emit.Iconst(1)
	mc.emit.BindLabel(endLabel)
	return types.Boolean, nil
}

// compileStringConcat lowers `left + right` (with at least one String
// operand) to the StringBuilder-chain javac itself emits.
func (g *Generator) compileStringConcat(mc *methodContext, left, right ast.Expr) (types.Type, error) {
	cp := mc.emit.ConstantPool()
	sbClass := "java/lang/StringBuilder"
	classIdx := cp.AddClass(sbClass)
	mc.emit.New(classIdx)
	mc.emit.Dup()
	mc.emit.InvokeSpecial(cp.AddMethodref(sbClass, "<init>", "()V"), 0, 0)

	if err := g.appendOperand(mc, left); err != nil {
		return nil, err
	}
	if err := g.appendOperand(mc, right); err != nil {
		return nil, err
	}

	mc.emit.InvokeVirtual(cp.AddMethodref(sbClass, "toString", "()Ljava/lang/String;"), 0, 1)
	return types.StringClass, nil
}

func (g *Generator) appendOperand(mc *methodContext, e ast.Expr) error {
	t, err := g.compileExpr(mc, e)
	if err != nil {
		return err
	}
	name, desc := stringBuilderAppendSignature(t)
	argSlots := 1
	if p, ok := t.(types.Primitive); ok {
		argSlots = p.Size()
	}
	mc.emit.InvokeVirtual(mc.emit.ConstantPool().AddMethodref("java/lang/StringBuilder", name, desc), argSlots, 1)
	return nil
}

func stringBuilderAppendSignature(t types.Type) (string, string) {
	if p, ok := t.(types.Primitive); ok {
		switch p {
		case types.Boolean:
			return "append", "(Z)Ljava/lang/StringBuilder;"
		case types.Char:
			return "append", "(C)Ljava/lang/StringBuilder;"
		case types.Int, types.Byte, types.Short:
			return "append", "(I)Ljava/lang/StringBuilder;"
		case types.Long:
			return "append", "(J)Ljava/lang/StringBuilder;"
		case types.Float:
			return "append", "(F)Ljava/lang/StringBuilder;"
		case types.Double:
			return "append", "(D)Ljava/lang/StringBuilder;"
		}
	}
	if isStringType(t) {
		return "append", "(Ljava/lang/String;)Ljava/lang/StringBuilder;"
	}
	return "append", "(Ljava/lang/Object;)Ljava/lang/StringBuilder;"
}

// compileUnary lowers prefix/postfix increment and decrement, unary
// minus, logical not, and bitwise complement.
func (g *Generator) compileUnary(mc *methodContext, e *ast.UnaryExpr) (types.Type, error) {
	switch e.Operator {
	case "++", "--":
		return g.compileIncDec(mc, e)
	case "!":
		return g.compileBoolValuedCond(mc, e)
	case "-":
		t, err := g.compileExpr(mc, e.Operand)
		if err != nil {
			return nil, err
		}
		promoted := types.UnaryPromote(t.(types.Primitive))
		g.convertIfNeeded(mc, t, promoted)
		mc.emit.Neg(emitKindOf(promoted))
		return promoted, nil
	case "~":
		t, err := g.compileExpr(mc, e.Operand)
		if err != nil {
			return nil, err
		}
		promoted := types.UnaryPromote(t.(types.Primitive))
		g.convertIfNeeded(mc, t, promoted)
		if emitKindOf(promoted) == emitter.KindLong {
			mc.emit.Lconst(-1)
			mc.emit.Binary(emitter.Xor, emitter.KindLong)
		} else {
			mc.emit.Iconst(-1)
			mc.emit.Binary(emitter.Xor, emitter.KindInt)
		}
		return promoted, nil
	case "+":
		return g.compileExpr(mc, e.Operand)
	default:
		return nil, g.errf(cgerrors.UnsupportedAst, g.pos(e), "", "unsupported unary operator %q", e.Operator)
	}
}

// compileIncDec lowers ++/-- on a local, field, or array element,
// using the single-instruction Iinc fast path for a plain int local.
func (g *Generator) compileIncDec(mc *methodContext, e *ast.UnaryExpr) (types.Type, error) {
	delta := int8(1)
	if e.Operator == "--" {
		delta = -1
	}

	if ident, ok := e.Operand.(*ast.Identifier); ok {
		if lv, isLocal := mc.locals[ident.Name]; isLocal {
			if p, ok := lv.typ.(types.Primitive); ok && p == types.Int {
				if e.Prefix {
					mc.emit.Iinc(lv.slot, delta)
					mc.emit.Load(emitter.KindInt, lv.slot)
					return types.Int, nil
				}
				mc.emit.Load(emitter.KindInt, lv.slot)
				mc.emit.Iinc(lv.slot, delta)
				return types.Int, nil
			}
			return g.incDecLocalNonInt(mc, lv, e.Prefix, delta)
		}
	}
	return g.incDecFieldOrArray(mc, e.Operand, e.Prefix, delta)
}

func (g *Generator) incDecLocalNonInt(mc *methodContext, lv *localVar, prefix bool, delta int8) (types.Type, error) {
	k := emitKindOf(lv.typ)
	if !prefix {
		mc.emit.Load(k, lv.slot)
	}
	mc.emit.Load(k, lv.slot)
	pushOne(mc, k, delta)
	mc.emit.Binary(emitter.Add, k)
	mc.emit.Store(k, lv.slot)
	if prefix {
		mc.emit.Load(k, lv.slot)
	}
	return lv.typ, nil
}

func pushOne(mc *methodContext, k emitter.Kind, delta int8) {
	switch k {
	case emitter.KindLong:
		mc.emit.Lconst(int64(delta))
	case emitter.KindFloat:
		mc.emit.Fconst(float32(delta))
	case emitter.KindDouble:
		mc.emit.Dconst(float64(delta))
	default:
		mc.emit.Iconst(int32(delta))
	}
}

// incDecFieldOrArray handles ++/-- on a field or array element target,
// reusing the same dup-before-store pattern field/array compound
// assignment uses so the pre- or post-increment value is left on the
// stack as the expression's own value.
func (g *Generator) incDecFieldOrArray(mc *methodContext, target ast.Expr, prefix bool, delta int8) (types.Type, error) {
	synthetic := &ast.AssignmentExpr{
		Target:   target,
		Operator: "+=",
		Value:    &ast.Literal{Text: "1", Kind: ast.IntLiteral},
	}
	if delta < 0 {
		synthetic.Operator = "-="
	}
	if prefix {
		return g.compileAssignment(mc, synthetic)
	}

	// Postfix: evaluate the current value first, perform the same
	// compound update for effect, then leave the ORIGINAL value as the
	// expression's result.
	switch t := target.(type) {
	case *ast.FieldAccessExpr, *ast.QualifiedName:
		_ = t
		preType, err := g.typeOf(mc, target)
		if err != nil {
			return nil, err
		}
		if _, err := g.compileExpr(mc, target); err != nil {
			return nil, err
		}
		if preType.Size() == 2 {
			mc.emit.Dup2()
		} else {
			mc.emit.Dup()
		}
		if _, err := g.compileAssignment(mc, synthetic); err != nil {
			return nil, err
		}
		// Drop the assignment's own result and the duplicate, keeping
		// one copy of the original value.
		mc.emit.Pop2()
		if preType.Size() == 2 {
			mc.emit.Pop2()
		}
		return preType, nil
	case *ast.ArrayAccessExpr:
		preType, err := g.typeOf(mc, target)
		if err != nil {
			return nil, err
		}
		if _, err := g.compileExpr(mc, target); err != nil {
			return nil, err
		}
		if preType.Size() == 2 {
			mc.emit.Dup2()
		} else {
			mc.emit.Dup()
		}
		if _, err := g.compileAssignment(mc, synthetic); err != nil {
			return nil, err
		}
		mc.emit.Pop2()
		if preType.Size() == 2 {
			mc.emit.Pop2()
		}
		return preType, nil
	default:
		return nil, g.errf(cgerrors.UnsupportedAst, g.pos(target), "", "unsupported increment/decrement target %T", target)
	}
}
