package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileCond emits a branch to target taken exactly when e evaluates
// to jumpIfTrue, without ever materializing an intermediate boolean on
// the stack for comparisons and &&/|| (spec.md §4.7 "Condition
// compilation"): this lets if/while/for and the ternary share one
// short-circuit-aware core instead of each re-deriving it.
func (g *Generator) compileCond(mc *methodContext, e ast.Expr, target emitter.Label, jumpIfTrue bool) error {
	switch expr := e.(type) {
	case *ast.ParenExpr:
		return g.compileCond(mc, expr.Expression, target, jumpIfTrue)

	case *ast.UnaryExpr:
		if expr.Operator == "!" {
			return g.compileCond(mc, expr.Operand, target, !jumpIfTrue)
		}

	case *ast.BinaryExpr:
		switch expr.Operator {
		case "&&":
			return g.compileAnd(mc, expr, target, jumpIfTrue)
		case "||":
			return g.compileOr(mc, expr, target, jumpIfTrue)
		case "==", "!=", "<", "<=", ">", ">=":
			return g.compileComparison(mc, expr, target, jumpIfTrue)
		}
	}

	// General case: evaluate a boolean-valued expression and branch on
	// its int 0/1 representation.
	if _, err := g.compileExpr(mc, e); err != nil {
		return err
	}
	cond := emitter.Ne
	if !jumpIfTrue {
		cond = emitter.Eq
	}
	mc.emit.IfZero(cond, target)
	return nil
}

func (g *Generator) compileAnd(mc *methodContext, e *ast.BinaryExpr, target emitter.Label, jumpIfTrue bool) error {
	if jumpIfTrue {
		fallthroughLabel := mc.emit.NewLabel()
		if err := g.compileCond(mc, e.Left, fallthroughLabel, false); err != nil {
			return err
		}
		if err := g.compileCond(mc, e.Right, target, true); err != nil {
			return err
		}
		mc.emit.BindLabel(fallthroughLabel)
		return nil
	}
	if err := g.compileCond(mc, e.Left, target, false); err != nil {
		return err
	}
	return g.compileCond(mc, e.Right, target, false)
}

func (g *Generator) compileOr(mc *methodContext, e *ast.BinaryExpr, target emitter.Label, jumpIfTrue bool) error {
	if jumpIfTrue {
		if err := g.compileCond(mc, e.Left, target, true); err != nil {
			return err
		}
		return g.compileCond(mc, e.Right, target, true)
	}
	fallthroughLabel := mc.emit.NewLabel()
	if err := g.compileCond(mc, e.Left, fallthroughLabel, true); err != nil {
		return err
	}
	if err := g.compileCond(mc, e.Right, target, false); err != nil {
		return err
	}
	mc.emit.BindLabel(fallthroughLabel)
	return nil
}

var condOpTable = map[string]emitter.CondOp{"==": emitter.Eq, "!=": emitter.Ne, "<": emitter.Lt, "<=": emitter.Le, ">": emitter.Gt, ">=": emitter.Ge}
var negatedCondOp = map[emitter.CondOp]emitter.CondOp{emitter.Eq: emitter.Ne, emitter.Ne: emitter.Eq, emitter.Lt: emitter.Ge, emitter.Ge: emitter.Lt, emitter.Gt: emitter.Le, emitter.Le: emitter.Gt}

func (g *Generator) compileComparison(mc *methodContext, e *ast.BinaryExpr, target emitter.Label, jumpIfTrue bool) error {
	lt, err := g.typeOf(mc, e.Left)
	if err != nil {
		return err
	}
	rt, err := g.typeOf(mc, e.Right)
	if err != nil {
		return err
	}

	cond := condOpTable[e.Operator]
	if !jumpIfTrue {
		cond = negatedCondOp[cond]
	}

	if types.IsNumeric(lt) && types.IsNumeric(rt) {
		promoted := types.PromotedType(lt, rt)
		if _, err := g.compileExpr(mc, e.Left); err != nil {
			return err
		}
		g.convertIfNeeded(mc, lt, promoted)
		if _, err := g.compileExpr(mc, e.Right); err != nil {
			return err
		}
		g.convertIfNeeded(mc, rt, promoted)
		k := emitKindOf(promoted)
		if k == emitter.KindInt {
			mc.emit.IfIcmp(cond, target)
			return nil
		}
		// float/double comparisons involving NaN make every ordered
		// operator (`<`, `<=`, `>`, `>=`) false when either operand is
		// NaN, which the fcmpg/fcmpl (resp. dcmpg/dcmpl) opcode choice
		// encodes: use the "NaN is greater" form for the less-than family
		// and the "NaN is less" form for the greater-than family.
		nanGreater := e.Operator == "<" || e.Operator == "<="
		mc.emit.Compare(k, nanGreater)
		mc.emit.IfZero(cond, target)
		return nil
	}

	if _, err := g.compileExpr(mc, e.Left); err != nil {
		return err
	}
	if _, err := g.compileExpr(mc, e.Right); err != nil {
		return err
	}

	if boolPrim(lt) && boolPrim(rt) && (e.Operator == "==" || e.Operator == "!=") {
		mc.emit.IfIcmp(cond, target)
		return nil
	}

	// Reference types: only identity equality applies (spec.md's type
	// model has no operator overloads), using IfAcmp which also
	// handles a null-literal operand correctly.
	mc.emit.IfAcmp(cond, target)
	return nil
}

func boolPrim(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && p == types.Boolean
}
