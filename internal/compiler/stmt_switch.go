package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileSwitch lowers a switch statement, picking lookupswitch for an
// integral selector or an equals-chain for a String one (spec.md §4.7).
func (g *Generator) compileSwitch(mc *methodContext, s *ast.SwitchStmt, label string) error {
	selType, err := g.typeOf(mc, s.Expression)
	if err != nil {
		return err
	}
	if isStringType(selType) {
		return g.compileStringSwitch(mc, s, label)
	}
	return g.compileIntSwitch(mc, s, label)
}

// compileIntSwitch lowers an integral-selector switch to a single
// lookupswitch with sorted match pairs; cases with no explicit label
// (the default case) receive the switch's default offset.
func (g *Generator) compileIntSwitch(mc *methodContext, s *ast.SwitchStmt, label string) error {
	vt, err := g.compileExpr(mc, s.Expression)
	if err != nil {
		return err
	}
	g.convertIfNeeded(mc, vt, types.Int)

	lc := mc.pushSwitch(label)
	bodyLabels := make([]emitter.Label, len(s.Cases))
	matches := map[int32]emitter.Label{}
	defaultTarget := lc.breakTarget

	for i, c := range s.Cases {
		bodyLabels[i] = mc.emit.NewLabel()
		if c.Labels == nil {
			defaultTarget = bodyLabels[i]
			continue
		}
		for _, lbl := range c.Labels {
			v, err := g.constIntOf(lbl)
			if err != nil {
				return err
			}
			matches[v] = bodyLabels[i]
		}
	}

	mc.emit.LookupSwitch(matches, defaultTarget)
	for i, c := range s.Cases {
		mc.emit.BindLabel(bodyLabels[i])
		for _, st := range c.Statements {
			if err := g.compileStmt(mc, st); err != nil {
				return err
			}
		}
	}
	mc.emit.BindLabel(lc.breakTarget)
	mc.popLoop()
	return nil
}

// constIntOf extracts an int32 from a case label, which must be an
// int/char/byte/short constant literal.
func (g *Generator) constIntOf(e ast.Expr) (int32, error) {
	l, ok := e.(*ast.Literal)
	if !ok {
		return 0, g.errf(cgerrors.UnsupportedAst, g.pos(e), "", "case labels must be constant literals")
	}
	if l.Kind == ast.CharLiteral {
		return int32(decodeCharLiteral(l.Text)), nil
	}
	return parseJavaInt(l.Text)
}

// compileStringSwitch lowers a String-selector switch to an if/else
// chain of equals comparisons against each case label (spec.md §4.7:
// a hashCode-bucketed form is explicitly not required).
func (g *Generator) compileStringSwitch(mc *methodContext, s *ast.SwitchStmt, label string) error {
	saved := mc.pushScope()
	selSlot := mc.declareLocal(mc.freshName("$switch_sel"), types.StringClass)
	if _, err := g.compileExpr(mc, s.Expression); err != nil {
		return err
	}
	mc.emit.Store(emitter.KindRef, selSlot)

	lc := mc.pushSwitch(label)
	bodyLabels := make([]emitter.Label, len(s.Cases))
	defaultTarget := lc.breakTarget
	for i, c := range s.Cases {
		bodyLabels[i] = mc.emit.NewLabel()
		if c.Labels == nil {
			defaultTarget = bodyLabels[i]
		}
	}

	cp := mc.emit.ConstantPool()
	equalsIdx := cp.AddMethodref("java/lang/String", "equals", "(Ljava/lang/Object;)Z")
	for i, c := range s.Cases {
		if c.Labels == nil {
			continue
		}
		for _, lbl := range c.Labels {
			l, ok := lbl.(*ast.Literal)
			if !ok {
				return g.errf(cgerrors.UnsupportedAst, g.pos(lbl), "", "string switch case labels must be string literals")
			}
			mc.emit.Load(emitter.KindRef, selSlot)
			mc.emit.LdcString(decodeStringLiteral(l.Text))
			mc.emit.InvokeVirtual(equalsIdx, 1, 1)
			mc.emit.IfZero(emitter.Ne, bodyLabels[i])
		}
	}
	mc.emit.Goto(defaultTarget)

	for i, c := range s.Cases {
		mc.emit.BindLabel(bodyLabels[i])
		for _, st := range c.Statements {
			if err := g.compileStmt(mc, st); err != nil {
				return err
			}
		}
	}
	mc.emit.BindLabel(lc.breakTarget)
	mc.popLoop()
	mc.popScope(saved, nil)
	return nil
}
