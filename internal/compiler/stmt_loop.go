package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileWhile lowers `while (cond) body`: continue re-tests cond,
// break falls through past the loop (spec.md §4.7).
func (g *Generator) compileWhile(mc *methodContext, s *ast.WhileStmt, label string) error {
	lc := mc.pushLoop(loopWhile, label)
	mc.emit.BindLabel(lc.continueTarget)
	if err := g.compileCond(mc, s.Condition, lc.breakTarget, false); err != nil {
		return err
	}
	if err := g.compileStmt(mc, s.Body); err != nil {
		return err
	}
	mc.emit.Goto(lc.continueTarget)
	mc.emit.BindLabel(lc.breakTarget)
	mc.popLoop()
	return nil
}

// compileDoWhile lowers `do body while (cond);`: continue re-tests
// cond (same as while), break falls through past the loop.
func (g *Generator) compileDoWhile(mc *methodContext, s *ast.DoWhileStmt, label string) error {
	lc := mc.pushLoop(loopDoWhile, label)
	bodyLabel := mc.emit.NewLabel()
	mc.emit.BindLabel(bodyLabel)
	if err := g.compileStmt(mc, s.Body); err != nil {
		return err
	}
	mc.emit.BindLabel(lc.continueTarget)
	if err := g.compileCond(mc, s.Condition, bodyLabel, true); err != nil {
		return err
	}
	mc.emit.BindLabel(lc.breakTarget)
	mc.popLoop()
	return nil
}

// compileFor lowers the basic (non-enhanced) for statement: continue
// targets the update section, break falls through past the loop.
func (g *Generator) compileFor(mc *methodContext, s *ast.ForStmt, label string) error {
	saved := mc.pushScope()
	var declared []string
	if lvd, ok := s.Init.(*ast.LocalVarDecl); ok {
		names, err := g.compileLocalVarDecl(mc, lvd)
		if err != nil {
			return err
		}
		declared = names
	} else {
		for _, e := range s.InitExprs {
			if err := g.compileDiscardedExpr(mc, e); err != nil {
				return err
			}
		}
	}

	lc := mc.pushLoop(loopFor, label)
	condLabel := mc.emit.NewLabel()
	bodyLabel := mc.emit.NewLabel()

	mc.emit.Goto(condLabel)
	mc.emit.BindLabel(bodyLabel)
	if err := g.compileStmt(mc, s.Body); err != nil {
		return err
	}
	mc.emit.BindLabel(lc.continueTarget)
	for _, u := range s.Update {
		if err := g.compileDiscardedExpr(mc, u); err != nil {
			return err
		}
	}
	mc.emit.BindLabel(condLabel)
	if s.Condition == nil {
		mc.emit.Goto(bodyLabel)
	} else if err := g.compileCond(mc, s.Condition, bodyLabel, true); err != nil {
		return err
	}
	mc.emit.BindLabel(lc.breakTarget)
	mc.popLoop()
	mc.popScope(saved, declared)
	return nil
}

// compileDiscardedExpr compiles an expression purely for its side
// effect (a for statement's init/update clauses), discarding any value
// it leaves on the stack.
func (g *Generator) compileDiscardedExpr(mc *methodContext, e ast.Expr) error {
	t, err := g.compileExpr(mc, e)
	if err != nil {
		return err
	}
	if t == nil || t == types.Void {
		return nil
	}
	if t.Size() == 2 {
		mc.emit.Pop2()
	} else {
		mc.emit.Pop()
	}
	return nil
}

// compileEnhancedFor lowers `for (T x : arr) body` over an array
// (spec.md §4.7: Iterable is out of scope) by desugaring to the
// `T[] a = arr; int len = a.length; for (int i=0; i<len; i++) { T x =
// a[i]; body }` form, with a/len/i given compiler-reserved names.
func (g *Generator) compileEnhancedFor(mc *methodContext, s *ast.EnhancedForStmt, label string) error {
	saved := mc.pushScope()

	iterType, err := g.typeOf(mc, s.Iterable)
	if err != nil {
		return err
	}
	arr, ok := iterType.(types.Array)
	if !ok {
		return g.errf(cgerrors.UnsupportedAst, g.pos(s), "", "enhanced-for over Iterable is not supported, only arrays")
	}

	arrSlot := mc.declareLocal(mc.freshName("$efor_arr"), arr)
	if _, err := g.compileExpr(mc, s.Iterable); err != nil {
		return err
	}
	mc.emit.Store(emitter.KindRef, arrSlot)

	lenSlot := mc.declareLocal(mc.freshName("$efor_len"), types.Int)
	mc.emit.Load(emitter.KindRef, arrSlot)
	mc.emit.ArrayLength()
	mc.emit.Store(emitter.KindInt, lenSlot)

	idxSlot := mc.declareLocal(mc.freshName("$efor_i"), types.Int)
	mc.emit.Iconst(0)
	mc.emit.Store(emitter.KindInt, idxSlot)

	lc := mc.pushLoop(loopEnhancedFor, label)
	condLabel := mc.emit.NewLabel()
	bodyLabel := mc.emit.NewLabel()
	mc.emit.Goto(condLabel)
	mc.emit.BindLabel(bodyLabel)

	elemType := g.resolveType(s.Type)
	sourceElem := arr.Elem
	if arr.Dims > 1 {
		sourceElem = types.Array{Elem: arr.Elem, Dims: arr.Dims - 1}
	}
	bodySaved := mc.pushScope()
	elemSlot := mc.declareLocal(s.Name, elemType)
	mc.emit.Load(emitter.KindRef, arrSlot)
	mc.emit.Load(emitter.KindInt, idxSlot)
	g.emitArrayLoadByDesc(mc, sourceElem.Descriptor())
	g.convertIfNeeded(mc, sourceElem, elemType)
	mc.emit.Store(emitKindOf(elemType), elemSlot)

	if err := g.compileStmt(mc, s.Body); err != nil {
		return err
	}
	mc.popScope(bodySaved, []string{s.Name})

	mc.emit.BindLabel(lc.continueTarget)
	mc.emit.Iinc(idxSlot, 1)
	mc.emit.BindLabel(condLabel)
	mc.emit.Load(emitter.KindInt, idxSlot)
	mc.emit.Load(emitter.KindInt, lenSlot)
	mc.emit.IfIcmp(emitter.Lt, bodyLabel)
	mc.emit.BindLabel(lc.breakTarget)
	mc.popLoop()

	mc.popScope(saved, nil)
	return nil
}
