package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileTry lowers try/catch/finally/try-with-resources (spec.md
// §4.7): resources are peeled off one at a time into a nested
// try-finally (closing each in reverse declaration order as the
// nesting unwinds), down to the user's own catch/finally handling.
func (g *Generator) compileTry(mc *methodContext, s *ast.TryStmt) error {
	if len(s.Resources) > 0 {
		return g.compileTryWithResources(mc, s, 0)
	}
	return g.compileProtectedRegion(mc,
		func() error { return g.compileBlock(mc, s.Body) },
		s.Catches,
		finallyThunk(g, mc, s.Finally),
	)
}

func finallyThunk(g *Generator, mc *methodContext, b *ast.Block) func() error {
	if b == nil {
		return nil
	}
	return func() error { return g.compileBlock(mc, b) }
}

// compileTryWithResources recursively wraps resource idx (and every
// resource after it) in its own try-finally whose finally block closes
// just that resource, bottoming out at the user's try body/catches/
// finally once every resource has been peeled off.
func (g *Generator) compileTryWithResources(mc *methodContext, s *ast.TryStmt, idx int) error {
	if idx == len(s.Resources) {
		return g.compileProtectedRegion(mc,
			func() error { return g.compileBlock(mc, s.Body) },
			s.Catches,
			finallyThunk(g, mc, s.Finally),
		)
	}

	res := s.Resources[idx]
	saved := mc.pushScope()
	t := g.resolveType(res.Type)
	slot := mc.declareLocal(res.Name, t)
	vt, err := g.compileExpr(mc, res.Expression)
	if err != nil {
		return err
	}
	g.convertIfNeeded(mc, vt, t)
	mc.emit.Store(emitter.KindRef, slot)

	err = g.compileProtectedRegion(mc,
		func() error { return g.compileTryWithResources(mc, s, idx+1) },
		nil,
		func() error { return g.emitResourceClose(mc, slot) },
	)
	mc.popScope(saved, []string{res.Name})
	return err
}

// emitResourceClose emits `if (resource != null) resource.close();`
// (JLS 14.20.3.1's implicit null guard around each resource's close).
func (g *Generator) emitResourceClose(mc *methodContext, slot int) error {
	cp := mc.emit.ConstantPool()
	skip := mc.emit.NewLabel()
	mc.emit.Load(emitter.KindRef, slot)
	mc.emit.IfNull(skip)
	mc.emit.Load(emitter.KindRef, slot)
	mc.emit.InvokeInterface(cp.AddInterfaceMethodref("java/lang/AutoCloseable", "close", "()V"), 1, 0)
	mc.emit.BindLabel(skip)
	return nil
}

// compileProtectedRegion wires up the exception table for one
// try-region: compileBody runs under zero or more typed catches, and
// (when compileFinally is non-nil) the finally block is inlined at
// every normal exit from the try body and every catch body, plus
// guarded by a catch-all handler spanning the whole try+catches region
// that re-runs it and rethrows (spec.md §4.7 "Try").
func (g *Generator) compileProtectedRegion(mc *methodContext, compileBody func() error, catches []*ast.CatchClause, compileFinally func() error) error {
	tryStart := mc.emit.NewLabel()
	tryEnd := mc.emit.NewLabel()
	afterLabel := mc.emit.NewLabel()
	endLabel := mc.emit.NewLabel()

	mc.emit.BindLabel(tryStart)
	if err := compileBody(); err != nil {
		return err
	}
	mc.emit.BindLabel(tryEnd)
	mc.emit.Goto(afterLabel)

	catchStarts := make([]emitter.Label, len(catches))
	lastRegionEnd := tryEnd
	for i, cc := range catches {
		catchStarts[i] = mc.emit.NewLabel()
		mc.emit.BindLabel(catchStarts[i])

		saved := mc.pushScope()
		excType := g.catchVarType(cc)
		slot := mc.declareLocal(cc.Name, excType)
		mc.emit.Store(emitter.KindRef, slot)
		if err := g.compileBlock(mc, cc.Body); err != nil {
			return err
		}
		mc.popScope(saved, []string{cc.Name})

		catchEnd := mc.emit.NewLabel()
		mc.emit.BindLabel(catchEnd)
		mc.emit.Goto(afterLabel)
		lastRegionEnd = catchEnd
	}

	for i, cc := range catches {
		for _, tn := range cc.Types {
			cls, ok := g.resolveType(tn).(types.Class)
			if !ok {
				continue
			}
			classIdx := mc.emit.ConstantPool().AddClass(cls.Internal)
			mc.emit.AddExceptionHandler(tryStart, tryEnd, catchStarts[i], classIdx)
		}
	}

	mc.emit.BindLabel(afterLabel)
	if compileFinally != nil {
		if err := compileFinally(); err != nil {
			return err
		}
	}
	mc.emit.Goto(endLabel)

	if compileFinally != nil {
		handlerLabel := mc.emit.NewLabel()
		mc.emit.BindLabel(handlerLabel)
		saved := mc.pushScope()
		excSlot := mc.declareLocal(mc.freshName("$finally_exc"), types.NewClass("java/lang/Throwable"))
		mc.emit.Store(emitter.KindRef, excSlot)
		if err := compileFinally(); err != nil {
			return err
		}
		mc.emit.Load(emitter.KindRef, excSlot)
		mc.emit.Throw()
		mc.popScope(saved, nil)
		mc.emit.AddExceptionHandler(tryStart, lastRegionEnd, handlerLabel, 0)
	}

	mc.emit.BindLabel(endLabel)
	return nil
}

// catchVarType resolves a catch clause's declared variable type: the
// single listed type, or java.lang.Throwable for a multi-catch clause
// (an approximation of the JLS lub of the listed types, adequate since
// the compiled variable's static type only matters for member access
// within the catch body, not for the exception table itself).
func (g *Generator) catchVarType(cc *ast.CatchClause) types.Type {
	if len(cc.Types) == 1 {
		return g.resolveType(cc.Types[0])
	}
	return types.NewClass("java/lang/Throwable")
}
