package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileStmt lowers one statement. Most forms map directly onto a
// handful of bytecode primitives (spec.md §4.7); the loop/switch/try
// forms, which need their own scratch state, live in their own files.
func (g *Generator) compileStmt(mc *methodContext, s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.Block:
		return g.compileBlock(mc, st)
	case *ast.LocalVarDecl:
		_, err := g.compileLocalVarDecl(mc, st)
		return err
	case *ast.ExprStmt:
		return g.compileExprStmt(mc, st)
	case *ast.IfStmt:
		return g.compileIf(mc, st)
	case *ast.WhileStmt:
		return g.compileWhile(mc, st, "")
	case *ast.DoWhileStmt:
		return g.compileDoWhile(mc, st, "")
	case *ast.ForStmt:
		return g.compileFor(mc, st, "")
	case *ast.EnhancedForStmt:
		return g.compileEnhancedFor(mc, st, "")
	case *ast.SwitchStmt:
		return g.compileSwitch(mc, st, "")
	case *ast.ReturnStmt:
		return g.compileReturn(mc, st)
	case *ast.ThrowStmt:
		return g.compileThrow(mc, st)
	case *ast.BreakStmt:
		target, ok := mc.findBreak(st.Label)
		if !ok {
			return g.errf(cgerrors.InternalError, g.pos(st), "", "break has no enclosing loop or switch to target")
		}
		mc.emit.Goto(target)
		return nil
	case *ast.ContinueStmt:
		target, ok := mc.findContinue(st.Label)
		if !ok {
			return g.errf(cgerrors.InternalError, g.pos(st), "", "continue has no enclosing loop to target")
		}
		mc.emit.Goto(target)
		return nil
	case *ast.LabeledStmt:
		return g.compileLabeledStmt(mc, st)
	case *ast.SynchronizedStmt:
		return g.compileSynchronized(mc, st)
	case *ast.TryStmt:
		return g.compileTry(mc, st)
	case *ast.AssertStmt:
		return g.compileAssert(mc, st)
	case *ast.EmptyStmt:
		return nil
	default:
		return g.errf(cgerrors.UnsupportedAst, g.pos(s), "", "unsupported statement node %T", s)
	}
}

// compileBlock lowers a `{ ... }` block in its own variable scope,
// releasing every slot it declared once the block exits (spec.md §9
// save/restore of per-scope mutable state).
func (g *Generator) compileBlock(mc *methodContext, b *ast.Block) error {
	saved := mc.pushScope()
	var declared []string
	for _, s := range b.Statements {
		if lvd, ok := s.(*ast.LocalVarDecl); ok {
			names, err := g.compileLocalVarDecl(mc, lvd)
			if err != nil {
				return err
			}
			declared = append(declared, names...)
			continue
		}
		if err := g.compileStmt(mc, s); err != nil {
			return err
		}
	}
	mc.popScope(saved, declared)
	return nil
}

// compileLocalVarDecl declares each variable in decl, compiling and
// storing its initializer when present, and returns the declared names
// so the enclosing block can release their slots on scope exit.
func (g *Generator) compileLocalVarDecl(mc *methodContext, decl *ast.LocalVarDecl) ([]string, error) {
	base := g.resolveType(decl.Type)
	names := make([]string, 0, len(decl.Declarators))
	for _, d := range decl.Declarators {
		t := base
		if d.Dimensions > 0 {
			if arr, ok := base.(types.Array); ok {
				t = types.NewArray(arr.Elem, arr.Dims+d.Dimensions)
			} else {
				t = types.NewArray(base, d.Dimensions)
			}
		}
		slot := mc.declareLocal(d.Name, t)
		names = append(names, d.Name)

		if d.Initializer == nil {
			continue
		}
		if init, ok := d.Initializer.(*ast.ArrayInitializerExpr); ok {
			elem, dims := t, 1
			if arr, ok := t.(types.Array); ok {
				elem, dims = arr.Elem, arr.Dims
			}
			if _, err := g.compileArrayInitializer(mc, elem, dims, init); err != nil {
				return nil, err
			}
			mc.emit.Store(emitKindOf(t), slot)
			continue
		}
		vt, err := g.compileExprWithTarget(mc, d.Initializer, t)
		if err != nil {
			return nil, err
		}
		g.convertIfNeeded(mc, vt, t)
		mc.emit.Store(emitKindOf(t), slot)
	}
	return names, nil
}

// compileExprStmt lowers an expression used for its side effect,
// discarding whatever value it leaves on the stack (every expression
// statement form leaves exactly one value — or none, for a void call).
func (g *Generator) compileExprStmt(mc *methodContext, s *ast.ExprStmt) error {
	t, err := g.compileExpr(mc, s.Expression)
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

func (g *Generator) compileIf(mc *methodContext, s *ast.IfStmt) error {
	if s.Else == nil {
		endLabel := mc.emit.NewLabel()
		if err := g.compileCond(mc, s.Condition, endLabel, false); err != nil {
			return err
		}
		if err := g.compileStmt(mc, s.Then); err != nil {
			return err
		}
		mc.emit.BindLabel(endLabel)
		return nil
	}

	elseLabel := mc.emit.NewLabel()
	endLabel := mc.emit.NewLabel()
	if err := g.compileCond(mc, s.Condition, elseLabel, false); err != nil {
		return err
	}
	if err := g.compileStmt(mc, s.Then); err != nil {
		return err
	}
	mc.emit.Goto(endLabel)
	mc.emit.BindLabel(elseLabel)
	if err := g.compileStmt(mc, s.Else); err != nil {
		return err
	}
	mc.emit.BindLabel(endLabel)
	return nil
}

func (g *Generator) compileReturn(mc *methodContext, s *ast.ReturnStmt) error {
	if s.Expression == nil {
		mc.emit.ReturnVoid()
		return nil
	}
	vt, err := g.compileExpr(mc, s.Expression)
	if err != nil {
		return err
	}
	g.convertIfNeeded(mc, vt, mc.returnType)
	mc.emit.Return(emitKindOf(mc.returnType))
	return nil
}

func (g *Generator) compileThrow(mc *methodContext, s *ast.ThrowStmt) error {
	if _, err := g.compileExpr(mc, s.Expression); err != nil {
		return err
	}
	mc.emit.Throw()
	return nil
}

// compileLabeledStmt routes a labeled loop/switch straight into its own
// compiler with the label attached (so continue/break can name it
// directly); any other labeled statement only supports break, via a
// plain end-of-statement label.
func (g *Generator) compileLabeledStmt(mc *methodContext, s *ast.LabeledStmt) error {
	switch inner := s.Statement.(type) {
	case *ast.WhileStmt:
		return g.compileWhile(mc, inner, s.Label)
	case *ast.DoWhileStmt:
		return g.compileDoWhile(mc, inner, s.Label)
	case *ast.ForStmt:
		return g.compileFor(mc, inner, s.Label)
	case *ast.EnhancedForStmt:
		return g.compileEnhancedFor(mc, inner, s.Label)
	case *ast.SwitchStmt:
		return g.compileSwitch(mc, inner, s.Label)
	default:
		endLabel := mc.emit.NewLabel()
		mc.pushLabel(s.Label, endLabel)
		if err := g.compileStmt(mc, s.Statement); err != nil {
			return err
		}
		mc.popLabel()
		mc.emit.BindLabel(endLabel)
		return nil
	}
}

// compileSynchronized lowers `synchronized (expr) body` per spec.md
// §4.7: the lock object is stashed in a synthetic local so both the
// normal exit path and the catch-all unwind handler can monitorexit
// the same reference.
func (g *Generator) compileSynchronized(mc *methodContext, s *ast.SynchronizedStmt) error {
	saved := mc.pushScope()
	lockSlot := mc.declareLocal(mc.freshName("$lock"), types.Object)

	if _, err := g.compileExpr(mc, s.Expression); err != nil {
		return err
	}
	mc.emit.Dup()
	mc.emit.Store(emitter.KindRef, lockSlot)
	mc.emit.MonitorEnter()

	startLabel := mc.emit.NewLabel()
	endLabel := mc.emit.NewLabel()
	handlerLabel := mc.emit.NewLabel()
	doneLabel := mc.emit.NewLabel()

	mc.emit.BindLabel(startLabel)
	if err := g.compileBlock(mc, s.Body); err != nil {
		return err
	}
	mc.emit.BindLabel(endLabel)
	mc.emit.Load(emitter.KindRef, lockSlot)
	mc.emit.MonitorExit()
	mc.emit.Goto(doneLabel)

	mc.emit.BindLabel(handlerLabel)
	mc.emit.Load(emitter.KindRef, lockSlot)
	mc.emit.MonitorExit()
	mc.emit.Throw()

	mc.emit.AddExceptionHandler(startLabel, endLabel, handlerLabel, 0)
	mc.emit.BindLabel(doneLabel)
	mc.popScope(saved, nil)
	return nil
}

// compileAssert lowers `assert cond;`/`assert cond : message;` using a
// per-class synthetic `$assertionsDisabled` field (spec.md §4.7,
// resolved as Open Question 2: assert is fully implemented).
func (g *Generator) compileAssert(mc *methodContext, s *ast.AssertStmt) error {
	cp := mc.emit.ConstantPool()
	endLabel := mc.emit.NewLabel()

	fieldIdx := cp.AddFieldref(g.internalName, "$assertionsDisabled", "Z")
	mc.emit.GetStatic(fieldIdx, 1)
	mc.emit.IfZero(emitter.Ne, endLabel)

	if err := g.compileCond(mc, s.Condition, endLabel, true); err != nil {
		return err
	}

	errClass := "java/lang/AssertionError"
	classIdx := cp.AddClass(errClass)
	mc.emit.New(classIdx)
	mc.emit.Dup()
	if s.Message == nil {
		mc.emit.InvokeSpecial(cp.AddMethodref(errClass, "<init>", "()V"), 0, 0)
	} else {
		mt, err := g.typeOf(mc, s.Message)
		if err != nil {
			return err
		}
		if _, err := g.compileExpr(mc, s.Message); err != nil {
			return err
		}
		desc := "(Ljava/lang/Object;)V"
		if isStringType(mt) {
			desc = "(Ljava/lang/String;)V"
		}
		mc.emit.InvokeSpecial(cp.AddMethodref(errClass, "<init>", desc), 1, 0)
	}
	mc.emit.Throw()

	mc.emit.BindLabel(endLabel)
	return nil
}
