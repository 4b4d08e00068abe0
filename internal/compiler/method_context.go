package compiler

import (
	"strconv"

	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// localVar is one entry of a method's local-variable table.
type localVar struct {
	slot int
	typ  types.Type
}

// loopKind distinguishes which statement form owns the nearest
// enclosing loop, purely for error messages.
type loopKind int

const (
	loopWhile loopKind = iota
	loopDoWhile
	loopFor
	loopEnhancedFor
	loopSwitch // not a real loop: carries a break target only
)

// loopContext is one entry of the method context's break/continue
// stack, collecting the not-yet-resolved jump targets break/continue
// need (mirrors go-dws's compiler_core.go loopContext). switch
// statements push one too, since break also targets them, but with
// isLoop false so continue (which only ever targets an enclosing loop)
// skips over it.
type loopContext struct {
	kind           loopKind
	label          string // the labeled-statement name wrapping this loop/switch, "" if none
	isLoop         bool
	breakTarget    emitter.Label
	continueTarget emitter.Label
}

// methodContext is the per-in-flight-method state: the emitter, the
// local-variable table (name -> slot/type) with explicit scope
// save/restore, the loop stack for break/continue, and the labeled-
// statement map for labeled break/continue that target an outer loop.
type methodContext struct {
	emit       *emitter.Builder
	locals     map[string]*localVar
	scopeStack []map[string]int // saved nextSlot per scope, for ReleaseLocals on block exit
	returnType types.Type
	isStatic   bool

	loopStack []*loopContext

	// labelStack covers a labeled statement that is neither a loop nor a
	// switch (e.g. `outer: { ... break outer; }`): only break can target
	// it, never continue.
	labelStack []*labelContext

	syntheticCounter int // uniquifies compiler-introduced local names (e.g. enhanced-for's hidden array/index slots)

	thisSlot int // 0 for instance methods, unused for static ones
}

type labelContext struct {
	label string
	end   emitter.Label
}

func newMethodContext(emit *emitter.Builder, returnType types.Type, isStatic bool) *methodContext {
	return &methodContext{
		emit:       emit,
		locals:     make(map[string]*localVar),
		returnType: returnType,
		isStatic:   isStatic,
	}
}

// declareLocal allocates a fresh slot for name and records its type,
// shadowing any outer-scope local of the same name for the remainder
// of the current block.
func (mc *methodContext) declareLocal(name string, t types.Type) int {
	slot := mc.emit.AddLocal(t.Size())
	mc.locals[name] = &localVar{slot: slot, typ: t}
	return slot
}

// pushScope/popScope bracket a block's local declarations so their
// slots are released for reuse once the block exits (spec.md §9 save/
// restore of per-instance mutable state at nested scope entry).
func (mc *methodContext) pushScope() int {
	return mc.emit.NextSlot()
}

func (mc *methodContext) popScope(savedNextSlot int, removed []string) {
	for _, name := range removed {
		delete(mc.locals, name)
	}
	mc.emit.ReleaseLocals(savedNextSlot)
}

func (mc *methodContext) pushLoop(kind loopKind, label string) *loopContext {
	lc := &loopContext{kind: kind, label: label, isLoop: true, breakTarget: mc.emit.NewLabel(), continueTarget: mc.emit.NewLabel()}
	mc.loopStack = append(mc.loopStack, lc)
	return lc
}

// pushSwitch registers a switch statement on the same stack as loops,
// since break targets it too, but with isLoop false so continue always
// skips past it to the enclosing loop.
func (mc *methodContext) pushSwitch(label string) *loopContext {
	lc := &loopContext{kind: loopSwitch, label: label, isLoop: false, breakTarget: mc.emit.NewLabel()}
	mc.loopStack = append(mc.loopStack, lc)
	return lc
}

func (mc *methodContext) popLoop() {
	mc.loopStack = mc.loopStack[:len(mc.loopStack)-1]
}

// findBreak resolves an unlabeled or labeled break to its target: the
// innermost loop/switch for an unlabeled break, or by label across
// both the loop/switch stack and the plain-labeled-block stack.
func (mc *methodContext) findBreak(label string) (emitter.Label, bool) {
	if label == "" {
		if len(mc.loopStack) == 0 {
			return 0, false
		}
		return mc.loopStack[len(mc.loopStack)-1].breakTarget, true
	}
	for i := len(mc.loopStack) - 1; i >= 0; i-- {
		if mc.loopStack[i].label == label {
			return mc.loopStack[i].breakTarget, true
		}
	}
	for i := len(mc.labelStack) - 1; i >= 0; i-- {
		if mc.labelStack[i].label == label {
			return mc.labelStack[i].end, true
		}
	}
	return 0, false
}

// findContinue resolves an unlabeled or labeled continue; switch
// frames are always skipped since continue only ever targets a loop.
func (mc *methodContext) findContinue(label string) (emitter.Label, bool) {
	if label == "" {
		for i := len(mc.loopStack) - 1; i >= 0; i-- {
			if mc.loopStack[i].isLoop {
				return mc.loopStack[i].continueTarget, true
			}
		}
		return 0, false
	}
	for i := len(mc.loopStack) - 1; i >= 0; i-- {
		if mc.loopStack[i].isLoop && mc.loopStack[i].label == label {
			return mc.loopStack[i].continueTarget, true
		}
	}
	return 0, false
}

func (mc *methodContext) pushLabel(label string, end emitter.Label) {
	mc.labelStack = append(mc.labelStack, &labelContext{label: label, end: end})
}

func (mc *methodContext) popLabel() {
	mc.labelStack = mc.labelStack[:len(mc.labelStack)-1]
}

// freshName mints a compiler-introduced local name that cannot collide
// with a source identifier, used for enhanced-for's hidden array/
// length/index slots.
func (mc *methodContext) freshName(prefix string) string {
	mc.syntheticCounter++
	return prefix + "$" + strconv.Itoa(mc.syntheticCounter)
}
