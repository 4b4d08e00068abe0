package emitter

import (
	"sort"

	"github.com/cwbudde/go-javac/internal/classfile"
)

// Label is an opaque handle to a not-yet-resolved (or already
// resolved) byte offset within one method's code, analogous to
// spec.md's "label name -> resolved byte offset" table entry.
type Label int

type forwardRef struct {
	label       Label
	patchOffset int // byte offset of the placeholder to patch
	width       int // always 2: short branches only, see DESIGN.md Open Question 1
	instrStart  int // offset of the branch opcode itself, for displacement math
}

type pendingException struct {
	start, end, handler Label
	catchType           uint16
}

// Builder is the per-method bytecode emitter: it owns the code
// buffer, the operand-stack and local-slot bookkeeping, the label
// table, and the exception table for exactly one in-flight method
// (spec.md §3 "Ownership").
type Builder struct {
	cp   *classfile.ConstantPool
	code []byte

	stackDepth int
	maxStack   int

	nextSlot  int
	maxLocals int

	labelOffsets []int // -1 until resolved
	forwardRefs  []forwardRef
	switchRefs   []switchForwardRef

	pendingExceptions []pendingException
}

// New creates a bytecode builder that interns constants into cp.
func New(cp *classfile.ConstantPool) *Builder {
	return &Builder{cp: cp}
}

// ConstantPool exposes the shared constant pool, for callers (the
// expression/statement compiler) that need to intern a methodref,
// fieldref, or literal alongside emitting the instruction that uses it.
func (b *Builder) ConstantPool() *classfile.ConstantPool { return b.cp }

// Offset returns the current write cursor, i.e. the offset the next
// emitted instruction will start at.
func (b *Builder) Offset() int { return len(b.code) }

// NewLabel allocates an unresolved label.
func (b *Builder) NewLabel() Label {
	b.labelOffsets = append(b.labelOffsets, -1)
	return Label(len(b.labelOffsets) - 1)
}

// BindLabel resolves lbl to the current write cursor. Binding the same
// label twice is a generator bug.
func (b *Builder) BindLabel(lbl Label) {
	if b.labelOffsets[lbl] != -1 {
		panic(invalid("label %d bound twice", lbl))
	}
	b.labelOffsets[lbl] = len(b.code)
}

// --- operand stack & local slots ---

// push records that `slots` operand-stack slots (1 for everything but
// long/double, which are 2) were just pushed, updating max_stack.
func (b *Builder) push(slots int) {
	b.stackDepth += slots
	if b.stackDepth > b.maxStack {
		b.maxStack = b.stackDepth
	}
}

// pop records that `slots` operand-stack slots were just popped.
// Popping past empty is always a generator bug (spec.md §4.2).
func (b *Builder) pop(slots int) {
	b.stackDepth -= slots
	if b.stackDepth < 0 {
		panic(invalid("stack underflow: popped %d slots with depth %d", slots, b.stackDepth+slots))
	}
}

// StackDepth returns the current operand-stack depth, useful for
// statement compilation to assert a statement leaves the stack
// balanced.
func (b *Builder) StackDepth() int { return b.stackDepth }

// AddLocal reserves `size` (1 or 2) local-variable slots starting at
// the next free slot, returning the allocated slot index and bumping
// max_locals.
func (b *Builder) AddLocal(size int) int {
	slot := b.nextSlot
	b.nextSlot += size
	if b.nextSlot > b.maxLocals {
		b.maxLocals = b.nextSlot
	}
	return slot
}

// ReleaseLocals rewinds the next-free-slot counter to reuse slots from
// an exited block scope (max_locals already recorded the high
// watermark, so this never shrinks it).
func (b *Builder) ReleaseLocals(toSlot int) { b.nextSlot = toSlot }

// NextSlot returns the next slot that would be allocated, i.e. the
// scope-save point for ReleaseLocals.
func (b *Builder) NextSlot() int { return b.nextSlot }

// --- raw emission helpers ---

func (b *Builder) emitByte(v byte) { b.code = append(b.code, v) }

func (b *Builder) emitU16(v uint16) { b.code = append(b.code, byte(v>>8), byte(v)) }

func (b *Builder) emitOp(op Op) { b.emitByte(byte(op)) }

// --- exception table ---

// AddExceptionHandler registers one exception-table entry, resolved
// alongside branch labels at Finalize. catchType is a constant-pool
// CONSTANT_Class index, or 0 for a catch-all (finally / synchronized
// unwind) handler.
func (b *Builder) AddExceptionHandler(start, end, handler Label, catchType uint16) {
	b.pendingExceptions = append(b.pendingExceptions, pendingException{start, end, handler, catchType})
}

// --- finalize ---

// Finalize resolves every branch and exception-table label, producing
// an immutable Code attribute payload. It is a generator bug to call
// this while any label remains unbound.
func (b *Builder) Finalize() *classfile.CodeAttribute {
	code := make([]byte, len(b.code))
	copy(code, b.code)

	for _, ref := range b.forwardRefs {
		target := b.resolve(ref.label)
		disp := target - ref.instrStart
		if disp < -32768 || disp > 32767 {
			panic(&classfile.Error{Kind: classfile.MethodTooLarge, Message: "branch displacement exceeds signed 16 bits (goto_w/jsr_w not supported)"})
		}
		code[ref.patchOffset] = byte(int16(disp) >> 8)
		code[ref.patchOffset+1] = byte(int16(disp))
	}

	for _, ref := range b.switchRefs {
		target := b.resolve(ref.label)
		disp := int32(target - ref.instrStart)
		code[ref.patchOffset] = byte(disp >> 24)
		code[ref.patchOffset+1] = byte(disp >> 16)
		code[ref.patchOffset+2] = byte(disp >> 8)
		code[ref.patchOffset+3] = byte(disp)
	}

	exceptions := make([]classfile.ExceptionTableEntry, 0, len(b.pendingExceptions))
	for _, pe := range b.pendingExceptions {
		exceptions = append(exceptions, classfile.ExceptionTableEntry{
			StartPC:   uint16(b.resolve(pe.start)),
			EndPC:     uint16(b.resolve(pe.end)),
			HandlerPC: uint16(b.resolve(pe.handler)),
			CatchType: pe.catchType,
		})
	}
	// Sorting is cosmetic (any consistent order is valid per JVMS) but
	// keeps Finalize's output deterministic across call-order variations.
	sort.SliceStable(exceptions, func(i, j int) bool { return exceptions[i].StartPC < exceptions[j].StartPC })

	return &classfile.CodeAttribute{
		MaxStack:   uint16(b.maxStack),
		MaxLocals:  uint16(b.maxLocals),
		Code:       code,
		Exceptions: exceptions,
	}
}

func (b *Builder) resolve(lbl Label) int {
	off := b.labelOffsets[lbl]
	if off < 0 {
		panic(invalid("label %d was never bound", lbl))
	}
	return off
}
