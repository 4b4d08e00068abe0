package emitter

import (
	"testing"

	"github.com/cwbudde/go-javac/internal/classfile"
)

func newTestBuilder() *Builder {
	return New(classfile.NewConstantPool())
}

func TestStackTracking(t *testing.T) {
	b := newTestBuilder()
	b.Iconst(1)
	b.Iconst(2)
	b.Binary(Add, KindInt)
	if b.StackDepth() != 1 {
		t.Fatalf("StackDepth = %d, want 1", b.StackDepth())
	}
	code := b.Finalize()
	if code.MaxStack != 2 {
		t.Fatalf("MaxStack = %d, want 2", code.MaxStack)
	}
}

func TestStackUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on stack underflow")
		}
	}()
	b := newTestBuilder()
	b.Pop()
}

func TestLocalSlotAllocation(t *testing.T) {
	b := newTestBuilder()
	s0 := b.AddLocal(1)
	s1 := b.AddLocal(2) // long takes 2 slots
	s2 := b.AddLocal(1)
	if s0 != 0 || s1 != 1 || s2 != 3 {
		t.Fatalf("slots = %d,%d,%d want 0,1,3", s0, s1, s2)
	}
	b.ReleaseLocals(0)
	s3 := b.AddLocal(1)
	if s3 != 0 {
		t.Fatalf("slot after release = %d, want 0", s3)
	}
	code := b.Finalize()
	if code.MaxLocals != 4 {
		t.Fatalf("MaxLocals = %d, want 4 (high watermark preserved)", code.MaxLocals)
	}
}

func TestBranchForwardPatching(t *testing.T) {
	b := newTestBuilder()
	end := b.NewLabel()
	b.Iconst(1)
	b.IfZero(Eq, end)
	b.Iconst(99)
	b.Pop()
	b.BindLabel(end)
	b.ReturnVoid()

	code := b.Finalize()
	// ifeq opcode at offset 1 (after iconst_1), operand at 2-3.
	if code.Code[1] != byte(Ifeq) {
		t.Fatalf("expected ifeq at offset 1, got 0x%x", code.Code[1])
	}
	hi, lo := code.Code[2], code.Code[3]
	disp := int16(uint16(hi)<<8 | uint16(lo))
	target := 1 + int(disp) // instrStart + disp
	if code.Code[target] != byte(Return) {
		t.Fatalf("branch target resolved to offset %d, not the bound label", target)
	}
}

func TestBranchOutOfRangePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on oversized displacement")
		}
		if _, ok := r.(*classfile.Error); !ok {
			t.Fatalf("expected *classfile.Error, got %T", r)
		}
	}()
	b := newTestBuilder()
	target := b.NewLabel()
	b.Goto(target)
	for i := 0; i < 40000; i++ {
		b.emitByte(0)
	}
	b.BindLabel(target)
	b.Finalize()
}

func TestLookupSwitchAlignmentAndOrdering(t *testing.T) {
	b := newTestBuilder()
	b.Iconst(0)
	def := b.NewLabel()
	one := b.NewLabel()
	two := b.NewLabel()
	// deliberately unsorted input; output must be ascending by match.
	b.LookupSwitch(map[int32]Label{2: two, 1: one}, def)
	b.BindLabel(one)
	b.Iconst(10)
	b.Pop()
	b.BindLabel(two)
	b.Iconst(20)
	b.Pop()
	b.BindLabel(def)
	b.ReturnVoid()

	code := b.Finalize()
	// iconst_0 at offset 0 (1 byte), lookupswitch opcode at offset 1.
	opcodeOffset := 1
	if code.Code[opcodeOffset] != byte(Lookupswitch) {
		t.Fatalf("expected lookupswitch at %d", opcodeOffset)
	}
	padStart := opcodeOffset + 1
	tableStart := padStart
	for tableStart%4 != 0 {
		tableStart++
	}
	if tableStart%4 != 0 {
		t.Fatalf("table start %d not 4-byte aligned", tableStart)
	}
	npairsOffset := tableStart + 4
	npairs := int(code.Code[npairsOffset])<<24 | int(code.Code[npairsOffset+1])<<16 |
		int(code.Code[npairsOffset+2])<<8 | int(code.Code[npairsOffset+3])
	if npairs != 2 {
		t.Fatalf("npairs = %d, want 2", npairs)
	}
	firstMatchOffset := npairsOffset + 4
	firstMatch := int32(code.Code[firstMatchOffset])<<24 | int32(code.Code[firstMatchOffset+1])<<16 |
		int32(code.Code[firstMatchOffset+2])<<8 | int32(code.Code[firstMatchOffset+3])
	if firstMatch != 1 {
		t.Fatalf("first match = %d, want 1 (ascending order)", firstMatch)
	}
}

func TestExceptionTableSortedByStartPC(t *testing.T) {
	b := newTestBuilder()
	h1 := b.NewLabel()
	h2 := b.NewLabel()
	s1 := b.NewLabel()
	e1 := b.NewLabel()
	s2 := b.NewLabel()
	e2 := b.NewLabel()

	b.BindLabel(s2)
	b.Iconst(1)
	b.Pop()
	b.BindLabel(e2)
	b.BindLabel(s1)
	b.Iconst(2)
	b.Pop()
	b.BindLabel(e1)
	b.BindLabel(h1)
	b.BindLabel(h2)
	b.ReturnVoid()

	b.AddExceptionHandler(s1, e1, h1, 0)
	b.AddExceptionHandler(s2, e2, h2, 0)

	code := b.Finalize()
	if len(code.Exceptions) != 2 {
		t.Fatalf("len(Exceptions) = %d, want 2", len(code.Exceptions))
	}
	if code.Exceptions[0].StartPC > code.Exceptions[1].StartPC {
		t.Fatal("exception table not sorted by StartPC")
	}
}

func TestConvertUnknownPairPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for identity conversion")
		}
	}()
	b := newTestBuilder()
	b.Convert(KindRef, KindRef)
}
