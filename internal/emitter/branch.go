package emitter

// CondOp names the branch-family condition codes (spec.md §4.7
// "Condition compilation"): the int-vs-zero family, the int-vs-int and
// reference-vs-reference comparison families, and the null-check
// family all share this one enum since each compiles to exactly one
// opcode per family member.
type CondOp int

const (
	Eq CondOp = iota
	Ne
	Lt
	Ge
	Gt
	Le
)

var ifZeroOps = map[CondOp]Op{Eq: Ifeq, Ne: Ifne, Lt: Iflt, Ge: Ifge, Gt: Ifgt, Le: Ifle}
var ifIcmpOps = map[CondOp]Op{Eq: IfIcmpeq, Ne: IfIcmpne, Lt: IfIcmplt, Ge: IfIcmpge, Gt: IfIcmpgt, Le: IfIcmple}
var ifAcmpOps = map[CondOp]Op{Eq: IfAcmpeq, Ne: IfAcmpne}

func (b *Builder) branch(op Op, target Label) {
	b.emitOp(op)
	b.emitForwardU16(target)
}

// emitForwardU16 emits a placeholder 2-byte operand and records a
// forward reference patched at Finalize once target's offset is known.
func (b *Builder) emitForwardU16(target Label) {
	instrStart := len(b.code) - 1 // the opcode byte just emitted
	patchOffset := len(b.code)
	b.emitU16(0)
	b.forwardRefs = append(b.forwardRefs, forwardRef{label: target, patchOffset: patchOffset, width: 2, instrStart: instrStart})
}

// IfZero emits a branch comparing the top int against zero, per JVMS
// 6.5.ifeq family. Pops one int.
func (b *Builder) IfZero(cond CondOp, target Label) {
	b.pop(1)
	b.branch(ifZeroOps[cond], target)
}

// IfIcmp emits a branch comparing two ints, per JVMS 6.5.if_icmp<cond>.
// Pops two ints.
func (b *Builder) IfIcmp(cond CondOp, target Label) {
	b.pop(2)
	b.branch(ifIcmpOps[cond], target)
}

// IfAcmp emits a reference-equality branch (Eq or Ne only). Pops two
// references.
func (b *Builder) IfAcmp(cond CondOp, target Label) {
	b.pop(2)
	b.branch(ifAcmpOps[cond], target)
}

// IfNull emits ifnull, popping one reference.
func (b *Builder) IfNull(target Label) {
	b.pop(1)
	b.branch(Ifnull, target)
}

// IfNonNull emits ifnonnull, popping one reference.
func (b *Builder) IfNonNull(target Label) {
	b.pop(1)
	b.branch(Ifnonnull, target)
}

// Goto emits an unconditional branch. Per DESIGN.md Open Question 1
// this module only supports the short (2-byte-operand) form; methods
// whose body would need goto_w report classfile.MethodTooLarge at
// Finalize instead of silently switching encodings.
func (b *Builder) Goto(target Label) {
	b.branch(Goto, target)
}
