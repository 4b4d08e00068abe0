package emitter

// BinaryOp names the source-level binary arithmetic/bitwise operators
// that map onto a per-Kind opcode family (spec.md §4.5 "Binary numeric
// promotion").
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	Shl
	Shr
	Ushr
	And
	Or
	Xor
)

var arithOps = map[BinaryOp]map[Kind]Op{
	Add:  {KindInt: Iadd, KindLong: Ladd, KindFloat: Fadd, KindDouble: Dadd},
	Sub:  {KindInt: Isub, KindLong: Lsub, KindFloat: Fsub, KindDouble: Dsub},
	Mul:  {KindInt: Imul, KindLong: Lmul, KindFloat: Fmul, KindDouble: Dmul},
	Div:  {KindInt: Idiv, KindLong: Ldiv, KindFloat: Fdiv, KindDouble: Ddiv},
	Rem:  {KindInt: Irem, KindLong: Lrem, KindFloat: Frem, KindDouble: Drem},
	Shl:  {KindInt: Ishl, KindLong: Lshl},
	Shr:  {KindInt: Ishr, KindLong: Lshr},
	Ushr: {KindInt: Iushr, KindLong: Lushr},
	And:  {KindInt: Iand, KindLong: Land},
	Or:   {KindInt: Ior, KindLong: Lor},
	Xor:  {KindInt: Ixor, KindLong: Lxor},
}

// Binary emits the opcode for op over operands of category k. Shift
// operators always consume a single int slot for the shift amount
// regardless of k (JVMS 6.5.ishl/lshl), so they pop k.slots()+1.
func (b *Builder) Binary(op BinaryOp, k Kind) {
	switch op {
	case Shl, Shr, Ushr:
		b.pop(k.slots() + 1)
	default:
		b.pop(2 * k.slots())
	}
	b.emitOp(arithOps[op][k])
	b.push(k.slots())
}

// Neg emits the unary negation opcode for category k.
func (b *Builder) Neg(k Kind) {
	b.pop(k.slots())
	switch k {
	case KindInt:
		b.emitOp(Ineg)
	case KindLong:
		b.emitOp(Lneg)
	case KindFloat:
		b.emitOp(Fneg)
	case KindDouble:
		b.emitOp(Dneg)
	}
	b.push(k.slots())
}

// Convert emits the numeric-conversion opcode from `from` to `to`; it
// is a generator bug to call this with from == to or with a KindRef
// operand, since reference conversions use Checkcast instead.
func (b *Builder) Convert(from, to Kind) {
	op, ok := conversions[[2]Kind{from, to}]
	if !ok {
		panic(invalid("no primitive conversion from %v to %v", from, to))
	}
	b.pop(from.slots())
	b.emitOp(op)
	b.push(to.slots())
}

var conversions = map[[2]Kind]Op{
	{KindInt, KindLong}:    I2l,
	{KindInt, KindFloat}:   I2f,
	{KindInt, KindDouble}:  I2d,
	{KindLong, KindInt}:    L2i,
	{KindLong, KindFloat}:  L2f,
	{KindLong, KindDouble}: L2d,
	{KindFloat, KindInt}:   F2i,
	{KindFloat, KindLong}:  F2l,
	{KindFloat, KindDouble}: F2d,
	{KindDouble, KindInt}:   D2i,
	{KindDouble, KindLong}:  D2l,
	{KindDouble, KindFloat}: D2f,
}

// NarrowInt emits i2b/i2c/i2s, narrowing an int already on the stack
// to byte, char, or short representation (still occupying one slot).
func (b *Builder) NarrowInt(op Op) {
	b.pop(1)
	b.emitOp(op)
	b.push(1)
}

// Compare emits the long/float/double comparison opcode, which leaves
// a -1/0/1 int on the stack for a subsequent Ifeq/Ifne/... branch
// (JVMS 6.5.lcmp/fcmpl/fcmpg/dcmpl/dcmpg). For float/double, nanIsGreater
// selects fcmpg/dcmpg (NaN compares greater) over fcmpl/dcmpl (NaN
// compares less), matching the source operator per spec.md §4.5.
func (b *Builder) Compare(k Kind, nanIsGreater bool) {
	b.pop(2 * k.slots())
	switch k {
	case KindLong:
		b.emitOp(Lcmp)
	case KindFloat:
		if nanIsGreater {
			b.emitOp(Fcmpg)
		} else {
			b.emitOp(Fcmpl)
		}
	case KindDouble:
		if nanIsGreater {
			b.emitOp(Dcmpg)
		} else {
			b.emitOp(Dcmpl)
		}
	}
	b.push(1)
}
