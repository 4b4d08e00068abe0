package emitter

// Iconst pushes an int constant using the narrowest available form:
// iconst_m1..5, bipush, sipush, or ldc/ldc_w (spec.md §4.2).
func (b *Builder) Iconst(v int32) {
	switch {
	case v >= -1 && v <= 5:
		b.emitOp(Op(int(Iconst0) + int(v)))
	case v >= -128 && v <= 127:
		b.emitOp(Bipush)
		b.emitByte(byte(v))
	case v >= -32768 && v <= 32767:
		b.emitOp(Sipush)
		b.emitU16(uint16(int16(v)))
	default:
		idx := b.cp.AddInteger(v)
		b.ldcIndex(idx)
	}
	b.push(1)
}

// Lconst pushes a long constant: lconst_0/1 or ldc2_w.
func (b *Builder) Lconst(v int64) {
	if v == 0 || v == 1 {
		b.emitOp(Op(int(Lconst0) + int(v)))
	} else {
		idx := b.cp.AddLong(v)
		b.emitOp(Ldc2W)
		b.emitU16(idx)
	}
	b.push(2)
}

// Fconst pushes a float constant: fconst_0/1/2 or ldc/ldc_w.
func (b *Builder) Fconst(v float32) {
	switch v {
	case 0:
		b.emitOp(Fconst0)
	case 1:
		b.emitOp(Fconst1)
	case 2:
		b.emitOp(Fconst2)
	default:
		idx := b.cp.AddFloat(v)
		b.ldcIndex(idx)
	}
	b.push(1)
}

// Dconst pushes a double constant: dconst_0/1 or ldc2_w.
func (b *Builder) Dconst(v float64) {
	if v == 0 {
		b.emitOp(Dconst0)
	} else if v == 1 {
		b.emitOp(Dconst1)
	} else {
		idx := b.cp.AddDouble(v)
		b.emitOp(Ldc2W)
		b.emitU16(idx)
	}
	b.push(2)
}

// LdcString interns the string in the constant pool and pushes it.
func (b *Builder) LdcString(s string) {
	idx := b.cp.AddString(s)
	b.ldcIndex(idx)
	b.push(1)
}

// LdcClass pushes a java.lang.Class literal for a class, interface,
// or array type (a CONSTANT_Class entry loaded via ldc).
func (b *Builder) LdcClass(internalNameOrDescriptor string) {
	idx := b.cp.AddClass(internalNameOrDescriptor)
	b.ldcIndex(idx)
	b.push(1)
}

// ldcIndex selects ldc (one-byte index) when it fits, else ldc_w.
func (b *Builder) ldcIndex(idx uint16) {
	if idx <= 255 {
		b.emitOp(Ldc)
		b.emitByte(byte(idx))
	} else {
		b.emitOp(LdcW)
		b.emitU16(idx)
	}
}

// NullConst pushes the null reference.
func (b *Builder) NullConst() {
	b.emitOp(AconstNull)
	b.push(1)
}
