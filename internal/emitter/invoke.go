package emitter

// GetStatic emits getstatic for a field of descriptor slot-size
// `size` (1 or 2), pushing its value.
func (b *Builder) GetStatic(fieldrefIdx uint16, size int) {
	b.emitOp(Getstatic)
	b.emitU16(fieldrefIdx)
	b.push(size)
}

// PutStatic emits putstatic, popping the value being stored.
func (b *Builder) PutStatic(fieldrefIdx uint16, size int) {
	b.pop(size)
	b.emitOp(Putstatic)
	b.emitU16(fieldrefIdx)
}

// GetField emits getfield: pops objectref, pushes the field value.
func (b *Builder) GetField(fieldrefIdx uint16, size int) {
	b.pop(1)
	b.emitOp(Getfield)
	b.emitU16(fieldrefIdx)
	b.push(size)
}

// PutField emits putfield: pops [objectref, value].
func (b *Builder) PutField(fieldrefIdx uint16, size int) {
	b.pop(1 + size)
	b.emitOp(Putfield)
	b.emitU16(fieldrefIdx)
}

// InvokeVirtual emits invokevirtual. argSlots is the summed slot size
// of the arguments (not counting the receiver); retSlots is 0, 1, or 2
// depending on the method's return descriptor.
func (b *Builder) InvokeVirtual(methodrefIdx uint16, argSlots, retSlots int) {
	b.pop(1 + argSlots)
	b.emitOp(Invokevirtual)
	b.emitU16(methodrefIdx)
	b.push(retSlots)
}

// InvokeSpecial emits invokespecial, used for constructors, private
// methods, and super calls.
func (b *Builder) InvokeSpecial(methodrefIdx uint16, argSlots, retSlots int) {
	b.pop(1 + argSlots)
	b.emitOp(Invokespecial)
	b.emitU16(methodrefIdx)
	b.push(retSlots)
}

// InvokeStatic emits invokestatic, which has no receiver to pop.
func (b *Builder) InvokeStatic(methodrefIdx uint16, argSlots, retSlots int) {
	b.pop(argSlots)
	b.emitOp(Invokestatic)
	b.emitU16(methodrefIdx)
	b.push(retSlots)
}

// InvokeInterface emits invokeinterface. count is the argument slot
// count plus one for the receiver, per JVMS 6.5.invokeinterface; the
// trailing zero byte is the mandated reserved operand.
func (b *Builder) InvokeInterface(interfaceMethodrefIdx uint16, argSlots, retSlots int) {
	b.pop(1 + argSlots)
	b.emitOp(Invokeinterface)
	b.emitU16(interfaceMethodrefIdx)
	b.emitByte(byte(1 + argSlots))
	b.emitByte(0)
	b.push(retSlots)
}

// InvokeDynamic emits invokedynamic against a CONSTANT_InvokeDynamic
// entry already interned in the constant pool (spec.md §4.8 "Lambda
// desugaring"). The two trailing reserved bytes are always zero.
func (b *Builder) InvokeDynamic(indyIdx uint16, argSlots, retSlots int) {
	b.pop(argSlots)
	b.emitOp(Invokedynamic)
	b.emitU16(indyIdx)
	b.emitByte(0)
	b.emitByte(0)
	b.push(retSlots)
}

// New emits the `new` instruction, pushing an uninitialized reference
// that must be followed by a matching InvokeSpecial to <init>.
func (b *Builder) New(classIdx uint16) {
	b.emitOp(OpNew)
	b.emitU16(classIdx)
	b.push(1)
}

// NewArray emits newarray for a primitive element type, popping the
// length and pushing the array reference.
func (b *Builder) NewArray(atype byte) {
	b.pop(1)
	b.emitOp(Newarray)
	b.emitByte(atype)
	b.push(1)
}

// ANewArray emits anewarray for a reference element type.
func (b *Builder) ANewArray(classIdx uint16) {
	b.pop(1)
	b.emitOp(Anewarray)
	b.emitU16(classIdx)
	b.push(1)
}

// MultiANewArray emits multianewarray: pops `dims` length operands,
// pushes the array reference.
func (b *Builder) MultiANewArray(classIdx uint16, dims byte) {
	b.pop(int(dims))
	b.emitOp(Multianewarray)
	b.emitU16(classIdx)
	b.emitByte(dims)
	b.push(1)
}

// ArrayLength emits arraylength: pops arrayref, pushes its int length.
func (b *Builder) ArrayLength() {
	b.pop(1)
	b.emitOp(Arraylength)
	b.push(1)
}

// CheckCast emits checkcast: stack depth is unchanged (the reference
// stays, narrowed, or an exception throws).
func (b *Builder) CheckCast(classIdx uint16) {
	b.emitOp(Checkcast)
	b.emitU16(classIdx)
}

// InstanceOf emits instanceof: pops objectref, pushes an int boolean.
func (b *Builder) InstanceOf(classIdx uint16) {
	b.pop(1)
	b.emitOp(Instanceof)
	b.emitU16(classIdx)
	b.push(1)
}
