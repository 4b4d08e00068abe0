package emitter

// Pop discards the top one-slot value.
func (b *Builder) Pop() {
	b.pop(1)
	b.emitOp(Pop)
}

// Pop2 discards the top two one-slot values, or one two-slot value.
func (b *Builder) Pop2() {
	b.pop(2)
	b.emitOp(Pop2)
}

// Dup duplicates the top one-slot value.
func (b *Builder) Dup() {
	b.emitOp(Dup)
	b.push(1)
}

// DupX1 duplicates the top one-slot value and inserts it two slots down.
func (b *Builder) DupX1() {
	b.emitOp(DupX1)
	b.push(1)
}

// DupX2 duplicates the top one-slot value and inserts it three slots down.
func (b *Builder) DupX2() {
	b.emitOp(DupX2)
	b.push(1)
}

// Dup2 duplicates the top two one-slot values, or one two-slot value.
func (b *Builder) Dup2() {
	b.emitOp(Dup2)
	b.push(2)
}

// Dup2X1 is dup2 with the duplicated pair inserted below a third one-slot value.
func (b *Builder) Dup2X1() {
	b.emitOp(Dup2X1)
	b.push(2)
}

// Dup2X2 is dup2 with the duplicated pair inserted below another pair.
func (b *Builder) Dup2X2() {
	b.emitOp(Dup2X2)
	b.push(2)
}

// Swap exchanges the top two one-slot values.
func (b *Builder) Swap() {
	b.emitOp(Swap)
}

// MonitorEnter emits monitorenter, popping the lock object (spec.md
// §4.7 "synchronized").
func (b *Builder) MonitorEnter() {
	b.pop(1)
	b.emitOp(Monitorenter)
}

// MonitorExit emits monitorexit, popping the lock object.
func (b *Builder) MonitorExit() {
	b.pop(1)
	b.emitOp(Monitorexit)
}

// Throw emits athrow. The JVM discards the rest of the operand stack
// on an exceptional exit, so no further pop/push bookkeeping applies.
func (b *Builder) Throw() {
	b.emitOp(Athrow)
}

// Return emits the typed return instruction for category k, popping
// the value being returned.
func (b *Builder) Return(k Kind) {
	b.pop(k.slots())
	switch k {
	case KindInt:
		b.emitOp(Ireturn)
	case KindLong:
		b.emitOp(Lreturn)
	case KindFloat:
		b.emitOp(Freturn)
	case KindDouble:
		b.emitOp(Dreturn)
	case KindRef:
		b.emitOp(Areturn)
	}
}

// ReturnVoid emits the bare `return` for a void method.
func (b *Builder) ReturnVoid() {
	b.emitOp(Return)
}
