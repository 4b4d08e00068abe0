package emitter

import "sort"

// switchForwardRef records a switch-table offset operand (default or
// one jump-table entry) pending resolution at Finalize, analogous to
// forwardRef but carrying a 4-byte width.
type switchForwardRef struct {
	label       Label
	patchOffset int
	instrStart  int
}

// LookupSwitch emits a lookupswitch instruction for a sparse set of
// int match values (spec.md §4.7 "switch over int/string"), padding
// to the next 4-byte boundary per JVMS 6.5.lookupswitch and writing
// match/offset pairs in ascending match order as the JVMS requires.
func (b *Builder) LookupSwitch(cases map[int32]Label, defaultTarget Label) {
	b.pop(1)
	instrStart := len(b.code)
	b.emitOp(Lookupswitch)
	b.padAlign4()

	matches := make([]int32, 0, len(cases))
	for m := range cases {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })

	b.emitSwitchOffset(defaultTarget, instrStart)
	b.emitU32(uint32(len(matches)))
	for _, m := range matches {
		b.emitU32(uint32(m))
		b.emitSwitchOffset(cases[m], instrStart)
	}
}

// TableSwitch emits a tableswitch instruction for a dense contiguous
// range [low, high]. targets must have exactly high-low+1 entries,
// indexed by (matchValue - low).
func (b *Builder) TableSwitch(low, high int32, targets []Label, defaultTarget Label) {
	b.pop(1)
	instrStart := len(b.code)
	b.emitOp(Tableswitch)
	b.padAlign4()

	b.emitSwitchOffset(defaultTarget, instrStart)
	b.emitU32(uint32(low))
	b.emitU32(uint32(high))
	for _, t := range targets {
		b.emitSwitchOffset(t, instrStart)
	}
}

func (b *Builder) padAlign4() {
	for len(b.code)%4 != 0 {
		b.emitByte(0)
	}
}

func (b *Builder) emitU32(v uint32) {
	b.code = append(b.code, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// emitSwitchOffset reserves a 4-byte placeholder offset, resolved at
// Finalize relative to instrStart (the opcode byte, per JVMS: switch
// offsets are computed from the instruction's own address).
func (b *Builder) emitSwitchOffset(target Label, instrStart int) {
	patchOffset := len(b.code)
	b.emitU32(0)
	b.switchRefs = append(b.switchRefs, switchForwardRef{label: target, patchOffset: patchOffset, instrStart: instrStart})
}
