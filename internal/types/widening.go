package types

// widenRank orders the primitive widening chains from spec.md §4.5:
// byte -> short -> int -> long -> float -> double, char -> int -> ...
// A value is only comparable within the chain it starts in; char and
// byte/short are different starting points that both funnel into int.
var widenRank = map[Primitive]int{
	Byte:   1,
	Short:  2,
	Char:   2, // char and short both widen directly to int
	Int:    3,
	Long:   4,
	Float:  5,
	Double: 6,
}

// CanWidenPrimitive reports whether a value of primitive "from" may be
// used, via widening primitive conversion only (no narrowing, no
// boxing), where primitive "to" is expected.
func CanWidenPrimitive(from, to Primitive) bool {
	if from == to {
		return true
	}
	if from == Boolean || to == Boolean {
		return false
	}
	fr, ok1 := widenRank[from]
	tr, ok2 := widenRank[to]
	if !ok1 || !ok2 {
		return false
	}
	// byte and short widen to int/long/float/double but never to char.
	if (from == Byte || from == Short) && to == Char {
		return false
	}
	if from == Char && (to == Byte || to == Short) {
		return false
	}
	return fr <= tr
}

// PromotedType implements binary numeric promotion (spec.md §4.6):
// double > float > long > int; both operands are promoted to the
// wider of the two. Operands narrower than int (byte, short, char)
// are first promoted to int.
func PromotedType(a, b Type) Type {
	pa, okA := a.(Primitive)
	pb, okB := b.(Primitive)
	if !okA || !okB {
		return Int
	}
	pa = unaryPromote(pa)
	pb = unaryPromote(pb)
	order := []Primitive{Int, Long, Float, Double}
	best := 0
	for i, p := range order {
		if p == pa && i > best {
			best = i
		}
		if p == pb && i > best {
			best = i
		}
	}
	return order[best]
}

// unaryPromote widens byte/short/char to int, the JVM's unary numeric
// promotion rule; everything int-or-wider is unchanged.
func unaryPromote(p Primitive) Primitive {
	switch p {
	case Byte, Short, Char:
		return Int
	default:
		return p
	}
}

// UnaryPromote exposes unaryPromote for shift-operator compilation,
// which per spec.md §4.6 promotes only the left operand.
func UnaryPromote(t Type) Type {
	p, ok := t.(Primitive)
	if !ok {
		return t
	}
	return unaryPromote(p)
}
