package types

import "testing"

func TestDescriptors(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Int, "I"},
		{Long, "J"},
		{Void, "V"},
		{StringClass, "Ljava/lang/String;"},
		{NewArray(Int, 1), "[I"},
		{NewArray(Int, 2), "[[I"},
		{NewArray(StringClass, 1), "[Ljava/lang/String;"},
		{NewMethod(Void, Int, StringClass), "(ILjava/lang/String;)V"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.Descriptor(); got != tt.want {
				t.Errorf("Descriptor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal(NewArray(Int, 1), NewArray(Int, 1)) {
		t.Error("expected equal arrays to compare equal")
	}
	if Equal(NewArray(Int, 1), NewArray(Long, 1)) {
		t.Error("expected different element types to compare unequal")
	}
	if Equal(NewClass("a/B"), NewClass("a/C")) {
		t.Error("expected different classes to compare unequal")
	}
}

func TestParseDescriptorRoundTrip(t *testing.T) {
	inputs := []string{"I", "J", "V", "Ljava/lang/String;", "[I", "[[Ljava/lang/Object;"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			typ, n, err := ParseDescriptor(in)
			if err != nil {
				t.Fatalf("ParseDescriptor(%q): %v", in, err)
			}
			if n != len(in) {
				t.Errorf("consumed %d bytes, want %d", n, len(in))
			}
			if typ.Descriptor() != in {
				t.Errorf("round-trip mismatch: got %q, want %q", typ.Descriptor(), in)
			}
		})
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	m, err := ParseMethodDescriptor("(ILjava/lang/String;)Z")
	if err != nil {
		t.Fatal(err)
	}
	if m.Descriptor() != "(ILjava/lang/String;)Z" {
		t.Errorf("got %q", m.Descriptor())
	}
	if len(m.Params) != 2 {
		t.Fatalf("want 2 params, got %d", len(m.Params))
	}
	if m.Return != Boolean {
		t.Errorf("want boolean return, got %v", m.Return)
	}
}

func TestCanWidenPrimitive(t *testing.T) {
	cases := []struct {
		from, to Primitive
		want     bool
	}{
		{Byte, Int, true},
		{Int, Byte, false},
		{Char, Int, true},
		{Byte, Char, false},
		{Int, Long, true},
		{Long, Float, true},
		{Boolean, Int, false},
	}
	for _, c := range cases {
		if got := CanWidenPrimitive(c.from, c.to); got != c.want {
			t.Errorf("CanWidenPrimitive(%v, %v) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestPromotedType(t *testing.T) {
	if PromotedType(Int, Double) != Double {
		t.Error("expected double promotion")
	}
	if PromotedType(Byte, Short) != Int {
		t.Error("expected byte/short to promote to int")
	}
	if PromotedType(Long, Long) != Long {
		t.Error("expected long to stay long")
	}
}
