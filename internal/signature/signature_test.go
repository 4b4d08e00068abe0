package signature

import "testing"

func TestParseClassSignatureRoundTrip(t *testing.T) {
	cases := []string{
		"Ljava/lang/Object;",
		"<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/List<TT;>;",
		"<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Map<TK;TV;>;",
		"<T::Ljava/lang/Comparable<TT;>;>Ljava/lang/Object;",
	}
	for _, in := range cases {
		sig, err := ParseClassSignature(in)
		if err != nil {
			t.Fatalf("ParseClassSignature(%q): %v", in, err)
		}
		if got := RenderClassSignature(sig); got != in {
			t.Errorf("round trip %q -> %q", in, got)
		}
	}
}

func TestParseMethodSignatureRoundTrip(t *testing.T) {
	cases := []string{
		"()V",
		"(I)Ljava/lang/String;",
		"<T:Ljava/lang/Object;>(TT;)TT;",
		"(Ljava/util/List<+Ljava/lang/Number;>;)V",
		"(Ljava/util/List<-Ljava/lang/Integer;>;)V",
		"(Ljava/util/List<*>;)V",
		"()V^Ljava/io/IOException;",
	}
	for _, in := range cases {
		sig, err := ParseMethodSignature(in)
		if err != nil {
			t.Fatalf("ParseMethodSignature(%q): %v", in, err)
		}
		if got := RenderMethodSignature(sig); got != in {
			t.Errorf("round trip %q -> %q", in, got)
		}
	}
}

func TestParseFieldSignatureRoundTrip(t *testing.T) {
	cases := []string{
		"Ljava/util/List<Ljava/lang/String;>;",
		"[Ljava/lang/String;",
		"TT;",
		"[[I", // arrays of primitives are legal FieldSignatures only via TypeSignature -> ArrayTypeSignature
	}
	for _, in := range cases {
		sig, err := ParseFieldSignature(in)
		if err != nil {
			t.Fatalf("ParseFieldSignature(%q): %v", in, err)
		}
		if got := RenderFieldSignature(sig); got != in {
			t.Errorf("round trip %q -> %q", in, got)
		}
	}
}

func TestParseNestedClassTypeSignature(t *testing.T) {
	sig, err := ParseFieldSignature("Lpkg/Outer<TT;>.Inner<TU;>;")
	if err != nil {
		t.Fatal(err)
	}
	cts, ok := sig.Type.(*ClassTypeSig)
	if !ok {
		t.Fatalf("Type = %T, want *ClassTypeSig", sig.Type)
	}
	if cts.Name != "pkg/Outer" {
		t.Errorf("Name = %q, want pkg/Outer", cts.Name)
	}
	if cts.Inner == nil || cts.Inner.Name != "Inner" {
		t.Fatalf("Inner = %+v, want simple name Inner", cts.Inner)
	}
	if got := RenderFieldSignature(sig); got != "Lpkg/Outer<TT;>.Inner<TU;>;" {
		t.Errorf("round trip = %q", got)
	}
}

func TestEraseClassSignature(t *testing.T) {
	sig, err := ParseClassSignature("<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/List<TT;>;")
	if err != nil {
		t.Fatal(err)
	}
	super, ifaces := EraseClassSignature(sig)
	if super != "Ljava/lang/Object;" {
		t.Errorf("super = %q", super)
	}
	if len(ifaces) != 1 || ifaces[0] != "Ljava/util/List;" {
		t.Errorf("interfaces = %v", ifaces)
	}
}

func TestEraseTypeVarToBound(t *testing.T) {
	sig, err := ParseClassSignature("<T:Ljava/lang/Number;>Ljava/lang/Object;")
	if err != nil {
		t.Fatal(err)
	}
	bounds := TypeParamBounds(sig.TypeParams)
	got := EraseType(TypeVar{Name: "T"}, bounds)
	if got != "Ljava/lang/Number;" {
		t.Errorf("erased type var = %q, want Ljava/lang/Number;", got)
	}
}

func TestEraseTypeVarDefaultsToObject(t *testing.T) {
	got := EraseType(TypeVar{Name: "T"}, Bounds{})
	if got != "Ljava/lang/Object;" {
		t.Errorf("erased unbounded type var = %q, want Ljava/lang/Object;", got)
	}
}

func TestEraseMethodSignature(t *testing.T) {
	sig, err := ParseMethodSignature("<T:Ljava/lang/Object;>(TT;Ljava/util/List<TT;>;)TT;")
	if err != nil {
		t.Fatal(err)
	}
	descriptor, params := EraseMethodSignature(sig, nil)
	if descriptor != "(Ljava/lang/Object;Ljava/util/List;)Ljava/lang/Object;" {
		t.Errorf("descriptor = %q", descriptor)
	}
	if len(params) != 2 {
		t.Fatalf("params = %v", params)
	}
}

func TestEraseNestedClassJoinsWithDollar(t *testing.T) {
	sig, err := ParseFieldSignature("Lpkg/Outer<Ljava/lang/String;>.Inner;")
	if err != nil {
		t.Fatal(err)
	}
	got := EraseFieldSignature(sig, nil)
	if got != "Lpkg/Outer$Inner;" {
		t.Errorf("erased nested class = %q, want Lpkg/Outer$Inner;", got)
	}
}

func TestParseMalformedSignatureReturnsError(t *testing.T) {
	if _, err := ParseFieldSignature("Ljava/lang/String"); err == nil {
		t.Fatal("expected error for signature missing terminating ';'")
	}
	if _, err := ParseMethodSignature("(I"); err == nil {
		t.Fatal("expected error for unterminated parameter list")
	}
}
