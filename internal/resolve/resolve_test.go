package resolve

import (
	"testing"

	"github.com/cwbudde/go-javac/internal/types"
)

func TestFindMethodExactMatch(t *testing.T) {
	r := New(nil)
	lc := NewLocalClass("com/example/Widget", "java/lang/Object", nil, false)
	lc.Methods["greet"] = []LocalMethod{
		{Name: "greet", Params: []types.Type{types.StringClass}, Return: types.Void},
	}
	r.Declare(lc)

	m, err := r.FindMethod("com/example/Widget", "greet", []types.Type{types.StringClass})
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.Descriptor != "(Ljava/lang/String;)V" {
		t.Errorf("Descriptor = %q", m.Descriptor)
	}
}

func TestFindMethodWidening(t *testing.T) {
	r := New(nil)
	lc := NewLocalClass("Widget", "java/lang/Object", nil, false)
	lc.Methods["add"] = []LocalMethod{
		{Name: "add", Params: []types.Type{types.Long, types.Long}, Return: types.Long},
	}
	r.Declare(lc)

	m, err := r.FindMethod("Widget", "add", []types.Type{types.Int, types.Int})
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("expected widening match of int->long")
	}
}

func TestFindMethodNoMatch(t *testing.T) {
	r := New(nil)
	lc := NewLocalClass("Widget", "java/lang/Object", nil, false)
	r.Declare(lc)
	m, err := r.FindMethod("Widget", "missing", nil)
	if err != nil {
		t.Fatal(err)
	}
	if m != nil {
		t.Fatal("expected no match")
	}
}

func TestFindMethodInheritedFromSuperclass(t *testing.T) {
	r := New(nil)
	base := NewLocalClass("Base", "java/lang/Object", nil, false)
	base.Methods["hello"] = []LocalMethod{{Name: "hello", Return: types.Void}}
	derived := NewLocalClass("Derived", "Base", nil, false)
	r.Declare(base)
	r.Declare(derived)

	m, err := r.FindMethod("Derived", "hello", nil)
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.Owner != "Base" {
		t.Fatalf("expected inherited match owned by Base, got %+v", m)
	}
}

func TestVarargsMatch(t *testing.T) {
	r := New(nil)
	lc := NewLocalClass("Widget", "java/lang/Object", nil, false)
	lc.Methods["log"] = []LocalMethod{
		{Name: "log", Params: []types.Type{types.NewArray(types.Object, 1)}, Return: types.Void, Varargs: true},
	}
	r.Declare(lc)

	m, err := r.FindMethod("Widget", "log", []types.Type{types.StringClass, types.StringClass, types.Int})
	if err != nil {
		t.Fatal(err)
	}
	if m == nil {
		t.Fatal("expected varargs match")
	}
}

func TestMostSpecificPrefersPrimitiveOverObject(t *testing.T) {
	r := New(nil)
	lc := NewLocalClass("Widget", "java/lang/Object", nil, false)
	lc.Methods["print"] = []LocalMethod{
		{Name: "print", Params: []types.Type{types.Object}, Return: types.Void},
		{Name: "print", Params: []types.Type{types.Int}, Return: types.Void},
	}
	r.Declare(lc)

	m, err := r.FindMethod("Widget", "print", []types.Type{types.Int})
	if err != nil {
		t.Fatal(err)
	}
	if m == nil || m.Descriptor != "(I)V" {
		t.Fatalf("expected the int overload to win, got %+v", m)
	}
}

func TestFindFieldInherited(t *testing.T) {
	r := New(nil)
	base := NewLocalClass("Base", "java/lang/Object", nil, false)
	base.Fields["count"] = LocalField{Name: "count", Type: types.Int}
	derived := NewLocalClass("Derived", "Base", nil, false)
	r.Declare(base)
	r.Declare(derived)

	f, err := r.FindField("Derived", "count")
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.Owner != "Base" {
		t.Fatalf("expected inherited field owned by Base, got %+v", f)
	}
}

func TestIsSubclassWalksChain(t *testing.T) {
	r := New(nil)
	r.Declare(NewLocalClass("A", "java/lang/Object", nil, false))
	r.Declare(NewLocalClass("B", "A", nil, false))
	r.Declare(NewLocalClass("C", "B", nil, false))

	if !r.isSubclass("C", "A") {
		t.Error("C should be a subclass of A through B")
	}
	if r.isSubclass("A", "C") {
		t.Error("A should not be a subclass of C")
	}
}

func TestAssignableObjectSupertype(t *testing.T) {
	r := New(nil)
	if !r.Assignable(types.StringClass, types.Object) {
		t.Error("String should be assignable to Object")
	}
	if !r.Assignable(types.NewArray(types.Int, 1), types.Object) {
		t.Error("int[] should be assignable to Object")
	}
}

func TestNameResolverRules(t *testing.T) {
	nr := NewNameResolver("com/example/Widget", map[string]string{"Helper": "com/util/Helper"})
	cases := map[string]string{
		"java.lang.String":  "java/lang/String",
		"String":             "java/lang/String",
		"Helper":             "com/util/Helper",
		"Widget":              "com/example/Widget",
		"Other":               "com/example/Other",
	}
	for in, want := range cases {
		if got := nr.Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnresolvedSymbolError(t *testing.T) {
	err := &UnresolvedSymbol{Owner: "Widget", Name: "missing", Args: []types.Type{types.Int}}
	if got := err.Error(); got == "" {
		t.Error("expected non-empty error message")
	}
}
