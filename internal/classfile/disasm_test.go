package classfile

import (
	"strings"
	"testing"
)

func TestDisassembleSimpleClass(t *testing.T) {
	b := New("pkg/Foo", "java/lang/Object")
	b.SetAccessFlags(AccPublic | AccSuper)
	b.AddField(&FieldInfo{Name: "x", Descriptor: "I", AccessFlags: AccPrivate})
	b.AddMethod(&MethodInfo{
		Name:        "<init>",
		Descriptor:  "()V",
		AccessFlags: AccPublic,
		Code: &CodeAttribute{
			MaxStack:  1,
			MaxLocals: 1,
			Code:      []byte{0x2a, 0xb7, 0, 1, 0xb1}, // aload_0; invokespecial #1; return
		},
	})
	data, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}

	out, err := Disassemble(data)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	for _, want := range []string{
		"class pkg/Foo extends java/lang/Object",
		"field", "x", "I",
		"method", "<init>", "()V",
		"aload_0",
		"invokespecial",
		"return",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q; got:\n%s", want, out)
		}
	}
}

func TestDisassembleBranchOffsetsAreAbsolute(t *testing.T) {
	b := New("pkg/Bar", "java/lang/Object")
	b.SetAccessFlags(AccPublic | AccSuper)
	// iconst_0 (pc 0); ifeq +4 (pc 1..3, branches to pc 5); iconst_1 (pc 4); return (pc 5)
	b.AddMethod(&MethodInfo{
		Name:        "cond",
		Descriptor:  "()V",
		AccessFlags: AccPublic | AccStatic,
		Code: &CodeAttribute{
			MaxStack:  1,
			MaxLocals: 0,
			Code:      []byte{0x03, 0x99, 0, 4, 0x04, 0xb1},
		},
	})
	data, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}

	out, err := Disassemble(data)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if !strings.Contains(out, "ifeq") || !strings.Contains(out, "5") {
		t.Errorf("expected an ifeq branching to absolute pc 5; got:\n%s", out)
	}
}

func TestDisassembleRejectsBadMagic(t *testing.T) {
	if _, err := Disassemble([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Error("expected an error for bad magic")
	}
}

func TestDisassembleRejectsTruncatedInput(t *testing.T) {
	if _, err := Disassemble([]byte{0xCA, 0xFE}); err == nil {
		t.Error("expected an error for truncated input")
	}
}

func TestSetTargetVersionRaisesFloorOnly(t *testing.T) {
	b := New("pkg/Foo", "java/lang/Object")
	b.SetAccessFlags(AccPublic | AccSuper)
	data, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}

	raised := SetTargetVersion(data, Java8MajorVersion)
	out, err := Disassemble(raised)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version 52") {
		t.Errorf("expected version 52 after raising target; got:\n%s", out)
	}

	lowered := SetTargetVersion(raised, DefaultMajorVersion)
	out2, err := Disassemble(lowered)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out2, "version 52") {
		t.Errorf("SetTargetVersion must not lower an already-raised version; got:\n%s", out2)
	}
}
