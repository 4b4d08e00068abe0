package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestFinishEmitsMagicAndVersion(t *testing.T) {
	b := New("pkg/Foo", "java/lang/Object")
	b.SetAccessFlags(AccPublic | AccSuper)
	data, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 10 {
		t.Fatalf("output too short: %d bytes", len(data))
	}
	gotMagic := binary.BigEndian.Uint32(data[0:4])
	if gotMagic != magic {
		t.Errorf("magic = %#x, want %#x", gotMagic, magic)
	}
	major := binary.BigEndian.Uint16(data[6:8])
	if major != DefaultMajorVersion {
		t.Errorf("major version = %d, want %d", major, DefaultMajorVersion)
	}
}

func TestFinishPromotesVersionOnBootstrap(t *testing.T) {
	b := New("pkg/Foo", "java/lang/Object")
	mh := b.cp.AddMethodHandle(RefInvokeStatic, b.cp.AddMethodref("pkg/Foo", "bootstrap", "()V"))
	b.AddBootstrap(mh, nil)
	data, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	major := binary.BigEndian.Uint16(data[6:8])
	if major != Java8MajorVersion {
		t.Errorf("major version = %d, want %d after bootstrap", major, Java8MajorVersion)
	}
}

func TestFinishDeterministic(t *testing.T) {
	build := func() []byte {
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
		out, err := b.Finish()
		if err != nil {
			t.Fatal(err)
		}
		return out
	}
	a := build()
	c := build()
	if !bytes.Equal(a, c) {
		t.Error("expected identical input to produce byte-identical output")
	}
}

func TestMethodTooLarge(t *testing.T) {
	b := New("pkg/Foo", "java/lang/Object")
	b.AddMethod(&MethodInfo{
		Name:        "big",
		Descriptor:  "()V",
		AccessFlags: AccPublic,
		Code: &CodeAttribute{
			MaxStack:  1,
			MaxLocals: 1,
			Code:      make([]byte, 70000),
		},
	})
	_, err := b.Finish()
	if err == nil {
		t.Fatal("expected MethodTooLarge error")
	}
	cfErr, ok := err.(*Error)
	if !ok || cfErr.Kind != MethodTooLarge {
		t.Errorf("got %v, want MethodTooLarge", err)
	}
}
