package classfile

import "testing"

func TestConstantPoolDedup(t *testing.T) {
	cp := NewConstantPool()
	a := cp.AddUTF8("hello")
	b := cp.AddUTF8("hello")
	if a != b {
		t.Errorf("expected identical utf8 entries to share an index, got %d and %d", a, b)
	}
	c := cp.AddClass("java/lang/String")
	d := cp.AddClass("java/lang/String")
	if c != d {
		t.Errorf("expected identical class entries to share an index, got %d and %d", c, d)
	}
}

func TestConstantPoolLongDoubleReserveTwoSlots(t *testing.T) {
	cp := NewConstantPool()
	idx := cp.AddLong(42)
	next := cp.AddUTF8("after-long")
	if int(next) != int(idx)+2 {
		t.Errorf("expected next entry at idx+2 (%d), got %d", idx+2, next)
	}
}

func TestConstantPoolMethodrefSharesClassAndNameAndType(t *testing.T) {
	cp := NewConstantPool()
	m1 := cp.AddMethodref("java/lang/Object", "toString", "()Ljava/lang/String;")
	countAfterFirst := cp.Count()
	m2 := cp.AddMethodref("java/lang/Object", "toString", "()Ljava/lang/String;")
	if m1 != m2 {
		t.Errorf("expected identical methodrefs to dedup")
	}
	if cp.Count() != countAfterFirst {
		t.Errorf("expected no growth on duplicate add")
	}
}

func TestModifiedUTF8NulEncoding(t *testing.T) {
	enc := encodeModifiedUTF8("a\x00b")
	want := []byte{'a', 0xC0, 0x80, 'b'}
	if string(enc) != string(want) {
		t.Errorf("got %v, want %v", enc, want)
	}
}
