package classpath

import (
	"encoding/binary"
	"fmt"
)

const classMagic = 0xCAFEBABE

// reader tag is a constant-pool tag value as it appears on disk
// (JVMS Table 4.4-A). These mirror internal/classfile's tag set but
// are re-declared here since that set is unexported and this package
// reads rather than writes the wire format (spec.md §4.3's reader is a
// distinct concern from §4.1's writer).
const (
	tagUTF8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagInvokeDynamic      = 18
)

type cpSlot struct {
	tag        byte
	utf8       string
	idx1, idx2 uint16
}

// classReader parses one class file's bytes into a ClassInfo,
// following the fixed top-to-bottom layout of JVMS chapter 4.
type classReader struct {
	data []byte
	pos  int
	pool []cpSlot // 1-indexed; pool[0] unused
}

func (r *classReader) u1() byte {
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *classReader) u2() uint16 {
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *classReader) u4() uint32 {
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *classReader) bytes(n int) []byte {
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *classReader) utf8(idx uint16) string {
	if idx == 0 {
		return ""
	}
	slot := r.pool[idx]
	if slot.tag != tagUTF8 {
		panic(fmt.Errorf("classpath: expected CONSTANT_Utf8 at index %d, got tag %d", idx, slot.tag))
	}
	return slot.utf8
}

func (r *classReader) className(idx uint16) string {
	if idx == 0 {
		return ""
	}
	slot := r.pool[idx]
	if slot.tag != tagClass {
		panic(fmt.Errorf("classpath: expected CONSTANT_Class at index %d, got tag %d", idx, slot.tag))
	}
	return r.utf8(slot.idx1)
}

func (r *classReader) readConstantPool() {
	count := int(r.u2())
	r.pool = make([]cpSlot, count)
	for i := 1; i < count; i++ {
		tag := r.u1()
		switch tag {
		case tagUTF8:
			n := int(r.u2())
			r.pool[i] = cpSlot{tag: tag, utf8: decodeModifiedUTF8(r.bytes(n))}
		case tagInteger, tagFloat:
			r.u4()
			r.pool[i] = cpSlot{tag: tag}
		case tagLong, tagDouble:
			r.u4()
			r.u4()
			r.pool[i] = cpSlot{tag: tag}
			i++ // long/double occupy two constant-pool indices (JVMS 4.4.5)
		case tagClass, tagString, tagMethodType:
			r.pool[i] = cpSlot{tag: tag, idx1: r.u2()}
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagInvokeDynamic:
			a, b := r.u2(), r.u2()
			r.pool[i] = cpSlot{tag: tag, idx1: a, idx2: b}
		case tagMethodHandle:
			r.u1()
			r.pool[i] = cpSlot{tag: tag, idx1: r.u2()}
		default:
			panic(fmt.Errorf("classpath: unknown constant pool tag %d at index %d", tag, i))
		}
	}
}

type rawAttribute struct {
	name string
	data []byte
}

func (r *classReader) readAttributes() []rawAttribute {
	count := int(r.u2())
	attrs := make([]rawAttribute, 0, count)
	for i := 0; i < count; i++ {
		nameIdx := r.u2()
		length := r.u4()
		name := r.utf8(nameIdx)
		attrs = append(attrs, rawAttribute{name: name, data: r.bytes(int(length))})
	}
	return attrs
}

func findAttribute(attrs []rawAttribute, name string) ([]byte, bool) {
	for _, a := range attrs {
		if a.name == name {
			return a.data, true
		}
	}
	return nil, false
}

func (r *classReader) signatureOf(attrs []rawAttribute) string {
	data, ok := findAttribute(attrs, "Signature")
	if !ok {
		return ""
	}
	idx := binary.BigEndian.Uint16(data)
	return r.utf8(idx)
}

func (r *classReader) readField() FieldInfo {
	access := r.u2()
	nameIdx := r.u2()
	descIdx := r.u2()
	attrs := r.readAttributes()
	return FieldInfo{
		AccessFlags: access,
		Name:        r.utf8(nameIdx),
		Descriptor:  r.utf8(descIdx),
		Signature:   r.signatureOf(attrs),
	}
}

func (r *classReader) readMethod() MethodInfo {
	access := r.u2()
	nameIdx := r.u2()
	descIdx := r.u2()
	attrs := r.readAttributes()

	var exceptions []string
	if data, ok := findAttribute(attrs, "Exceptions"); ok {
		n := binary.BigEndian.Uint16(data)
		for i := 0; i < int(n); i++ {
			idx := binary.BigEndian.Uint16(data[2+2*i:])
			exceptions = append(exceptions, r.className(idx))
		}
	}

	return MethodInfo{
		AccessFlags: access,
		Name:        r.utf8(nameIdx),
		Descriptor:  r.utf8(descIdx),
		Signature:   r.signatureOf(attrs),
		Exceptions:  exceptions,
	}
}

// parseClassFile parses one complete .class file's bytes. It recovers
// from malformed-input panics raised by the u1/u2/u4/utf8 helpers and
// turns them into a returned error, since unlike internal/emitter's
// InvalidBytecode (always a generator bug) a bad class file on the
// classpath is attacker/environment-controlled input.
func parseClassFile(data []byte) (info *ClassInfo, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("classpath: malformed class file: %w", e)
			} else {
				err = fmt.Errorf("classpath: malformed class file: %v", rec)
			}
			info = nil
		}
	}()

	r := &classReader{data: data}
	if len(data) < 10 {
		return nil, fmt.Errorf("classpath: truncated class file (%d bytes)", len(data))
	}
	if magic := r.u4(); magic != classMagic {
		return nil, fmt.Errorf("classpath: bad magic 0x%08X", magic)
	}
	minor := r.u2()
	major := r.u2()

	r.readConstantPool()

	accessFlags := r.u2()
	thisIdx := r.u2()
	superIdx := r.u2()

	ifaceCount := int(r.u2())
	interfaces := make([]string, ifaceCount)
	for i := range interfaces {
		interfaces[i] = r.className(r.u2())
	}

	fieldCount := int(r.u2())
	fields := make([]FieldInfo, fieldCount)
	for i := range fields {
		fields[i] = r.readField()
	}

	methodCount := int(r.u2())
	methods := make([]MethodInfo, methodCount)
	for i := range methods {
		methods[i] = r.readMethod()
	}

	classAttrs := r.readAttributes()
	var sourceFile string
	if data, ok := findAttribute(classAttrs, "SourceFile"); ok {
		sourceFile = r.utf8(binary.BigEndian.Uint16(data))
	}

	return &ClassInfo{
		MajorVersion: major,
		MinorVersion: minor,
		AccessFlags:  accessFlags,
		Name:         r.className(thisIdx),
		SuperClass:   r.className(superIdx),
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Signature:    r.signatureOf(classAttrs),
		SourceFile:   sourceFile,
	}, nil
}
