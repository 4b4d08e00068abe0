package classfile

import (
	"bytes"
	"encoding/binary"
)

const (
	magic = 0xCAFEBABE

	// DefaultMajorVersion is "Java 6" (50.0), spec.md's baseline.
	DefaultMajorVersion = 50
	// Java8MajorVersion is the version the builder is promoted to
	// when an interface gains a non-abstract method body or an
	// invokedynamic instruction is emitted (spec.md §4.1/§6.1).
	Java8MajorVersion = 52
)

// MethodParameter is one row of the MethodParameters attribute
// (JVMS 4.7.24): a formal parameter's name and access flags
// (ACC_FINAL / ACC_SYNTHETIC / ACC_MANDATED).
type MethodParameter struct {
	Name        string
	AccessFlags AccessFlags
}

// FieldInfo describes one field to be added to a class file.
type FieldInfo struct {
	Name           string
	Descriptor     string
	AccessFlags    AccessFlags
	Signature      string // "" if not generic
	Annotations    []*AnnotationInfo
	ConstantValue  *ElementValue // non-nil only for static final fields with a literal initializer
}

// MethodInfo describes one method (or constructor) to be added to a
// class file.
type MethodInfo struct {
	Name          string
	Descriptor    string
	AccessFlags   AccessFlags
	Code          *CodeAttribute // nil for abstract/native methods
	Signature     string
	Exceptions    []string // internal names of checked exception types
	Annotations   []*AnnotationInfo
	ParamAnnotations [][]*AnnotationInfo
	Parameters    []MethodParameter // MethodParameters attribute rows, "" len means omit
}

// Builder performs append-only construction of one class file
// (spec.md §4.1).
type Builder struct {
	cp    *ConstantPool
	minor uint16
	major uint16

	accessFlags AccessFlags
	thisName    string
	superName   string
	interfaces  []string
	fields      []*FieldInfo
	methods     []*MethodInfo

	signature       string
	annotations     []*AnnotationInfo
	innerClasses    []InnerClassEntry
	bootstrapMethods []BootstrapMethod
}

// New creates an empty builder for a class/interface named `name`
// extending `super`, stored as given (for an interface the caller
// passes java/lang/Object, as the class-file format requires). The default
// version is 50.0 per spec.md; it is promoted to 52.0 automatically
// by AddBootstrap or MarkRequiresJava8.
func New(name, super string) *Builder {
	return &Builder{
		cp:        NewConstantPool(),
		minor:     0,
		major:     DefaultMajorVersion,
		thisName:  name,
		superName: super,
	}
}

func (b *Builder) ConstantPool() *ConstantPool { return b.cp }

func (b *Builder) SetAccessFlags(f AccessFlags) { b.accessFlags = f }

// MarkRequiresJava8 promotes the class file's version to 52.0, used
// when an interface gains a default/static method body (spec.md §6.1).
func (b *Builder) MarkRequiresJava8() {
	if b.major < Java8MajorVersion {
		b.major = Java8MajorVersion
	}
}

func (b *Builder) AddField(f *FieldInfo) { b.fields = append(b.fields, f) }

func (b *Builder) AddMethod(m *MethodInfo) { b.methods = append(b.methods, m) }

func (b *Builder) AddInterface(internalName string) {
	b.interfaces = append(b.interfaces, internalName)
}

func (b *Builder) SetSignature(sig string) { b.signature = sig }

func (b *Builder) AddAnnotation(a *AnnotationInfo) { b.annotations = append(b.annotations, a) }

func (b *Builder) AddInnerClass(e InnerClassEntry) { b.innerClasses = append(b.innerClasses, e) }

// AddBootstrap appends a bootstrap-methods-table entry and returns its
// index, for use in a CONSTANT_InvokeDynamic entry; emitting any
// invokedynamic instruction requires the class file to be at least
// 51.0, so this also promotes the version to 52.0 (spec.md §6.1: "or
// when the generator emits an invokedynamic").
func (b *Builder) AddBootstrap(methodHandleIdx uint16, args []uint16) uint16 {
	b.MarkRequiresJava8()
	idx := uint16(len(b.bootstrapMethods))
	b.bootstrapMethods = append(b.bootstrapMethods, BootstrapMethod{
		MethodHandleIdx: methodHandleIdx,
		Arguments:       args,
	})
	return idx
}

// Finish serializes the builder to the class-file wire format
// (spec.md §6.1). It interns every name it writes into the builder's
// constant pool as it goes; call it exactly once per class.
func (b *Builder) Finish() (_ []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			if cfErr, ok := r.(*Error); ok {
				err = cfErr
				return
			}
			panic(r)
		}
	}()

	thisIdx := b.cp.AddClass(b.thisName)
	superIdx := uint16(0)
	if b.superName != "" {
		superIdx = b.cp.AddClass(b.superName)
	}
	interfaceIdxs := make([]uint16, len(b.interfaces))
	for i, iface := range b.interfaces {
		interfaceIdxs[i] = b.cp.AddClass(iface)
	}

	fieldsBuf := new(bytes.Buffer)
	for _, f := range b.fields {
		b.writeField(fieldsBuf, f)
	}

	methodsBuf := new(bytes.Buffer)
	for _, m := range b.methods {
		b.writeMethod(methodsBuf, m)
	}

	classAttrs := new(bytes.Buffer)
	classAttrCount := 0
	if b.signature != "" {
		sigIdx := b.cp.AddUTF8("Signature")
		valIdx := b.cp.AddUTF8(b.signature)
		binary.Write(classAttrs, binary.BigEndian, sigIdx)
		binary.Write(classAttrs, binary.BigEndian, uint32(2))
		binary.Write(classAttrs, binary.BigEndian, valIdx)
		classAttrCount++
	}
	if len(b.annotations) > 0 {
		writeAnnotationsAttribute(b.cp, classAttrs, "RuntimeVisibleAnnotations", b.annotations)
		classAttrCount++
	}
	if len(b.innerClasses) > 0 {
		b.writeInnerClasses(classAttrs)
		classAttrCount++
	}
	if len(b.bootstrapMethods) > 0 {
		b.writeBootstrapMethods(classAttrs)
		classAttrCount++
	}

	// Constant pool must be fully populated (including everything the
	// field/method/attribute writers above interned) before it is
	// serialized, so the pool is written last even though it appears
	// first in the wire format.
	out := new(bytes.Buffer)
	binary.Write(out, binary.BigEndian, uint32(magic))
	binary.Write(out, binary.BigEndian, b.minor)
	binary.Write(out, binary.BigEndian, b.major)
	if err := b.cp.write(out); err != nil {
		return nil, err
	}
	binary.Write(out, binary.BigEndian, uint16(b.accessFlags))
	binary.Write(out, binary.BigEndian, thisIdx)
	binary.Write(out, binary.BigEndian, superIdx)
	binary.Write(out, binary.BigEndian, uint16(len(interfaceIdxs)))
	for _, idx := range interfaceIdxs {
		binary.Write(out, binary.BigEndian, idx)
	}
	binary.Write(out, binary.BigEndian, uint16(len(b.fields)))
	out.Write(fieldsBuf.Bytes())
	binary.Write(out, binary.BigEndian, uint16(len(b.methods)))
	out.Write(methodsBuf.Bytes())
	binary.Write(out, binary.BigEndian, uint16(classAttrCount))
	out.Write(classAttrs.Bytes())

	return out.Bytes(), nil
}

func (b *Builder) writeField(out *bytes.Buffer, f *FieldInfo) {
	nameIdx := b.cp.AddUTF8(f.Name)
	descIdx := b.cp.AddUTF8(f.Descriptor)
	binary.Write(out, binary.BigEndian, uint16(f.AccessFlags))
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, descIdx)

	attrs := new(bytes.Buffer)
	count := 0
	if f.Signature != "" {
		sigIdx := b.cp.AddUTF8("Signature")
		valIdx := b.cp.AddUTF8(f.Signature)
		binary.Write(attrs, binary.BigEndian, sigIdx)
		binary.Write(attrs, binary.BigEndian, uint32(2))
		binary.Write(attrs, binary.BigEndian, valIdx)
		count++
	}
	if len(f.Annotations) > 0 {
		writeAnnotationsAttribute(b.cp, attrs, "RuntimeVisibleAnnotations", f.Annotations)
		count++
	}
	if f.ConstantValue != nil {
		b.writeConstantValue(attrs, *f.ConstantValue)
		count++
	}
	binary.Write(out, binary.BigEndian, uint16(count))
	out.Write(attrs.Bytes())
}

func (b *Builder) writeConstantValue(out *bytes.Buffer, ev ElementValue) {
	nameIdx := b.cp.AddUTF8("ConstantValue")
	var valIdx uint16
	switch ev.Tag {
	case 'B', 'C', 'I', 'S', 'Z':
		valIdx = b.cp.AddInteger(int32(ev.I))
	case 'J':
		valIdx = b.cp.AddLong(ev.I)
	case 'F':
		valIdx = b.cp.AddFloat(ev.F32)
	case 'D':
		valIdx = b.cp.AddDouble(ev.F64)
	case 's':
		valIdx = b.cp.AddString(ev.Str)
	}
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, uint32(2))
	binary.Write(out, binary.BigEndian, valIdx)
}

func (b *Builder) writeMethod(out *bytes.Buffer, m *MethodInfo) {
	nameIdx := b.cp.AddUTF8(m.Name)
	descIdx := b.cp.AddUTF8(m.Descriptor)
	binary.Write(out, binary.BigEndian, uint16(m.AccessFlags))
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, descIdx)

	attrs := new(bytes.Buffer)
	count := 0
	if m.Code != nil {
		if err := b.writeCode(attrs, m.Code); err != nil {
			panic(err)
		}
		count++
	}
	if m.Signature != "" {
		sigIdx := b.cp.AddUTF8("Signature")
		valIdx := b.cp.AddUTF8(m.Signature)
		binary.Write(attrs, binary.BigEndian, sigIdx)
		binary.Write(attrs, binary.BigEndian, uint32(2))
		binary.Write(attrs, binary.BigEndian, valIdx)
		count++
	}
	if len(m.Annotations) > 0 {
		writeAnnotationsAttribute(b.cp, attrs, "RuntimeVisibleAnnotations", m.Annotations)
		count++
	}
	if len(m.Exceptions) > 0 {
		b.writeExceptionsAttribute(attrs, m.Exceptions)
		count++
	}
	if len(m.Parameters) > 0 {
		b.writeMethodParameters(attrs, m.Parameters)
		count++
	}
	if len(m.ParamAnnotations) > 0 {
		writeParameterAnnotationsAttribute(b.cp, attrs, m.ParamAnnotations)
		count++
	}
	binary.Write(out, binary.BigEndian, uint16(count))
	out.Write(attrs.Bytes())
}

func (b *Builder) writeCode(out *bytes.Buffer, code *CodeAttribute) error {
	if len(code.Code) > 65535 {
		return newSizeError(MethodTooLarge, "method code is %d bytes, limit is 65535", len(code.Code))
	}
	if code.MaxStack > 65535 || code.MaxLocals > 65535 {
		return newSizeError(MethodTooLarge, "max_stack/max_locals overflow")
	}
	nameIdx := b.cp.AddUTF8("Code")
	data := new(bytes.Buffer)
	binary.Write(data, binary.BigEndian, code.MaxStack)
	binary.Write(data, binary.BigEndian, code.MaxLocals)
	binary.Write(data, binary.BigEndian, uint32(len(code.Code)))
	data.Write(code.Code)
	binary.Write(data, binary.BigEndian, uint16(len(code.Exceptions)))
	for _, ex := range code.Exceptions {
		binary.Write(data, binary.BigEndian, ex.StartPC)
		binary.Write(data, binary.BigEndian, ex.EndPC)
		binary.Write(data, binary.BigEndian, ex.HandlerPC)
		binary.Write(data, binary.BigEndian, ex.CatchType)
	}
	// No Code-level sub-attributes: spec.md's Non-goals exclude
	// debug-info attributes beyond what's required to load and run.
	binary.Write(data, binary.BigEndian, uint16(0))

	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, uint32(data.Len()))
	out.Write(data.Bytes())
	return nil
}

func (b *Builder) writeExceptionsAttribute(out *bytes.Buffer, exceptions []string) {
	nameIdx := b.cp.AddUTF8("Exceptions")
	data := new(bytes.Buffer)
	binary.Write(data, binary.BigEndian, uint16(len(exceptions)))
	for _, ex := range exceptions {
		idx := b.cp.AddClass(ex)
		binary.Write(data, binary.BigEndian, idx)
	}
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, uint32(data.Len()))
	out.Write(data.Bytes())
}

func (b *Builder) writeMethodParameters(out *bytes.Buffer, params []MethodParameter) {
	nameIdx := b.cp.AddUTF8("MethodParameters")
	data := new(bytes.Buffer)
	data.WriteByte(byte(len(params)))
	for _, p := range params {
		nIdx := b.cp.AddUTF8(p.Name)
		binary.Write(data, binary.BigEndian, nIdx)
		binary.Write(data, binary.BigEndian, uint16(p.AccessFlags))
	}
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, uint32(data.Len()))
	out.Write(data.Bytes())
}

func (b *Builder) writeInnerClasses(out *bytes.Buffer) {
	nameIdx := b.cp.AddUTF8("InnerClasses")
	data := new(bytes.Buffer)
	binary.Write(data, binary.BigEndian, uint16(len(b.innerClasses)))
	for _, e := range b.innerClasses {
		innerIdx := b.cp.AddClass(e.InnerName)
		var outerIdx, simpleIdx uint16
		if e.OuterName != "" {
			outerIdx = b.cp.AddClass(e.OuterName)
		}
		if e.SimpleName != "" {
			simpleIdx = b.cp.AddUTF8(e.SimpleName)
		}
		binary.Write(data, binary.BigEndian, innerIdx)
		binary.Write(data, binary.BigEndian, outerIdx)
		binary.Write(data, binary.BigEndian, simpleIdx)
		binary.Write(data, binary.BigEndian, uint16(e.InnerAccessFlags))
	}
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, uint32(data.Len()))
	out.Write(data.Bytes())
}

func (b *Builder) writeBootstrapMethods(out *bytes.Buffer) {
	nameIdx := b.cp.AddUTF8("BootstrapMethods")
	data := new(bytes.Buffer)
	binary.Write(data, binary.BigEndian, uint16(len(b.bootstrapMethods)))
	for _, bm := range b.bootstrapMethods {
		binary.Write(data, binary.BigEndian, bm.MethodHandleIdx)
		binary.Write(data, binary.BigEndian, uint16(len(bm.Arguments)))
		for _, arg := range bm.Arguments {
			binary.Write(data, binary.BigEndian, arg)
		}
	}
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, uint32(data.Len()))
	out.Write(data.Bytes())
}
