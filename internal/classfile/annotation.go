package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// writeAnnotation writes one annotation structure (JVMS 4.7.16),
// interning any strings/constants it needs into cp as it goes.
func writeAnnotation(cp *ConstantPool, buf *bytes.Buffer, ann *AnnotationInfo) {
	typeIdx := cp.AddUTF8(ann.TypeDescriptor)
	binary.Write(buf, binary.BigEndian, typeIdx)
	binary.Write(buf, binary.BigEndian, uint16(len(ann.Elements)))
	for _, el := range ann.Elements {
		nameIdx := cp.AddUTF8(el.Name)
		binary.Write(buf, binary.BigEndian, nameIdx)
		writeElementValue(cp, buf, el.Value)
	}
}

func writeElementValue(cp *ConstantPool, buf *bytes.Buffer, ev ElementValue) {
	buf.WriteByte(ev.Tag)
	switch ev.Tag {
	case 'B', 'C', 'I', 'S', 'Z':
		idx := cp.AddInteger(int32(ev.I))
		binary.Write(buf, binary.BigEndian, idx)
	case 'J':
		idx := cp.AddLong(ev.I)
		binary.Write(buf, binary.BigEndian, idx)
	case 'F':
		idx := cp.AddFloat(ev.F32)
		binary.Write(buf, binary.BigEndian, idx)
	case 'D':
		idx := cp.AddDouble(ev.F64)
		binary.Write(buf, binary.BigEndian, idx)
	case 's':
		idx := cp.AddUTF8(ev.Str)
		binary.Write(buf, binary.BigEndian, idx)
	case 'c':
		idx := cp.AddUTF8(ev.Str)
		binary.Write(buf, binary.BigEndian, idx)
	case 'e':
		typeIdx := cp.AddUTF8(ev.Enum[0])
		nameIdx := cp.AddUTF8(ev.Enum[1])
		binary.Write(buf, binary.BigEndian, typeIdx)
		binary.Write(buf, binary.BigEndian, nameIdx)
	case '@':
		writeAnnotation(cp, buf, ev.Nest)
	case '[':
		binary.Write(buf, binary.BigEndian, uint16(len(ev.Array)))
		for _, elem := range ev.Array {
			writeElementValue(cp, buf, elem)
		}
	default:
		panic(fmt.Sprintf("classfile: invalid element-value tag %q", ev.Tag))
	}
}

// writeAnnotationsAttribute writes a RuntimeVisibleAnnotations-shaped
// attribute (also used for RuntimeVisibleParameterAnnotations' inner
// per-parameter lists by the caller). Writes nothing if annotations is
// empty, since spec.md says attributes are written "as needed" — an
// empty annotation list contributes no attribute at all.
func writeAnnotationsAttribute(cp *ConstantPool, out *bytes.Buffer, attrName string, annotations []*AnnotationInfo) {
	if len(annotations) == 0 {
		return
	}
	nameIdx := cp.AddUTF8(attrName)
	data := new(bytes.Buffer)
	binary.Write(data, binary.BigEndian, uint16(len(annotations)))
	for _, ann := range annotations {
		writeAnnotation(cp, data, ann)
	}
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, uint32(data.Len()))
	out.Write(data.Bytes())
}

// writeParameterAnnotationsAttribute writes RuntimeVisibleParameterAnnotations,
// one num_annotations-prefixed list per formal parameter (JVMS 4.7.18).
func writeParameterAnnotationsAttribute(cp *ConstantPool, out *bytes.Buffer, perParam [][]*AnnotationInfo) {
	if len(perParam) == 0 {
		return
	}
	nameIdx := cp.AddUTF8("RuntimeVisibleParameterAnnotations")
	data := new(bytes.Buffer)
	data.WriteByte(byte(len(perParam)))
	for _, anns := range perParam {
		binary.Write(data, binary.BigEndian, uint16(len(anns)))
		for _, ann := range anns {
			writeAnnotation(cp, data, ann)
		}
	}
	binary.Write(out, binary.BigEndian, nameIdx)
	binary.Write(out, binary.BigEndian, uint32(data.Len()))
	out.Write(data.Bytes())
}
