package signature

import "strings"

// RenderClassSignature renders a ClassSignature back to its
// JVMS 4.7.9.1 wire string, the inverse of ParseClassSignature.
func RenderClassSignature(sig *ClassSignature) string {
	var sb strings.Builder
	renderTypeParams(&sb, sig.TypeParams)
	renderClassTypeSig(&sb, sig.Super)
	for _, iface := range sig.Interfaces {
		renderClassTypeSig(&sb, iface)
	}
	return sb.String()
}

// RenderMethodSignature renders a MethodSignature back to its wire string.
func RenderMethodSignature(sig *MethodSignature) string {
	var sb strings.Builder
	renderTypeParams(&sb, sig.TypeParams)
	sb.WriteByte('(')
	for _, p := range sig.Params {
		renderTypeSig(&sb, p)
	}
	sb.WriteByte(')')
	renderTypeSig(&sb, sig.Return)
	for _, t := range sig.Throws {
		sb.WriteByte('^')
		renderTypeSig(&sb, t)
	}
	return sb.String()
}

// RenderFieldSignature renders a FieldSignature back to its wire string.
func RenderFieldSignature(sig *FieldSignature) string {
	var sb strings.Builder
	renderTypeSig(&sb, sig.Type)
	return sb.String()
}

func renderTypeParams(sb *strings.Builder, tps []TypeParam) {
	if len(tps) == 0 {
		return
	}
	sb.WriteByte('<')
	for _, tp := range tps {
		sb.WriteString(tp.Name)
		sb.WriteByte(':')
		if tp.ClassBound != nil {
			renderTypeSig(sb, tp.ClassBound)
		}
		for _, ib := range tp.InterfaceBounds {
			sb.WriteByte(':')
			renderTypeSig(sb, ib)
		}
	}
	sb.WriteByte('>')
}

func renderTypeSig(sb *strings.Builder, t TypeSig) {
	switch v := t.(type) {
	case Primitive:
		sb.WriteByte(v.Descriptor)
	case *ClassTypeSig:
		renderClassTypeSig(sb, v)
	case TypeVar:
		sb.WriteByte('T')
		sb.WriteString(v.Name)
		sb.WriteByte(';')
	case ArrayTypeSig:
		sb.WriteByte('[')
		renderTypeSig(sb, v.Element)
	default:
		panic("signature: unknown TypeSig implementation")
	}
}

func renderClassTypeSig(sb *strings.Builder, c *ClassTypeSig) {
	sb.WriteByte('L')
	sb.WriteString(c.Name)
	renderTypeArguments(sb, c.Args)
	for inner := c.Inner; inner != nil; inner = inner.Inner {
		sb.WriteByte('.')
		sb.WriteString(inner.Name)
		renderTypeArguments(sb, inner.Args)
	}
	sb.WriteByte(';')
}

func renderTypeArguments(sb *strings.Builder, args []TypeArgument) {
	if len(args) == 0 {
		return
	}
	sb.WriteByte('<')
	for _, a := range args {
		switch a.Wildcard {
		case Unbounded:
			sb.WriteByte('*')
		case Extends:
			sb.WriteByte('+')
			renderTypeSig(sb, a.Type)
		case Super:
			sb.WriteByte('-')
			renderTypeSig(sb, a.Type)
		default:
			renderTypeSig(sb, a.Type)
		}
	}
	sb.WriteByte('>')
}
