package signature

// Bounds maps a type-parameter name to the TypeSig its erasure resolves
// to: its class bound if present, else its first interface bound, else
// implicitly java/lang/Object (JVMS 4.6 "erasure").
type Bounds map[string]TypeSig

// TypeParamBounds builds the Bounds map for one TypeParams list. The
// caller merges it with any enclosing class's Bounds (method type
// parameters can shadow class type parameters of the same name) before
// calling EraseType on the method's own signature pieces.
func TypeParamBounds(tps []TypeParam) Bounds {
	b := make(Bounds, len(tps))
	for _, tp := range tps {
		switch {
		case tp.ClassBound != nil:
			b[tp.Name] = tp.ClassBound
		case len(tp.InterfaceBounds) > 0:
			b[tp.Name] = tp.InterfaceBounds[0]
		default:
			b[tp.Name] = &ClassTypeSig{Name: "java/lang/Object"}
		}
	}
	return b
}

// Merge returns a new Bounds with entries of other layered over b,
// without mutating either.
func (b Bounds) Merge(other Bounds) Bounds {
	if len(other) == 0 {
		return b
	}
	merged := make(Bounds, len(b)+len(other))
	for k, v := range b {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// EraseType renders t's raw (non-generic) JVM descriptor fragment,
// resolving type variables through bounds and dropping all type
// arguments from parameterized class types.
func EraseType(t TypeSig, bounds Bounds) string {
	return eraseType(t, bounds, make(map[string]bool))
}

func eraseType(t TypeSig, bounds Bounds, visiting map[string]bool) string {
	switch v := t.(type) {
	case Primitive:
		return string(v.Descriptor)
	case ArrayTypeSig:
		return "[" + eraseType(v.Element, bounds, visiting)
	case *ClassTypeSig:
		name := v.Name
		for inner := v.Inner; inner != nil; inner = inner.Inner {
			name += "$" + inner.Name
		}
		return "L" + name + ";"
	case TypeVar:
		if visiting[v.Name] {
			return "Ljava/lang/Object;" // cyclic bound, defensively bottom out
		}
		bound, ok := bounds[v.Name]
		if !ok {
			return "Ljava/lang/Object;"
		}
		visiting[v.Name] = true
		defer delete(visiting, v.Name)
		return eraseType(bound, bounds, visiting)
	default:
		panic("signature: unknown TypeSig implementation")
	}
}

// EraseClassSignature returns the erased superclass and superinterface
// descriptors a ClassSignature's class_file super_class/interfaces
// entries must agree with (spec.md §4.4 "Signature/descriptor
// agreement").
func EraseClassSignature(sig *ClassSignature) (super string, interfaces []string) {
	bounds := TypeParamBounds(sig.TypeParams)
	super = EraseType(sig.Super, bounds)
	interfaces = make([]string, len(sig.Interfaces))
	for i, iface := range sig.Interfaces {
		interfaces[i] = EraseType(iface, bounds)
	}
	return super, interfaces
}

// EraseMethodSignature returns the erased parameter and return-type
// descriptors a MethodSignature's method_info descriptor must agree
// with. enclosingBounds carries the declaring class's type parameters
// (empty if the method is static or the class is non-generic).
func EraseMethodSignature(sig *MethodSignature, enclosingBounds Bounds) (descriptor string, params []string) {
	bounds := enclosingBounds.Merge(TypeParamBounds(sig.TypeParams))
	params = make([]string, len(sig.Params))
	d := "("
	for i, p := range sig.Params {
		params[i] = EraseType(p, bounds)
		d += params[i]
	}
	d += ")" + EraseType(sig.Return, bounds)
	return d, params
}

// EraseFieldSignature returns the erased descriptor a FieldSignature's
// field_info descriptor must agree with.
func EraseFieldSignature(sig *FieldSignature, enclosingBounds Bounds) string {
	return EraseType(sig.Type, enclosingBounds)
}
