package resolve

import "github.com/cwbudde/go-javac/internal/types"

// Assignable reports whether a value of type `from` may be passed
// where `to` is expected: identity, primitive widening, reference
// widening to Object, and — for two class types — an actual
// superclass/interface walk through the current unit and classpath,
// mirroring original_source/pyjopa's _type_assignable/_is_subclass.
func (r *Resolver) Assignable(from, to types.Type) bool {
	if types.Equal(from, to) {
		return true
	}

	pf, okF := from.(types.Primitive)
	pt, okT := to.(types.Primitive)
	if okF && okT {
		return types.CanWidenPrimitive(pf, pt)
	}
	if okF != okT {
		return false // no boxing/unboxing: spec.md §9 decision, primitive/reference never interconvert
	}

	if isObject(to) {
		switch from.(type) {
		case types.Class, types.Array:
			return true
		}
	}

	fc, okFC := from.(types.Class)
	tc, okTC := to.(types.Class)
	if okFC && okTC {
		return r.isSubclass(fc.Internal, tc.Internal)
	}

	fa, okFA := from.(types.Array)
	ta, okTA := to.(types.Array)
	if okFA && okTA {
		// Array covariance: T[] assignable to S[] when T assignable to S
		// and both have matching dimensionality (JLS 10.10).
		if fa.Dims != ta.Dims {
			return false
		}
		return r.Assignable(fa.Elem, ta.Elem)
	}

	return false
}

// isSubclass walks the superclass chain of subName looking for superName,
// consulting local declarations first and falling back to the classpath,
// exactly as _is_subclass does.
func (r *Resolver) isSubclass(subName, superName string) bool {
	current := subName
	visited := make(map[string]bool)
	for current != "" && !visited[current] {
		visited[current] = true
		if current == superName {
			return true
		}
		lc, info, err := r.lookupClass(current)
		if err != nil {
			return false
		}
		switch {
		case lc != nil:
			if r.interfaceImplements(lc.Interfaces, superName, visited) {
				return true
			}
			current = lc.SuperClass
		case info != nil:
			if r.interfaceImplements(info.Interfaces, superName, visited) {
				return true
			}
			current = info.SuperClass
		default:
			return false
		}
	}
	return false
}

func (r *Resolver) interfaceImplements(interfaces []string, target string, visited map[string]bool) bool {
	for _, iface := range interfaces {
		if iface == target {
			return true
		}
		if visited[iface] {
			continue
		}
		visited[iface] = true
		lc, info, err := r.lookupClass(iface)
		if err != nil {
			continue
		}
		switch {
		case lc != nil:
			if r.interfaceImplements(lc.Interfaces, target, visited) {
				return true
			}
		case info != nil:
			if r.interfaceImplements(info.Interfaces, target, visited) {
				return true
			}
		}
	}
	return false
}
