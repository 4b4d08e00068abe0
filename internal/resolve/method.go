package resolve

import (
	"github.com/cwbudde/go-javac/internal/types"
)

// FindMethod resolves a call `className.methodName(argTypes...)`,
// walking the current unit first (spec.md §4.5 "current unit first"),
// then the superclass chain, then implemented interfaces for default
// methods, exactly as original_source/pyjopa's _find_method does.
func (r *Resolver) FindMethod(className, methodName string, argTypes []types.Type) (*ResolvedMethod, error) {
	lc, info, err := r.lookupClass(className)
	if err != nil {
		return nil, err
	}

	if lc != nil {
		if m := r.matchLocalOverloads(lc, methodName, argTypes); m != nil {
			return &ResolvedMethod{
				Owner: lc.InternalName, Name: methodName, Descriptor: m.descriptor(),
				IsStatic: m.IsStatic, IsInterface: lc.IsInterface,
				Return: m.Return, Params: m.Params, Varargs: m.Varargs,
			}, nil
		}
		if lc.SuperClass != "" && lc.SuperClass != lc.InternalName {
			if found, err := r.FindMethod(lc.SuperClass, methodName, argTypes); err != nil || found != nil {
				return found, err
			}
		}
		for _, iface := range lc.Interfaces {
			if found, err := r.FindMethod(iface, methodName, argTypes); err != nil || found != nil {
				return found, err
			}
		}
		return nil, nil
	}

	if info == nil {
		return nil, nil
	}

	var candidates []*ResolvedMethod
	current := info
	for current != nil {
		for _, m := range current.Methods {
			if m.Name != methodName {
				continue
			}
			ret, params, ok := parseMethodInfoDescriptor(m.Descriptor)
			if !ok || len(params) != len(argTypes) {
				continue
			}
			if !r.argsCompatible(argTypes, params) {
				continue
			}
			candidates = append(candidates, &ResolvedMethod{
				Owner: current.Name, Name: methodName, Descriptor: m.Descriptor,
				IsStatic: m.AccessFlags&0x0008 != 0, IsInterface: current.IsInterface(),
				Return: ret, Params: params,
			})
		}
		if current.SuperClass == "" {
			break
		}
		_, next, err := r.lookupClass(current.SuperClass)
		if err != nil {
			return nil, err
		}
		current = next
	}

	if len(candidates) > 0 {
		return mostSpecificMethod(candidates, argTypes), nil
	}

	for _, iface := range info.Interfaces {
		if found, err := r.FindMethod(iface, methodName, argTypes); err != nil || found != nil {
			return found, err
		}
	}
	return nil, nil
}

// FindConstructor resolves a `new` expression's <init> overload.
func (r *Resolver) FindConstructor(className string, argTypes []types.Type) (*ResolvedMethod, error) {
	lc, info, err := r.lookupClass(className)
	if err != nil {
		return nil, err
	}
	if lc != nil {
		if m := r.matchLocalOverloads(lc, "<init>", argTypes); m != nil {
			return &ResolvedMethod{
				Owner: lc.InternalName, Name: "<init>", Descriptor: m.descriptor(),
				Return: types.Void, Params: m.Params, Varargs: m.Varargs,
			}, nil
		}
		return nil, nil
	}
	if info == nil {
		return nil, nil
	}

	var candidates []*ResolvedMethod
	for _, m := range info.Methods {
		if m.Name != "<init>" {
			continue
		}
		_, params, ok := parseMethodInfoDescriptor(m.Descriptor)
		if !ok {
			continue
		}
		switch {
		case len(params) == len(argTypes) && r.argsCompatible(argTypes, params):
			candidates = append(candidates, &ResolvedMethod{
				Owner: info.Name, Name: "<init>", Descriptor: m.Descriptor,
				Return: types.Void, Params: params,
			})
		case m.AccessFlags&0x0080 != 0 && len(params) > 0: // ACC_VARARGS
			if r.varargsMatch(argTypes, params) {
				candidates = append(candidates, &ResolvedMethod{
					Owner: info.Name, Name: "<init>", Descriptor: m.Descriptor,
					Return: types.Void, Params: params, Varargs: true,
				})
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return mostSpecificMethod(candidates, argTypes), nil
}

func (r *Resolver) matchLocalOverloads(lc *LocalClass, name string, argTypes []types.Type) *LocalMethod {
	overloads := lc.Methods[name]
	var candidates []*LocalMethod
	for i := range overloads {
		m := &overloads[i]
		if len(m.Params) == len(argTypes) && r.argsCompatible(argTypes, m.Params) {
			candidates = append(candidates, m)
			continue
		}
		if m.Varargs && len(m.Params) > 0 && r.varargsMatch(argTypes, m.Params) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if localMoreSpecific(c, best) {
			best = c
		}
	}
	return best
}

// varargsMatch reports whether argTypes matches params where the last
// parameter is the varargs array: all args from index len(params)-1
// onward must be assignable to the array's element type (spec.md §4.5
// "Varargs matching").
func (r *Resolver) varargsMatch(argTypes []types.Type, params []types.Type) bool {
	numRegular := len(params) - 1
	if len(argTypes) < numRegular {
		return false
	}
	for i := 0; i < numRegular; i++ {
		if !r.Assignable(argTypes[i], params[i]) {
			return false
		}
	}
	arr, ok := params[numRegular].(types.Array)
	if !ok {
		return false
	}
	elem := elementType(arr)
	for i := numRegular; i < len(argTypes); i++ {
		if !r.Assignable(argTypes[i], elem) {
			return false
		}
	}
	return true
}

func elementType(a types.Array) types.Type {
	if a.Dims <= 1 {
		return a.Elem
	}
	return types.Array{Elem: a.Elem, Dims: a.Dims - 1}
}

func (r *Resolver) argsCompatible(argTypes []types.Type, params []types.Type) bool {
	for i, p := range params {
		if !r.Assignable(argTypes[i], p) {
			return false
		}
	}
	return true
}

func mostSpecificMethod(candidates []*ResolvedMethod, argTypes []types.Type) *ResolvedMethod {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if moreSpecificResolved(c, best) {
			best = c
		}
	}
	return best
}

// moreSpecificResolved and localMoreSpecific both implement spec.md
// §4.5's "unboxed preferred" most-specific tie-break: a primitive (or
// any non-Object reference) parameter beats java/lang/Object, and
// among two primitives the narrower one wins.
func moreSpecificResolved(m1, m2 *ResolvedMethod) bool {
	return paramsMoreSpecific(m1.Params, m2.Params)
}

func localMoreSpecific(m1, m2 *LocalMethod) bool {
	return paramsMoreSpecific(m1.Params, m2.Params)
}

func paramsMoreSpecific(p1, p2 []types.Type) bool {
	for i := range p1 {
		a, b := p1[i], p2[i]
		if types.Equal(a, b) {
			continue
		}
		if isObject(b) && !isObject(a) {
			return true
		}
		pa, okA := a.(types.Primitive)
		pb, okB := b.(types.Primitive)
		if okA && okB && types.CanWidenPrimitive(pa, pb) {
			return true
		}
	}
	return false
}

func isObject(t types.Type) bool {
	c, ok := t.(types.Class)
	return ok && c.Internal == "java/lang/Object"
}

func parseMethodInfoDescriptor(descriptor string) (types.Type, []types.Type, bool) {
	m, err := types.ParseMethodDescriptor(descriptor)
	if err != nil {
		return nil, nil, false
	}
	return m.Return, m.Params, true
}
