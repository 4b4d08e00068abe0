package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/resolve"
	"github.com/cwbudde/go-javac/internal/types"
)

// synthesizeBridges walks body's declared instance methods and, for
// any that overrides an implemented/extended supertype's method under
// a different erased descriptor, emits a synthetic ACC_BRIDGE forwarder
// carrying the supertype's descriptor (spec.md §4.8 "Bridge methods",
// JVMS 4.6). The common trigger is implementing a generic interface
// method with a more specific parameter or return type after erasure,
// e.g. a Comparator<String> implemented with compare(String,String)
// still needs a compare(Object,Object) entry point for callers that
// only know the erased Comparator interface.
func (g *Generator) synthesizeBridges(body []ast.ClassBodyDecl) error {
	supers := append([]string{g.superName}, g.interfaces...)
	emitted := map[string]bool{}

	for _, member := range body {
		md, ok := member.(*ast.MethodDecl)
		if !ok || md.Body == nil {
			continue
		}
		if hasModifier(md.Modifiers, "static") || hasModifier(md.Modifiers, "private") {
			continue
		}

		ownParams := g.paramTypes(md.Parameters)
		ownRet := g.resolveType(md.ReturnType)
		if md.Dimensions > 0 {
			ownRet = types.NewArray(ownRet, md.Dimensions)
		}
		ownDesc := methodDescriptor(ownParams, ownRet)

		for _, super := range supers {
			rm, err := g.resolver.FindMethod(super, md.Name, ownParams)
			if err != nil {
				return err
			}
			if rm == nil || rm.Descriptor == ownDesc {
				continue
			}
			key := md.Name + rm.Descriptor
			if emitted[key] {
				continue
			}
			emitted[key] = true
			g.emitBridge(md.Name, ownDesc, ownParams, ownRet, rm)
			break
		}
	}
	return nil
}

// emitBridge emits one forwarding method shaped like rm (the
// supertype method being bridged): load `this`, checkcast each
// reference parameter down to the real method's declared type,
// invokevirtual the real method, and return its result — a narrower
// reference result is always assignable to rm's wider return type, so
// the return value itself needs no cast (JLS 5.1.4/5.1.5).
func (g *Generator) emitBridge(name, realDesc string, realParams []types.Type, realRet types.Type, rm *resolve.ResolvedMethod) {
	implEmit := emitter.New(g.builder.ConstantPool())
	cp := implEmit.ConstantPool()

	implEmit.Load(emitter.KindRef, 0)
	slot := 1
	for i, bridgeParam := range rm.Params {
		implEmit.Load(emitKindOf(bridgeParam), slot)
		if i < len(realParams) && needsBridgeCast(bridgeParam, realParams[i]) {
			implEmit.CheckCast(cp.AddClass(classCastTarget(realParams[i])))
		}
		slot += bridgeParam.Size()
	}

	argSlots := 0
	for _, p := range realParams {
		argSlots += p.Size()
	}
	realRef := cp.AddMethodref(g.internalName, name, realDesc)
	implEmit.InvokeVirtual(realRef, argSlots, realRet.Size())
	if realRet == types.Void {
		implEmit.ReturnVoid()
	} else {
		implEmit.Return(emitKindOf(realRet))
	}

	g.builder.AddMethod(&classfile.MethodInfo{
		Name: name, Descriptor: rm.Descriptor,
		AccessFlags: classfile.AccPublic | classfile.AccBridge | classfile.AccSynthetic,
		Code:        implEmit.Finalize(),
	})
}

// needsBridgeCast reports whether a bridge parameter must be narrowed
// with checkcast before the real method can accept it: only reference
// types (class or array) ever need this, and only when they actually
// differ, e.g. Object -> String.
func needsBridgeCast(bridgeType, realType types.Type) bool {
	if types.Equal(bridgeType, realType) {
		return false
	}
	switch realType.(type) {
	case types.Class, types.Array:
		return true
	default:
		return false
	}
}

func classCastTarget(t types.Type) string {
	if c, ok := t.(types.Class); ok {
		return c.Internal
	}
	return t.Descriptor()
}
