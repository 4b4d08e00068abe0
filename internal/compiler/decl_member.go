package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// addFieldDecl adds one FieldInfo per declarator to the class under
// construction, queuing any initializer for replay into <clinit>
// (static fields) or the head of every constructor (instance fields),
// in declaration order (spec.md §6 "initializer ordering").
func (g *Generator) addFieldDecl(fd *ast.FieldDecl, isInterface bool) {
	base := g.resolveType(fd.Type)
	static := isInterface || hasModifier(fd.Modifiers, "static")
	flags := fieldAccessFlags(fd.Modifiers, isInterface)
	annotations := g.compileAnnotations(fd.Modifiers)

	for _, v := range fd.Declarators {
		t := base
		fieldType := fd.Type
		if v.Dimensions > 0 {
			if arr, ok := t.(types.Array); ok {
				t = types.NewArray(arr.Elem, arr.Dims+v.Dimensions)
			} else {
				t = types.NewArray(t, v.Dimensions)
			}
			fieldType = &ast.ArrayType{ElementType: fd.Type, Dimensions: v.Dimensions}
			if arrNode, ok := fd.Type.(*ast.ArrayType); ok {
				fieldType = &ast.ArrayType{ElementType: arrNode.ElementType, Dimensions: arrNode.Dimensions + v.Dimensions}
			}
		}
		g.builder.AddField(&classfile.FieldInfo{
			Name: v.Name, Descriptor: t.Descriptor(), AccessFlags: flags,
			Signature:   g.fieldSignature(fieldType),
			Annotations: annotations,
		})

		if v.Initializer == nil {
			continue
		}
		assign := &ast.ExprStmt{Expression: &ast.AssignmentExpr{
			Target: &ast.Identifier{Name: v.Name}, Operator: "=", Value: v.Initializer,
		}}
		if static {
			g.clinitStmts = append(g.clinitStmts, assign)
		} else {
			g.ctorPrelude = append(g.ctorPrelude, assign)
		}
	}
}

func fieldAccessFlags(mods []*ast.Modifier, isInterface bool) classfile.AccessFlags {
	if isInterface {
		return classfile.AccPublic | classfile.AccStatic | classfile.AccFinal
	}
	return accessFlagsFromModifiers(mods)
}

// addMethodDecl compiles md's body (when present) and adds it to the
// class under construction.
func (g *Generator) addMethodDecl(md *ast.MethodDecl, isInterface bool) error {
	ret := g.resolveType(md.ReturnType)
	if md.Dimensions > 0 {
		ret = types.NewArray(ret, md.Dimensions)
	}
	static := hasModifier(md.Modifiers, "static")
	flags := accessFlagsFromModifiers(md.Modifiers)
	if isInterface {
		flags |= classfile.AccPublic
		if md.Body == nil {
			flags |= classfile.AccAbstract
		}
	}

	paramTypes := g.paramTypes(md.Parameters)
	desc := methodDescriptor(paramTypes, ret)

	retNode := md.ReturnType
	if md.Dimensions > 0 {
		retNode = &ast.ArrayType{ElementType: md.ReturnType, Dimensions: md.Dimensions}
	}

	var code *classfile.CodeAttribute
	if md.Body != nil {
		implEmit := emitter.New(g.builder.ConstantPool())
		mc := newMethodContext(implEmit, ret, static)
		g.declareParams(mc, md.Parameters, static)
		if err := g.compileBlock(mc, md.Body); err != nil {
			return err
		}
		if ret == types.Void {
			implEmit.ReturnVoid()
		}
		code = implEmit.Finalize()
		if isInterface {
			g.builder.MarkRequiresJava8()
		}
	}

	g.builder.AddMethod(&classfile.MethodInfo{
		Name: md.Name, Descriptor: desc, AccessFlags: flags, Code: code,
		Signature:   g.methodSignature(md.TypeParameters, md.Parameters, retNode),
		Annotations: g.compileAnnotations(md.Modifiers),
	})
	return nil
}

// declareParams declares a method's locals in JVM order: `this` first
// for an instance method, then each formal parameter.
func (g *Generator) declareParams(mc *methodContext, params []*ast.FormalParameter, static bool) {
	if !static {
		mc.declareLocal("this", types.NewClass(g.internalName))
	}
	for _, p := range params {
		mc.declareLocal(p.Name, g.paramType(p))
	}
}

// addConstructorDecl compiles cd's body, prefixing it with the explicit
// or implicit super()/this() delegation every constructor must perform
// before any other statement (JLS 8.8.7), followed by the instance
// field/initializer-block prelude when (and only when) this
// constructor delegates to the superclass rather than a sibling
// constructor (JLS 8.8.7.1: initializers run exactly once, right after
// the supertype's constructor returns).
func (g *Generator) addConstructorDecl(cd *ast.ConstructorDecl) error {
	paramTypes := g.paramTypes(cd.Parameters)
	if g.outerField != "" {
		paramTypes = append([]types.Type{types.NewClass(g.outer.internalName)}, paramTypes...)
	}
	desc := methodDescriptor(paramTypes, types.Void)
	flags := accessFlagsFromModifiers(cd.Modifiers)

	implEmit := emitter.New(g.builder.ConstantPool())
	mc := newMethodContext(implEmit, types.Void, false)
	mc.declareLocal("this", types.NewClass(g.internalName))
	if g.outerField != "" {
		mc.declareLocal(g.outerField, types.NewClass(g.outer.internalName))
	}
	for _, p := range cd.Parameters {
		mc.declareLocal(p.Name, g.paramType(p))
	}

	body := cd.Body.Statements
	delegatesToThis := g.emitCtorPrelude(mc, body)

	if g.outerField != "" {
		implEmit.Load(emitter.KindRef, 0)
		implEmit.Load(emitter.KindRef, mc.locals[g.outerField].slot)
		implEmit.PutField(implEmit.ConstantPool().AddFieldref(g.internalName, g.outerField, "L"+g.outer.internalName+";"), 1)
	}
	if !delegatesToThis {
		for _, stmt := range g.ctorPrelude {
			if err := g.compileStmt(mc, stmt); err != nil {
				return err
			}
		}
	}
	for _, stmt := range body {
		if isExplicitCtorInvocation(stmt) {
			continue
		}
		if err := g.compileStmt(mc, stmt); err != nil {
			return err
		}
	}
	implEmit.ReturnVoid()

	g.builder.AddMethod(&classfile.MethodInfo{
		Name: "<init>", Descriptor: desc, AccessFlags: flags, Code: implEmit.Finalize(),
		Signature:   g.methodSignature(cd.TypeParameters, cd.Parameters, nil),
		Annotations: g.compileAnnotations(cd.Modifiers),
	})
	return nil
}

// synthesizeDefaultConstructor builds the implicit no-arg constructor
// a class gets when it declares none (JLS 8.8.9): super(), then the
// instance-initializer prelude.
func (g *Generator) synthesizeDefaultConstructor() error {
	var paramTypes []types.Type
	if g.outerField != "" {
		paramTypes = []types.Type{types.NewClass(g.outer.internalName)}
	}
	desc := methodDescriptor(paramTypes, types.Void)

	implEmit := emitter.New(g.builder.ConstantPool())
	mc := newMethodContext(implEmit, types.Void, false)
	mc.declareLocal("this", types.NewClass(g.internalName))
	if g.outerField != "" {
		mc.declareLocal(g.outerField, types.NewClass(g.outer.internalName))
	}

	implEmit.Load(emitter.KindRef, 0)
	implEmit.InvokeSpecial(implEmit.ConstantPool().AddMethodref(g.superName, "<init>", "()V"), 0, 0)
	if g.outerField != "" {
		implEmit.Load(emitter.KindRef, 0)
		implEmit.Load(emitter.KindRef, mc.locals[g.outerField].slot)
		implEmit.PutField(implEmit.ConstantPool().AddFieldref(g.internalName, g.outerField, "L"+g.outer.internalName+";"), 1)
	}
	for _, stmt := range g.ctorPrelude {
		if err := g.compileStmt(mc, stmt); err != nil {
			return err
		}
	}
	implEmit.ReturnVoid()

	g.builder.AddMethod(&classfile.MethodInfo{
		Name: "<init>", Descriptor: desc,
		AccessFlags: classfile.AccPublic,
		Code:        implEmit.Finalize(),
	})
	return nil
}

// emitCtorPrelude compiles an explicit `this(...)`/`super(...)` call
// when body's first statement is one (our convention for representing
// JLS's explicit constructor invocation: an expression statement whose
// target is *ast.ThisExpr or *ast.SuperExpr with Method "<init>"), or
// synthesizes an implicit `super()` otherwise. Returns whether the
// constructor delegates to a sibling constructor (`this(...)`), in
// which case the caller must NOT replay the instance-initializer
// prelude again.
func (g *Generator) emitCtorPrelude(mc *methodContext, body []ast.Stmt) bool {
	if len(body) > 0 {
		if inv, target, ok := explicitCtorInvocation(body[0]); ok {
			switch target.(type) {
			case *ast.ThisExpr:
				g.emitExplicitInvocation(mc, g.internalName, inv)
				return true
			case *ast.SuperExpr:
				g.emitExplicitInvocation(mc, g.superName, inv)
				return false
			}
		}
	}
	mc.emit.Load(emitter.KindRef, 0)
	mc.emit.InvokeSpecial(mc.emit.ConstantPool().AddMethodref(g.superName, "<init>", "()V"), 0, 0)
	return false
}

func (g *Generator) emitExplicitInvocation(mc *methodContext, owner string, inv *ast.MethodInvocationExpr) {
	argTypes, err := g.argTypesOf(mc, inv.Arguments)
	if err != nil {
		return
	}
	rm, err := g.resolver.FindConstructor(owner, argTypes)
	if err != nil || rm == nil {
		return
	}
	mc.emit.Load(emitter.KindRef, 0)
	_ = g.compileCallArguments(mc, inv.Arguments, argTypes, rm)
	mc.emit.InvokeSpecial(mc.emit.ConstantPool().AddMethodref(rm.Owner, "<init>", rm.Descriptor), paramSlotsFor(rm), 0)
}

func isExplicitCtorInvocation(s ast.Stmt) bool {
	_, _, ok := explicitCtorInvocation(s)
	return ok
}

// explicitCtorInvocation recognizes our convention for an explicit
// `this(args)`/`super(args)` constructor invocation statement.
func explicitCtorInvocation(s ast.Stmt) (*ast.MethodInvocationExpr, ast.Expr, bool) {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return nil, nil, false
	}
	inv, ok := es.Expression.(*ast.MethodInvocationExpr)
	if !ok || inv.Method != "<init>" {
		return nil, nil, false
	}
	switch inv.Target.(type) {
	case *ast.ThisExpr, *ast.SuperExpr:
		return inv, inv.Target, true
	}
	return nil, nil, false
}
