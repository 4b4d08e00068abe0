package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileEnumDecl assembles an enum's ClassFile per spec.md §4.8 "Enum
// lowering": one public static final field per constant plus a
// synthetic $VALUES array, a synthetic (String,int,userparams...)
// constructor delegating to java/lang/Enum's own (String,int)
// constructor, and values()/valueOf(String) built from $VALUES.
func (g *Generator) compileEnumDecl(decl *ast.EnumDecl) error {
	g.isEnum = true
	g.superName = "java/lang/Enum"
	g.interfaces = g.internalNames(decl.Implements)
	g.builder = classfile.New(g.internalName, g.superName)
	g.classTypeVars = g.typeVarScope(nil)

	flags := accessFlagsFromModifiers(decl.Modifiers) | classfile.AccSuper | classfile.AccEnum | classfile.AccFinal
	g.builder.SetAccessFlags(flags)
	for _, iface := range g.interfaces {
		g.builder.AddInterface(iface)
	}
	g.declareOuterLink(decl.Name, flags)
	for _, ann := range g.compileAnnotations(decl.Modifiers) {
		g.builder.AddAnnotation(ann)
	}

	enumSelf := types.NewClass(g.internalName)
	g.enumConstants = decl.Constants

	for _, c := range decl.Constants {
		g.builder.AddField(&classfile.FieldInfo{
			Name: c.Name, Descriptor: enumSelf.Descriptor(),
			AccessFlags: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal | classfile.AccEnum,
		})
	}
	g.builder.AddField(&classfile.FieldInfo{
		Name: "$VALUES", Descriptor: types.NewArray(enumSelf, 1).Descriptor(),
		AccessFlags: classfile.AccPrivate | classfile.AccStatic | classfile.AccFinal | classfile.AccSynthetic,
	})

	var userCtor *ast.ConstructorDecl
	for _, member := range decl.Body {
		switch m := member.(type) {
		case *ast.FieldDecl:
			g.addFieldDecl(m, false)
		case *ast.StaticInitializer:
			g.clinitStmts = append(g.clinitStmts, m.Body)
		case *ast.InstanceInitializer:
			g.ctorPrelude = append(g.ctorPrelude, m.Body)
		case *ast.ConstructorDecl:
			userCtor = m
		case *ast.NestedTypeDecl:
			if err := g.compileNestedType(m); err != nil {
				return err
			}
		}
	}
	var userParams []*ast.FormalParameter
	if userCtor != nil {
		userParams = userCtor.Parameters
	}
	g.userCtorArity = len(userParams)

	for _, member := range decl.Body {
		if m, ok := member.(*ast.MethodDecl); ok {
			if err := g.addMethodDecl(m, false); err != nil {
				return err
			}
		}
	}

	if err := g.addEnumConstructor(userCtor); err != nil {
		return err
	}
	g.addEnumValuesMethod()
	g.addEnumValueOfMethod()
	if err := g.addEnumClinit(decl, userParams); err != nil {
		return err
	}
	return g.finish()
}

// addEnumConstructor emits the synthetic (String,int,userparams...)
// constructor: load name/ordinal into Enum's own constructor, then run
// the user-declared constructor's body (if any) with its parameters
// shifted past the two synthetic leading ones.
func (g *Generator) addEnumConstructor(userCtor *ast.ConstructorDecl) error {
	var userParams []*ast.FormalParameter
	if userCtor != nil {
		userParams = userCtor.Parameters
	}
	userParamTypes := g.paramTypes(userParams)
	ctorParams := append([]types.Type{types.StringClass, types.Int}, userParamTypes...)
	desc := methodDescriptor(ctorParams, types.Void)

	implEmit := emitter.New(g.builder.ConstantPool())
	mc := newMethodContext(implEmit, types.Void, false)
	mc.declareLocal("this", types.NewClass(g.internalName))
	mc.declareLocal("$name", types.StringClass)
	mc.declareLocal("$ordinal", types.Int)
	for i, p := range userParams {
		mc.declareLocal(p.Name, userParamTypes[i])
	}

	implEmit.Load(emitter.KindRef, 0)
	implEmit.Load(emitter.KindRef, mc.locals["$name"].slot)
	implEmit.Load(emitter.KindInt, mc.locals["$ordinal"].slot)
	implEmit.InvokeSpecial(implEmit.ConstantPool().AddMethodref("java/lang/Enum", "<init>", "(Ljava/lang/String;I)V"), 3, 0)

	for _, stmt := range g.ctorPrelude {
		if err := g.compileStmt(mc, stmt); err != nil {
			return err
		}
	}
	if userCtor != nil {
		for _, stmt := range userCtor.Body.Statements {
			if err := g.compileStmt(mc, stmt); err != nil {
				return err
			}
		}
	}
	implEmit.ReturnVoid()

	g.builder.AddMethod(&classfile.MethodInfo{
		Name: "<init>", Descriptor: desc, AccessFlags: classfile.AccPrivate, Code: implEmit.Finalize(),
	})
	return nil
}

// addEnumValuesMethod emits `public static EnumName[] values()`, which
// returns a defensive clone of $VALUES (JLS 8.9.3: each call returns a
// new array).
func (g *Generator) addEnumValuesMethod() {
	enumSelf := types.NewClass(g.internalName)
	arrType := types.NewArray(enumSelf, 1)

	implEmit := emitter.New(g.builder.ConstantPool())
	cp := implEmit.ConstantPool()
	valuesIdx := cp.AddFieldref(g.internalName, "$VALUES", arrType.Descriptor())

	implEmit.GetStatic(valuesIdx, 1)
	cloneRef := cp.AddMethodref(arrType.Descriptor(), "clone", "()Ljava/lang/Object;")
	implEmit.InvokeVirtual(cloneRef, 0, 1)
	classIdx := cp.AddClass(arrType.Descriptor())
	implEmit.CheckCast(classIdx)
	implEmit.Return(emitter.KindRef)

	g.builder.AddMethod(&classfile.MethodInfo{
		Name: "values", Descriptor: methodDescriptor(nil, arrType),
		AccessFlags: classfile.AccPublic | classfile.AccStatic, Code: implEmit.Finalize(),
	})
}

// addEnumValueOfMethod emits `public static EnumName valueOf(String)`
// delegating to java/lang/Enum.valueOf, matching javac's own lowering.
func (g *Generator) addEnumValueOfMethod() {
	enumSelf := types.NewClass(g.internalName)

	implEmit := emitter.New(g.builder.ConstantPool())
	mc := newMethodContext(implEmit, enumSelf, true)
	mc.declareLocal("$name", types.StringClass)
	cp := implEmit.ConstantPool()

	classIdx := cp.AddClass(g.internalName)
	implEmit.LdcClass(g.internalName)
	implEmit.Load(emitter.KindRef, mc.locals["$name"].slot)
	valueOfRef := cp.AddMethodref("java/lang/Enum", "valueOf", "(Ljava/lang/Class;Ljava/lang/String;)Ljava/lang/Enum;")
	implEmit.InvokeStatic(valueOfRef, 2, 1)
	implEmit.CheckCast(classIdx)
	implEmit.Return(emitter.KindRef)

	g.builder.AddMethod(&classfile.MethodInfo{
		Name: "valueOf", Descriptor: methodDescriptor([]types.Type{types.StringClass}, enumSelf),
		AccessFlags: classfile.AccPublic | classfile.AccStatic, Code: implEmit.Finalize(),
	})
}

// addEnumClinit builds <clinit>: one `new EnumName(name, ordinal,
// args...)` plus putstatic per constant (in declaration order, so
// ordinal matches JLS 8.9.1), the $VALUES array, then any user static
// field initializers/static blocks collected in g.clinitStmts.
func (g *Generator) addEnumClinit(decl *ast.EnumDecl, userParams []*ast.FormalParameter) error {
	implEmit := emitter.New(g.builder.ConstantPool())
	mc := newMethodContext(implEmit, types.Void, true)
	cp := implEmit.ConstantPool()
	enumSelf := types.NewClass(g.internalName)

	userParamTypes := g.paramTypes(userParams)
	ctorParams := append([]types.Type{types.StringClass, types.Int}, userParamTypes...)
	ctorRef := cp.AddMethodref(g.internalName, "<init>", methodDescriptor(ctorParams, types.Void))
	classIdx := cp.AddClass(g.internalName)

	for i, c := range decl.Constants {
		implEmit.New(classIdx)
		implEmit.Dup()
		implEmit.LdcString(c.Name)
		implEmit.Iconst(int32(i))
		argSlots := 2
		for j, argExpr := range c.Arguments {
			vt, err := g.compileExpr(mc, argExpr)
			if err != nil {
				return err
			}
			target := types.Type(types.Object)
			if j < len(userParamTypes) {
				target = userParamTypes[j]
			}
			g.convertIfNeeded(mc, vt, target)
			argSlots += target.Size()
		}
		implEmit.InvokeSpecial(ctorRef, argSlots, 0)
		fieldIdx := cp.AddFieldref(g.internalName, c.Name, enumSelf.Descriptor())
		implEmit.PutStatic(fieldIdx, 1)
	}

	implEmit.Iconst(int32(len(decl.Constants)))
	implEmit.ANewArray(classIdx)
	for i, c := range decl.Constants {
		implEmit.Dup()
		implEmit.Iconst(int32(i))
		fieldIdx := cp.AddFieldref(g.internalName, c.Name, enumSelf.Descriptor())
		implEmit.GetStatic(fieldIdx, 1)
		implEmit.ArrayStore(emitter.KindRef)
	}
	valuesIdx := cp.AddFieldref(g.internalName, "$VALUES", types.NewArray(enumSelf, 1).Descriptor())
	implEmit.PutStatic(valuesIdx, 1)

	for _, stmt := range g.clinitStmts {
		if err := g.compileStmt(mc, stmt); err != nil {
			return err
		}
	}
	implEmit.ReturnVoid()

	g.builder.AddMethod(&classfile.MethodInfo{
		Name: "<clinit>", Descriptor: "()V", AccessFlags: classfile.AccStatic, Code: implEmit.Finalize(),
	})
	return nil
}
