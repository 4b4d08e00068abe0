package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileClassDecl assembles one class's ClassFile: member registration
// already ran in register.go, so this pass only emits bytecode. Fields
// and initializer blocks are visited first (in declaration order, per
// JLS 12.5) so every constructor sees the complete ctorPrelude before
// it's compiled, then methods and constructors.
func (g *Generator) compileClassDecl(decl *ast.ClassDecl) error {
	g.superName = "java/lang/Object"
	if decl.Extends != nil {
		if ct, ok := decl.Extends.(*ast.ClassType); ok {
			g.superName = g.names.Resolve(ct.Name)
		}
	}
	g.interfaces = g.internalNames(decl.Implements)
	g.builder = classfile.New(g.internalName, g.superName)
	g.classTypeVars = g.typeVarScope(decl.TypeParameters)

	flags := accessFlagsFromModifiers(decl.Modifiers) | classfile.AccSuper
	g.builder.SetAccessFlags(flags)
	for _, iface := range g.interfaces {
		g.builder.AddInterface(iface)
	}
	g.declareOuterLink(decl.Name, flags)
	if sig := g.classSignature(decl.TypeParameters, decl.Extends, decl.Implements); sig != "" {
		g.builder.SetSignature(sig)
	}
	for _, ann := range g.compileAnnotations(decl.Modifiers) {
		g.builder.AddAnnotation(ann)
	}

	hasCtor := false
	for _, member := range decl.Body {
		switch m := member.(type) {
		case *ast.FieldDecl:
			g.addFieldDecl(m, false)
		case *ast.StaticInitializer:
			g.clinitStmts = append(g.clinitStmts, m.Body)
		case *ast.InstanceInitializer:
			g.ctorPrelude = append(g.ctorPrelude, m.Body)
		case *ast.NestedTypeDecl:
			if err := g.compileNestedType(m); err != nil {
				return err
			}
		}
	}
	for _, member := range decl.Body {
		switch m := member.(type) {
		case *ast.MethodDecl:
			if err := g.addMethodDecl(m, false); err != nil {
				return err
			}
		case *ast.ConstructorDecl:
			hasCtor = true
			if err := g.addConstructorDecl(m); err != nil {
				return err
			}
		}
	}
	if err := g.synthesizeBridges(decl.Body); err != nil {
		return err
	}
	if !hasCtor {
		if err := g.synthesizeDefaultConstructor(); err != nil {
			return err
		}
	}
	if err := g.finishClinit(); err != nil {
		return err
	}
	return g.finish()
}

func (g *Generator) compileInterfaceDecl(decl *ast.InterfaceDecl) error {
	g.isInterface = true
	g.interfaces = g.internalNames(decl.Extends)
	g.builder = classfile.New(g.internalName, "java/lang/Object")
	g.classTypeVars = g.typeVarScope(decl.TypeParameters)

	flags := accessFlagsFromModifiers(decl.Modifiers) | classfile.AccInterface | classfile.AccAbstract
	g.builder.SetAccessFlags(flags)
	for _, iface := range g.interfaces {
		g.builder.AddInterface(iface)
	}
	g.declareOuterLink(decl.Name, flags)
	if sig := g.classSignature(decl.TypeParameters, nil, decl.Extends); sig != "" {
		g.builder.SetSignature(sig)
	}
	for _, ann := range g.compileAnnotations(decl.Modifiers) {
		g.builder.AddAnnotation(ann)
	}

	for _, member := range decl.Body {
		switch m := member.(type) {
		case *ast.FieldDecl:
			g.addFieldDecl(m, true)
		case *ast.NestedTypeDecl:
			if err := g.compileNestedType(m); err != nil {
				return err
			}
		}
	}
	for _, member := range decl.Body {
		if m, ok := member.(*ast.MethodDecl); ok {
			if err := g.addMethodDecl(m, true); err != nil {
				return err
			}
		}
	}
	if err := g.finishClinit(); err != nil {
		return err
	}
	return g.finish()
}

// compileAnnotationTypeDecl emits an annotation type as the marker
// interface the JVM represents it as (JLS 9.6): every element becomes
// an abstract no-arg method; element default values live in the
// classpath/reflection metadata a full compiler would also emit, which
// this compiler's callers don't need (no annotation-processing module
// in scope, spec.md §4.9 Non-goals).
func (g *Generator) compileAnnotationTypeDecl(decl *ast.AnnotationTypeDecl) error {
	g.isInterface = true
	g.interfaces = []string{"java/lang/annotation/Annotation"}
	g.builder = classfile.New(g.internalName, "java/lang/Object")
	g.classTypeVars = g.typeVarScope(nil)

	flags := accessFlagsFromModifiers(decl.Modifiers) | classfile.AccInterface | classfile.AccAbstract | classfile.AccAnnotation
	g.builder.SetAccessFlags(flags)
	g.builder.AddInterface("java/lang/annotation/Annotation")
	g.declareOuterLink(decl.Name, flags)
	for _, ann := range g.compileAnnotations(decl.Modifiers) {
		g.builder.AddAnnotation(ann)
	}

	for _, el := range decl.Body {
		ret := g.resolveType(el.Type)
		g.builder.AddMethod(&classfile.MethodInfo{
			Name:        el.Name,
			Descriptor:  methodDescriptor(nil, ret),
			AccessFlags: classfile.AccPublic | classfile.AccAbstract,
		})
	}
	return g.finish()
}

// compileNestedType dispatches a member nested type declaration to a
// freshly spawned child Generator, wiring this$0 capture (spec.md §4.8)
// only for a non-static nested class — interfaces, enums, and
// annotation types are always implicitly static (JLS 8.1.3, 9.1.1).
func (g *Generator) compileNestedType(m *ast.NestedTypeDecl) error {
	switch decl := m.Decl.(type) {
	case *ast.ClassDecl:
		child := newGenerator(g.resolver, g.unit, g.pkg, g.imports, decl.Name, g)
		if !hasModifier(decl.Modifiers, "static") {
			child.outerField = "this$0"
		}
		return child.compileClassDecl(decl)
	case *ast.InterfaceDecl:
		child := newGenerator(g.resolver, g.unit, g.pkg, g.imports, decl.Name, g)
		return child.compileInterfaceDecl(decl)
	case *ast.EnumDecl:
		child := newGenerator(g.resolver, g.unit, g.pkg, g.imports, decl.Name, g)
		return child.compileEnumDecl(decl)
	case *ast.AnnotationTypeDecl:
		child := newGenerator(g.resolver, g.unit, g.pkg, g.imports, decl.Name, g)
		return child.compileAnnotationTypeDecl(decl)
	}
	return nil
}

// declareOuterLink records the InnerClasses attribute entry both
// directions (JVMS 4.7.6 expects it on any class textually enclosed,
// and on the enclosing class too) and, for a this$0-capturing nested
// class, the synthetic field itself.
func (g *Generator) declareOuterLink(simpleName string, flags classfile.AccessFlags) {
	if g.outer == nil {
		return
	}
	entry := classfile.InnerClassEntry{
		InnerName: g.internalName, OuterName: g.outer.internalName,
		SimpleName: simpleName, InnerAccessFlags: flags,
	}
	g.builder.AddInnerClass(entry)
	g.outer.builder.AddInnerClass(entry)

	if g.outerField != "" {
		g.builder.AddField(&classfile.FieldInfo{
			Name: g.outerField, Descriptor: "L" + g.outer.internalName + ";",
			AccessFlags: classfile.AccPrivate | classfile.AccFinal | classfile.AccSynthetic,
		})
	}
}

// finishClinit assembles <clinit> from every static field initializer
// and static initializer block collected in declaration order, when
// the class has any.
func (g *Generator) finishClinit() error {
	if len(g.clinitStmts) == 0 {
		return nil
	}
	implEmit := emitter.New(g.builder.ConstantPool())
	mc := newMethodContext(implEmit, types.Void, true)
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

// finish serializes the builder and appends the result to the unit's
// output, the common tail of every compileXDecl entry point.
func (g *Generator) finish() error {
	b, err := g.builder.Finish()
	if err != nil {
		return g.errf(cgerrors.InternalError, ast.Position{}, g.internalName, "assembling %s: %v", g.internalName, err)
	}
	g.unit.classes = append(g.unit.classes, ClassFile{InternalName: g.internalName, Bytes: b})
	return nil
}
