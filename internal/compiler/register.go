package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/resolve"
	"github.com/cwbudde/go-javac/internal/types"
)

// registerUnit pre-declares every class/interface/enum/annotation-type
// in the unit (recursing into nested types) with the resolver before
// any code generation happens, so forward references within the same
// unit resolve without a second compilation pass (spec.md §4.5
// "current unit first").
func registerUnit(unit *ast.CompilationUnit, resolver *resolve.Resolver, pkg string, imports map[string]string) error {
	for _, td := range unit.Types {
		if err := registerTypeDecl(td, resolver, pkg, imports, ""); err != nil {
			return err
		}
	}
	return nil
}

func registerTypeDecl(td ast.TypeDecl, resolver *resolve.Resolver, pkg string, imports map[string]string, outerInternal string) error {
	switch decl := td.(type) {
	case *ast.ClassDecl:
		return registerClass(decl, resolver, pkg, imports, outerInternal)
	case *ast.InterfaceDecl:
		return registerInterface(decl, resolver, pkg, imports, outerInternal)
	case *ast.EnumDecl:
		return registerEnum(decl, resolver, pkg, imports, outerInternal)
	case *ast.AnnotationTypeDecl:
		return registerAnnotationType(decl, resolver, pkg, imports, outerInternal)
	}
	return nil
}

func childInternalName(pkg, simpleName, outerInternal string) string {
	if outerInternal != "" {
		return outerInternal + "$" + simpleName
	}
	if pkg != "" {
		return pkg + "/" + simpleName
	}
	return simpleName
}

func registerClass(decl *ast.ClassDecl, resolver *resolve.Resolver, pkg string, imports map[string]string, outerInternal string) error {
	internal := childInternalName(pkg, decl.Name, outerInternal)
	names := resolve.NewNameResolver(internal, imports)
	g := &Generator{resolver: resolver, names: names, internalName: internal}

	super := "java/lang/Object"
	if decl.Extends != nil {
		if ct, ok := decl.Extends.(*ast.ClassType); ok {
			super = names.Resolve(ct.Name)
		}
	}
	ifaces := g.internalNames(decl.Implements)

	lc := resolve.NewLocalClass(internal, super, ifaces, false)
	hasCtor := false

	// A non-static nested class captures its enclosing instance as an
	// implicit leading constructor parameter (this$0, spec.md §4.8
	// "Inner-class capture"); top-level and static nested classes never
	// do, and this must be reflected in every registered constructor's
	// Params so overload resolution at `new Inner(...)` call sites sees
	// the real compiled signature.
	needsOuterCapture := outerInternal != "" && !hasModifier(decl.Modifiers, "static")
	var outerParam []types.Type
	if needsOuterCapture {
		outerParam = []types.Type{types.NewClass(outerInternal)}
	}

	for _, member := range decl.Body {
		switch m := member.(type) {
		case *ast.FieldDecl:
			ft := g.resolveType(m.Type)
			static := hasModifier(m.Modifiers, "static")
			for _, v := range m.Declarators {
				vt := ft
				if v.Dimensions > 0 {
					if arr, ok := vt.(types.Array); ok {
						vt = types.NewArray(arr.Elem, arr.Dims+v.Dimensions)
					} else {
						vt = types.NewArray(vt, v.Dimensions)
					}
				}
				lc.Fields[v.Name] = resolve.LocalField{Name: v.Name, Type: vt, IsStatic: static}
			}
		case *ast.MethodDecl:
			ret := g.resolveType(m.ReturnType)
			if m.Dimensions > 0 {
				ret = types.NewArray(ret, m.Dimensions)
			}
			lm := resolve.LocalMethod{
				Name: m.Name, Params: g.paramTypes(m.Parameters), Return: ret,
				IsStatic: hasModifier(m.Modifiers, "static"), Varargs: isVarargs(m.Parameters),
			}
			lc.Methods[m.Name] = append(lc.Methods[m.Name], lm)
		case *ast.ConstructorDecl:
			hasCtor = true
			lc.Methods["<init>"] = append(lc.Methods["<init>"], resolve.LocalMethod{
				Name: "<init>", Params: append(append([]types.Type{}, outerParam...), g.paramTypes(m.Parameters)...), Return: types.Void,
				Varargs: isVarargs(m.Parameters),
			})
		case *ast.NestedTypeDecl:
			if err := registerTypeDecl(m.Decl, resolver, pkg, imports, internal); err != nil {
				return err
			}
		}
	}
	if !hasCtor {
		lc.Methods["<init>"] = append(lc.Methods["<init>"], resolve.LocalMethod{Name: "<init>", Params: outerParam, Return: types.Void})
	}
	resolver.Declare(lc)
	return nil
}

func registerInterface(decl *ast.InterfaceDecl, resolver *resolve.Resolver, pkg string, imports map[string]string, outerInternal string) error {
	internal := childInternalName(pkg, decl.Name, outerInternal)
	names := resolve.NewNameResolver(internal, imports)
	g := &Generator{resolver: resolver, names: names, internalName: internal}

	ifaces := g.internalNames(decl.Extends)
	lc := resolve.NewLocalClass(internal, "", ifaces, true)
	for _, member := range decl.Body {
		switch m := member.(type) {
		case *ast.FieldDecl:
			ft := g.resolveType(m.Type)
			for _, v := range m.Declarators {
				lc.Fields[v.Name] = resolve.LocalField{Name: v.Name, Type: ft, IsStatic: true}
			}
		case *ast.MethodDecl:
			ret := g.resolveType(m.ReturnType)
			lc.Methods[m.Name] = append(lc.Methods[m.Name], resolve.LocalMethod{
				Name: m.Name, Params: g.paramTypes(m.Parameters), Return: ret,
				Varargs: isVarargs(m.Parameters),
			})
		case *ast.NestedTypeDecl:
			if err := registerTypeDecl(m.Decl, resolver, pkg, imports, internal); err != nil {
				return err
			}
		}
	}
	resolver.Declare(lc)
	return nil
}

// registerEnum additionally declares the synthetic members spec.md
// §4.8 requires: a static field per constant, the $VALUES array, and
// the (String,int,userparams...) constructor.
func registerEnum(decl *ast.EnumDecl, resolver *resolve.Resolver, pkg string, imports map[string]string, outerInternal string) error {
	internal := childInternalName(pkg, decl.Name, outerInternal)
	names := resolve.NewNameResolver(internal, imports)
	g := &Generator{resolver: resolver, names: names, internalName: internal}

	ifaces := g.internalNames(decl.Implements)
	lc := resolve.NewLocalClass(internal, "java/lang/Enum", ifaces, false)

	enumSelf := types.NewClass(internal)
	for _, c := range decl.Constants {
		lc.Fields[c.Name] = resolve.LocalField{Name: c.Name, Type: enumSelf, IsStatic: true}
	}
	lc.Fields["$VALUES"] = resolve.LocalField{Name: "$VALUES", Type: types.NewArray(enumSelf, 1), IsStatic: true}

	userArity := 0
	for _, member := range decl.Body {
		switch m := member.(type) {
		case *ast.FieldDecl:
			ft := g.resolveType(m.Type)
			static := hasModifier(m.Modifiers, "static")
			for _, v := range m.Declarators {
				lc.Fields[v.Name] = resolve.LocalField{Name: v.Name, Type: ft, IsStatic: static}
			}
		case *ast.MethodDecl:
			ret := g.resolveType(m.ReturnType)
			lc.Methods[m.Name] = append(lc.Methods[m.Name], resolve.LocalMethod{
				Name: m.Name, Params: g.paramTypes(m.Parameters), Return: ret,
				IsStatic: hasModifier(m.Modifiers, "static"), Varargs: isVarargs(m.Parameters),
			})
		case *ast.ConstructorDecl:
			userArity = len(m.Parameters)
		case *ast.NestedTypeDecl:
			if err := registerTypeDecl(m.Decl, resolver, pkg, imports, internal); err != nil {
				return err
			}
		}
	}

	ctorParams := append([]types.Type{types.StringClass, types.Int}, g.paramTypes(ctorFormals(decl, userArity))...)
	lc.Methods["<init>"] = append(lc.Methods["<init>"], resolve.LocalMethod{Name: "<init>", Params: ctorParams, Return: types.Void})
	lc.Methods["values"] = append(lc.Methods["values"], resolve.LocalMethod{
		Name: "values", Return: types.NewArray(enumSelf, 1), IsStatic: true,
	})
	lc.Methods["valueOf"] = append(lc.Methods["valueOf"], resolve.LocalMethod{
		Name: "valueOf", Params: []types.Type{types.StringClass}, Return: enumSelf, IsStatic: true,
	})

	resolver.Declare(lc)
	return nil
}

// ctorFormals returns the user-declared constructor's parameter list
// (empty if the enum declares no explicit constructor), used only to
// compute the synthetic ctor's trailing user-parameter types.
func ctorFormals(decl *ast.EnumDecl, userArity int) []*ast.FormalParameter {
	if userArity == 0 {
		return nil
	}
	for _, member := range decl.Body {
		if ctor, ok := member.(*ast.ConstructorDecl); ok {
			return ctor.Parameters
		}
	}
	return nil
}

func registerAnnotationType(decl *ast.AnnotationTypeDecl, resolver *resolve.Resolver, pkg string, imports map[string]string, outerInternal string) error {
	internal := childInternalName(pkg, decl.Name, outerInternal)
	lc := resolve.NewLocalClass(internal, "", []string{"java/lang/annotation/Annotation"}, true)
	resolver.Declare(lc)
	return nil
}
