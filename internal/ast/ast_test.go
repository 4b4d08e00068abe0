package ast

import "testing"

func TestCompilationUnitPos(t *testing.T) {
	cu := &CompilationUnit{
		Package: &PackageDecl{Name: "com.example"},
		Types: []TypeDecl{
			&ClassDecl{Name: "Widget"},
		},
	}
	if cu.Pos() != (Position{Line: 1, Column: 1}) {
		t.Errorf("CompilationUnit.Pos() = %+v, want {1 1}", cu.Pos())
	}
	if len(cu.Types) != 1 {
		t.Fatalf("expected one type declaration")
	}
}

func TestClassDeclImplementsTypeDecl(t *testing.T) {
	var _ TypeDecl = (*ClassDecl)(nil)
	var _ TypeDecl = (*InterfaceDecl)(nil)
	var _ TypeDecl = (*EnumDecl)(nil)
	var _ TypeDecl = (*AnnotationTypeDecl)(nil)
}

func TestClassBodyDeclVariants(t *testing.T) {
	var decls []ClassBodyDecl
	decls = append(decls,
		&FieldDecl{Type: &PrimitiveType{Name: "int"}, Declarators: []*VariableDeclarator{{Name: "x"}}},
		&MethodDecl{Name: "run", ReturnType: &PrimitiveType{Name: "void"}},
		&ConstructorDecl{Name: "Widget"},
		&StaticInitializer{Body: &Block{}},
		&InstanceInitializer{Body: &Block{}},
		&NestedTypeDecl{Decl: &ClassDecl{Name: "Inner"}},
	)
	if len(decls) != 6 {
		t.Fatalf("expected 6 class body declarations, got %d", len(decls))
	}
}

func TestStmtVariantsImplementStmt(t *testing.T) {
	var stmts []Stmt
	stmts = append(stmts,
		&Block{},
		&LocalVarDecl{},
		&ExprStmt{Expression: &Identifier{Name: "x"}},
		&IfStmt{Condition: &Identifier{Name: "x"}, Then: &Block{}},
		&WhileStmt{Condition: &Identifier{Name: "x"}, Body: &Block{}},
		&DoWhileStmt{Body: &Block{}, Condition: &Identifier{Name: "x"}},
		&ForStmt{Body: &Block{}},
		&EnhancedForStmt{Name: "item", Body: &Block{}},
		&SwitchStmt{Expression: &Identifier{Name: "x"}},
		&ReturnStmt{},
		&ThrowStmt{Expression: &Identifier{Name: "e"}},
		&BreakStmt{},
		&ContinueStmt{},
		&LabeledStmt{Label: "outer", Statement: &Block{}},
		&SynchronizedStmt{Expression: &Identifier{Name: "lock"}, Body: &Block{}},
		&TryStmt{Body: &Block{}},
		&AssertStmt{Condition: &Identifier{Name: "x"}},
		&EmptyStmt{},
	)
	if len(stmts) != 18 {
		t.Fatalf("expected 18 statement variants, got %d", len(stmts))
	}
}

func TestExprVariantsImplementExpr(t *testing.T) {
	var exprs []Expr
	exprs = append(exprs,
		&Literal{Text: "42", Kind: IntLiteral},
		&Identifier{Name: "x"},
		&QualifiedName{Parts: []string{"a", "b"}},
		&ThisExpr{},
		&SuperExpr{},
		&ParenExpr{Expression: &Identifier{Name: "x"}},
		&ClassLiteralExpr{Type: &PrimitiveType{Name: "int"}},
		&FieldAccessExpr{Target: &Identifier{Name: "x"}, Field: "y"},
		&ArrayAccessExpr{Array: &Identifier{Name: "a"}, Index: &Literal{Text: "0", Kind: IntLiteral}},
		&MethodInvocationExpr{Method: "foo"},
		&NewInstanceExpr{Type: &ClassType{Name: "Widget"}},
		&NewArrayExpr{Type: &PrimitiveType{Name: "int"}},
		&ArrayInitializerExpr{},
		&AssignmentExpr{Target: &Identifier{Name: "x"}, Operator: "=", Value: &Literal{Text: "1", Kind: IntLiteral}},
		&BinaryExpr{Left: &Identifier{Name: "a"}, Operator: "+", Right: &Identifier{Name: "b"}},
		&UnaryExpr{Operator: "-", Operand: &Identifier{Name: "a"}, Prefix: true},
		&CastExpr{Type: &PrimitiveType{Name: "int"}, Expression: &Identifier{Name: "x"}},
		&InstanceOfExpr{Expression: &Identifier{Name: "x"}, Type: &ClassType{Name: "Widget"}},
		&ConditionalExpr{Condition: &Identifier{Name: "c"}, Then: &Identifier{Name: "a"}, Else: &Identifier{Name: "b"}},
		&LambdaExpr{},
		&MethodReferenceExpr{Method: "new"},
	)
	if len(exprs) != 21 {
		t.Fatalf("expected 21 expression variants, got %d", len(exprs))
	}
}

func TestForStmtDistinguishesDeclAndExprInit(t *testing.T) {
	declForm := &ForStmt{
		Init: &LocalVarDecl{Type: &PrimitiveType{Name: "int"}, Declarators: []*VariableDeclarator{{Name: "i"}}},
		Body: &Block{},
	}
	if _, ok := declForm.Init.(*LocalVarDecl); !ok {
		t.Error("expected Init to carry a *LocalVarDecl")
	}

	exprForm := &ForStmt{
		InitExprs: []Expr{&AssignmentExpr{Target: &Identifier{Name: "i"}, Operator: "=", Value: &Literal{Text: "0", Kind: IntLiteral}}},
		Body:      &Block{},
	}
	if len(exprForm.InitExprs) != 1 {
		t.Error("expected one init expression")
	}
}

func TestTypeNodeVariants(t *testing.T) {
	var types []TypeNode
	types = append(types,
		&PrimitiveType{Name: "int"},
		&ClassType{Name: "java/util/List", TypeArguments: []*TypeArgument{{Wildcard: ExtendsWildcard, Type: &ClassType{Name: "Number"}}}},
		&ArrayType{ElementType: &PrimitiveType{Name: "int"}, Dimensions: 2},
	)
	if len(types) != 3 {
		t.Fatalf("expected 3 type variants, got %d", len(types))
	}
}
