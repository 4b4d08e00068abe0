package ast

import "encoding/gob"

// init registers every concrete node type that can appear behind the
// Expr/Stmt/TypeNode/TypeDecl/ClassBodyDecl/InterfaceBodyDecl
// interfaces, so encoding/gob can round-trip a CompilationUnit built
// by an external front end (this package consumes the AST, it does
// not produce one — spec.md §6.2) without the decoder needing to know
// the concrete shape ahead of time. gob resolves interface values by
// registered name, which is what lets internal/driver.CompileFile
// accept an externally serialized AST at all.
func init() {
	gob.Register(&Literal{})
	gob.Register(&Identifier{})
	gob.Register(&QualifiedName{})
	gob.Register(&ThisExpr{})
	gob.Register(&SuperExpr{})
	gob.Register(&ParenExpr{})
	gob.Register(&ClassLiteralExpr{})
	gob.Register(&FieldAccessExpr{})
	gob.Register(&ArrayAccessExpr{})
	gob.Register(&MethodInvocationExpr{})
	gob.Register(&NewInstanceExpr{})
	gob.Register(&NewArrayExpr{})
	gob.Register(&ArrayInitializerExpr{})
	gob.Register(&AssignmentExpr{})
	gob.Register(&BinaryExpr{})
	gob.Register(&UnaryExpr{})
	gob.Register(&CastExpr{})
	gob.Register(&InstanceOfExpr{})
	gob.Register(&ConditionalExpr{})
	gob.Register(&LambdaExpr{})
	gob.Register(&MethodReferenceExpr{})

	gob.Register(&Block{})
	gob.Register(&LocalVarDecl{})
	gob.Register(&ExprStmt{})
	gob.Register(&IfStmt{})
	gob.Register(&WhileStmt{})
	gob.Register(&DoWhileStmt{})
	gob.Register(&ForStmt{})
	gob.Register(&EnhancedForStmt{})
	gob.Register(&SwitchStmt{})
	gob.Register(&ReturnStmt{})
	gob.Register(&ThrowStmt{})
	gob.Register(&BreakStmt{})
	gob.Register(&ContinueStmt{})
	gob.Register(&LabeledStmt{})
	gob.Register(&SynchronizedStmt{})
	gob.Register(&TryStmt{})
	gob.Register(&AssertStmt{})
	gob.Register(&EmptyStmt{})

	gob.Register(&PrimitiveType{})
	gob.Register(&ClassType{})
	gob.Register(&ArrayType{})

	gob.Register(&ClassDecl{})
	gob.Register(&InterfaceDecl{})
	gob.Register(&EnumDecl{})
	gob.Register(&AnnotationTypeDecl{})

	gob.Register(&FieldDecl{})
	gob.Register(&MethodDecl{})
	gob.Register(&ConstructorDecl{})
	gob.Register(&StaticInitializer{})
	gob.Register(&InstanceInitializer{})
	gob.Register(&NestedTypeDecl{})
}
