package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/emitter"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileExpr lowers e, leaving its value on the operand stack, and
// returns e's static type so the caller can decide on promotion,
// boxing-free assignability, or a return-value conversion.
func (g *Generator) compileExpr(mc *methodContext, e ast.Expr) (types.Type, error) {
	switch expr := e.(type) {
	case *ast.Literal:
		return g.compileLiteral(mc, expr)
	case *ast.Identifier:
		return g.compileIdentifier(mc, expr)
	case *ast.QualifiedName:
		return g.compileQualifiedName(mc, expr)
	case *ast.ThisExpr:
		mc.emit.Load(emitter.KindRef, 0)
		return types.NewClass(g.internalName), nil
	case *ast.SuperExpr:
		mc.emit.Load(emitter.KindRef, 0)
		return types.NewClass(g.superName), nil
	case *ast.ParenExpr:
		return g.compileExpr(mc, expr.Expression)
	case *ast.ClassLiteralExpr:
		return g.compileClassLiteral(mc, expr)
	case *ast.FieldAccessExpr:
		return g.compileFieldAccess(mc, expr)
	case *ast.ArrayAccessExpr:
		return g.compileArrayAccess(mc, expr)
	case *ast.MethodInvocationExpr:
		return g.compileMethodInvocation(mc, expr)
	case *ast.NewInstanceExpr:
		return g.compileNewInstance(mc, expr)
	case *ast.NewArrayExpr:
		return g.compileNewArray(mc, expr)
	case *ast.AssignmentExpr:
		return g.compileAssignment(mc, expr)
	case *ast.BinaryExpr:
		return g.compileBinary(mc, expr)
	case *ast.UnaryExpr:
		return g.compileUnary(mc, expr)
	case *ast.CastExpr:
		return g.compileCast(mc, expr)
	case *ast.InstanceOfExpr:
		return g.compileInstanceOf(mc, expr)
	case *ast.ConditionalExpr:
		return g.compileConditional(mc, expr)
	case *ast.LambdaExpr:
		return g.compileLambda(mc, expr, nil)
	case *ast.MethodReferenceExpr:
		return g.compileMethodReference(mc, expr, nil)
	default:
		return nil, g.errf(cgerrors.UnsupportedAst, g.pos(e), "", "unsupported expression node %T", e)
	}
}

func (g *Generator) compileClassLiteral(mc *methodContext, expr *ast.ClassLiteralExpr) (types.Type, error) {
	t := g.resolveType(expr.Type)
	mc.emit.LdcClass(t.Descriptor())
	return types.NewClass("java/lang/Class"), nil
}

func (g *Generator) compileArrayAccess(mc *methodContext, expr *ast.ArrayAccessExpr) (types.Type, error) {
	at, err := g.compileExpr(mc, expr.Array)
	if err != nil {
		return nil, err
	}
	arr, ok := at.(types.Array)
	if !ok {
		return nil, g.errf(cgerrors.TypeMismatch, g.pos(expr), "", "array access on non-array type %s", at)
	}
	if _, err := g.compileExpr(mc, expr.Index); err != nil {
		return nil, err
	}
	elem := arr.Elem
	dims := arr.Dims
	if dims > 1 {
		g.emitArrayLoadByDesc(mc, arr.ElementDescriptor())
		return types.Array{Elem: elem, Dims: dims - 1}, nil
	}
	g.emitArrayLoadByDesc(mc, elem.Descriptor())
	return elem, nil
}

// emitArrayLoadByDesc picks the typed *aload opcode family for a
// single-character (or reference) element descriptor.
func (g *Generator) emitArrayLoadByDesc(mc *methodContext, desc string) {
	switch desc {
	case "I":
		mc.emit.ArrayLoad(emitter.KindInt)
	case "J":
		mc.emit.ArrayLoad(emitter.KindLong)
	case "F":
		mc.emit.ArrayLoad(emitter.KindFloat)
	case "D":
		mc.emit.ArrayLoad(emitter.KindDouble)
	case "Z", "B":
		mc.emit.ArrayLoadNarrow(emitter.Baload)
	case "C":
		mc.emit.ArrayLoadNarrow(emitter.Caload)
	case "S":
		mc.emit.ArrayLoadNarrow(emitter.Saload)
	default:
		mc.emit.ArrayLoad(emitter.KindRef)
	}
}

func (g *Generator) emitArrayStoreByDesc(mc *methodContext, desc string) {
	switch desc {
	case "I":
		mc.emit.ArrayStore(emitter.KindInt)
	case "J":
		mc.emit.ArrayStore(emitter.KindLong)
	case "F":
		mc.emit.ArrayStore(emitter.KindFloat)
	case "D":
		mc.emit.ArrayStore(emitter.KindDouble)
	case "Z", "B":
		mc.emit.ArrayStoreNarrow(emitter.Bastore)
	case "C":
		mc.emit.ArrayStoreNarrow(emitter.Castore)
	case "S":
		mc.emit.ArrayStoreNarrow(emitter.Sastore)
	default:
		mc.emit.ArrayStore(emitter.KindRef)
	}
}
