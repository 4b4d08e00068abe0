package compiler

import (
	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/types"
)

// typeOf statically infers an expression's type without emitting any
// bytecode, used wherever a binary operator needs both operands'
// types before it knows which one (if either) needs a widening
// conversion (spec.md §4.6 "Binary numeric promotion") — conversions
// on the JVM stack can only affect the value currently on top, so the
// promoted type must be known before the first operand is compiled.
func (g *Generator) typeOf(mc *methodContext, e ast.Expr) (types.Type, error) {
	switch expr := e.(type) {
	case *ast.Literal:
		return literalType(expr), nil
	case *ast.ParenExpr:
		return g.typeOf(mc, expr.Expression)
	case *ast.Identifier:
		return g.identifierType(mc, expr.Name, expr)
	case *ast.ThisExpr:
		return types.NewClass(g.internalName), nil
	case *ast.SuperExpr:
		return types.NewClass(g.superName), nil
	case *ast.FieldAccessExpr:
		return g.fieldAccessType(mc, expr)
	case *ast.ArrayAccessExpr:
		at, err := g.typeOf(mc, expr.Array)
		if err != nil {
			return nil, err
		}
		if arr, ok := at.(types.Array); ok {
			if arr.Dims <= 1 {
				return arr.Elem, nil
			}
			return types.Array{Elem: arr.Elem, Dims: arr.Dims - 1}, nil
		}
		return types.Object, nil
	case *ast.MethodInvocationExpr:
		rm, err := g.resolveCall(mc, expr)
		if err != nil {
			return nil, err
		}
		return rm.Return, nil
	case *ast.NewInstanceExpr:
		return g.resolveType(expr.Type), nil
	case *ast.NewArrayExpr:
		base := g.resolveType(expr.Type)
		dims := len(expr.Dimensions)
		if dims == 0 {
			dims = 1
		}
		return types.NewArray(base, dims), nil
	case *ast.CastExpr:
		return g.resolveType(expr.Type), nil
	case *ast.InstanceOfExpr:
		return types.Boolean, nil
	case *ast.UnaryExpr:
		if expr.Operator == "!" {
			return types.Boolean, nil
		}
		t, err := g.typeOf(mc, expr.Operand)
		if err != nil {
			return nil, err
		}
		if p, ok := t.(types.Primitive); ok {
			return types.UnaryPromote(p), nil
		}
		return t, nil
	case *ast.BinaryExpr:
		return g.binaryExprType(mc, expr)
	case *ast.ConditionalExpr:
		tt, err := g.typeOf(mc, expr.Then)
		if err != nil {
			return nil, err
		}
		et, err := g.typeOf(mc, expr.Else)
		if err != nil {
			return nil, err
		}
		if types.IsNumeric(tt) && types.IsNumeric(et) {
			return types.PromotedType(tt, et), nil
		}
		return tt, nil
	case *ast.AssignmentExpr:
		return g.typeOf(mc, expr.Target)
	case *ast.QualifiedName:
		return g.qualifiedNameType(mc, expr)
	case *ast.ClassLiteralExpr:
		return types.NewClass("java/lang/Class"), nil
	case *ast.LambdaExpr, *ast.MethodReferenceExpr:
		return types.Object, nil
	case *ast.ArrayInitializerExpr:
		return types.Object, nil
	}
	return nil, g.errf(cgerrors.UnsupportedAst, g.pos(e), "", "cannot infer a type for this expression")
}

func literalType(l *ast.Literal) types.Type {
	switch l.Kind {
	case ast.IntLiteral:
		return types.Int
	case ast.LongLiteral:
		return types.Long
	case ast.FloatLiteral:
		return types.Float
	case ast.DoubleLiteral:
		return types.Double
	case ast.CharLiteral:
		return types.Char
	case ast.StringLiteralKind:
		return types.StringClass
	case ast.BooleanLiteral:
		return types.Boolean
	default:
		return types.Object
	}
}

func (g *Generator) identifierType(mc *methodContext, name string, e ast.Expr) (types.Type, error) {
	if mc != nil {
		if lv, ok := mc.locals[name]; ok {
			return lv.typ, nil
		}
	}
	f, err := g.resolver.FindField(g.internalName, name)
	if err != nil {
		return nil, err
	}
	if f != nil {
		return f.Type, nil
	}
	return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(e), name, "cannot resolve name %q", name)
}

func (g *Generator) fieldAccessType(mc *methodContext, expr *ast.FieldAccessExpr) (types.Type, error) {
	owner, err := g.typeOf(mc, expr.Target)
	if err != nil {
		return nil, err
	}
	cls, ok := owner.(types.Class)
	if !ok {
		if arr, ok2 := owner.(types.Array); ok2 && expr.Field == "length" {
			_ = arr
			return types.Int, nil
		}
		return types.Object, nil
	}
	f, err := g.resolver.FindField(cls.Internal, expr.Field)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, g.errf(cgerrors.UnresolvedSymbol, g.pos(expr), cls.Internal+"."+expr.Field, "cannot resolve field %q on %s", expr.Field, cls.Internal)
	}
	return f.Type, nil
}

func (g *Generator) qualifiedNameType(mc *methodContext, expr *ast.QualifiedName) (types.Type, error) {
	// A qualified name not yet disambiguated into a field-access chain
	// is resolved the same way expr_name.go's compileQualifiedName
	// disambiguates it: try it as a static-field chain rooted at a
	// resolvable class.
	return g.resolveQualifiedNameType(mc, expr.Parts)
}

func (g *Generator) binaryExprType(mc *methodContext, e *ast.BinaryExpr) (types.Type, error) {
	switch e.Operator {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return types.Boolean, nil
	}
	lt, err := g.typeOf(mc, e.Left)
	if err != nil {
		return nil, err
	}
	if e.Operator == "+" {
		if isStringType(lt) {
			return types.StringClass, nil
		}
	}
	rt, err := g.typeOf(mc, e.Right)
	if err != nil {
		return nil, err
	}
	if e.Operator == "+" && (isStringType(lt) || isStringType(rt)) {
		return types.StringClass, nil
	}
	switch e.Operator {
	case "<<", ">>", ">>>":
		return types.UnaryPromote(lt), nil
	default:
		return types.PromotedType(lt, rt), nil
	}
}

func isStringType(t types.Type) bool {
	c, ok := t.(types.Class)
	return ok && c.Internal == "java/lang/String"
}
