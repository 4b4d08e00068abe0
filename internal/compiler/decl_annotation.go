package compiler

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-javac/internal/ast"
	"github.com/cwbudde/go-javac/internal/classfile"
)

// compileAnnotations converts every annotation entry folded into mods
// (JLS's grammar treats an annotation as just another modifier, so
// *ast.Modifier carries either a Keyword or an Annotation, never both)
// into its RuntimeVisibleAnnotations form. Retention policy isn't
// tracked by this AST, so every annotation is emitted visible at
// runtime, matching the common case (spec.md §4.9 Non-goals excludes
// an annotation-processing module, not the attribute itself).
func (g *Generator) compileAnnotations(mods []*ast.Modifier) []*classfile.AnnotationInfo {
	var out []*classfile.AnnotationInfo
	for _, m := range mods {
		if m.Annotation == nil {
			continue
		}
		out = append(out, g.compileAnnotation(m.Annotation))
	}
	return out
}

func (g *Generator) compileAnnotation(a *ast.Annotation) *classfile.AnnotationInfo {
	info := &classfile.AnnotationInfo{TypeDescriptor: "L" + g.names.Resolve(a.Name) + ";"}
	for _, arg := range a.Arguments {
		name := arg.Name
		if name == "" {
			name = "value"
		}
		ev, ok := g.annotationElementValue(arg.Value)
		if !ok {
			continue
		}
		info.Elements = append(info.Elements, classfile.AnnotationElement{Name: name, Value: ev})
	}
	return info
}

// annotationElementValue converts one annotation argument expression
// into its constant-pool-free ElementValue form (JVMS 4.7.16.1); the
// second result is false for an expression form an annotation argument
// can't legally be (e.g. a method call), in which case the caller
// drops the element rather than failing the whole compilation.
func (g *Generator) annotationElementValue(e ast.Expr) (classfile.ElementValue, bool) {
	switch v := e.(type) {
	case *ast.Literal:
		return g.literalElementValue(v)
	case *ast.ArrayInitializerExpr:
		arr := make([]classfile.ElementValue, 0, len(v.Elements))
		for _, el := range v.Elements {
			if ev, ok := g.annotationElementValue(el); ok {
				arr = append(arr, ev)
			}
		}
		return classfile.ElementValue{Tag: '[', Array: arr}, true
	case *ast.ClassLiteralExpr:
		return classfile.ElementValue{Tag: 'c', Str: g.resolveType(v.Type).Descriptor()}, true
	case *ast.FieldAccessExpr:
		return g.enumElementValue(v.Target, v.Field)
	case *ast.QualifiedName:
		if len(v.Parts) >= 2 {
			owner := strings.Join(v.Parts[:len(v.Parts)-1], ".")
			return g.enumElementValue(&ast.QualifiedName{Parts: strings.Split(owner, ".")}, v.Parts[len(v.Parts)-1])
		}
		return classfile.ElementValue{}, false
	default:
		return classfile.ElementValue{}, false
	}
}

func (g *Generator) literalElementValue(l *ast.Literal) (classfile.ElementValue, bool) {
	text := strings.ReplaceAll(l.Text, "_", "")
	switch l.Kind {
	case ast.IntLiteral:
		v, err := parseJavaInt(text)
		if err != nil {
			return classfile.ElementValue{}, false
		}
		return classfile.ElementValue{Tag: 'I', I: int64(v)}, true
	case ast.LongLiteral:
		v, err := parseJavaLong(text)
		if err != nil {
			return classfile.ElementValue{}, false
		}
		return classfile.ElementValue{Tag: 'J', I: v}, true
	case ast.FloatLiteral:
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(text, "f"), "F"), 32)
		if err != nil {
			return classfile.ElementValue{}, false
		}
		return classfile.ElementValue{Tag: 'F', F32: float32(v)}, true
	case ast.DoubleLiteral:
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(text, "d"), "D"), 64)
		if err != nil {
			return classfile.ElementValue{}, false
		}
		return classfile.ElementValue{Tag: 'D', F64: v}, true
	case ast.CharLiteral:
		return classfile.ElementValue{Tag: 'C', I: int64(decodeCharLiteral(text))}, true
	case ast.StringLiteralKind:
		return classfile.ElementValue{Tag: 's', Str: decodeStringLiteral(text)}, true
	case ast.BooleanLiteral:
		v := int64(0)
		if text == "true" {
			v = 1
		}
		return classfile.ElementValue{Tag: 'Z', I: v}, true
	default:
		return classfile.ElementValue{}, false
	}
}

// enumElementValue converts an `EnumType.CONST`-shaped reference into
// an enum-constant element value; target must itself resolve to a
// plain type name (the common single-level case an annotation
// argument actually uses).
func (g *Generator) enumElementValue(target ast.Expr, constName string) (classfile.ElementValue, bool) {
	var typeName string
	switch t := target.(type) {
	case *ast.Identifier:
		typeName = t.Name
	case *ast.QualifiedName:
		typeName = strings.Join(t.Parts, ".")
	default:
		return classfile.ElementValue{}, false
	}
	desc := "L" + g.names.Resolve(typeName) + ";"
	return classfile.ElementValue{Tag: 'e', Enum: [2]string{desc, constName}}, true
}
