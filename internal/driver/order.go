package driver

import (
	"strings"

	"github.com/cwbudde/go-javac/internal/ast"
)

// Order topologically sorts units so a unit declaring a supertype or
// interface another unit extends/implements compiles first (spec.md
// §6.4: "topologically orders them by declared type dependencies
// (packages, imports, extends/implements)"), falling back to the
// input order for any units a cycle or unresolved reference leaves
// untouched — this compiler doesn't reject cyclic or forward
// references (register.go's two-phase declare-then-compile already
// handles those within one unit; across units, a stable fallback
// avoids silently dropping a file a dependency scan couldn't place).
func Order(units []Unit) []Unit {
	n := len(units)
	if n <= 1 {
		return units
	}

	declaredBy := make(map[string]int, n) // simple type name -> unit index
	for i, u := range units {
		for _, td := range u.AST.Types {
			declaredBy[typeDeclName(td)] = i
		}
	}

	deps := make([][]int, n) // unit i depends on unit deps[i][...]
	for i, u := range units {
		seen := map[int]bool{}
		add := func(name string) {
			if j, ok := declaredBy[simpleName(name)]; ok && j != i && !seen[j] {
				seen[j] = true
				deps[i] = append(deps[i], j)
			}
		}
		for _, imp := range u.AST.Imports {
			if !imp.IsWildcard && !imp.IsStatic {
				add(imp.Name)
			}
		}
		for _, td := range u.AST.Types {
			for _, name := range referencedSupertypes(td) {
				add(name)
			}
		}
	}

	var order []int
	visited := make([]int, n) // 0=unvisited, 1=in-progress, 2=done
	var visit func(i int)
	visit = func(i int) {
		if visited[i] != 0 {
			return
		}
		visited[i] = 1
		for _, j := range deps[i] {
			visit(j)
		}
		visited[i] = 2
		order = append(order, i)
	}
	for i := 0; i < n; i++ {
		visit(i)
	}

	result := make([]Unit, len(order))
	for k, i := range order {
		result[k] = units[i]
	}
	return result
}

func typeDeclName(td ast.TypeDecl) string {
	switch t := td.(type) {
	case *ast.ClassDecl:
		return t.Name
	case *ast.InterfaceDecl:
		return t.Name
	case *ast.EnumDecl:
		return t.Name
	case *ast.AnnotationTypeDecl:
		return t.Name
	default:
		return ""
	}
}

func referencedSupertypes(td ast.TypeDecl) []string {
	var names []string
	addType := func(t ast.TypeNode) {
		if ct, ok := t.(*ast.ClassType); ok {
			names = append(names, ct.Name)
		}
	}
	switch t := td.(type) {
	case *ast.ClassDecl:
		if t.Extends != nil {
			addType(t.Extends)
		}
		for _, i := range t.Implements {
			addType(i)
		}
	case *ast.InterfaceDecl:
		for _, i := range t.Extends {
			addType(i)
		}
	case *ast.EnumDecl:
		for _, i := range t.Implements {
			addType(i)
		}
	}
	return names
}

func simpleName(dotted string) string {
	if idx := strings.LastIndexByte(dotted, '.'); idx >= 0 {
		return dotted[idx+1:]
	}
	return dotted
}
