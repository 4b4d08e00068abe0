package driver

import (
	"testing"

	"github.com/cwbudde/go-javac/internal/ast"
)

func classUnit(name string, extends string, file string) Unit {
	var ext ast.TypeNode
	if extends != "" {
		ext = &ast.ClassType{Name: extends}
	}
	return Unit{
		File: file,
		AST: &ast.CompilationUnit{
			Types: []ast.TypeDecl{
				&ast.ClassDecl{Name: name, Extends: ext},
			},
		},
	}
}

func indexOf(units []Unit, file string) int {
	for i, u := range units {
		if u.File == file {
			return i
		}
	}
	return -1
}

func TestOrderPutsSupertypeBeforeSubtype(t *testing.T) {
	sub := classUnit("Dog", "Animal", "Dog.java")
	super := classUnit("Animal", "", "Animal.java")

	ordered := Order([]Unit{sub, super})

	if indexOf(ordered, "Animal.java") > indexOf(ordered, "Dog.java") {
		t.Errorf("expected Animal.java before Dog.java, got order %v",
			[]string{ordered[0].File, ordered[1].File})
	}
}

func TestOrderHandlesCycleWithoutPanicking(t *testing.T) {
	a := classUnit("A", "B", "A.java")
	b := classUnit("B", "A", "B.java")

	ordered := Order([]Unit{a, b})
	if len(ordered) != 2 {
		t.Fatalf("expected both units to survive a cycle, got %d", len(ordered))
	}
}

func TestOrderLeavesUnrelatedUnitsInInputOrder(t *testing.T) {
	a := classUnit("A", "", "A.java")
	b := classUnit("B", "", "B.java")

	ordered := Order([]Unit{a, b})
	if ordered[0].File != "A.java" || ordered[1].File != "B.java" {
		t.Errorf("expected stable input order for independent units, got %v",
			[]string{ordered[0].File, ordered[1].File})
	}
}

func TestOrderIsNoopForSingleUnit(t *testing.T) {
	a := classUnit("A", "", "A.java")
	ordered := Order([]Unit{a})
	if len(ordered) != 1 || ordered[0].File != "A.java" {
		t.Errorf("expected single-unit input back unchanged")
	}
}
