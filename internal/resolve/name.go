package resolve

import "strings"

// javaLangClasses lists the java.lang types implicitly imported by
// every compilation unit, matching original_source/pyjopa's
// JAVA_LANG_CLASSES table (spec.md §4.5 rule 2).
var javaLangClasses = map[string]bool{
	"Object": true, "String": true, "StringBuilder": true, "System": true,
	"Math": true, "Integer": true, "Long": true, "Double": true, "Float": true,
	"Boolean": true, "Character": true, "Byte": true, "Short": true,
	"Number": true, "Comparable": true, "Iterable": true, "Runnable": true,
	"Exception": true, "RuntimeException": true, "Error": true, "Throwable": true,
	"Class": true, "Enum": true, "Void": true, "CharSequence": true,
	"AssertionError": true, "IllegalArgumentException": true, "IllegalStateException": true,
	"NullPointerException": true, "ArithmeticException": true, "ClassCastException": true,
	"IndexOutOfBoundsException": true, "ArrayIndexOutOfBoundsException": true,
	"UnsupportedOperationException": true, "AutoCloseable": true,
}

// NameResolver applies spec.md §4.5's class-name resolution rule chain
// for one compilation unit: fully-qualified name, java.lang.* and
// single-type-import auto-import, the current class's own simple name,
// and finally same-package fallback.
type NameResolver struct {
	CurrentClass string            // internal name of the class being compiled
	Package      string            // "" for the default package
	SingleImports map[string]string // simple name -> internal name, from `import` declarations
}

// NewNameResolver builds a resolver for one compilation unit.
func NewNameResolver(currentClass string, singleImports map[string]string) *NameResolver {
	pkg := ""
	if idx := strings.LastIndexByte(currentClass, '/'); idx >= 0 {
		pkg = currentClass[:idx]
	}
	return &NameResolver{CurrentClass: currentClass, Package: pkg, SingleImports: singleImports}
}

// Resolve maps a source-level class name (simple or already qualified)
// to its internal name.
func (nr *NameResolver) Resolve(name string) string {
	if strings.Contains(name, "/") || strings.Contains(name, ".") {
		return strings.ReplaceAll(name, ".", "/")
	}
	if internal, ok := nr.SingleImports[name]; ok {
		return internal
	}
	if javaLangClasses[name] {
		return "java/lang/" + name
	}
	simple := name
	if idx := strings.LastIndexByte(nr.CurrentClass, '/'); idx >= 0 {
		simple = nr.CurrentClass[idx+1:]
	} else {
		simple = nr.CurrentClass
	}
	if name == nr.CurrentClass || name == simple {
		return nr.CurrentClass
	}
	if nr.Package == "" {
		return name
	}
	return nr.Package + "/" + name
}
