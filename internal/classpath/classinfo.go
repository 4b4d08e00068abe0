// Package classpath resolves a binary class name (e.g. "java/util/List")
// to the parsed shape of its class file — fields, methods, super types,
// and signatures — by searching an ordered list of directories and jar
// archives (spec.md §4.3 "Class-path resolver").
package classpath

// FieldInfo is the subset of a class file's field_info a resolver
// consumer needs: enough to type-check a field access.
type FieldInfo struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Signature   string // empty if absent
}

// MethodInfo is the subset of a method_info a resolver consumer needs
// for overload resolution and invocation.
type MethodInfo struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Signature   string // empty if absent
	Exceptions  []string
}

// ClassInfo is the parsed shape of one resolved class file.
type ClassInfo struct {
	MajorVersion uint16
	MinorVersion uint16
	AccessFlags  uint16
	Name         string // this class's internal name
	SuperClass   string // empty only for java/lang/Object
	Interfaces   []string
	Fields       []FieldInfo
	Methods      []MethodInfo
	Signature    string // empty if absent
	SourceFile   string // empty if absent
}

// IsInterface reports whether the class file describes an interface.
func (c *ClassInfo) IsInterface() bool { return c.AccessFlags&0x0200 != 0 }
