// Package resolve implements name resolution and overload selection
// against both the classes being compiled in this unit and classes
// reachable through an internal/classpath.Resolver (spec.md §4.5 "Name
// resolution").
package resolve

import (
	"fmt"

	"github.com/cwbudde/go-javac/internal/classpath"
	"github.com/cwbudde/go-javac/internal/types"
)

// LocalMethod is one overload of a method declared in the unit
// currently being compiled — not yet written to a class file, so it
// has no classpath.MethodInfo to read back.
type LocalMethod struct {
	Name     string
	Params   []types.Type
	Return   types.Type
	IsStatic bool
	Varargs  bool
}

func (m LocalMethod) descriptor() string {
	return types.Method{Return: m.Return, Params: m.Params}.Descriptor()
}

// LocalField is one field declared in the unit currently being compiled.
type LocalField struct {
	Name     string
	Type     types.Type
	IsStatic bool
}

// LocalClass is the registry of members the generator has declared for
// one class/interface/enum currently being compiled, indexed by the
// resolver so forward references (a method calling a sibling method
// declared later in the same file) resolve without a second pass.
type LocalClass struct {
	InternalName string
	SuperClass   string // "" only for java/lang/Object itself
	Interfaces   []string
	IsInterface  bool
	Methods      map[string][]LocalMethod // keyed by simple name
	Fields       map[string]LocalField
}

// NewLocalClass creates an empty member registry for internalName.
func NewLocalClass(internalName, superClass string, interfaces []string, isInterface bool) *LocalClass {
	return &LocalClass{
		InternalName: internalName,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		IsInterface:  isInterface,
		Methods:      make(map[string][]LocalMethod),
		Fields:       make(map[string]LocalField),
	}
}

// ResolvedMethod is the outcome of a successful method (or constructor,
// name "<init>") lookup: enough to emit the correct invoke* instruction.
type ResolvedMethod struct {
	Owner       string
	Name        string
	Descriptor  string
	IsStatic    bool
	IsInterface bool
	Return      types.Type
	Params      []types.Type
	Varargs     bool
}

// ResolvedField is the outcome of a successful field lookup.
type ResolvedField struct {
	Owner      string
	Descriptor string
	Type       types.Type
	IsStatic   bool
}

// Resolver performs member lookup across the classes declared in the
// current compilation unit plus the classpath, matching spec.md §4.5's
// "current unit first, then classpath" rule chain.
type Resolver struct {
	classpath *classpath.Resolver
	local     map[string]*LocalClass // keyed by internal name
	cache     map[string]*classpath.ClassInfo
}

// New creates a member resolver backed by cp (nil is legal: every
// lookup then only sees locally declared classes, useful for unit
// tests and for compiling a unit with no external dependencies).
func New(cp *classpath.Resolver) *Resolver {
	return &Resolver{
		classpath: cp,
		local:     make(map[string]*LocalClass),
		cache:     make(map[string]*classpath.ClassInfo),
	}
}

// Declare registers a class currently being compiled so its members
// are visible to resolution before its class file is finished.
func (r *Resolver) Declare(c *LocalClass) { r.local[c.InternalName] = c }

// IsInterface reports whether internalName names a known interface,
// either a local class still being compiled or one read from the
// classpath; an unresolvable name reports false (callers that need a
// bound's class-vs-interface distinction, e.g. a generic type
// parameter's bound list, fall back to treating it as a class in that
// case).
func (r *Resolver) IsInterface(internalName string) bool {
	lc, info, err := r.lookupClass(internalName)
	if err != nil {
		return false
	}
	if lc != nil {
		return lc.IsInterface
	}
	if info != nil {
		return info.IsInterface()
	}
	return false
}

func (r *Resolver) lookupClass(internalName string) (*LocalClass, *classpath.ClassInfo, error) {
	if lc, ok := r.local[internalName]; ok {
		return lc, nil, nil
	}
	if info, ok := r.cache[internalName]; ok {
		return nil, info, nil
	}
	if r.classpath == nil {
		return nil, nil, nil
	}
	info, err := r.classpath.Find(internalName)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve: %w", err)
	}
	if info != nil {
		r.cache[internalName] = info
	}
	return nil, info, nil
}

func classpathDescriptorType(desc string) types.Type {
	t, _, err := types.ParseDescriptor(desc)
	if err != nil {
		return types.Object
	}
	return t
}
