// Package errors formats the compiler's diagnostics with source
// context, line/column information, and a caret pointing at the
// offending token, mirroring the teacher compiler's diagnostic style.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-javac/internal/ast"
)

// Kind categorizes a CodeGenError for callers that branch on failure
// class. The ten kinds mirror spec.md's error table exactly.
type Kind int

const (
	// UnsupportedAst is an AST node the generator recognizes but
	// deliberately does not lower (see spec.md's Non-goals).
	UnsupportedAst Kind = iota
	// UnresolvedSymbol is a method, constructor, field, or name lookup
	// that matched no candidate.
	UnresolvedSymbol
	// AmbiguousOverload is a call site where two or more candidates
	// are equally specific and neither wins the most-specific tie-break.
	AmbiguousOverload
	// TypeMismatch is a type-compatibility violation: an assignment,
	// argument, or operand whose type cannot be reconciled.
	TypeMismatch
	// InvalidModifier is a modifier combination the language forbids
	// (e.g. an abstract method with a body).
	InvalidModifier
	// ClassTooLarge is a constant pool or member table that overflows
	// its one- or two-byte count field.
	ClassTooLarge
	// MethodTooLarge is a method whose code exceeds 64 KB or whose
	// branch displacement exceeds a signed 16-bit offset.
	MethodTooLarge
	// ClassNotFound is a resolver failure to locate a required class
	// on the class-path.
	ClassNotFound
	// CorruptClass is a class-file metadata parse failure.
	CorruptClass
	// InternalError is an emitter invariant violated — unreachable in
	// a correctly functioning generator.
	InternalError
)

func (k Kind) String() string {
	switch k {
	case UnsupportedAst:
		return "unsupported AST node"
	case UnresolvedSymbol:
		return "unresolved symbol"
	case AmbiguousOverload:
		return "ambiguous overload"
	case TypeMismatch:
		return "type mismatch"
	case InvalidModifier:
		return "invalid modifier"
	case ClassTooLarge:
		return "class too large"
	case MethodTooLarge:
		return "method too large"
	case ClassNotFound:
		return "class not found"
	case CorruptClass:
		return "corrupt class"
	case InternalError:
		return "internal error"
	default:
		return "error"
	}
}

// CodeGenError is a single compilation diagnostic with position and
// source context.
type CodeGenError struct {
	Kind    Kind
	Message string
	Symbol  string // class/method/field name the error concerns, "" if none
	Source  string // the compilation unit's source text, "" if unavailable
	File    string
	Pos     ast.Position
	Cause   error // underlying error this diagnostic wraps, if any
}

// New creates a CodeGenError.
func New(kind Kind, pos ast.Position, message, symbol, source, file string) *CodeGenError {
	return &CodeGenError{Kind: kind, Pos: pos, Message: message, Symbol: symbol, Source: source, File: file}
}

// Wrap creates a CodeGenError that chains to cause via errors.Is/errors.As,
// for callers translating a lower-layer error (e.g. internal/resolve's or
// internal/classpath's own error values) into a diagnostic Kind.
func Wrap(kind Kind, pos ast.Position, cause error, symbol, source, file string) *CodeGenError {
	return &CodeGenError{Kind: kind, Pos: pos, Message: cause.Error(), Symbol: symbol, Source: source, File: file, Cause: cause}
}

// Error implements the error interface.
func (e *CodeGenError) Error() string {
	return e.Format(false)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *CodeGenError) Unwrap() error {
	return e.Cause
}

// Format renders the error with a source-line and caret, ANSI colored
// when color is true.
func (e *CodeGenError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d", e.Kind, e.Pos.Line, e.Pos.Column))
	}
	if e.Symbol != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Symbol))
	}
	sb.WriteString("\n")

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CodeGenError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors formats a batch of diagnostics the way the driver
// reports a multi-unit compile failure.
func FormatErrors(errs []*CodeGenError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("compilation failed with %d error(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(errs)))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
