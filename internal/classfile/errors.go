package classfile

import "fmt"

// Kind distinguishes the fatal, unrecoverable failures the class-file
// builder itself can raise (spec.md §4.1 "Failure").
type Kind int

const (
	ClassTooLarge Kind = iota
	MethodTooLarge
)

func (k Kind) String() string {
	switch k {
	case ClassTooLarge:
		return "ClassTooLarge"
	case MethodTooLarge:
		return "MethodTooLarge"
	default:
		return "UnknownClassFileError"
	}
}

// Error is raised (as a Go error, and sometimes as a panic value for
// deeply nested encoders where plumbing an error return would obscure
// the code — always recovered at the Builder.Finish boundary) when a
// size limit from spec.md §4.1 is exceeded.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newSizeError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}
