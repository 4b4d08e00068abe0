package emitter

import "fmt"

// InvalidBytecode is raised when the emitter detects its own
// invariant violated — an empty-stack pop, or a branch to a label
// that was never defined. Per spec.md §4.2 this is always a generator
// bug, never a reflection of bad source, so callers outside tests
// should treat it as unreachable rather than something to recover
// from gracefully.
type InvalidBytecode struct {
	Message string
}

func (e *InvalidBytecode) Error() string { return "invalid bytecode: " + e.Message }

func invalid(format string, args ...any) *InvalidBytecode {
	return &InvalidBytecode{Message: fmt.Sprintf(format, args...)}
}
