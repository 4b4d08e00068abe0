package resolve

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-javac/internal/types"
)

// UnresolvedSymbol is raised when no method, constructor, or field
// candidate matches (spec.md §4.5 "Failure").
type UnresolvedSymbol struct {
	Owner string
	Name  string
	Args  []types.Type // nil for a field lookup
}

func (e *UnresolvedSymbol) Error() string {
	if e.Args == nil {
		return fmt.Sprintf("cannot resolve symbol: %s.%s", e.Owner, e.Name)
	}
	argStrs := make([]string, len(e.Args))
	for i, a := range e.Args {
		argStrs[i] = a.String()
	}
	return fmt.Sprintf("cannot resolve symbol: %s.%s(%s)", e.Owner, e.Name, strings.Join(argStrs, ", "))
}
