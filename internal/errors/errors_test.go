package errors

import (
	goerrors "errors"
	"strings"
	"testing"

	"github.com/cwbudde/go-javac/internal/ast"
)

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	e := New(TypeMismatch, ast.Position{Line: 2, Column: 5}, "incompatible types", "Widget.run",
		"class Widget {\n  int x = \"oops\";\n}\n", "Widget.java")

	got := e.Format(false)
	if !strings.Contains(got, "Widget.java:2:5") {
		t.Errorf("Format() missing file:line:col header: %q", got)
	}
	if !strings.Contains(got, "int x = \"oops\";") {
		t.Errorf("Format() missing source line: %q", got)
	}
	if !strings.Contains(got, "^") {
		t.Errorf("Format() missing caret: %q", got)
	}
	if !strings.Contains(got, "Widget.run") {
		t.Errorf("Format() missing symbol: %q", got)
	}
}

func TestFormatWithoutSourceOmitsCaretLine(t *testing.T) {
	e := New(InternalError, ast.Position{Line: 1, Column: 1}, "unreachable", "", "", "")
	got := e.Format(false)
	if strings.Contains(got, "^") {
		t.Errorf("Format() should omit caret when source is unavailable: %q", got)
	}
}

func TestErrorImplementsErrorInterface(t *testing.T) {
	var err error = New(UnresolvedSymbol, ast.Position{}, "cannot resolve foo", "", "", "")
	if err.Error() == "" {
		t.Error("expected non-empty error message")
	}
}

func TestFormatErrorsEmpty(t *testing.T) {
	if got := FormatErrors(nil, false); got != "" {
		t.Errorf("FormatErrors(nil) = %q, want empty", got)
	}
}

func TestFormatErrorsSingle(t *testing.T) {
	errs := []*CodeGenError{New(TypeMismatch, ast.Position{Line: 1, Column: 1}, "bad", "", "", "")}
	got := FormatErrors(errs, false)
	if strings.Contains(got, "compilation failed") {
		t.Errorf("single-error FormatErrors should not use the batch header: %q", got)
	}
}

func TestFormatErrorsBatch(t *testing.T) {
	errs := []*CodeGenError{
		New(TypeMismatch, ast.Position{Line: 1, Column: 1}, "first", "", "", ""),
		New(UnresolvedSymbol, ast.Position{Line: 2, Column: 1}, "second", "", "", ""),
	}
	got := FormatErrors(errs, false)
	if !strings.Contains(got, "2 error(s)") {
		t.Errorf("expected batch count in output: %q", got)
	}
	if !strings.Contains(got, "[1/2]") || !strings.Contains(got, "[2/2]") {
		t.Errorf("expected per-error index markers: %q", got)
	}
}

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		UnsupportedAst:    "unsupported AST node",
		UnresolvedSymbol:  "unresolved symbol",
		AmbiguousOverload: "ambiguous overload",
		TypeMismatch:      "type mismatch",
		InvalidModifier:   "invalid modifier",
		ClassTooLarge:     "class too large",
		MethodTooLarge:    "method too large",
		ClassNotFound:     "class not found",
		CorruptClass:      "corrupt class",
		InternalError:     "internal error",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestWrapChainsCauseForErrorsIs(t *testing.T) {
	sentinel := goerrors.New("missing class java/util/Frobnicator")
	e := Wrap(ClassNotFound, ast.Position{Line: 3, Column: 1}, sentinel, "", "", "Widget.java")
	if !goerrors.Is(e, sentinel) {
		t.Error("errors.Is should see through CodeGenError.Unwrap() to the wrapped cause")
	}
	if e.Message != sentinel.Error() {
		t.Errorf("Wrap should seed Message from the cause: got %q", e.Message)
	}
}
