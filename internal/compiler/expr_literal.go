package compiler

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-javac/internal/ast"
	cgerrors "github.com/cwbudde/go-javac/internal/errors"
	"github.com/cwbudde/go-javac/internal/types"
)

// compileLiteral pushes a literal's value, parsing its original source
// text itself (spec.md's ast.Literal keeps Text raw) so radix prefixes,
// underscores, and type suffixes are handled exactly once, here.
func (g *Generator) compileLiteral(mc *methodContext, l *ast.Literal) (types.Type, error) {
	text := strings.ReplaceAll(l.Text, "_", "")
	switch l.Kind {
	case ast.IntLiteral:
		v, err := parseJavaInt(text)
		if err != nil {
			return nil, g.errf(cgerrors.InternalError, g.pos(l), "", "malformed int literal %q: %v", l.Text, err)
		}
		mc.emit.Iconst(v)
		return types.Int, nil
	case ast.LongLiteral:
		v, err := parseJavaLong(text)
		if err != nil {
			return nil, g.errf(cgerrors.InternalError, g.pos(l), "", "malformed long literal %q: %v", l.Text, err)
		}
		mc.emit.Lconst(v)
		return types.Long, nil
	case ast.FloatLiteral:
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(text, "f"), "F"), 32)
		if err != nil {
			return nil, g.errf(cgerrors.InternalError, g.pos(l), "", "malformed float literal %q: %v", l.Text, err)
		}
		mc.emit.Fconst(float32(v))
		return types.Float, nil
	case ast.DoubleLiteral:
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(text, "d"), "D"), 64)
		if err != nil {
			return nil, g.errf(cgerrors.InternalError, g.pos(l), "", "malformed double literal %q: %v", l.Text, err)
		}
		mc.emit.Dconst(v)
		return types.Double, nil
	case ast.CharLiteral:
		r := decodeCharLiteral(text)
		mc.emit.Iconst(int32(r))
		return types.Char, nil
	case ast.StringLiteralKind:
		mc.emit.LdcString(decodeStringLiteral(text))
		return types.StringClass, nil
	case ast.BooleanLiteral:
		v := int32(0)
		if text == "true" {
			v = 1
		}
		mc.emit.Iconst(v)
		return types.Boolean, nil
	case ast.NullLiteral:
		mc.emit.NullConst()
		return types.Object, nil
	default:
		return nil, g.errf(cgerrors.UnsupportedAst, g.pos(l), "", "unsupported literal kind")
	}
}

// parseJavaInt parses a Java int literal, including 0x/0b/0 radix
// prefixes and a trailing 'l'/'L' stray from a misclassified literal.
func parseJavaInt(text string) (int32, error) {
	text = strings.TrimSuffix(strings.TrimSuffix(text, "l"), "L")
	base, digits := javaRadix(text)
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		// Negative-looking literals (e.g. the min-int idiom written
		// without a preceding unary minus) still round-trip through
		// ParseInt.
		sv, serr := strconv.ParseInt(digits, base, 64)
		if serr != nil {
			return 0, err
		}
		return int32(sv), nil
	}
	return int32(v), nil
}

func parseJavaLong(text string) (int64, error) {
	text = strings.TrimSuffix(strings.TrimSuffix(text, "l"), "L")
	base, digits := javaRadix(text)
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

func javaRadix(text string) (int, string) {
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		return 16, text[2:]
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		return 2, text[2:]
	case len(text) > 1 && text[0] == '0':
		return 8, text[1:]
	default:
		return 10, text
	}
}

// decodeCharLiteral and decodeStringLiteral strip the surrounding
// quotes and unescape the small set of escapes the lexer leaves intact
// in Text (spec.md treats lexing as already done upstream, but the
// escape sequences themselves still need resolving into the actual
// UTF-16 code unit / code point values the constant pool stores).
func decodeCharLiteral(text string) rune {
	inner := strings.Trim(text, "'")
	unescaped := unescapeJava(inner)
	for _, r := range unescaped {
		return r
	}
	return 0
}

func decodeStringLiteral(text string) string {
	inner := strings.Trim(text, "\"")
	return unescapeJava(inner)
}

func unescapeJava(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '0':
			sb.WriteByte(0)
		case '\\':
			sb.WriteByte('\\')
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteByte('"')
		case 'u':
			if i+4 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					sb.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			sb.WriteByte(s[i])
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
