package cpp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/model"
	"github.com/koskimas/schemagen/internal/naming"
)

var keywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "and_eq": true, "asm": true, "auto": true,
	"bitand": true, "bitor": true, "bool": true, "break": true, "case": true, "catch": true,
	"char": true, "class": true, "compl": true, "concept": true, "const": true, "consteval": true,
	"constexpr": true, "constinit": true, "const_cast": true, "continue": true, "decltype": true,
	"default": true, "delete": true, "do": true, "double": true, "dynamic_cast": true, "else": true,
	"enum": true, "explicit": true, "export": true, "extern": true, "false": true, "float": true,
	"for": true, "friend": true, "goto": true, "if": true, "inline": true, "int": true, "long": true,
	"mutable": true, "namespace": true, "new": true, "noexcept": true, "not": true, "not_eq": true,
	"nullptr": true, "operator": true, "or": true, "or_eq": true, "private": true, "protected": true,
	"public": true, "register": true, "reinterpret_cast": true, "requires": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true, "static_assert": true,
	"static_cast": true, "struct": true, "switch": true, "template": true, "this": true,
	"thread_local": true, "throw": true, "true": true, "try": true, "typedef": true, "typeid": true,
	"typename": true, "union": true, "unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "wchar_t": true, "while": true, "xor": true, "xor_eq": true,
}

// ident turns a schema name into a usable C++ identifier.
func ident(name string) string {
	id := naming.Identifier(name)
	if keywords[id] {
		id += "_"
	}
	return id
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
				continue
			}
			b.WriteByte(c)
		}
	}

	b.WriteByte('"')
	return b.String()
}

// commentText quotes s when it holds a control character or a backslash,
// either of which can break a line comment.
func commentText(s string) string {
	if strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || r == 0x7f || r == '\\' }) {
		return quote(s)
	}
	return s
}

// primitiveLiteral renders a scalar value for a field of the given schema type.
func primitiveLiteral(v *doc.Value, primitive string) (string, error) {
	switch primitive {
	case model.TypeString:
		if v.Kind == doc.KindString {
			return quote(v.String), nil
		}
	case model.TypeBoolean:
		if v.Kind == doc.KindBool {
			return strconv.FormatBool(v.Bool), nil
		}
	case model.TypeInteger:
		if v.IsInteger() {
			return integerLiteral(v.Number), nil
		}
	case model.TypeNumber:
		if v.Kind == doc.KindNumber {
			return v.Number, nil
		}
	}

	return "", fmt.Errorf(`cannot render %s as "%s"`, v.Kind, primitive)
}

// integerLiteral normalizes integral numbers written with a fraction or an
// exponent ("100.0", "1e3") so they can initialize integer members in braces.
func integerLiteral(n string) string {
	if _, err := strconv.ParseInt(n, 10, 64); err == nil {
		return n
	}

	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return n
	}
	return strconv.FormatInt(int64(f), 10)
}

func listLiteral(items []string) string {
	if len(items) == 0 {
		return "{}"
	}
	return "{" + strings.Join(items, ", ") + "}"
}
