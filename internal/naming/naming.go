// Package naming derives identifiers for synthesized types from their position
// in the schema tree.
//
// A nested type is named parent + Pascal(field) + suffix. Two sibling fields whose
// names only differ in case or separators ("mode", "Mode", "mo_de") map to the same
// name; callers detect that and fail instead of letting one definition replace
// the other.
package naming

import (
	"strings"
	"unicode"
)

const (
	ItemSuffix = "Item"
	EnumSuffix = "Enum"
)

// TypeName is the name of a type synthesized for field under parent.
func TypeName(parent string, field string, suffix string) string {
	return parent + Pascal(field) + suffix
}

// Pascal converts a property name to PascalCase. Words are split on any rune
// that is not a letter or digit and before upper case letters; a name written
// entirely in upper case is treated as a single word.
func Pascal(name string) string {
	var b strings.Builder
	for _, w := range words(name) {
		b.WriteString(title(w))
	}
	return b.String()
}

// Exported converts a property name to an exported Go identifier, writing the
// given initialisms in upper case (e.g. "user_id" -> "UserID").
func Exported(name string, initialisms map[string]bool) string {
	var b strings.Builder
	for _, w := range words(name) {
		if initialisms[w] {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		b.WriteString(title(w))
	}

	out := b.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "X" + out
	}
	return out
}

// Identifier replaces every rune that cannot appear in a C-like identifier with
// an underscore and prefixes names that would start with a digit.
func Identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func words(name string) []string {
	if strings.ToUpper(name) == name {
		name = strings.ToLower(name)
	}

	var (
		current []rune
		parts   []string
	)

	flush := func() {
		if len(current) > 0 {
			parts = append(parts, string(current))
			current = nil
		}
	}

	for _, r := range name {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			flush()
			current = []rune{unicode.ToLower(r)}
		default:
			current = append(current, r)
		}
	}
	flush()

	return parts
}

func title(w string) string {
	rs := []rune(w)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
