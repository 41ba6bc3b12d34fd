package doc

import (
	"fmt"
	"net/url"
	"strings"
)

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// JoinPointer appends escaped segments to a "#/..." pointer.
func JoinPointer(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)

	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(s))
	}

	return b.String()
}

// SplitPointer splits a same-document reference such as "#/$defs/Item" into
// its unescaped segments. "#" refers to the document root and yields no segments.
func SplitPointer(ref string) ([]string, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf(`reference "%s" does not point into the same document`, ref)
	}

	frag, err := url.PathUnescape(ref[1:])
	if err != nil {
		return nil, fmt.Errorf(`reference "%s" is not a valid fragment: %w`, ref, err)
	}

	if frag == "" {
		return nil, nil
	}
	if !strings.HasPrefix(frag, "/") {
		return nil, fmt.Errorf(`reference "%s" is not a JSON pointer`, ref)
	}

	parts := strings.Split(frag[1:], "/")
	for i, p := range parts {
		parts[i] = pointerUnescaper.Replace(p)
	}

	return parts, nil
}
