package doc

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func keys(v *Value) []string {
	var out []string
	for _, m := range v.Members {
		out = append(out, m.Key)
	}
	return out
}

func TestParseJSONKeepsMemberOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"zeta": 1, "alpha": "a", "mid": [true, null, 2.5]}`))
	assert.NoError(t, err)

	assert.Equal(t, KindObject, v.Kind)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys(v))

	zeta, ok := v.Get("zeta")
	assert.True(t, ok)
	assert.Equal(t, Number("1"), zeta)

	mid, _ := v.Get("mid")
	assert.Equal(t, Array(Bool(true), Null(), Number("2.5")), mid)
}

func TestParseJSONRejectsDuplicateKeys(t *testing.T) {
	_, err := ParseJSON([]byte(`{"a": 1, "a": 2}`))
	assert.ErrorContains(t, err, `duplicate key "a"`)
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	_, err := ParseJSON([]byte(`{} {}`))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(``))
	assert.Error(t, err)
}

func TestParseYAMLKeepsMemberOrder(t *testing.T) {
	v, err := ParseYAML([]byte("title: Config\nproperties:\n  b:\n    type: string\n  a:\n    type: integer\n    default: 3\n  c:\n    type: boolean\n    default: false\n"))
	assert.NoError(t, err)

	props, ok := v.Get("properties")
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "a", "c"}, keys(props))

	a, _ := props.Get("a")
	def, _ := a.Get("default")
	assert.Equal(t, Number("3"), def)

	c, _ := props.Get("c")
	def, _ = c.Get("default")
	assert.Equal(t, Bool(false), def)
}

func TestParseYAMLNumbers(t *testing.T) {
	v, err := ParseYAML([]byte("hex: 0x10\noctal: 0o17\nplain: -42\nfloat: 1.5e3\nfraction: 0.25\nbig: 18446744073709551615\n"))
	assert.NoError(t, err)

	for key, want := range map[string]string{
		"hex":      "16",
		"octal":    "15",
		"plain":    "-42",
		"float":    "1500",
		"fraction": "0.25",
		"big":      "18446744073709551615",
	} {
		got, ok := v.Get(key)
		assert.True(t, ok, key)
		assert.Equal(t, Number(want), got, key)
	}

	hex, _ := v.Get("hex")
	assert.True(t, hex.IsInteger())
}

func TestParseYAMLRejectsNonFiniteNumbers(t *testing.T) {
	_, err := ParseYAML([]byte("x:\n  default: .inf\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = ParseYAML([]byte("x: -.Inf\n"))
	assert.ErrorContains(t, err, "line 1")

	_, err = ParseYAML([]byte("x: .nan\n"))
	assert.ErrorContains(t, err, `".nan"`)
}

func TestParseDispatchesOnExtension(t *testing.T) {
	v, err := Parse("schema.yml", []byte("a: [1, 2]"))
	assert.NoError(t, err)
	a, _ := v.Get("a")
	assert.Len(t, a.Items, 2)

	_, err = Parse("schema.json", []byte("a: [1, 2]"))
	assert.Error(t, err)
}

func TestIsInteger(t *testing.T) {
	assert.True(t, Number("100").IsInteger())
	assert.True(t, Number("100.0").IsInteger())
	assert.True(t, Number("-3").IsInteger())
	assert.False(t, Number("1.5").IsInteger())
	assert.False(t, String("1").IsInteger())

	assert.True(t, Number("-9223372036854775808").IsInteger())
	assert.True(t, Number("9223372036854775807").IsInteger())
	assert.False(t, Number("9223372036854775808").IsInteger())
	assert.False(t, Number("1e19").IsInteger())
	assert.False(t, Number("-1e19").IsInteger())
	assert.False(t, Number("1e400").IsInteger())
}

func TestLookup(t *testing.T) {
	v, err := ParseJSON([]byte(`{"a": {"b": [10, 20]}}`))
	assert.NoError(t, err)

	a, ok := v.Lookup("a")
	assert.True(t, ok)
	b, ok := a.Lookup("b")
	assert.True(t, ok)
	second, ok := b.Lookup("1")
	assert.True(t, ok)
	assert.Equal(t, "20", second.Number)

	_, ok = b.Lookup("2")
	assert.False(t, ok)
	_, ok = a.Lookup("missing")
	assert.False(t, ok)
}

func TestPointers(t *testing.T) {
	assert.Equal(t, "#/properties/a~1b/items", JoinPointer("#", "properties", "a/b", "items"))

	segs, err := SplitPointer("#/$defs/a~1b~0c")
	assert.NoError(t, err)
	assert.Equal(t, []string{"$defs", "a/b~c"}, segs)

	segs, err = SplitPointer("#")
	assert.NoError(t, err)
	assert.Empty(t, segs)

	_, err = SplitPointer("other.json#/a")
	assert.Error(t, err)

	_, err = SplitPointer("#a")
	assert.Error(t, err)
}
