package typemap

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cpp, err := For(TargetCpp)
	assert.NoError(t, err)

	for tag, want := range map[string]string{
		"string":  "std::string",
		"integer": "int64_t",
		"number":  "double",
		"boolean": "bool",
	} {
		got, ok := cpp.Map(tag)
		assert.True(t, ok, tag)
		assert.Equal(t, want, got)
	}

	_, ok := cpp.Map("null")
	assert.False(t, ok)

	goMapper, err := For(TargetGo)
	assert.NoError(t, err)
	got, _ := goMapper.Map("number")
	assert.Equal(t, "float64", got)
}

func TestWithDoesNotMutateDefaults(t *testing.T) {
	cpp, err := For(TargetCpp)
	assert.NoError(t, err)

	custom := cpp.With(map[string]string{"integer": "uint32_t", "null": "std::nullptr_t"})

	got, _ := custom.Map("integer")
	assert.Equal(t, "uint32_t", got)
	got, ok := custom.Map("null")
	assert.True(t, ok)
	assert.Equal(t, "std::nullptr_t", got)

	again, _ := For(TargetCpp)
	got, _ = again.Map("integer")
	assert.Equal(t, "int64_t", got)
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("go")
	assert.NoError(t, err)
	assert.Equal(t, TargetGo, target)

	_, err = ParseTarget("rust")
	assert.ErrorContains(t, err, `unknown target "rust"`)

	assert.Equal(t, []Target{TargetCpp, TargetGo}, Targets())
}

func TestZeroMapperWith(t *testing.T) {
	var m Mapper
	got, ok := m.With(map[string]string{"string": "char*"}).Map("string")
	assert.True(t, ok)
	assert.Equal(t, "char*", got)
}
