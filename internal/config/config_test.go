package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/koskimas/schemagen/internal/typemap"
	assert "github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
schemas:
  - path: schemas/config.schema.json
    out: include/SimuCore/Config.hpp
    baseConfig: true
  - path: schemas/protocol.schema.yaml
    out: protocol/protocol.go
    target: go
    package: protocol
`))
	assert.NoError(t, err)

	assert.Equal(t, CurrentVersion, c.Version)
	assert.Equal(t, "cpp", c.Target)
	assert.Equal(t, DefaultNamespace, c.Namespace)
	assert.Equal(t, DefaultBaseConfig, c.BaseConfig.Path)
	assert.False(t, c.BaseConfig.Required)

	assert.Equal(t, []Schema{
		{
			Path:       "schemas/config.schema.json",
			Out:        "include/SimuCore/Config.hpp",
			Target:     "cpp",
			Namespace:  "SimuCore",
			BaseConfig: true,
		},
		{
			Path:      "schemas/protocol.schema.yaml",
			Out:       "protocol/protocol.go",
			Target:    "go",
			Namespace: "SimuCore",
			Package:   "protocol",
		},
	}, c.Schemas)
}

func TestParseTypeOverrides(t *testing.T) {
	c, err := Parse([]byte(`
version: 1
types:
  cpp:
    integer: int32_t
schemas:
  - {path: a.json, out: a.hpp}
`))
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"integer": "int32_t"}, c.TypesFor(typemap.TargetCpp))
	assert.Nil(t, c.TypesFor(typemap.TargetGo))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  string
	}{
		{"unknown key", "schemas: []\nnamespaces: x\n", "namespaces"},
		{"no schemas", "version: 1\n", "no schemas configured"},
		{"empty document", "", "no schemas configured"},
		{"bad version", "version: 2\nschemas: [{path: a, out: b}]\n", "unsupported config version 2"},
		{"missing path", "schemas: [{out: b}]\n", `schemas[0]: missing "path"`},
		{"missing out", "schemas: [{path: a}]\n", `schemas[0]: missing "out"`},
		{"bad target", "schemas: [{path: a, out: b, target: rust}]\n", `unknown target "rust"`},
		{"bad types target", "types: {rust: {}}\nschemas: [{path: a, out: b}]\n", `unknown target "rust"`},
		{"duplicate out", "schemas: [{path: a, out: b}, {path: c, out: b}]\n", `schemas[0] and schemas[1] both write "b"`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.src))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), test.err)
		})
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	assert.NoError(t, os.WriteFile(path, []byte("schemas: [{path: a.json, out: a.hpp}]\n"), 0o644))

	c, err := Read(path)
	assert.NoError(t, err)
	assert.Len(t, c.Schemas, 1)

	_, err = Read(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
