package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const schema = `{
  "title": "Config",
  "properties": {
    "sample_frequency": {"type": "number", "default": 100},
    "mode": {"enum": ["FAST", "SLOW"], "default": "FAST"},
    "extra": {"type": ["string", "null"]}
  }
}`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestRunSingleSchema(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"config.schema.json": schema})
	logger, logs := observedLogger()

	err := Run(Settings{
		WorkingDir: dir,
		Logger:     logger,
		SchemaPath: "config.schema.json",
		OutputPath: "include/SimuCore/Config.hpp",
	})
	assert.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "include/SimuCore/Config.hpp"))
	assert.NoError(t, err)
	assert.Contains(t, string(content), "struct Config {")
	assert.Contains(t, string(content), "#ifndef SIMUCORE_CONFIG_HPP")

	warnings := logs.FilterLevelExact(zap.WarnLevel).All()
	assert.Len(t, warnings, 1)
	assert.Equal(t, "extra", warnings[0].ContextMap()["field"])
	generated := logs.FilterMessage("generated").All()
	assert.Len(t, generated, 1)
	assert.Regexp(t, `^[0-9a-f]{16}$`, generated[0].ContextMap()["digest"])

	err = Run(Settings{
		WorkingDir: dir,
		Logger:     logger,
		SchemaPath: "config.schema.json",
		OutputPath: "include/SimuCore/Config.hpp",
	})
	assert.NoError(t, err)
	unchanged := logs.FilterMessage("unchanged").All()
	assert.Len(t, unchanged, 1)
	assert.Equal(t, generated[0].ContextMap()["digest"], unchanged[0].ContextMap()["digest"])
}

func TestRunRequiresBaseConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"config.schema.json": schema})

	err := Run(Settings{
		WorkingDir:        dir,
		SchemaPath:        "config.schema.json",
		OutputPath:        "Config.hpp",
		RequireBaseConfig: true,
	})

	var setup *SetupError
	assert.True(t, errors.As(err, &setup), "%v", err)
	assert.Contains(t, err.Error(), `"SimuCoreBaseConfig.json"`)
	assert.Contains(t, err.Error(), "based on the schema")

	_, err = os.Stat(filepath.Join(dir, "Config.hpp"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunWithBaseConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"config.schema.json":      schema,
		"SimuCoreBaseConfig.json": `{"sample_frequency": 20, "mode": "SLOW"}`,
	})

	err := Run(Settings{
		WorkingDir:        dir,
		SchemaPath:        "config.schema.json",
		OutputPath:        "Config.hpp",
		RequireBaseConfig: true,
	})
	assert.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "Config.hpp"))
	assert.NoError(t, err)
	assert.Contains(t, string(content), "inline const Config config_instance = {\n  20, // sample_frequency\n  ConfigModeEnum::SLOW // mode\n};")
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"schemagen.yaml": `
namespace: Simu
baseConfig:
  instance: defaults
schemas:
  - path: schemas/config.schema.json
    out: include/Config.hpp
    baseConfig: true
  - path: schemas/config.schema.json
    out: go/settings/config.go
    target: go
`,
		"schemas/config.schema.json": schema,
		"SimuCoreBaseConfig.json":    `{"mode": "FAST"}`,
	})

	assert.NoError(t, Run(Settings{WorkingDir: dir}))

	hpp, err := os.ReadFile(filepath.Join(dir, "include/Config.hpp"))
	assert.NoError(t, err)
	assert.Contains(t, string(hpp), "namespace Simu {")
	assert.Contains(t, string(hpp), "inline const Config defaults = {")

	goSrc, err := os.ReadFile(filepath.Join(dir, "go/settings/config.go"))
	assert.NoError(t, err)
	assert.Contains(t, string(goSrc), "package settings")
	assert.NotContains(t, string(goSrc), "Defaults")
}

func TestRunConfigFileMissingBaseConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"schemagen.yaml":     "schemas: [{path: config.schema.json, out: Config.hpp, baseConfig: true}]\n",
		"config.schema.json": schema,
	})
	logger, logs := observedLogger()

	assert.NoError(t, Run(Settings{WorkingDir: dir, Logger: logger}))
	assert.Equal(t, 1, logs.FilterMessage("no base configuration found, generating types only").Len())

	err := Run(Settings{WorkingDir: dir, RequireBaseConfig: true})
	var setup *SetupError
	assert.True(t, errors.As(err, &setup), "%v", err)
}

func TestRunWritesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"schemagen.yaml": `
schemas:
  - {path: good.schema.json, out: Good.hpp}
  - {path: bad.schema.json, out: Bad.hpp}
`,
		"good.schema.json": schema,
		"bad.schema.json":  `{"title":"Bad","properties":{"peer":{"$ref":"#/$defs/Missing"}}}`,
	})

	err := Run(Settings{WorkingDir: dir})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad.schema.json")

	_, err = os.Stat(filepath.Join(dir, "Good.hpp"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunRequiresOutputPath(t *testing.T) {
	err := Run(Settings{WorkingDir: t.TempDir(), SchemaPath: "a.json"})
	assert.Error(t, err)
}
