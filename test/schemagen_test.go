package test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/koskimas/schemagen/internal/cmd"
	assert "github.com/stretchr/testify/require"
)

func TestSchemagen(t *testing.T) {
	dir := copyProject(t, "simucore")

	err := cmd.Run(cmd.Settings{
		WorkingDir: dir,
	})
	assert.NoError(t, err)

	config := readOutput(t, dir, "include/SimuCore/SimuCoreBaseConfig.hpp")
	for _, part := range []string{
		"#ifndef SIMUCORE_SIMUCOREBASECONFIG_HPP",
		"enum class SimuCoreBaseConfigModeEnum {\n  FAST,\n  SLOW\n};",
		"struct SimuCoreBaseConfigBootBoot2 {\n  int32_t test1{};\n  std::vector<std::string> test2{};\n};",
		"struct SimuCoreBaseConfigBoot {\n  SimuCoreBaseConfigBootBoot2 boot2{};\n};",
		"  int32_t sample_frequency = 100;\n",
		"  bool enable_webserver = true;\n",
		"  SimuCoreBaseConfigModeEnum mode = SimuCoreBaseConfigModeEnum::FAST;\n",
		"inline const SimuCoreBaseConfig config_instance = {\n" +
			"  250, // sample_frequency\n" +
			"  true, // log_enabled\n" +
			"  {}, // enable_webserver\n" +
			"  SimuCoreBaseConfigModeEnum::SLOW, // mode\n" +
			"  {{7, {\"a\", \"b\"}}}, // boot\n" +
			"  \"hello\" // blah\n" +
			"};",
	} {
		assert.Contains(t, config, part)
	}

	protocol := readOutput(t, dir, "include/SimuCore/SubscribeProtocol.hpp")
	for _, part := range []string{
		"#ifndef SIMUCORE_SUBSCRIBEPROTOCOL_HPP",
		"enum class SubscribeProtocolCommandEnum {\n  UPDATE_PARAMETERS,\n  SUBSCRIBE,\n  UPDATE_PHYSICAL_SIGNALS\n};",
		"struct SubscribeProtocolPayloadItem {\n  int32_t id{};\n  int32_t frequency{};\n};",
		"SubscribeProtocolCommandEnum command = SubscribeProtocolCommandEnum::SUBSCRIBE;",
		"std::vector<SubscribeProtocolPayloadItem> payload{};",
	} {
		assert.Contains(t, protocol, part)
	}
	assert.NotContains(t, protocol, "config_instance")

	goProtocol := readOutput(t, dir, "go/protocol/subscribe.go")
	for _, part := range []string{
		"package protocol",
		"SubscribeProtocolCommandEnumUpdateParameters SubscribeProtocolCommandEnum = iota",
		"type SubscribeProtocolPayloadItem struct {",
		"func NewSubscribeProtocol() SubscribeProtocol {",
	} {
		assert.Contains(t, goProtocol, part)
	}
}

func TestSchemagenIsIdempotent(t *testing.T) {
	dir := copyProject(t, "simucore")
	assert.NoError(t, cmd.Run(cmd.Settings{WorkingDir: dir}))

	path := filepath.Join(dir, "include/SimuCore/SimuCoreBaseConfig.hpp")
	before, err := os.Stat(path)
	assert.NoError(t, err)

	assert.NoError(t, cmd.Run(cmd.Settings{WorkingDir: dir}))

	after, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestSchemagenRequiresBaseConfig(t *testing.T) {
	dir := copyProject(t, "simucore")
	assert.NoError(t, os.Remove(filepath.Join(dir, "SimuCoreBaseConfig.json")))

	err := cmd.Run(cmd.Settings{WorkingDir: dir})

	var setup *cmd.SetupError
	assert.True(t, errors.As(err, &setup), "%v", err)
	assert.Contains(t, err.Error(), "SimuCoreBaseConfig.json")

	_, err = os.Stat(filepath.Join(dir, "include"))
	assert.True(t, os.IsNotExist(err))
}

func TestSchemagenRejectsInvalidBaseConfig(t *testing.T) {
	dir := copyProject(t, "simucore")
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "SimuCoreBaseConfig.json"), []byte(`{"mode": "MEDIUM", "sample_frequency": 1.5}`), 0o644))

	err := cmd.Run(cmd.Settings{WorkingDir: dir})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MEDIUM")
	assert.Contains(t, err.Error(), "missing required property")
}
