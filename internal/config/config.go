package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/koskimas/schemagen/internal/typemap"
	"gopkg.in/yaml.v3"
)

const (
	FileName          = "schemagen.yaml"
	CurrentVersion    = 1
	DefaultTarget     = typemap.TargetCpp
	DefaultNamespace  = "SimuCore"
	DefaultBaseConfig = "SimuCoreBaseConfig.json"
)

type Config struct {
	Version    int    `yaml:"version"`
	Target     string `yaml:"target"`
	Namespace  string `yaml:"namespace"`
	Package    string `yaml:"package"`
	JSONHeader string `yaml:"jsonHeader"`
	// Types holds primitive type overrides per target, e.g. types.cpp.integer.
	Types      map[string]map[string]string `yaml:"types"`
	BaseConfig BaseConfig                   `yaml:"baseConfig"`
	Schemas    []Schema                     `yaml:"schemas"`
}

type BaseConfig struct {
	Path     string `yaml:"path"`
	Required bool   `yaml:"required"`
	Instance string `yaml:"instance"`
}

type Schema struct {
	Path      string `yaml:"path"`
	Out       string `yaml:"out"`
	Target    string `yaml:"target"`
	Namespace string `yaml:"namespace"`
	Package   string `yaml:"package"`
	// BaseConfig renders the base configuration into this schema's output.
	BaseConfig bool `yaml:"baseConfig"`
}

func Read(configPath string) (*Config, error) {
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf(`failed to read config file "%s": %w`, configPath, err)
	}

	config, err := Parse(fileData)
	if err != nil {
		return nil, fmt.Errorf(`invalid config file "%s": %w`, configPath, err)
	}

	return config, nil
}

// Parse decodes a config document, fills in defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var config Config
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.Target == "" {
		c.Target = string(DefaultTarget)
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.BaseConfig.Path == "" {
		c.BaseConfig.Path = DefaultBaseConfig
	}

	for i := range c.Schemas {
		s := &c.Schemas[i]
		if s.Target == "" {
			s.Target = c.Target
		}
		if s.Namespace == "" {
			s.Namespace = c.Namespace
		}
		if s.Package == "" {
			s.Package = c.Package
		}
	}
}

func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf(`unsupported config version %d (expected %d)`, c.Version, CurrentVersion)
	}

	for target := range c.Types {
		if _, err := typemap.ParseTarget(target); err != nil {
			return fmt.Errorf("in types: %w", err)
		}
	}

	if len(c.Schemas) == 0 {
		return fmt.Errorf("no schemas configured")
	}

	outputs := make(map[string]int)
	for i, s := range c.Schemas {
		if s.Path == "" {
			return fmt.Errorf(`schemas[%d]: missing "path"`, i)
		}
		if s.Out == "" {
			return fmt.Errorf(`schemas[%d]: missing "out"`, i)
		}
		if _, err := typemap.ParseTarget(s.Target); err != nil {
			return fmt.Errorf(`schemas[%d]: %w`, i, err)
		}
		if j, ok := outputs[s.Out]; ok {
			return fmt.Errorf(`schemas[%d] and schemas[%d] both write "%s"`, j, i, s.Out)
		}
		outputs[s.Out] = i
	}

	return nil
}

// TypesFor returns the primitive type overrides of one target.
func (c *Config) TypesFor(target typemap.Target) map[string]string {
	return c.Types[string(target)]
}
