package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/apishape/openapi"
)

// DefaultPath is the config file used when no path is given.
const DefaultPath = "apishape.yaml"

// DefaultContent is written by the init command.
const DefaultContent = `output:
  dir: "./build"
  formats:
    - json
    - html

server:
  addr: "127.0.0.1:3030"

log:
  level: "info"
  format: "text"

services:
  - name: "myservice"
    title: "API"
    version: "2.0.0"
    fields: "./openapi/services/myservice/fields"
    schemas:
      - name: "Person"
        fields:
          - first_name
          - middle_name
          - last_name
          - ssn
        properties:
          middle_name:
            type: string
            example: "M"
        presets:
          names:
            fields:
              - first_name
              - middle_name
              - last_name
`

var (
	validFormats   = []string{"json", "yaml", "html"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validLogFormat = []string{"text", "json"}
)

type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PresetConfig is a named field list of a schema. Required lists the
// preset fields marked required.
type PresetConfig struct {
	Fields   []string `yaml:"fields"`
	Required []string `yaml:"required"`
}

// SchemaConfig declares a schema over service fields. Fields are looked up
// in Properties first and in the service field directory second. Inline
// properties missing from Fields are appended in declaration order.
type SchemaConfig struct {
	Name       string                  `yaml:"name"`
	Fields     []string                `yaml:"fields"`
	Properties *openapi.Properties     `yaml:"properties"`
	Presets    map[string]PresetConfig `yaml:"presets"`
}

type ServiceConfig struct {
	Name        string           `yaml:"name"`
	Title       string           `yaml:"title"`
	Version     string           `yaml:"version"`
	Description string           `yaml:"description"`
	Fields      string           `yaml:"fields"`
	Servers     []openapi.Server `yaml:"servers"`
	Schemas     []SchemaConfig   `yaml:"schemas"`
}

type Config struct {
	Output   OutputConfig    `yaml:"output"`
	Server   ServerConfig    `yaml:"server"`
	Log      LogConfig       `yaml:"log"`
	Services []ServiceConfig `yaml:"services"`

	// BaseDir is the directory of the loaded config file. Relative service
	// field directories are resolved against it.
	BaseDir string `yaml:"-"`
}

// Load loads YAML config, then applies env overrides. A missing file
// yields the defaults.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		configPath = DefaultPath
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.BaseDir = filepath.Dir(configPath)
	cfg.SetDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Output.Dir == "" {
		c.Output.Dir = "./build"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"json"}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:3030"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	for i := range c.Services {
		if c.Services[i].Title == "" {
			c.Services[i].Title = c.Services[i].Name
		}
		if c.Services[i].Version == "" {
			c.Services[i].Version = "1.0.0"
		}
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir cannot be empty")
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(validFormats, f) {
			return fmt.Errorf("output.formats: unknown format %q", f)
		}
	}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if !slices.Contains(validLogFormat, c.Log.Format) {
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}

	seen := make(map[string]struct{}, len(c.Services))
	for i, svc := range c.Services {
		if strings.TrimSpace(svc.Name) == "" {
			return fmt.Errorf("services[%d].name cannot be empty", i)
		}
		if _, ok := seen[svc.Name]; ok {
			return fmt.Errorf("services[%d]: duplicate service %q", i, svc.Name)
		}
		seen[svc.Name] = struct{}{}

		if err := svc.validate(); err != nil {
			return fmt.Errorf("services[%d] %s: %w", i, svc.Name, err)
		}
	}

	return nil
}

// ValidateBundle enforces bundle-specific requirements.
func (c *Config) ValidateBundle() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Services) == 0 {
		return errors.New("services cannot be empty")
	}
	if err := ensureWritableDir(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir not writable: %w", err)
	}
	return nil
}

// FieldsDir returns the field directory of svc resolved against the config
// file location, or "" when the service has none.
func (c *Config) FieldsDir(svc ServiceConfig) string {
	if svc.Fields == "" || filepath.IsAbs(svc.Fields) {
		return svc.Fields
	}
	return filepath.Join(c.BaseDir, svc.Fields)
}

func (s ServiceConfig) validate() error {
	seen := make(map[string]struct{}, len(s.Schemas))
	for i, schema := range s.Schemas {
		if strings.TrimSpace(schema.Name) == "" {
			return fmt.Errorf("schemas[%d].name cannot be empty", i)
		}
		if _, ok := seen[schema.Name]; ok {
			return fmt.Errorf("schemas[%d]: duplicate schema %q", i, schema.Name)
		}
		seen[schema.Name] = struct{}{}

		for name, preset := range schema.Presets {
			for _, req := range preset.Required {
				if !slices.Contains(preset.Fields, req) {
					return fmt.Errorf("schema %s preset %s: required %q is not a preset field", schema.Name, name, req)
				}
			}
		}
	}
	return nil
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func applyEnvOverrides(c *Config) {
	setString(&c.Output.Dir, "APISHAPE_OUTPUT_DIR")
	setString(&c.Server.Addr, "APISHAPE_SERVER_ADDR")
	setString(&c.Log.Level, "APISHAPE_LOG_LEVEL")
	setString(&c.Log.Format, "APISHAPE_LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
