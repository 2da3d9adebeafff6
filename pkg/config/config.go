// Package config loads gosvelte.yaml / gosvelte.hcl project files.
package config

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/walteh/gosvelte/pkg/analysis"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultFiles are the names looked up, in order, when no config path is
// given.
var DefaultFiles = []string{"gosvelte.yaml", "gosvelte.yml", "gosvelte.hcl"}

type Config struct {
	ScopePrefix string   `yaml:"scope_prefix,omitempty" hcl:"scope_prefix,optional"`
	Include     []string `yaml:"include,omitempty" hcl:"include,optional"`
	Exclude     []string `yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Format      string   `yaml:"format,omitempty" hcl:"format,optional"`
	Color       *bool    `yaml:"color,omitempty" hcl:"color,optional"`
}

func Default() *Config {
	color := true
	return &Config{
		ScopePrefix: analysis.DefaultScopePrefix,
		Include:     []string{"**/*.svelte"},
		Exclude:     []string{"**/node_modules/**"},
		Format:      FormatText,
		Color:       &color,
	}
}

// Load reads the config at path. YAML is chosen by extension, anything
// else is parsed as HCL. Unset fields take their defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	default:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}

		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"default_scope_prefix": cty.StringVal(analysis.DefaultScopePrefix),
			},
		}

		diags = gohcl.DecodeBody(file.Body, ctx, &cfg)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	return &cfg, nil
}

// Find returns the first of DefaultFiles present in dir, or "" when there
// is none.
func Find(fs afero.Fs, dir string) (string, error) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
		if ok {
			return path, nil
		}
	}
	return "", nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.ScopePrefix == "" {
		c.ScopePrefix = def.ScopePrefix
	}
	if len(c.Include) == 0 {
		c.Include = def.Include
	}
	if c.Exclude == nil {
		c.Exclude = def.Exclude
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.Color == nil {
		c.Color = def.Color
	}
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var err error

	if strings.ContainsAny(c.ScopePrefix, " \t\r\n.#{}") {
		err = multierr.Append(err, errors.Errorf("scope_prefix %q is not a valid class name prefix", c.ScopePrefix))
	}

	switch c.Format {
	case FormatText, FormatJSON:
	default:
		err = multierr.Append(err, errors.Errorf("format %q must be %q or %q", c.Format, FormatText, FormatJSON))
	}

	for _, pattern := range c.Include {
		if !doublestar.ValidatePattern(pattern) {
			err = multierr.Append(err, errors.Errorf("include pattern %q is invalid", pattern))
		}
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			err = multierr.Append(err, errors.Errorf("exclude pattern %q is invalid", pattern))
		}
	}

	return err
}

// UseColor reports whether output should be colourised.
func (c *Config) UseColor() bool {
	return c.Color == nil || *c.Color
}
