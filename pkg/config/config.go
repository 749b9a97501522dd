// Package config loads the cleaning configuration from a JSON, TOML or
// YAML file and overlays LAYOFFS_* environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	iox "github.com/wdm0006/layoffs/pkg/io/ioutils"
)

// EnvPrefix prefixes every environment override, e.g.
// LAYOFFS_OUTPUT_PATH or LAYOFFS_CLEANING_BACKFILL_KEYS=company,location.
// Leaf fields carry no envconfig tag, since envconfig also looks a tagged
// name up unprefixed and would read PATH into input.path.
const EnvPrefix = "LAYOFFS"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Input    InputConfig    `json:"input" toml:"input" yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `json:"output" toml:"output" yaml:"output" envconfig:"OUTPUT"`
	Log      LogConfig      `json:"log" toml:"log" yaml:"log" envconfig:"LOG"`
	Metrics  MetricsConfig  `json:"metrics" toml:"metrics" yaml:"metrics" envconfig:"METRICS"`
	Cleaning CleaningConfig `json:"cleaning" toml:"cleaning" yaml:"cleaning" envconfig:"CLEANING"`
}

type InputConfig struct {
	Path      string `json:"path" toml:"path" yaml:"path"`
	Type      string `json:"type" toml:"type" yaml:"type"` // csv|jsonl|xlsx|parquet, default from extension
	Delimiter string `json:"delimiter" toml:"delimiter" yaml:"delimiter"`
	Sheet     string `json:"sheet" toml:"sheet" yaml:"sheet"`
}

type OutputConfig struct {
	Path      string `json:"path" toml:"path" yaml:"path"`
	Type      string `json:"type" toml:"type" yaml:"type"` // csv|jsonl|xlsx|parquet|sqlite
	Delimiter string `json:"delimiter" toml:"delimiter" yaml:"delimiter"`
	Table     string `json:"table" toml:"table" yaml:"table"` // sqlite only, default "layoffs"
}

type LogConfig struct {
	Level  string `json:"level" toml:"level" yaml:"level"`
	Format string `json:"format" toml:"format" yaml:"format"`
}

type MetricsConfig struct {
	Textfile string `json:"textfile" toml:"textfile" yaml:"textfile"`
}

type CleaningConfig struct {
	DateLayout   string   `json:"date_layout" toml:"date_layout" yaml:"date_layout" split_words:"true"`
	NullTokens   []string `json:"null_tokens" toml:"null_tokens" yaml:"null_tokens" split_words:"true"`
	BackfillKeys []string `json:"backfill_keys" toml:"backfill_keys" yaml:"backfill_keys" split_words:"true"`
	Rules        []Rule   `json:"rules" toml:"rules" yaml:"rules" ignored:"true"`
	// ReplaceDefaultRules makes Rules the whole table instead of an
	// extension of the default one.
	ReplaceDefaultRules bool `json:"replace_default_rules" toml:"replace_default_rules" yaml:"replace_default_rules" split_words:"true"`
}

var (
	inputTypes  = map[string]bool{"csv": true, "jsonl": true, "xlsx": true, "parquet": true}
	outputTypes = map[string]bool{"csv": true, "jsonl": true, "xlsx": true, "parquet": true, "sqlite": true}
)

// Load reads the config file at path, applies .env files and the
// environment, fills defaults and validates the result.
func Load(path string, envFiles ...string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Decode(b, iox.Format(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses b as format ("json", "toml", "yaml" or "yml"). Unknown
// fields are rejected for JSON and TOML.
func Decode(b []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalid, format)
	}
	return &cfg, nil
}

// LoadDotEnv loads the given .env files (".env" when none are given) into
// the process environment. Missing files are skipped; variables already
// set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields with LAYOFFS_* variables that are set.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	return nil
}

// SetDefaults derives file types from extensions and names the sqlite table.
func (c *Config) SetDefaults() {
	if c.Input.Type == "" {
		c.Input.Type = iox.Format(c.Input.Path)
		if c.Input.Type == "" {
			c.Input.Type = "csv"
		}
	}
	if c.Output.Type == "" {
		switch ext := iox.Format(c.Output.Path); ext {
		case "db", "sqlite", "sqlite3":
			c.Output.Type = "sqlite"
		case "":
			c.Output.Type = "csv"
		default:
			c.Output.Type = ext
		}
	}
	if c.Output.Type == "sqlite" && c.Output.Table == "" {
		c.Output.Table = "layoffs"
	}
	c.Input.Type = strings.ToLower(c.Input.Type)
	c.Output.Type = strings.ToLower(c.Output.Type)
}

// Validate rejects unknown types, bad delimiters and broken rules.
func (c *Config) Validate() error {
	var errs []error
	if c.Input.Path == "" {
		errs = append(errs, errors.New("input.path is required"))
	}
	if !inputTypes[c.Input.Type] {
		errs = append(errs, fmt.Errorf("input.type %q is not one of csv, jsonl, xlsx, parquet", c.Input.Type))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("output.path is required"))
	}
	if !outputTypes[c.Output.Type] {
		errs = append(errs, fmt.Errorf("output.type %q is not one of csv, jsonl, xlsx, parquet, sqlite", c.Output.Type))
	}
	for name, d := range map[string]string{"input.delimiter": c.Input.Delimiter, "output.delimiter": c.Output.Delimiter} {
		if d != "" && utf8.RuneCountInString(d) != 1 {
			errs = append(errs, fmt.Errorf("%s %q must be a single character", name, d))
		}
	}
	if c.Metrics.Textfile != "" && filepath.Ext(c.Metrics.Textfile) != ".prom" {
		errs = append(errs, fmt.Errorf("metrics.textfile %q must end in .prom", c.Metrics.Textfile))
	}
	if err := c.Cleaning.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Delimiter returns the rune for a configured delimiter, or 0 to sniff.
func Delimiter(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}
