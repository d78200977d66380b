// Package config loads and validates the inetconv configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Input formats.
const (
	FormatLines = "lines"
	FormatCSV   = "csv"
	FormatMMDB  = "mmdb"
)

// FormatParquet is an output-only format.
const FormatParquet = "parquet"

// Input flavors.
const (
	FlavorText = "text"
	FlavorHex  = "hex"
)

// InputColumnName is the name of the column holding the raw input in tabular
// output. Configured columns may not use it.
const InputColumnName = "input"

// Functions lists the function names a column may use.
var Functions = []string{
	"inet_aton",
	"inet_ntoa",
	"inet6_aton",
	"inet6_ntoa",
	"is_ipv4",
	"is_ipv6",
	"is_ipv4_compat",
	"is_ipv4_mapped",
	"canonical",
}

// Config is the top-level configuration.
type Config struct {
	Input   Input    `toml:"input" yaml:"input"`
	Output  Output   `toml:"output" yaml:"output"`
	Columns []Column `toml:"columns" yaml:"columns" validate:"required,min=1,unique=Name,dive"`
}

// Input describes where addresses are read from.
type Input struct {
	Path   string `toml:"path" yaml:"path" validate:"required"`
	Format string `toml:"format" yaml:"format" validate:"oneof=lines csv mmdb"`
	// Column is the CSV header of the address column.
	Column string `toml:"column" yaml:"column" validate:"required_if=Format csv"`
	Flavor string `toml:"flavor" yaml:"flavor" validate:"oneof=text hex"`
}

// Output describes where and how results are written.
type Output struct {
	Format          string `toml:"format" yaml:"format" validate:"oneof=csv parquet mmdb"`
	File            string `toml:"file" yaml:"file" validate:"required_unless=Format mmdb"`
	IPv4File        string `toml:"ipv4_file" yaml:"ipv4_file"`
	IPv6File        string `toml:"ipv6_file" yaml:"ipv6_file"`
	IncludeInput    *bool  `toml:"include_input" yaml:"include_input"`
	IncludeRejected *bool  `toml:"include_rejected" yaml:"include_rejected"`
	MMDB            MMDB   `toml:"mmdb" yaml:"mmdb"`
}

// MMDB holds options for MaxMind DB output.
type MMDB struct {
	DatabaseType            string            `toml:"database_type" yaml:"database_type"`
	Description             map[string]string `toml:"description" yaml:"description"`
	RecordSize              *int              `toml:"record_size" yaml:"record_size" validate:"omitempty,oneof=24 28 32"`
	IncludeReservedNetworks *bool             `toml:"include_reserved_networks" yaml:"include_reserved_networks"`
}

// Column is one computed output column.
type Column struct {
	Name     string `toml:"name" yaml:"name" validate:"required,ne=input"`
	Function string `toml:"function" yaml:"function" validate:"required,function"`
	// Argument names an earlier column whose value is passed to Function
	// instead of the input.
	Argument string `toml:"argument" yaml:"argument"`
	// OutputPath places the value in nested maps in MMDB output. It defaults
	// to [Name].
	OutputPath []string `toml:"output_path" yaml:"output_path" validate:"omitempty,dive,required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("function", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		for _, fn := range Functions {
			if fn == name {
				return true
			}
		}
		return false
	})
	if err != nil {
		panic(fmt.Sprintf("registering function validation: %v", err))
	}
	return v
}

// Load reads, defaults and validates the configuration at path. Files ending
// in .yaml or .yml are parsed as YAML, anything else as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		cfg, err = ParseTOML(data)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseTOML parses, defaults and validates a TOML configuration.
func ParseTOML(data []byte) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("parsing TOML config: %s", strict.String())
		}
		return nil, fmt.Errorf("parsing TOML config: %w", err)
	}
	return finish(&cfg)
}

// ParseYAML parses, defaults and validates a YAML configuration.
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML config: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Input.Format == "" {
		c.Input.Format = FormatLines
	}
	if c.Input.Flavor == "" {
		c.Input.Flavor = FlavorText
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatCSV
	}
	if c.Output.IncludeInput == nil {
		c.Output.IncludeInput = ptr(true)
	}
	if c.Output.IncludeRejected == nil {
		c.Output.IncludeRejected = ptr(true)
	}
	if c.Output.MMDB.DatabaseType == "" {
		c.Output.MMDB.DatabaseType = "inetconv"
	}
	if c.Output.MMDB.RecordSize == nil {
		c.Output.MMDB.RecordSize = ptr(28)
	}
	if c.Output.MMDB.IncludeReservedNetworks == nil {
		c.Output.MMDB.IncludeReservedNetworks = ptr(true)
	}
}

// Validate checks field constraints and the relations between columns.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		msgs := make([]string, len(verrs))
		for i, e := range verrs {
			msgs[i] = formatFieldError(e)
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}

	if c.Output.Format == FormatMMDB && c.Output.IPv4File == "" && c.Output.IPv6File == "" {
		return fmt.Errorf("%w: mmdb output requires ipv4_file or ipv6_file", ErrInvalid)
	}

	seen := map[string]bool{}
	for _, col := range c.Columns {
		if col.Argument != "" && !seen[col.Argument] {
			return fmt.Errorf(
				"%w: column '%s' takes its argument from '%s', which is not an earlier column",
				ErrInvalid,
				col.Name,
				col.Argument,
			)
		}
		seen[col.Name] = true
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	switch e.Tag() {
	case "required", "required_if", "required_unless":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got '%v'", field, e.Param(), e.Value())
	case "unique":
		return field + " must have unique names"
	case "ne":
		return fmt.Sprintf("%s may not be '%s'", field, e.Param())
	case "function":
		return fmt.Sprintf("%s: unknown function '%v'", field, e.Value())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, e.Param())
	default:
		return fmt.Sprintf("%s failed '%s' validation", field, e.Tag())
	}
}

// Path returns the MMDB output path of the column.
func (c Column) Path() []string {
	if len(c.OutputPath) == 0 {
		return []string{c.Name}
	}
	return c.OutputPath
}

func ptr[T any](v T) *T {
	return &v
}
