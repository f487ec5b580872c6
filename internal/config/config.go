// Package config defines the data structures related to configuration and
// includes functions for loading, normalizing and validating it.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/iwvelando/max-profit-solver/pkg/domain"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Input formats accepted by LoadConfigurationFromReader.
const (
	FormatYAML   = "yaml"
	FormatLegacy = "legacy"
)

// Configuration holds all configuration for max-profit-solver.
type Configuration struct {
	Logging     LoggingConfig     `yaml:"logging,omitempty" mapstructure:"logging"`
	Output      OutputConfig      `yaml:"output,omitempty" mapstructure:"output"`
	Solver      SolverConfig      `yaml:"solver,omitempty" mapstructure:"solver"`
	Sensitivity SensitivityConfig `yaml:"sensitivity,omitempty" mapstructure:"sensitivity"`
	Global      GlobalConfig      `yaml:"global" mapstructure:"global"`
	Products    []ProductConfig   `yaml:"products" mapstructure:"products" validate:"required,min=1,unique=Name,dive"`
	Objectives  []ObjectiveConfig `yaml:"objectives" mapstructure:"objectives" validate:"dive"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `yaml:"format,omitempty" mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional rotated file output
	MaxSizeMB  int    `yaml:"maxSizeMB,omitempty" mapstructure:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups,omitempty" mapstructure:"maxBackups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"maxAgeDays,omitempty" mapstructure:"maxAgeDays" validate:"gte=0"`
	Compress   bool   `yaml:"compress,omitempty" mapstructure:"compress"`
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// SolverConfig tunes the simplex.
type SolverConfig struct {
	Tolerance float64 `yaml:"tolerance,omitempty" mapstructure:"tolerance" validate:"gte=0"`
}

// SensitivityConfig lists the profit percentage deltas analyzed after a solve.
type SensitivityConfig struct {
	Deltas []float64 `yaml:"deltas,omitempty" mapstructure:"deltas"`
}

// Range is a closed [Min, Max] interval. In YAML it may be written as a
// two-element list, a "min, max" string or a min/max mapping.
type Range struct {
	Min float64 `yaml:"min" mapstructure:"min"`
	Max float64 `yaml:"max" mapstructure:"max" validate:"gtefield=Min"`
}

// GlobalConfig holds the economy-wide caps.
type GlobalConfig struct {
	Budget   Range `yaml:"budget" mapstructure:"budget"`
	Profit   Range `yaml:"profit,omitempty" mapstructure:"profit"`
	ManHours Range `yaml:"manHours,omitempty" mapstructure:"manHours"`
}

// ProductConfig holds the declared ranges of one product.
type ProductConfig struct {
	Name           string `yaml:"name" mapstructure:"name" validate:"required"`
	Cost           Range  `yaml:"cost" mapstructure:"cost"`
	Profit         Range  `yaml:"profit" mapstructure:"profit"`
	Demand         Range  `yaml:"demand" mapstructure:"demand"`
	Budget         Range  `yaml:"budget" mapstructure:"budget"`
	ManHourPerUnit Range  `yaml:"manHourPerUnit" mapstructure:"manHourPerUnit"`
	TotalManHours  Range  `yaml:"totalManHours,omitempty" mapstructure:"totalManHours"`
}

// ObjectiveConfig is one ranked goal.
type ObjectiveConfig struct {
	Name      string `yaml:"name" mapstructure:"name" validate:"required"`
	Direction string `yaml:"direction" mapstructure:"direction" validate:"oneof=maximize minimize"`
	Rank      int    `yaml:"rank" mapstructure:"rank" validate:"min=1,max=10"`
}

// LoadConfiguration takes a file path as input and loads the configuration
// there. Files ending in .config, .ini or .cfg use the legacy key/value
// format; everything else is read as YAML. The result is normalized and
// validated.
func LoadConfiguration(configPath string) (*Configuration, error) {
	if IsLegacyPath(configPath) {
		conf, err := ParseLegacyFile(configPath)
		if err != nil {
			return nil, err
		}
		return finish(conf)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType(FormatYAML)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a configuration of the given format
// (FormatYAML or FormatLegacy) from r.
func LoadConfigurationFromReader(r io.Reader, format string) (*Configuration, error) {
	switch strings.ToLower(format) {
	case FormatLegacy:
		conf, err := ParseLegacy(r)
		if err != nil {
			return nil, err
		}
		return finish(conf)
	case FormatYAML, "yml", "":
		v := viper.New()
		v.SetConfigType(FormatYAML)
		if err := v.ReadConfig(r); err != nil {
			return nil, fmt.Errorf("error reading config, %w", err)
		}
		return decode(v)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

// IsLegacyPath reports whether a file name selects the legacy format.
func IsLegacyPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".config", ".ini", ".cfg":
		return true
	}
	return false
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	hook := mapstructure.ComposeDecodeHookFunc(
		rangeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&configuration, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return finish(&configuration)
}

func finish(conf *Configuration) (*Configuration, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

var rangeType = reflect.TypeOf(Range{})

// rangeHook decodes "min, max" strings and two-element lists into a Range.
// Mappings pass through to the default struct decoding.
func rangeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != rangeType {
			return data, nil
		}
		switch value := data.(type) {
		case string:
			return ParseRange(value)
		case []interface{}:
			if len(value) != 2 {
				return nil, fmt.Errorf("range needs exactly two values, got %d", len(value))
			}
			min, err := cast.ToFloat64E(value[0])
			if err != nil {
				return nil, fmt.Errorf("invalid range minimum %v: %w", value[0], err)
			}
			max, err := cast.ToFloat64E(value[1])
			if err != nil {
				return nil, fmt.Errorf("invalid range maximum %v: %w", value[1], err)
			}
			return Range{Min: min, Max: max}, nil
		default:
			return data, nil
		}
	}
}

// ParseRange parses a "min, max" pair. Text after a second comma is ignored.
func ParseRange(value string) (Range, error) {
	parts := strings.Split(value, ",")
	if len(parts) < 2 {
		return Range{}, fmt.Errorf("invalid range format: %q", value)
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range format: %q: %w", value, err)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range format: %q: %w", value, err)
	}
	return Range{Min: min, Max: max}, nil
}

// Interval converts the range to a domain interval.
func (r Range) Interval() domain.Interval {
	return domain.NewInterval(r.Min, r.Max)
}
