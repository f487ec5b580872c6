package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"github.com/iwvelando/max-profit-solver/pkg/validation"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Normalize ensures defaults and canonical values are applied before validation.
func (c *Configuration) Normalize() {
	if c == nil {
		return
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}

	if c.Solver.Tolerance <= 0 {
		c.Solver.Tolerance = constants.DefaultSolverTolerance
	}

	if len(c.Sensitivity.Deltas) == 0 {
		c.Sensitivity.Deltas = append([]float64(nil), constants.DefaultSensitivityDeltas...)
	}

	for i := range c.Products {
		c.Products[i].Name = strings.TrimSpace(c.Products[i].Name)
	}

	for i := range c.Objectives {
		obj := &c.Objectives[i]
		obj.Name = strings.ToLower(strings.TrimSpace(obj.Name))
		obj.Direction = strings.ToLower(strings.TrimSpace(obj.Direction))
		if obj.Rank > constants.MaxRank {
			obj.Rank = constants.MaxRank
		}
	}
}

// Validate normalizes the configuration and returns an error when it is
// malformed. Range feasibility is not checked here.
func (c *Configuration) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	c.Normalize()

	if err := structValidator().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
