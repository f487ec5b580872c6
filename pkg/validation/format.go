// Package validation checks declared constraint ranges against the ranges
// implied by each product's own cost, demand and labor figures, and holds
// the small input checks shared by the CLI and the server.
package validation

import (
	"fmt"

	"github.com/iwvelando/max-profit-solver/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %q",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}
