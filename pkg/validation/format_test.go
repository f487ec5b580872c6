package validation

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{name: "Valid pretty format", format: "pretty"},
		{name: "Valid csv format", format: "csv"},
		{name: "Valid json format", format: "json"},
		{name: "Empty format", format: "", expectErr: true},
		{name: "Case sensitive - uppercase", format: "PRETTY", expectErr: true},
		{name: "Case sensitive - CSV uppercase", format: "CSV", expectErr: true},
		{name: "Leading/trailing spaces", format: " pretty ", expectErr: true},
		{name: "Similar but incorrect format", format: "prettyprint", expectErr: true},
		{name: "XML format not supported", format: "xml", expectErr: true},
		{name: "Hyphen format", format: "pretty-format", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)

			if tt.expectErr {
				if err == nil {
					t.Errorf("ValidateOutputFormat(%s) expected error but got none", tt.format)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateOutputFormat(%s) unexpected error = %v", tt.format, err)
				}
			}
		})
	}
}

func TestValidateOutputFormatErrorMessage(t *testing.T) {
	for _, format := range []string{"xml", "yaml", "table"} {
		err := ValidateOutputFormat(format)
		if err == nil {
			t.Errorf("Expected error for format '%s'", format)
			continue
		}
		if !strings.Contains(err.Error(), format) {
			t.Errorf("Error message should mention %q: %s", format, err)
		}
	}
}
