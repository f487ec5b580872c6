package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/max-profit-solver/pkg/validation"
)

// promptConfirm asks on out whether to continue past the listed warnings and
// reads the answer from in. Only "y" or "Y" proceeds.
func promptConfirm(in io.Reader, out io.Writer) validation.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(warnings []validation.Warning) (bool, error) {
		fmt.Fprintln(out, "Warnings:")
		for _, w := range warnings {
			fmt.Fprintf(out, "  - %s\n", w.Message)
		}
		fmt.Fprint(out, "Do you want to proceed? (y/n): ")

		answer, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}
		answer = strings.TrimSpace(answer)
		return answer == "y" || answer == "Y", nil
	}
}
