package validation

// ConfirmFunc is asked whether to continue when only warnings were found.
// It is the single point where a run may wait on an outside answer.
type ConfirmFunc func(warnings []Warning) (bool, error)

// ProceedOnWarnings returns a ConfirmFunc that always answers proceed.
func ProceedOnWarnings(proceed bool) ConfirmFunc {
	return func([]Warning) (bool, error) {
		return proceed, nil
	}
}

// Decide turns a report into a go/no-go decision. Critical errors always stop
// the run without consulting confirm. Warnings defer to confirm; a nil
// confirm declines.
func Decide(report Report, confirm ConfirmFunc) (bool, error) {
	if report.HasErrors() {
		return false, nil
	}
	if !report.HasWarnings() {
		return true, nil
	}
	if confirm == nil {
		return false, nil
	}
	return confirm(report.Warnings)
}
