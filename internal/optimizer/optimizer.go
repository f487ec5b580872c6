// Package optimizer runs the solve pipeline for one configuration: range
// validation, the warning decision, objective weighting, model building,
// the LP solve, verification of the allocation and sensitivity analysis.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/max-profit-solver/internal/config"
	"github.com/iwvelando/max-profit-solver/pkg/lpmodel"
	"github.com/iwvelando/max-profit-solver/pkg/metrics"
	"github.com/iwvelando/max-profit-solver/pkg/objective"
	"github.com/iwvelando/max-profit-solver/pkg/sensitivity"
	"github.com/iwvelando/max-profit-solver/pkg/solver"
	"github.com/iwvelando/max-profit-solver/pkg/validation"
	"github.com/iwvelando/max-profit-solver/pkg/verification"
	"go.uber.org/zap"
)

var (
	// ErrCriticalConstraints stops a run whose declared ranges are infeasible.
	ErrCriticalConstraints = errors.New("critical constraint errors found")

	// ErrDeclined stops a run whose warnings were not accepted.
	ErrDeclined = errors.New("proceeding with warnings was declined")

	// ErrInvalidInput marks inputs rejected after validation, such as an
	// empty catalog or a non-positive objective rank.
	ErrInvalidInput = errors.New("invalid input")
)

// Runner executes the pipeline for one configuration.
type Runner struct {
	logger   *zap.Logger
	conf     *config.Configuration
	solver   solver.Solver
	confirm  validation.ConfirmFunc
	recorder *metrics.Recorder
}

// Option configures a Runner.
type Option func(*Runner)

// WithSolver replaces the default gonum simplex.
func WithSolver(s solver.Solver) Option {
	return func(r *Runner) {
		r.solver = s
	}
}

// WithConfirm sets the decision taken when validation only produced
// warnings. Without it warnings decline the run.
func WithConfirm(confirm validation.ConfirmFunc) Option {
	return func(r *Runner) {
		r.confirm = confirm
	}
}

// WithRecorder records run outcomes into rec.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// Result collects everything a run produced. Fields after Validation are
// only set once the corresponding stage ran.
type Result struct {
	Validation   validation.Report   `json:"validation"`
	Weights      objective.Weights   `json:"weights"`
	Model        *lpmodel.Model      `json:"-"`
	Solution     *solver.Solution    `json:"solution,omitempty"`
	Verification verification.Report `json:"verification"`
	Sensitivity  sensitivity.Table   `json:"sensitivity"`
}

// Solved reports whether the run reached a solution.
func (r *Result) Solved() bool {
	return r != nil && r.Solution != nil
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration, opts ...Option) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{logger: logger, conf: conf}
	for _, opt := range opts {
		opt(r)
	}

	if r.solver == nil {
		solverOpts := []solver.Option{solver.WithLogger(logger)}
		if conf.Solver.Tolerance > 0 {
			solverOpts = append(solverOpts, solver.WithTolerance(conf.Solver.Tolerance))
		}
		s, err := solver.NewSimplex(solverOpts...)
		if err != nil {
			return nil, fmt.Errorf("invalid solver configuration: %w", err)
		}
		r.solver = s
	}

	return r, nil
}

// Run executes the pipeline once. On ErrCriticalConstraints and ErrDeclined
// the returned Result still carries the validation report.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	catalog := r.conf.Catalog()
	global := r.conf.GlobalConstraints()
	result := &Result{}

	result.Validation = validation.Validate(catalog, global)
	for _, e := range result.Validation.Errors {
		r.logger.Error(e.Message,
			zap.String("op", "optimizer.Run"),
			zap.String("scope", e.Scope),
			zap.String("quantity", e.Quantity),
		)
	}
	for _, w := range result.Validation.Warnings {
		r.logger.Warn(w.Message,
			zap.String("op", "optimizer.Run"),
			zap.String("scope", w.Scope),
			zap.String("quantity", w.Quantity),
		)
	}

	if result.Validation.HasErrors() {
		r.recorder.ObserveRun(metrics.OutcomeCritical)
		return result, fmt.Errorf("%w: %w", ErrCriticalConstraints, result.Validation.Err())
	}

	proceed, err := validation.Decide(result.Validation, r.confirm)
	if err != nil {
		r.recorder.ObserveRun(metrics.OutcomeDeclined)
		return result, fmt.Errorf("%w: %w", ErrDeclined, err)
	}
	if !proceed {
		r.recorder.ObserveRun(metrics.OutcomeDeclined)
		return result, ErrDeclined
	}

	result.Weights, err = objective.ComputeWeights(r.conf.ObjectiveList())
	if err != nil {
		r.recorder.ObserveRun(metrics.OutcomeInvalidInput)
		return result, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	r.logger.Debug("objective weights",
		zap.String("op", "optimizer.Run"),
		zap.Float64("profit", result.Weights.Profit),
		zap.Float64("resource", result.Weights.Resource),
		zap.Float64("budget", result.Weights.Budget),
	)

	result.Model, err = lpmodel.Build(catalog, global, result.Weights)
	if err != nil {
		r.recorder.ObserveRun(metrics.OutcomeInvalidInput)
		return result, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	start := time.Now()
	sol, err := r.solver.Solve(ctx, result.Model.Problem())
	elapsed := time.Since(start)
	r.recorder.ObserveSolve(elapsed)
	if err != nil {
		r.recorder.ObserveRun(metrics.OutcomeSolverFailure)
		r.logger.Error("solver failed",
			zap.String("op", "optimizer.Run"),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return result, fmt.Errorf("solve failed: %w", err)
	}
	r.logger.Info("solved",
		zap.String("op", "optimizer.Run"),
		zap.Int("products", result.Model.NumVariables()),
		zap.Float64("objective", sol.ObjectiveValue),
		zap.Duration("elapsed", elapsed),
	)

	result.Verification, err = verification.Check(result.Model, catalog, global, sol)
	if err != nil {
		r.recorder.ObserveRun(metrics.OutcomeSolverFailure)
		return result, fmt.Errorf("solver returned an unusable solution: %w", err)
	}
	result.Solution = sol
	r.recorder.SetViolations(len(result.Verification.Violations))
	for _, v := range result.Verification.Violations {
		r.logger.Warn(v.Message,
			zap.String("op", "optimizer.Run"),
			zap.String("scope", v.Scope),
			zap.String("quantity", v.Quantity),
			zap.Float64("used", v.Used),
		)
	}

	result.Sensitivity, err = sensitivity.Analyze(result.Model, sol, r.conf.Sensitivity.Deltas)
	if err != nil {
		r.recorder.ObserveRun(metrics.OutcomeSolverFailure)
		return result, fmt.Errorf("sensitivity analysis failed: %w", err)
	}

	r.recorder.ObserveRun(metrics.OutcomeSolved)
	return result, nil
}
