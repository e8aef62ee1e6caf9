// Package saga runs the order-placement workflow as an explicit sequence of
// steps, each paired with a compensating action. A failed run either rolls
// back completely or, for declined payments, is resolved by the coordinator
// itself (cancel instead of delete).
//
// Compensations must be safe to call after a partially applied Execute:
// deletes that match nothing are no-ops, and the stock step only restores
// the decrements it actually applied.
package saga

import (
	"context"

	"go.uber.org/zap"

	"telar/internal/order/saga/sagalog"
)

// Step is a single unit of work with an action that undoes its effects.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

type Runner struct {
	logger   *zap.Logger
	recorder sagalog.Recorder
}

func NewRunner(logger *zap.Logger, recorder sagalog.Recorder) *Runner {
	return &Runner{logger: logger, recorder: recorder}
}

// Execute runs steps in order and stops at the first failure. It returns
// the steps that completed so the caller can decide whether to roll back;
// the failed step is included because its partial effects may also need
// compensating.
func (r *Runner) Execute(ctx context.Context, sagaID string, steps []Step) ([]Step, error) {
	r.record(ctx, sagaID, sagalog.StatusStarted, "", nil)

	var completed []Step
	for _, step := range steps {
		r.logger.Debug("executing step", zap.String("sagaId", sagaID), zap.String("step", step.Name()))

		if err := step.Execute(ctx); err != nil {
			r.logger.Warn("step failed",
				zap.String("sagaId", sagaID),
				zap.String("step", step.Name()),
				zap.Error(err),
			)
			r.record(ctx, sagaID, sagalog.StatusFailed, step.Name(), err)
			return append(completed, step), err
		}

		completed = append(completed, step)
		r.record(ctx, sagaID, sagalog.StatusStepDone, step.Name(), nil)
	}

	r.record(ctx, sagaID, sagalog.StatusCompleted, "", nil)
	return completed, nil
}

// Rollback compensates steps in reverse order. Compensation failures are
// logged and recorded but do not stop the remaining compensations.
func (r *Runner) Rollback(ctx context.Context, sagaID string, steps []Step) {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		r.logger.Info("compensating step", zap.String("sagaId", sagaID), zap.String("step", step.Name()))
		r.record(ctx, sagaID, sagalog.StatusCompensating, step.Name(), nil)

		if err := step.Compensate(ctx); err != nil {
			r.logger.Error("compensation failed",
				zap.String("sagaId", sagaID),
				zap.String("step", step.Name()),
				zap.Error(err),
			)
			r.record(ctx, sagaID, sagalog.StatusCompensating, step.Name(), err)
		}
	}
}

func (r *Runner) record(ctx context.Context, sagaID string, status sagalog.Status, step string, cause error) {
	if r.recorder == nil {
		return
	}

	errMsg := ""
	if cause != nil {
		errMsg = cause.Error()
	}

	if err := r.recorder.Append(ctx, sagalog.Entry{
		SagaID:      sagaID,
		Status:      status,
		CurrentStep: step,
		ErrorMsg:    errMsg,
	}); err != nil {
		// The log is an audit trail; losing an entry must not fail the order.
		r.logger.Error("appending saga log entry", zap.String("sagaId", sagaID), zap.Error(err))
	}
}
