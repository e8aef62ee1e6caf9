// Package sagalog defines the durable audit trail of order-placement sagas.
// Each state transition is appended as an immutable row, so operators can
// see where a run stopped and which compensations fired.
package sagalog

import (
	"context"
	"time"
)

// Status is the lifecycle state of a saga execution at the time of an entry.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

type Entry struct {
	// SagaID identifies one placement run. A uuid rather than the order id,
	// since the order may not exist yet (or may have been rolled back).
	SagaID string

	Status Status

	// CurrentStep is the step that was just executed, failed, or compensated.
	// Empty for run-level transitions.
	CurrentStep string

	// ErrorMsg carries the failure detail for FAILED and failed-compensation
	// entries.
	ErrorMsg string

	UpdatedAt time.Time
}

type Recorder interface {
	Append(ctx context.Context, entry Entry) error
	FindBySagaID(ctx context.Context, sagaID string) ([]Entry, error)
}
