package saga

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"telar/internal/order/saga/sagalog"
)

type recordedCall struct {
	step   string
	action string
}

// scriptedStep executes or compensates according to the injected errors and
// appends every call to the shared journal.
type scriptedStep struct {
	name          string
	executeErr    error
	compensateErr error
	journal       *[]recordedCall
}

func (s *scriptedStep) Name() string { return s.name }

func (s *scriptedStep) Execute(_ context.Context) error {
	*s.journal = append(*s.journal, recordedCall{step: s.name, action: "execute"})
	return s.executeErr
}

func (s *scriptedStep) Compensate(_ context.Context) error {
	*s.journal = append(*s.journal, recordedCall{step: s.name, action: "compensate"})
	return s.compensateErr
}

type memRecorder struct {
	mu      sync.Mutex
	entries []sagalog.Entry
}

func (r *memRecorder) Append(_ context.Context, entry sagalog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memRecorder) FindBySagaID(_ context.Context, sagaID string) ([]sagalog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sagalog.Entry
	for _, e := range r.entries {
		if e.SagaID == sagaID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestRunner_Execute_AllStepsSucceed(t *testing.T) {
	var journal []recordedCall
	steps := []Step{
		&scriptedStep{name: "first", journal: &journal},
		&scriptedStep{name: "second", journal: &journal},
		&scriptedStep{name: "third", journal: &journal},
	}

	runner := NewRunner(zap.NewNop(), nil)
	completed, err := runner.Execute(context.Background(), "saga-1", steps)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(completed) != 3 {
		t.Fatalf("expected 3 completed steps, got %d", len(completed))
	}
	want := []recordedCall{
		{"first", "execute"}, {"second", "execute"}, {"third", "execute"},
	}
	for i, call := range want {
		if journal[i] != call {
			t.Errorf("call %d: expected %v, got %v", i, call, journal[i])
		}
	}
}

func TestRunner_Execute_StopsAtFirstFailure(t *testing.T) {
	var journal []recordedCall
	boom := errors.New("boom")
	steps := []Step{
		&scriptedStep{name: "first", journal: &journal},
		&scriptedStep{name: "second", executeErr: boom, journal: &journal},
		&scriptedStep{name: "third", journal: &journal},
	}

	runner := NewRunner(zap.NewNop(), nil)
	completed, err := runner.Execute(context.Background(), "saga-2", steps)

	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	// The failed step is returned too, so its partial work can be undone.
	if len(completed) != 2 {
		t.Fatalf("expected 2 returned steps, got %d", len(completed))
	}
	for _, call := range journal {
		if call.step == "third" {
			t.Errorf("third step should never have executed")
		}
	}
}

func TestRunner_Rollback_CompensatesInReverseOrder(t *testing.T) {
	var journal []recordedCall
	steps := []Step{
		&scriptedStep{name: "first", journal: &journal},
		&scriptedStep{name: "second", journal: &journal},
	}

	runner := NewRunner(zap.NewNop(), nil)
	runner.Rollback(context.Background(), "saga-3", steps)

	want := []recordedCall{
		{"second", "compensate"}, {"first", "compensate"},
	}
	if len(journal) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(journal))
	}
	for i, call := range want {
		if journal[i] != call {
			t.Errorf("call %d: expected %v, got %v", i, call, journal[i])
		}
	}
}

func TestRunner_Rollback_ContinuesPastCompensationFailure(t *testing.T) {
	var journal []recordedCall
	steps := []Step{
		&scriptedStep{name: "first", journal: &journal},
		&scriptedStep{name: "second", compensateErr: errors.New("undo failed"), journal: &journal},
	}

	runner := NewRunner(zap.NewNop(), nil)
	runner.Rollback(context.Background(), "saga-4", steps)

	// first must still be compensated even though second's compensation
	// failed.
	last := journal[len(journal)-1]
	if last.step != "first" || last.action != "compensate" {
		t.Errorf("expected first/compensate as final call, got %v", last)
	}
}

func TestRunner_RecordsLifecycleInSagaLog(t *testing.T) {
	var journal []recordedCall
	recorder := &memRecorder{}
	steps := []Step{
		&scriptedStep{name: "only", journal: &journal},
	}

	runner := NewRunner(zap.NewNop(), recorder)
	if _, err := runner.Execute(context.Background(), "saga-5", steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, _ := recorder.FindBySagaID(context.Background(), "saga-5")
	wantStatuses := []sagalog.Status{sagalog.StatusStarted, sagalog.StatusStepDone, sagalog.StatusCompleted}
	if len(entries) != len(wantStatuses) {
		t.Fatalf("expected %d entries, got %d", len(wantStatuses), len(entries))
	}
	for i, status := range wantStatuses {
		if entries[i].Status != status {
			t.Errorf("entry %d: expected %s, got %s", i, status, entries[i].Status)
		}
	}
}

func TestRunner_RecordsFailureInSagaLog(t *testing.T) {
	var journal []recordedCall
	recorder := &memRecorder{}
	steps := []Step{
		&scriptedStep{name: "doomed", executeErr: errors.New("store down"), journal: &journal},
	}

	runner := NewRunner(zap.NewNop(), recorder)
	completed, err := runner.Execute(context.Background(), "saga-6", steps)
	if err == nil {
		t.Fatal("expected error")
	}
	runner.Rollback(context.Background(), "saga-6", completed)

	entries, _ := recorder.FindBySagaID(context.Background(), "saga-6")
	var sawFailed, sawCompensating bool
	for _, entry := range entries {
		if entry.Status == sagalog.StatusFailed {
			sawFailed = true
			if entry.ErrorMsg == "" {
				t.Error("failed entry should carry the error message")
			}
		}
		if entry.Status == sagalog.StatusCompensating {
			sawCompensating = true
		}
	}
	if !sawFailed || !sawCompensating {
		t.Errorf("expected FAILED and COMPENSATING entries, got %+v", entries)
	}
}
