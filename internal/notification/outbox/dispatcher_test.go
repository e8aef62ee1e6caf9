package outbox

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"telar/internal/domain"
	"telar/internal/notification"
)

type memOutbox struct {
	messages map[uint]*domain.OutboxMessage
}

func newMemOutbox(msgs ...*domain.OutboxMessage) *memOutbox {
	repo := &memOutbox{messages: map[uint]*domain.OutboxMessage{}}
	for _, m := range msgs {
		repo.messages[m.ID] = m
	}
	return repo
}

func (r *memOutbox) FindPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	var out []domain.OutboxMessage
	for _, m := range r.messages {
		if m.Status == domain.OutboxStatusPending {
			out = append(out, *m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memOutbox) MarkSent(_ context.Context, id uint) error {
	m, ok := r.messages[id]
	if !ok {
		return errors.New("message not found")
	}
	m.Status = domain.OutboxStatusSent
	now := time.Now()
	m.SentAt = &now
	return nil
}

func (r *memOutbox) RecordFailure(_ context.Context, id uint, lastError string, maxAttempts int) error {
	m, ok := r.messages[id]
	if !ok {
		return errors.New("message not found")
	}
	m.Attempts++
	m.LastError = &lastError
	if m.Attempts >= maxAttempts {
		m.Status = domain.OutboxStatusFailed
	}
	return nil
}

type flakyTransport struct {
	failures int
	sent     []notification.Message
}

func (t *flakyTransport) Send(_ context.Context, msg notification.Message) error {
	if t.failures > 0 {
		t.failures--
		return errors.New("smtp: connection refused")
	}
	t.sent = append(t.sent, msg)
	return nil
}

func pendingMessage(id uint) *domain.OutboxMessage {
	return &domain.OutboxMessage{
		ID:        id,
		OrderID:   7,
		Recipient: "compras@rivera.example",
		Subject:   "Confirmación de pedido #7",
		Body:      "Hola,\n\nHemos recibido tu pedido.",
		Status:    domain.OutboxStatusPending,
	}
}

func TestDispatcher_Drain_MarksSentOnSuccess(t *testing.T) {
	repo := newMemOutbox(pendingMessage(1))
	transport := &flakyTransport{}
	d := NewDispatcher(repo, transport, zap.NewNop(), time.Second, 3)

	d.Drain(context.Background())

	if got := repo.messages[1].Status; got != domain.OutboxStatusSent {
		t.Errorf("expected SENT, got %s", got)
	}
	if repo.messages[1].SentAt == nil {
		t.Error("expected SentAt to be stamped")
	}
	if len(transport.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(transport.sent))
	}
	if !strings.Contains(transport.sent[0].Subject, "#7") {
		t.Errorf("unexpected subject %q", transport.sent[0].Subject)
	}
}

func TestDispatcher_Drain_RetriesUntilMaxAttempts(t *testing.T) {
	repo := newMemOutbox(pendingMessage(1))
	transport := &flakyTransport{failures: 10}
	d := NewDispatcher(repo, transport, zap.NewNop(), time.Second, 3)

	for i := 0; i < 2; i++ {
		d.Drain(context.Background())
		if got := repo.messages[1].Status; got != domain.OutboxStatusPending {
			t.Fatalf("attempt %d: expected PENDING, got %s", i+1, got)
		}
	}

	d.Drain(context.Background())
	if got := repo.messages[1].Status; got != domain.OutboxStatusFailed {
		t.Errorf("expected FAILED after max attempts, got %s", got)
	}
	if repo.messages[1].Attempts != 3 {
		t.Errorf("expected 3 recorded attempts, got %d", repo.messages[1].Attempts)
	}
	if repo.messages[1].LastError == nil || !strings.Contains(*repo.messages[1].LastError, "connection refused") {
		t.Errorf("expected last error preserved, got %v", repo.messages[1].LastError)
	}
}

func TestDispatcher_Drain_RecoversAfterTransientFailure(t *testing.T) {
	repo := newMemOutbox(pendingMessage(1))
	transport := &flakyTransport{failures: 1}
	d := NewDispatcher(repo, transport, zap.NewNop(), time.Second, 3)

	d.Drain(context.Background())
	if got := repo.messages[1].Status; got != domain.OutboxStatusPending {
		t.Fatalf("expected PENDING after first failure, got %s", got)
	}

	d.Drain(context.Background())
	if got := repo.messages[1].Status; got != domain.OutboxStatusSent {
		t.Errorf("expected SENT on retry, got %s", got)
	}
}

func TestDispatcher_Drain_SkipsSentAndFailed(t *testing.T) {
	sent := pendingMessage(1)
	sent.Status = domain.OutboxStatusSent
	dead := pendingMessage(2)
	dead.Status = domain.OutboxStatusFailed

	repo := newMemOutbox(sent, dead, pendingMessage(3))
	transport := &flakyTransport{}
	d := NewDispatcher(repo, transport, zap.NewNop(), time.Second, 3)

	d.Drain(context.Background())

	if len(transport.sent) != 1 {
		t.Fatalf("expected only the pending message delivered, got %d", len(transport.sent))
	}
}
