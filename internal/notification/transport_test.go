package notification

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"telar/internal/config"
)

func TestNewTransport_SandboxByDefault(t *testing.T) {
	transport, err := NewTransport(config.NotifyConfig{Mode: "sandbox"}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := transport.(*SandboxTransport); !ok {
		t.Fatalf("expected SandboxTransport, got %T", transport)
	}
}

func TestSandboxTransport_SendNeverFails(t *testing.T) {
	transport := NewSandboxTransport(zap.NewNop())

	err := transport.Send(context.Background(), Message{
		Recipient: "compras@rivera.example",
		Subject:   "Confirmación de pedido #1",
		Body:      "Hola",
	})
	if err != nil {
		t.Fatalf("sandbox delivery must not fail: %v", err)
	}
}

func TestOrderConfirmation(t *testing.T) {
	subject, body := OrderConfirmation("Textiles Rivera", 42, 41.30)

	if subject != "Confirmación de pedido #42" {
		t.Errorf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Textiles Rivera") {
		t.Error("body must greet the client by name")
	}
	if !strings.Contains(body, "41.30") {
		t.Error("body must show the tax-inclusive total")
	}
}
