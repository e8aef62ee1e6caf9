package notification

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"telar/internal/config"
)

type Message struct {
	Recipient string
	Subject   string
	Body      string
}

type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// NewTransport selects a transport from the runtime mode flag: "production"
// delivers over SMTP, anything else stays in the sandbox.
func NewTransport(cfg config.NotifyConfig, logger *zap.Logger) (Transport, error) {
	if cfg.Mode == "production" {
		return NewSMTPTransport(cfg)
	}
	return NewSandboxTransport(logger), nil
}

// SandboxTransport logs messages instead of delivering them. Used in every
// non-production environment.
type SandboxTransport struct {
	logger *zap.Logger
}

func NewSandboxTransport(logger *zap.Logger) *SandboxTransport {
	return &SandboxTransport{logger: logger}
}

func (t *SandboxTransport) Send(_ context.Context, msg Message) error {
	t.logger.Info("sandbox notification",
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject),
	)
	return nil
}

type SMTPTransport struct {
	client *mail.Client
	from   string
}

func NewSMTPTransport(cfg config.NotifyConfig) (*SMTPTransport, error) {
	opts := []mail.Option{mail.WithPort(cfg.SMTPPort)}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &SMTPTransport{client: client, from: cfg.From}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(t.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := m.To(msg.Recipient); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}

	return nil
}

// OrderConfirmation builds the customer-facing confirmation message.
func OrderConfirmation(clientName string, orderID uint, grossTotal float64) (subject, body string) {
	subject = fmt.Sprintf("Confirmación de pedido #%d", orderID)
	body = fmt.Sprintf(
		"Hola %s,\n\nHemos recibido tu pedido #%d por un total de %.2f (impuestos incluidos).\nTe avisaremos cuando esté en proceso.\n\nGracias por tu compra.",
		clientName, orderID, grossTotal,
	)
	return subject, body
}
