package mailer

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/config"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through the configured SMTP server.
type SMTPSender struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// New returns an SMTP sender, or a log-only sender when no server is configured.
func New(cfg config.MailConfig, logger *zap.Logger) Sender {
	if cfg.Server == "" {
		logger.Warn("MAIL_SERVER not provided; outbound mail is logged only")
		return &LogSender{logger: logger}
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

// Send dials the server and delivers msg. Failures are returned unchanged in kind.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.Sender); err != nil {
		return fmt.Errorf("mail sender %q: %w", s.cfg.Sender, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mail recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	opts := []gomail.Option{gomail.WithPort(s.cfg.Port)}
	if s.cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Server, opts...)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	s.logger.Info("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("mail recipient required")
	}
	s.logger.Info("mail (not sent)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}
