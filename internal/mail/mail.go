package mail

import (
	"context"
	"log"

	"gopkg.in/gomail.v2"
)

// Sender delivers plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	// gomail has no context support; give up early if the caller already has.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return err
	}
	log.Printf("[mail] sent %q to %s", subject, to)
	return nil
}

// LogSender records that a message would have been sent. Used when SMTP is
// not configured. Bodies carry reset links, so only the envelope is logged.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, body string) error {
	log.Printf("[mail] SMTP disabled; dropped message to=%s subject=%q (%d bytes)", to, subject, len(body))
	return nil
}

// New picks the SMTP sender when host is set, otherwise the log sender.
func New(host string, port int, user, pass, from string) Sender {
	if host == "" {
		log.Println("[mail] SMTP_HOST not set, email delivery disabled")
		return LogSender{}
	}
	return NewSMTPSender(host, port, user, pass, from)
}
