package notify

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/iliyamo/aloft-stays/internal/config"
)

// SMTPSender delivers mail over SMTP.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
	}
}

// Send dials, sends and hangs up.  The context is only checked before
// dialing; gomail has no cancellation hook.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	return s.dialer.DialAndSend(msg)
}

// NewSender picks SMTP when a host is configured and Resend otherwise.
func NewSender(cfg config.MailConfig) Sender {
	if cfg.SMTPHost != "" {
		return NewSMTPSender(cfg)
	}
	return NewResendSender(cfg.ResendAPIKey, cfg.ResendBaseURL, cfg.From)
}
