package mailer

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Mailer delivers transactional mail. Callers treat delivery failures
// according to the flow: welcome mail is best-effort, reset mail is not.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// ===============================
// SMTP
// ===============================

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	if from == "" {
		from = user
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

var _ Mailer = (*SMTPMailer)(nil)

// ===============================
// Noop
// ===============================

// NoopMailer stands in when SMTP is not configured. It logs and reports
// success, so local setups can register users without a mail server.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject, htmlBody string) error {
	log.Debug().Str("to", to).Str("subject", subject).Msg("mail delivery skipped: smtp not configured")
	return nil
}

var _ Mailer = (NoopMailer{})
