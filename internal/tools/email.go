package tools

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	log "log/slog"
	"net/smtp"
	"strings"
)

// ErrAuth marks an SMTP authentication failure so it can be reported
// separately from generic transport trouble.
var ErrAuth = errors.New("smtp authentication failed")

// MailSender submits one message. Injectable for tests.
type MailSender interface {
	Send(addr, user, password string, to []string, msg []byte) error
}

type smtpSender struct{}

func (smtpSender) Send(addr, user, password string, to []string, msg []byte) error {
	host := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
	}

	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if err := c.Auth(smtp.PlainAuth("", user, password, host)); err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}

	if err := c.Mail(user); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to: %w", err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}

	return c.Quit()
}

// Email sends plain-text mail over SMTP with STARTTLS. Credentials come from
// process configuration; without them the tool refuses before dialing.
type Email struct {
	host     string
	port     int
	user     string
	password string
	sender   MailSender
}

func NewEmail(host string, port int, user, password string) *Email {
	return &Email{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		sender:   smtpSender{},
	}
}

func (e *Email) Name() string { return "send_email" }

func (e *Email) Invoke(_ context.Context, args Args) Result {
	to := args["to"]
	subject := args["subject"]
	body := args["body"]
	cc := args["cc"]

	if e.user == "" || e.password == "" {
		log.Error("Mail credentials not configured")
		return Fail("Email sending failed: Gmail credentials not configured.")
	}

	recipients := []string{to}
	headers := []string{
		"From: " + e.user,
		"To: " + to,
	}
	if cc != "" {
		recipients = append(recipients, cc)
		headers = append(headers, "Cc: "+cc)
	}
	headers = append(headers, "Subject: "+subject)

	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	if err := e.sender.Send(addr, e.user, e.password, recipients, []byte(msg)); err != nil {
		if errors.Is(err, ErrAuth) {
			log.Error("Mail authentication failed", "to", to)
			return Fail("Email sending failed: Authentication error. Check Gmail credentials.")
		}
		log.Error("Mail submission failed", "to", to, "err", err)
		return Fail("Email sending failed: SMTP error - %v", err)
	}

	log.Info("Email sent", "to", to)
	return Ok("Email sent successfully to %s", to)
}
