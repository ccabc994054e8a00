package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rahulkpr2510/droply/internal/config"
)

// Sender defines an interface for sending transactional emails
type Sender interface {
	SendVerificationCode(to, code string) error
}

// SMTPSender is a concrete implementation of Sender using SMTP
type SMTPSender struct {
	cfg config.Email
}

// NewSMTPSender creates a new SMTPSender
func NewSMTPSender(cfg config.Email) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// send performs the actual email sending via SMTP
func (s *SMTPSender) send(to, subject, body string) error {
	// We use PlainAuth, which is widely supported
	// the username is the from-address, and the password is the API key/password
	auth := smtp.PlainAuth("", s.cfg.Address, s.cfg.APIKey, s.cfg.Host)

	// the message is formatted according to RFC 822
	// It must include headers for From, To, Subject, and the message body
	msg := []byte(strings.ReplaceAll(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.cfg.Address, to, subject, body),
		"\n", "\r\n"),
	)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	return smtp.SendMail(addr, auth, s.cfg.Address, []string{to}, msg)
}

// SendVerificationCode emails the six-digit code a new account must submit
// to finish onboarding.
func (s *SMTPSender) SendVerificationCode(to, code string) error {
	subject := "Droply Email Verification"
	body := fmt.Sprintf("Your Droply verification code is: %s\r\n\r\nThe code expires in 10 minutes.", code)

	return s.send(to, subject, body)
}
