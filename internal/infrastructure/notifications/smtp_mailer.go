package notifications

import (
	"fmt"
	"log"
	"net/smtp"
)

// SMTPMailer delivers callback tokens over email
type SMTPMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(host, port, from, username, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: password,
	}
}

// Send sends an email message
func (m *SMTPMailer) Send(to, subject, body string) error {
	// If no noreply address is configured, log instead of sending
	if m.from == "" {
		log.Printf("[MOCK EMAIL] To: %s, Subject: %s, Body: %s", to, subject, body)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
