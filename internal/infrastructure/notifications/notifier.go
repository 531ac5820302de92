package notifications

import "github.com/you/passwordless/domain"

// NotifierImpl implements domain.NotificationService, routing SMS through
// Twilio and email through SMTP
type NotifierImpl struct {
	sms    *TwilioSender
	mailer *SMTPMailer
}

// NewNotifier creates a notification service backed by Twilio and SMTP
func NewNotifier(sms *TwilioSender, mailer *SMTPMailer) domain.NotificationService {
	return &NotifierImpl{sms: sms, mailer: mailer}
}

// SendSMS implements domain.NotificationService
func (n *NotifierImpl) SendSMS(to, message string) error {
	return n.sms.Send(to, message)
}

// SendEmail implements domain.NotificationService
func (n *NotifierImpl) SendEmail(to, subject, body string) error {
	return n.mailer.Send(to, subject, body)
}
