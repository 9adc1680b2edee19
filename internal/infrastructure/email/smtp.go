package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	sharedConfig "github.com/orris-inc/proxyshop/internal/shared/config"
)

// Message is one multipart e-mail.
type Message struct {
	To        string
	Subject   string
	HTMLBody  string
	PlainBody string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config sharedConfig.EmailConfig
	dialer dialer
}

func NewSMTPEmailService(config sharedConfig.EmailConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword),
	}
}

func (s *SMTPEmailService) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("failed to send email: empty recipient")
	}

	m := s.build(msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendEmail sends a multipart message. gomail does not take a context.
func (s *SMTPEmailService) SendEmail(_ context.Context, to, subject, htmlBody, plainBody string) error {
	return s.Send(Message{To: to, Subject: subject, HTMLBody: htmlBody, PlainBody: plainBody})
}

func (s *SMTPEmailService) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	m.AddAlternative("text/html", msg.HTMLBody)
	return m
}
