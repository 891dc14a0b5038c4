package service

import (
	"fmt"
	"go-content-api/config"
	"go-content-api/logger"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. Only verification codes for now.
type Mailer interface {
	SendVerificationCode(email, code string) error
}

// SMTPMailer implements Mailer over a plain SMTP transport.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer() *SMTPMailer {
	cfg := config.AppConfig.SMTP
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.User,
	}
}

func (m *SMTPMailer) SendVerificationCode(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your verification code")
	msg.SetBody("text/plain", fmt.Sprintf("Your verification code is: %s. It expires in 5 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Log.WithError(err).WithField("email", email).Error("Failed to send verification code")
		return err
	}

	logger.Log.WithField("email", email).Info("Verification code sent")
	return nil
}
