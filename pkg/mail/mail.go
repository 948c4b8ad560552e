package mail

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const resetSubject = "Airline Reservation Password Reset OTP"

// Sender delivers password reset codes
type Sender interface {
	SendPasswordResetOTP(to, otp string) error
}

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender for cfg
func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendPasswordResetOTP mails the code to the given address
func (s *SMTPSender) SendPasswordResetOTP(to, otp string) error {
	if err := s.dialer.DialAndSend(buildResetMessage(s.from, to, otp)); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

func buildResetMessage(from, to, otp string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", resetSubject)
	m.SetBody("text/plain", fmt.Sprintf("Your OTP is: %s\nDo not share it with anyone.", otp))
	return m
}

// LogSender writes codes to the log instead of mailing them (development mode)
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendPasswordResetOTP logs the code
func (s *LogSender) SendPasswordResetOTP(to, otp string) error {
	s.logger.WithFields(logrus.Fields{
		"to":  to,
		"otp": otp,
	}).Info("DEV MODE: password reset code")
	return nil
}
