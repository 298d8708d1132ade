package email

import (
	"fmt"

	"github.com/dev-bsvit/blog-gpt5/internal/config"
	"gopkg.in/gomail.v2"
)

type GomailSender struct {
	cfg *config.SMTPConfig
}

func NewGomailSender(cfg *config.SMTPConfig) *GomailSender {
	return &GomailSender{cfg: cfg}
}

func (s *GomailSender) SendEmail(to []string, subject, body string) error {
	if !s.cfg.Enabled {
		return nil
	}
	if len(to) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
