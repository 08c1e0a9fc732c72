package sender

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"time"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/config"
	"go.uber.org/zap"
)

type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
	name     string
}

func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("SMTP_EMAIL not set")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("SMTP_PASSWORD not set")
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{cfg.Host, cfg.Port, cfg.Username, cfg.Password, from, cfg.SenderName}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	fromHeader := s.from
	if s.name != "" {
		fromHeader = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.name), s.from)
	}

	msg := []byte(
		"From: " + fromHeader + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

// LogSender stands in when SMTP is not configured. It records what would have been sent.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, _ string) (SendResult, error) {
	s.logger.Info("smtp disabled, email not sent", zap.String("to", to), zap.String("subject", subject))
	return SendResult{MessageID: "log", SentAt: time.Now()}, nil
}

// New returns an SMTP sender when cfg is complete and a LogSender otherwise.
func New(cfg config.SMTPConfig, logger *zap.Logger) EmailSender {
	if !cfg.Enabled() {
		return NewLogSender(logger)
	}
	s, err := NewSMTPSender(cfg)
	if err != nil {
		logger.Warn("smtp sender unavailable, falling back to log sender", zap.Error(err))
		return NewLogSender(logger)
	}
	return s
}
