package sender

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	TemplatePasswordOTP       = "password_otp"
	TemplateOrderStatus       = "order_status"
	TemplateOrderConfirmation = "order_confirmation"
	TemplateNewOrder          = "new_order"
	TemplateSellerApproved    = "seller_approved"
	TemplateSellerApplication = "seller_application"
)

var subjects = map[string]string{
	TemplatePasswordOTP:       "Your password reset code",
	TemplateOrderStatus:       "Your order status has changed",
	TemplateOrderConfirmation: "Order confirmed",
	TemplateNewOrder:          "You have a new order",
	TemplateSellerApproved:    "Your seller application was approved",
	TemplateSellerApplication: "New seller application received",
}

// Mailer renders the embedded templates and delivers them with retries.
type Mailer struct {
	sender    EmailSender
	templates map[string]*template.Template
	attempts  int
	backoff   time.Duration
	logger    *zap.Logger
}

func NewMailer(s EmailSender, logger *zap.Logger) (*Mailer, error) {
	tmpls := make(map[string]*template.Template)
	for name := range subjects {
		tmpl, err := template.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template for %s: %w", name, err)
		}
		tmpls[name] = tmpl
	}
	return &Mailer{
		sender:    s,
		templates: tmpls,
		attempts:  3,
		backoff:   time.Second,
		logger:    logger,
	}, nil
}

// WithBackoff sets the base delay between attempts.
func (m *Mailer) WithBackoff(d time.Duration) *Mailer {
	m.backoff = d
	return m
}

// Render executes the named template with data.
func (m *Mailer) Render(name string, data interface{}) (string, string, error) {
	tmpl, ok := m.templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template: %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("template render failed: %w", err)
	}
	return subjects[name], buf.String(), nil
}

// Send renders the template and delivers it, retrying with a linear backoff.
func (m *Mailer) Send(ctx context.Context, name, to string, data interface{}) error {
	subject, body, err := m.Render(name, data)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < m.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * m.backoff):
			}
		}

		result, err := m.sender.SendEmail(ctx, to, subject, body)
		if err == nil {
			m.logger.Info("email sent",
				zap.String("template", name),
				zap.String("message_id", result.MessageID),
			)
			return nil
		}
		lastErr = err

		m.logger.Warn("send attempt failed",
			zap.String("template", name),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return lastErr
}
