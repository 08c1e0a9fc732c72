package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/sender"
	"go.uber.org/zap"
)

// Mailer renders and delivers a named email template.
type Mailer interface {
	Send(ctx context.Context, template, to string, data interface{}) error
}

// snsEnvelope unwraps the SNS → SQS message wrapper
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// EmailHandler turns queued events into emails. Malformed messages are dropped;
// delivery failures are returned so SQS redelivers the message.
type EmailHandler struct {
	mailer     Mailer
	adminEmail string
	logger     *zap.Logger
}

func NewEmailHandler(mailer Mailer, adminEmail string, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{mailer: mailer, adminEmail: adminEmail, logger: logger}
}

// Handle has the shape of an SQS message handler.
func (h *EmailHandler) Handle(ctx context.Context, body string) error {
	env, err := decode(body)
	if err != nil {
		h.logger.Error("Dropping unparseable message", zap.Error(err))
		return nil
	}
	return h.HandleEnvelope(ctx, env)
}

// decode accepts both SNS-wrapped and raw-delivery bodies.
func decode(body string) (Envelope, error) {
	var env Envelope
	var wrapper snsEnvelope
	if err := json.Unmarshal([]byte(body), &wrapper); err == nil && wrapper.Message != "" {
		body = wrapper.Message
	}
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return env, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.EventType == "" {
		return env, fmt.Errorf("envelope has no event type")
	}
	return env, nil
}

func (h *EmailHandler) HandleEnvelope(ctx context.Context, env Envelope) error {
	switch env.EventType {
	case models.EventOrderCreated:
		var e models.OrderEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			h.logger.Error("Dropping malformed order event", zap.String("event_id", env.ID), zap.Error(err))
			return nil
		}
		return h.send(ctx, env, sender.TemplateNewOrder, e.SellerEmail, map[string]interface{}{
			"OrderID":     e.OrderID,
			"ItemTitle":   e.ItemTitle,
			"Quantity":    e.Quantity,
			"UserEmail":   e.UserEmail,
			"TotalAmount": e.TotalAmount,
		})

	case models.EventSellerApproved:
		var e models.SellerEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			h.logger.Error("Dropping malformed seller event", zap.String("event_id", env.ID), zap.Error(err))
			return nil
		}
		return h.send(ctx, env, sender.TemplateSellerApproved, e.Email, map[string]interface{}{
			"FullName":     e.FullName,
			"BusinessName": e.BusinessName,
		})

	case models.EventSellerApplicationSubmitted:
		if h.adminEmail == "" {
			return nil
		}
		var e models.SellerEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			h.logger.Error("Dropping malformed seller event", zap.String("event_id", env.ID), zap.Error(err))
			return nil
		}
		return h.send(ctx, env, sender.TemplateSellerApplication, h.adminEmail, map[string]interface{}{
			"FullName":     e.FullName,
			"Email":        e.Email,
			"BusinessName": e.BusinessName,
		})

	default:
		// status changes are mailed synchronously when the seller asks for it
		h.logger.Debug("Ignoring event", zap.String("event_type", env.EventType))
		return nil
	}
}

func (h *EmailHandler) send(ctx context.Context, env Envelope, template, to string, data map[string]interface{}) error {
	if to == "" {
		h.logger.Warn("Event has no recipient", zap.String("event_id", env.ID), zap.String("event_type", env.EventType))
		return nil
	}
	if err := h.mailer.Send(ctx, template, to, data); err != nil {
		return fmt.Errorf("send %s for event %s: %w", template, env.ID, err)
	}
	h.logger.Info("Event email sent", zap.String("event_id", env.ID), zap.String("template", template))
	return nil
}
