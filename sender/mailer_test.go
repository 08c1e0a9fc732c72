package sender

import (
	"context"
	"errors"
	"testing"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakySender struct {
	failures int
	calls    int
	lastTo   string
	lastBody string
}

func (f *flakySender) SendEmail(_ context.Context, to, _, body string) (SendResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return SendResult{}, errors.New("connection refused")
	}
	f.lastTo, f.lastBody = to, body
	return SendResult{MessageID: "m-1"}, nil
}

func TestMailer_RenderOTP(t *testing.T) {
	m, err := NewMailer(&flakySender{}, zap.NewNop())
	require.NoError(t, err)

	subject, body, err := m.Render(TemplatePasswordOTP, map[string]interface{}{
		"Name": "Kim", "Code": "123456", "ExpiresInMinutes": 10,
	})

	require.NoError(t, err)
	assert.Equal(t, "Your password reset code", subject)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "10 minutes")
}

func TestMailer_RenderUnknown(t *testing.T) {
	m, err := NewMailer(&flakySender{}, zap.NewNop())
	require.NoError(t, err)

	_, _, err = m.Render("missing", nil)
	assert.Error(t, err)
}

func TestMailer_SendRetries(t *testing.T) {
	s := &flakySender{failures: 2}
	m, err := NewMailer(s, zap.NewNop())
	require.NoError(t, err)
	m.WithBackoff(0)

	err = m.Send(context.Background(), TemplateSellerApproved, "ann@example.com", map[string]string{
		"FullName": "Ann", "BusinessName": "Ann Crafts",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, s.calls)
	assert.Equal(t, "ann@example.com", s.lastTo)
	assert.Contains(t, s.lastBody, "Ann Crafts")
}

func TestMailer_SendGivesUp(t *testing.T) {
	s := &flakySender{failures: 5}
	m, err := NewMailer(s, zap.NewNop())
	require.NoError(t, err)
	m.WithBackoff(0)

	err = m.Send(context.Background(), TemplateOrderStatus, "kim@example.com", map[string]string{
		"ItemTitle": "Lamp", "Status": "Shipped", "OrderID": "o1",
	})

	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, 3, s.calls)
}

func TestNew_FallsBackToLogSender(t *testing.T) {
	s := New(config.SMTPConfig{Host: "smtp.example.com"}, zap.NewNop())
	_, ok := s.(*LogSender)
	assert.True(t, ok)

	s = New(config.SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "u@example.com", Password: "p"}, zap.NewNop())
	_, ok = s.(*SMTPSender)
	assert.True(t, ok)
}
