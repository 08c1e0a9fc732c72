package services

import (
	"context"
	"io"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
)

// Actor is the authenticated caller as read from the access token.
type Actor struct {
	ID    string
	Email string
	Level int
}

func (a Actor) IsAdmin() bool {
	return a.Level == models.LevelAdmin
}

// CanActFor reports whether the caller may act on data owned by email.
func (a Actor) CanActFor(email string) bool {
	return a.IsAdmin() || (email != "" && a.Email == email)
}

// ImageUpload is one uploaded image file, opened lazily so the caller controls its lifetime.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ItemCache is the read-through cache used by the catalog. A nil cache disables caching.
// Callers take Version before reading MongoDB and pass it to both the lookup and the
// write-back, so an invalidation that lands in between orphans the write-back.
type ItemCache interface {
	Version(ctx context.Context) (int64, bool)
	GetItem(ctx context.Context, version int64, id string) (*models.Item, bool)
	SetItemAsync(version int64, item *models.Item)
	GetList(ctx context.Context, version int64, f models.ItemFilter) (*models.ItemPage, bool)
	SetListAsync(version int64, f models.ItemFilter, page *models.ItemPage)
	InvalidateItem(ctx context.Context, id string)
}

// Mailer renders and delivers a named email template.
type Mailer interface {
	Send(ctx context.Context, template, to string, data interface{}) error
}

// Notifier pushes a freshly written notification to connected clients.
type Notifier interface {
	Broadcast(audience models.Audience, n *models.Notification)
}

// IdempotencyStore remembers which order an Idempotency-Key produced.
type IdempotencyStore interface {
	// Reserve claims key. When the key was claimed before it returns the
	// recorded order id (empty while the first request is still running) and false.
	Reserve(ctx context.Context, key string) (orderID string, reserved bool, err error)
	Complete(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}
