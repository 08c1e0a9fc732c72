package services

import (
	"context"
	"errors"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"go.uber.org/zap"
)

const feedLimit = 50

// NotificationService reads and acknowledges the admin and seller logs.
type NotificationService interface {
	Feed(ctx context.Context, audience models.Audience, recipient string) (*models.NotificationFeed, error)
	MarkRead(ctx context.Context, audience models.Audience, recipient, id string) error
	MarkAllRead(ctx context.Context, audience models.Audience, recipient string) (int64, error)
}

type notificationServiceImpl struct {
	admin  repository.NotificationRepository
	seller repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(admin, seller repository.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationServiceImpl{admin: admin, seller: seller, logger: logger}
}

// log picks the repository and normalizes the recipient for audience.
func (s *notificationServiceImpl) log(audience models.Audience, recipient string) (repository.NotificationRepository, string, error) {
	switch audience {
	case models.AudienceAdmin:
		return s.admin, models.AdminRecipient, nil
	case models.AudienceSeller:
		if recipient == "" {
			return nil, "", apperrors.Validation("email is required")
		}
		return s.seller, recipient, nil
	default:
		return nil, "", apperrors.Validation("unknown notification audience")
	}
}

func (s *notificationServiceImpl) Feed(ctx context.Context, audience models.Audience, recipient string) (*models.NotificationFeed, error) {
	repo, recipient, err := s.log(audience, recipient)
	if err != nil {
		return nil, err
	}

	items, err := repo.FindByRecipient(ctx, recipient, feedLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list notifications", err)
	}
	unread, err := repo.CountUnread(ctx, recipient)
	if err != nil {
		return nil, apperrors.Internal("failed to count notifications", err)
	}

	feed := &models.NotificationFeed{Notifications: make([]models.Notification, 0, len(items)), UnreadCount: unread}
	for _, n := range items {
		feed.Notifications = append(feed.Notifications, *n)
	}
	return feed, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, audience models.Audience, recipient, id string) error {
	repo, recipient, err := s.log(audience, recipient)
	if err != nil {
		return err
	}
	oid, err := repository.ParseID(id)
	if err != nil {
		return apperrors.Validation("invalid notification id")
	}

	if err := repo.MarkRead(ctx, oid, recipient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("notification not found")
		}
		return apperrors.Internal("failed to mark notification read", err)
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, audience models.Audience, recipient string) (int64, error) {
	repo, recipient, err := s.log(audience, recipient)
	if err != nil {
		return 0, err
	}
	n, err := repo.MarkAllRead(ctx, recipient)
	if err != nil {
		return 0, apperrors.Internal("failed to mark notifications read", err)
	}
	s.logger.Debug("Notifications marked read", zap.String("audience", string(audience)), zap.Int64("count", n))
	return n, nil
}
