package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/database"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"go.uber.org/zap"
)

// SellerService runs the seller application workflow.
type SellerService interface {
	Submit(ctx context.Context, actor Actor, req *models.SellerApplicationRequest) (*models.SellerApplication, error)
	Status(ctx context.Context, email string) (*models.SellerApplication, error)
	List(ctx context.Context, status string) ([]*models.SellerApplication, error)
	Decide(ctx context.Context, req *models.SellerDecisionRequest) (*models.SellerApplication, error)
}

type SellerDeps struct {
	Sellers             repository.SellerRepository
	Users               repository.UserRepository
	AdminNotifications  repository.NotificationRepository
	SellerNotifications repository.NotificationRepository
	Outbox              repository.OutboxRepository
	Tx                  database.TxRunner
	Notifier            Notifier
	Metrics             *awspkg.MetricsClient
}

type sellerServiceImpl struct {
	SellerDeps
	logger *zap.Logger
}

func NewSellerService(deps SellerDeps, logger *zap.Logger) SellerService {
	if deps.Tx == nil {
		deps.Tx = database.DirectTx{}
	}
	return &sellerServiceImpl{SellerDeps: deps, logger: logger}
}

func (s *sellerServiceImpl) Submit(ctx context.Context, actor Actor, req *models.SellerApplicationRequest) (*models.SellerApplication, error) {
	if !actor.CanActFor(req.PersonalInfo.Email) {
		return nil, apperrors.Forbidden("you can only apply for your own account")
	}

	app := &models.SellerApplication{
		PersonalInfo: req.PersonalInfo,
		BusinessInfo: req.BusinessInfo,
		Status:       models.ApplicationPending,
	}
	var note *models.Notification

	err := s.Tx.Run(ctx, func(ctx context.Context) error {
		if err := s.Sellers.Create(ctx, app); err != nil {
			return err
		}

		ref := app.ID
		note = &models.Notification{
			Recipient:   models.AdminRecipient,
			Title:       "New seller application",
			Message:     fmt.Sprintf("%s applied to sell as %s.", app.PersonalInfo.FullName, app.BusinessInfo.BusinessName),
			Type:        models.NotificationSellerApplication,
			ReferenceID: &ref,
		}
		if err := s.AdminNotifications.Create(ctx, note); err != nil {
			return err
		}

		return appendEvent(ctx, s.Outbox, models.EventSellerApplicationSubmitted, app.ID.Hex(), sellerEvent(app))
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Validation("an application with these details already exists")
		}
		return nil, apperrors.Internal("failed to submit seller application", err)
	}

	s.broadcast(models.AudienceAdmin, note)
	s.logger.Info("Seller application submitted", zap.String("email", app.PersonalInfo.Email))
	return app, nil
}

func (s *sellerServiceImpl) Status(ctx context.Context, email string) (*models.SellerApplication, error) {
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	app, err := s.Sellers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("no seller application found")
		}
		return nil, apperrors.Internal("failed to get seller application", err)
	}
	return app, nil
}

func (s *sellerServiceImpl) List(ctx context.Context, status string) ([]*models.SellerApplication, error) {
	st := models.ApplicationStatus(status)
	if st != "" && st != models.ApplicationPending && !st.Terminal() {
		return nil, apperrors.Validation("invalid status filter")
	}
	apps, err := s.Sellers.FindAll(ctx, st)
	if err != nil {
		return nil, apperrors.Internal("failed to list seller applications", err)
	}
	return apps, nil
}

// Decide approves or rejects a pending application. Repeating the decision an
// application already carries is a no-op; reversing it is rejected.
func (s *sellerServiceImpl) Decide(ctx context.Context, req *models.SellerDecisionRequest) (*models.SellerApplication, error) {
	if !req.Status.Terminal() {
		return nil, apperrors.Validation("status must be approved or rejected")
	}

	app, err := s.Sellers.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("seller application not found")
		}
		return nil, apperrors.Internal("failed to get seller application", err)
	}
	done, err := checkDecision(app, req.Status)
	if err != nil {
		return nil, err
	}
	if done {
		return app, nil
	}

	if req.Status == models.ApplicationApproved {
		if _, err := s.Users.FindByEmail(ctx, req.Email); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("no user account exists for this applicant")
			}
			return nil, apperrors.Internal("failed to get user", err)
		}
	}

	var (
		decided *models.SellerApplication
		note    *models.Notification
	)
	err = s.Tx.Run(ctx, func(ctx context.Context) error {
		var err error
		if decided, err = s.Sellers.Decide(ctx, req.Email, req.Status); err != nil {
			return err
		}
		if req.Status != models.ApplicationApproved {
			return nil
		}

		if err := s.Users.SetLevel(ctx, req.Email, models.LevelSeller); err != nil {
			s.reopen(ctx, req.Email)
			return err
		}

		ref := decided.ID
		note = &models.Notification{
			Recipient:   req.Email,
			Title:       "Seller application approved",
			Message:     fmt.Sprintf("Your application for %s has been approved. You can now create your store.", decided.BusinessInfo.BusinessName),
			Type:        models.NotificationSellerApproved,
			ReferenceID: &ref,
		}
		if err := s.SellerNotifications.Create(ctx, note); err != nil {
			s.revertApproval(ctx, req.Email)
			return err
		}
		if err := appendEvent(ctx, s.Outbox, models.EventSellerApproved, decided.ID.Hex(), sellerEvent(decided)); err != nil {
			s.revertApproval(ctx, req.Email)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return s.resolveConflict(ctx, req)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("seller application not found")
		}
		return nil, apperrors.Internal("failed to update seller application", err)
	}

	if note != nil {
		s.broadcast(models.AudienceSeller, note)
		if s.Metrics.IsEnabled() {
			_ = s.Metrics.RecordCount(ctx, awspkg.MetricSellersApproved, nil)
		}
	}
	s.logger.Info("Seller application decided", zap.String("email", req.Email), zap.String("status", string(req.Status)))
	return decided, nil
}

// resolveConflict handles a decision that lost a race with another decision.
func (s *sellerServiceImpl) resolveConflict(ctx context.Context, req *models.SellerDecisionRequest) (*models.SellerApplication, error) {
	app, err := s.Sellers.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to get seller application", err)
	}
	if _, err := checkDecision(app, req.Status); err != nil {
		return nil, err
	}
	return app, nil
}

// checkDecision reports done when app already carries status, and an error
// when app was decided the other way.
func checkDecision(app *models.SellerApplication, status models.ApplicationStatus) (bool, error) {
	if app.Status == status {
		return true, nil
	}
	if app.Status.Terminal() {
		return true, apperrors.Validation(fmt.Sprintf("application has already been %s", app.Status))
	}
	return false, nil
}

func (s *sellerServiceImpl) reopen(ctx context.Context, email string) {
	if err := s.Sellers.Reopen(ctx, email); err != nil {
		s.logger.Error("Failed to reopen seller application", zap.String("email", email), zap.Error(err))
	}
}

func (s *sellerServiceImpl) revertApproval(ctx context.Context, email string) {
	if err := s.Users.SetLevel(ctx, email, models.LevelBuyer); err != nil {
		s.logger.Error("Failed to revert user level", zap.String("email", email), zap.Error(err))
	}
	s.reopen(ctx, email)
}

func (s *sellerServiceImpl) broadcast(audience models.Audience, n *models.Notification) {
	if s.Notifier != nil && n != nil {
		s.Notifier.Broadcast(audience, n)
	}
}

func sellerEvent(app *models.SellerApplication) models.SellerEvent {
	return models.SellerEvent{
		ApplicationID: app.ID.Hex(),
		Email:         app.PersonalInfo.Email,
		FullName:      app.PersonalInfo.FullName,
		BusinessName:  app.BusinessInfo.BusinessName,
	}
}
