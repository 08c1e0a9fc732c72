package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"go.uber.org/zap"
)

// UserService covers profile management and admin user removal.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, actor Actor, userID string) error
}

type userServiceImpl struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{users: users, logger: logger}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	oid, err := repository.ParseID(userID)
	if err != nil {
		return nil, apperrors.Validation("invalid user id")
	}
	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to get user", err)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	oid, err := repository.ParseID(userID)
	if err != nil {
		return nil, apperrors.Validation("invalid user id")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Mobile != nil {
		updates["mobile"] = strings.TrimSpace(*req.Mobile)
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("nothing to update")
	}

	user, err := s.users.UpdateProfile(ctx, oid, updates)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("user not found")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.Validation("mobile number is already in use")
		}
		return nil, apperrors.Internal("failed to update profile", err)
	}
	return user, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list users", err)
	}
	return users, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, actor Actor, userID string) error {
	oid, err := repository.ParseID(userID)
	if err != nil {
		return apperrors.Validation("invalid user id")
	}
	if actor.ID == userID {
		return apperrors.Validation("you cannot remove your own account")
	}

	if err := s.users.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return apperrors.Internal("failed to delete user", err)
	}
	s.logger.Info("User removed", zap.String("user_id", userID), zap.String("by", actor.ID))
	return nil
}
