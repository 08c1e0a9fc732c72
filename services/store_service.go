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

type StoreService interface {
	CreateStore(ctx context.Context, req *models.CreateStoreRequest) (*models.Store, error)
	CheckStore(ctx context.Context, email string) (*models.Store, bool, error)
	GetStore(ctx context.Context, email string) (*models.Store, error)
	UpdateStore(ctx context.Context, email string, req *models.UpdateStoreRequest) (*models.Store, error)
	ListStores(ctx context.Context) ([]*models.Store, error)
}

type storeServiceImpl struct {
	repo   repository.StoreRepository
	logger *zap.Logger
}

func NewStoreService(repo repository.StoreRepository, logger *zap.Logger) StoreService {
	return &storeServiceImpl{repo: repo, logger: logger}
}

func (s *storeServiceImpl) CreateStore(ctx context.Context, req *models.CreateStoreRequest) (*models.Store, error) {
	store := &models.Store{
		Email:       strings.TrimSpace(req.Email),
		StoreName:   strings.TrimSpace(req.StoreName),
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Validation("a store already exists for this email")
		}
		s.logger.Error("Failed to create store", zap.Error(err))
		return nil, apperrors.Internal("failed to create store", err)
	}
	s.logger.Info("Store created", zap.String("email", store.Email), zap.String("store", store.StoreName))
	return store, nil
}

func (s *storeServiceImpl) CheckStore(ctx context.Context, email string) (*models.Store, bool, error) {
	store, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Internal("failed to check store", err)
	}
	return store, true, nil
}

func (s *storeServiceImpl) GetStore(ctx context.Context, email string) (*models.Store, error) {
	store, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("store not found")
		}
		return nil, apperrors.Internal("failed to get store", err)
	}
	return store, nil
}

func (s *storeServiceImpl) UpdateStore(ctx context.Context, email string, req *models.UpdateStoreRequest) (*models.Store, error) {
	updates := map[string]interface{}{}
	if req.StoreName != nil {
		name := strings.TrimSpace(*req.StoreName)
		if name == "" {
			return nil, apperrors.Validation("store name cannot be empty")
		}
		updates["storeName"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("nothing to update")
	}

	store, err := s.repo.Update(ctx, email, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("store not found")
		}
		return nil, apperrors.Internal("failed to update store", err)
	}
	return store, nil
}

func (s *storeServiceImpl) ListStores(ctx context.Context) ([]*models.Store, error) {
	stores, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list stores", err)
	}
	return stores, nil
}
