package services

import (
	"context"
	"errors"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type WishlistService interface {
	Add(ctx context.Context, req *models.AddWishlistRequest) (*models.WishlistEntry, error)
	List(ctx context.Context, email string) ([]*models.WishlistView, error)
	Check(ctx context.Context, email, itemID string) (bool, error)
	Remove(ctx context.Context, email, itemID string) error
}

type wishlistServiceImpl struct {
	wishlist repository.WishlistRepository
	items    repository.ItemRepository
	logger   *zap.Logger
}

func NewWishlistService(wishlist repository.WishlistRepository, items repository.ItemRepository, logger *zap.Logger) WishlistService {
	return &wishlistServiceImpl{wishlist: wishlist, items: items, logger: logger}
}

func (s *wishlistServiceImpl) Add(ctx context.Context, req *models.AddWishlistRequest) (*models.WishlistEntry, error) {
	itemID, err := repository.ParseID(req.ItemID)
	if err != nil {
		return nil, apperrors.Validation("invalid item id")
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("item not found")
		}
		return nil, apperrors.Internal("failed to get item", err)
	}

	entry := &models.WishlistEntry{Email: req.Email, ItemID: itemID}
	if err := s.wishlist.Add(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Validation("item is already in your wishlist")
		}
		return nil, apperrors.Internal("failed to add to wishlist", err)
	}
	return entry, nil
}

func (s *wishlistServiceImpl) List(ctx context.Context, email string) ([]*models.WishlistView, error) {
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	entries, err := s.wishlist.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal("failed to list wishlist", err)
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ItemID)
	}
	items, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load wishlist items", err)
	}
	byID := make(map[primitive.ObjectID]*models.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	views := make([]*models.WishlistView, 0, len(entries))
	for _, e := range entries {
		views = append(views, &models.WishlistView{WishlistEntry: *e, Item: byID[e.ItemID]})
	}
	return views, nil
}

func (s *wishlistServiceImpl) Check(ctx context.Context, email, itemID string) (bool, error) {
	oid, err := repository.ParseID(itemID)
	if err != nil {
		return false, apperrors.Validation("invalid item id")
	}
	if email == "" {
		return false, apperrors.Validation("email is required")
	}
	ok, err := s.wishlist.Exists(ctx, email, oid)
	if err != nil {
		return false, apperrors.Internal("failed to check wishlist", err)
	}
	return ok, nil
}

func (s *wishlistServiceImpl) Remove(ctx context.Context, email, itemID string) error {
	oid, err := repository.ParseID(itemID)
	if err != nil {
		return apperrors.Validation("invalid item id")
	}
	if email == "" {
		return apperrors.Validation("email is required")
	}
	if err := s.wishlist.Remove(ctx, email, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("item is not in your wishlist")
		}
		return apperrors.Internal("failed to remove from wishlist", err)
	}
	return nil
}
