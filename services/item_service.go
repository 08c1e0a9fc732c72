package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/storage"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// ItemService defines the business logic of the item catalog.
type ItemService interface {
	CreateItem(ctx context.Context, input models.ItemInput, images []ImageUpload) (*models.Item, error)
	ListItems(ctx context.Context, filter models.ItemFilter) (*models.ItemPage, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListSellerItems(ctx context.Context, email string) ([]*models.Item, error)
	UpdateItem(ctx context.Context, id, email string, input models.ItemInput, images []ImageUpload) (*models.Item, error)
	DeleteItem(ctx context.Context, id, email string) error
}

type itemServiceImpl struct {
	items    repository.ItemRepository
	stores   repository.StoreRepository
	wishlist repository.WishlistRepository
	images   storage.ImageStore
	cache    ItemCache
	metrics  *awspkg.MetricsClient
	logger   *zap.Logger
}

func NewItemService(
	items repository.ItemRepository,
	stores repository.StoreRepository,
	wishlist repository.WishlistRepository,
	images storage.ImageStore,
	cache ItemCache,
	metrics *awspkg.MetricsClient,
	logger *zap.Logger,
) ItemService {
	return &itemServiceImpl{
		items:    items,
		stores:   stores,
		wishlist: wishlist,
		images:   images,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *itemServiceImpl) CreateItem(ctx context.Context, input models.ItemInput, images []ImageUpload) (*models.Item, error) {
	if err := validateListing(input); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperrors.Validation("at least one image is required")
	}

	if _, err := s.stores.FindByEmail(ctx, input.Email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation("create a store before adding items")
		}
		return nil, apperrors.Internal("failed to look up store", err)
	}

	urls, err := s.saveImages(ctx, images)
	if err != nil {
		return nil, err
	}

	item := newItem(input)
	item.Images = urls
	if err := s.items.Create(ctx, item); err != nil {
		s.deleteImages(ctx, urls)
		return nil, apperrors.Internal("failed to create item", err)
	}

	s.invalidate(ctx, "")
	if s.metrics.IsEnabled() {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricItemsCreated, map[string]string{"Category": item.Category})
	}
	s.logger.Info("Item created", zap.String("item_id", item.ID.Hex()), zap.String("seller", item.Email))
	return item, nil
}

func (s *itemServiceImpl) ListItems(ctx context.Context, filter models.ItemFilter) (*models.ItemPage, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	version, cached := s.cacheVersion(ctx)
	if cached {
		if page, ok := s.cache.GetList(ctx, version, filter); ok {
			return page, nil
		}
	}

	items, total, err := s.items.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list items", err)
	}
	page := &models.ItemPage{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}

	if cached {
		s.cache.SetListAsync(version, filter, page)
	}
	return page, nil
}

func (s *itemServiceImpl) GetItem(ctx context.Context, id string) (*models.Item, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, apperrors.Validation("invalid item id")
	}

	version, cached := s.cacheVersion(ctx)
	if cached {
		if item, ok := s.cache.GetItem(ctx, version, id); ok {
			return item, nil
		}
	}

	item, err := s.items.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("item not found")
		}
		return nil, apperrors.Internal("failed to get item", err)
	}

	if cached {
		s.cache.SetItemAsync(version, item)
	}
	return item, nil
}

func (s *itemServiceImpl) ListSellerItems(ctx context.Context, email string) ([]*models.Item, error) {
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	items, _, err := s.items.Find(ctx, models.ItemFilter{Email: email})
	if err != nil {
		return nil, apperrors.Internal("failed to list seller items", err)
	}
	return items, nil
}

func (s *itemServiceImpl) UpdateItem(ctx context.Context, id, email string, input models.ItemInput, images []ImageUpload) (*models.Item, error) {
	existing, err := s.ownedItem(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if err := validateListing(input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":          input.Title,
		"category":       input.Category,
		"condition":      input.Condition,
		"description":    input.Description,
		"price":          input.Price,
		"quantity":       input.Quantity,
		"listingType":    input.ListingType,
		"startingBid":    input.StartingBid,
		"shippingCost":   input.ShippingCost,
		"shippingMethod": input.ShippingMethod,
		"handlingTime":   input.HandlingTime,
		"returnPolicy":   input.ReturnPolicy,
		"location":       input.Location,
	}

	var newURLs []string
	if len(images) > 0 {
		if newURLs, err = s.saveImages(ctx, images); err != nil {
			return nil, err
		}
		updates["images"] = newURLs
	}

	updated, err := s.items.Update(ctx, existing.ID, updates)
	if err != nil {
		s.deleteImages(ctx, newURLs)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("item not found")
		}
		return nil, apperrors.Internal("failed to update item", err)
	}

	// old files go only once the document points at the new set
	if len(newURLs) > 0 {
		s.deleteImages(ctx, existing.Images)
	}

	s.invalidate(ctx, id)
	s.logger.Info("Item updated", zap.String("item_id", id))
	return updated, nil
}

func (s *itemServiceImpl) DeleteItem(ctx context.Context, id, email string) error {
	existing, err := s.ownedItem(ctx, id, email)
	if err != nil {
		return err
	}

	if err := s.items.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("item not found")
		}
		return apperrors.Internal("failed to delete item", err)
	}

	s.deleteImages(ctx, existing.Images)
	if s.wishlist != nil {
		if _, err := s.wishlist.RemoveItem(ctx, existing.ID); err != nil {
			s.logger.Warn("Failed to prune wishlists", zap.String("item_id", id), zap.Error(err))
		}
	}

	s.invalidate(ctx, id)
	s.logger.Info("Item deleted", zap.String("item_id", id))
	return nil
}

// ownedItem loads the item and checks that email owns it.
func (s *itemServiceImpl) ownedItem(ctx context.Context, id, email string) (*models.Item, error) {
	oid, err := repository.ParseID(id)
	if err != nil {
		return nil, apperrors.Validation("invalid item id")
	}
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}

	item, err := s.items.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("item not found")
		}
		return nil, apperrors.Internal("failed to get item", err)
	}
	if item.Email != email {
		return nil, apperrors.Forbidden("you do not own this item")
	}
	return item, nil
}

func (s *itemServiceImpl) saveImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.saveImage(ctx, img)
		if err != nil {
			s.deleteImages(ctx, urls)
			return nil, apperrors.Internal("failed to store image", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *itemServiceImpl) saveImage(ctx context.Context, img ImageUpload) (string, error) {
	f, err := img.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.images.Save(ctx, img.Filename, img.ContentType, f)
}

func (s *itemServiceImpl) deleteImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.images.Delete(ctx, url); err != nil {
			s.logger.Warn("Failed to delete image", zap.String("url", url), zap.Error(err))
		}
	}
}

func (s *itemServiceImpl) cacheVersion(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	return s.cache.Version(ctx)
}

func (s *itemServiceImpl) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.InvalidateItem(ctx, id)
	}
}

func validateListing(input models.ItemInput) error {
	switch {
	case strings.TrimSpace(input.Title) == "":
		return apperrors.Validation("title is required")
	case input.Price <= 0:
		return apperrors.Validation("price must be greater than 0")
	case input.Quantity < 0:
		return apperrors.Validation("quantity cannot be negative")
	case input.ShippingCost < 0:
		return apperrors.Validation("shipping cost cannot be negative")
	}
	switch input.ListingType {
	case models.ListingFixed:
	case models.ListingAuction:
		if input.StartingBid <= 0 {
			return apperrors.Validation("starting bid is required for auction listings")
		}
	default:
		return apperrors.Validation("listing type must be Fixed or Auction")
	}
	return nil
}

func newItem(input models.ItemInput) *models.Item {
	return &models.Item{
		Title:          strings.TrimSpace(input.Title),
		Category:       input.Category,
		Condition:      input.Condition,
		Description:    input.Description,
		Price:          input.Price,
		Quantity:       input.Quantity,
		ListingType:    input.ListingType,
		StartingBid:    input.StartingBid,
		ShippingCost:   input.ShippingCost,
		ShippingMethod: input.ShippingMethod,
		HandlingTime:   input.HandlingTime,
		ReturnPolicy:   input.ReturnPolicy,
		Location:       input.Location,
		Email:          input.Email,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
