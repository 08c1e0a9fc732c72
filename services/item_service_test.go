package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memImages struct {
	saved   []string
	deleted []string
	saveErr error
}

func (m *memImages) Save(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	url := "/uploads/" + filename
	m.saved = append(m.saved, url)
	return url, nil
}

func (m *memImages) Delete(_ context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}

func upload(name string) ImageUpload {
	return ImageUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        3,
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("png")), nil },
	}
}

func itemInput(email string) models.ItemInput {
	return models.ItemInput{
		Title: "Vintage Lamp", Category: "Home", Condition: "Used", Price: 20,
		Quantity: 2, ListingType: models.ListingFixed, ShippingCost: 3, Email: email,
	}
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()
	stores := newMemStores(&models.Store{Email: "seller@example.com", StoreName: "Lamps"})

	t.Run("Success stores images", func(t *testing.T) {
		// Arrange
		images := &memImages{}
		svc := NewItemService(newMemItems(), stores, &memWishlist{}, images, nil, nil, zap.NewNop())

		// Act
		item, err := svc.CreateItem(ctx, itemInput("seller@example.com"), []ImageUpload{upload("a.png"), upload("b.png")})

		// Assert
		require.NoError(t, err)
		assert.False(t, item.ID.IsZero())
		assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, item.Images)
	})

	t.Run("Store required first", func(t *testing.T) {
		images := &memImages{}
		svc := NewItemService(newMemItems(), stores, &memWishlist{}, images, nil, nil, zap.NewNop())

		_, err := svc.CreateItem(ctx, itemInput("nostore@example.com"), []ImageUpload{upload("a.png")})

		assertCode(t, err, http.StatusBadRequest)
		assert.Empty(t, images.saved)
	})

	t.Run("Auction needs a starting bid", func(t *testing.T) {
		svc := NewItemService(newMemItems(), stores, &memWishlist{}, &memImages{}, nil, nil, zap.NewNop())
		input := itemInput("seller@example.com")
		input.ListingType = models.ListingAuction

		_, err := svc.CreateItem(ctx, input, []ImageUpload{upload("a.png")})

		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("Image required", func(t *testing.T) {
		svc := NewItemService(newMemItems(), stores, &memWishlist{}, &memImages{}, nil, nil, zap.NewNop())

		_, err := svc.CreateItem(ctx, itemInput("seller@example.com"), nil)

		assertCode(t, err, http.StatusBadRequest)
	})
}

func TestUpdateAndDeleteItem(t *testing.T) {
	ctx := context.Background()
	stores := newMemStores(&models.Store{Email: "seller@example.com"})

	t.Run("New images replace old ones after the update", func(t *testing.T) {
		// Arrange
		existing := &models.Item{ID: primitive.NewObjectID(), Title: "Lamp", Price: 5, Email: "seller@example.com", Images: []string{"/uploads/old.png"}}
		images := &memImages{}
		svc := NewItemService(newMemItems(existing), stores, &memWishlist{}, images, nil, nil, zap.NewNop())

		// Act
		updated, err := svc.UpdateItem(ctx, existing.ID.Hex(), "seller@example.com", itemInput("seller@example.com"), []ImageUpload{upload("new.png")})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"/uploads/new.png"}, updated.Images)
		assert.Equal(t, []string{"/uploads/old.png"}, images.deleted)
	})

	t.Run("Only the owner may update", func(t *testing.T) {
		existing := &models.Item{ID: primitive.NewObjectID(), Email: "seller@example.com"}
		svc := NewItemService(newMemItems(existing), stores, &memWishlist{}, &memImages{}, nil, nil, zap.NewNop())

		_, err := svc.UpdateItem(ctx, existing.ID.Hex(), "other@example.com", itemInput("other@example.com"), nil)

		assertCode(t, err, http.StatusForbidden)
	})

	t.Run("Delete removes images and wishlist entries", func(t *testing.T) {
		// Arrange
		existing := &models.Item{ID: primitive.NewObjectID(), Email: "seller@example.com", Images: []string{"/uploads/x.png"}}
		images := &memImages{}
		wishlist := &memWishlist{entries: []*models.WishlistEntry{{Email: "ann@example.com", ItemID: existing.ID}}}
		items := newMemItems(existing)
		svc := NewItemService(items, stores, wishlist, images, nil, nil, zap.NewNop())

		// Act
		err := svc.DeleteItem(ctx, existing.ID.Hex(), "seller@example.com")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"/uploads/x.png"}, images.deleted)
		assert.Empty(t, wishlist.entries)
		_, err = svc.GetItem(ctx, existing.ID.Hex())
		assertCode(t, err, http.StatusNotFound)
	})
}

func TestListItems_Pagination(t *testing.T) {
	svc := NewItemService(newMemItems(&models.Item{Title: "A"}), newMemStores(), nil, &memImages{}, nil, nil, zap.NewNop())

	page, err := svc.ListItems(context.Background(), models.ItemFilter{Limit: 500})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxPageSize, page.Limit)
	assert.Equal(t, int64(1), page.Total)
}

// racingItems runs duringRead once, after the repository read and before the
// caller gets the result, the way a concurrent writer can interleave.
type racingItems struct {
	*memItems
	duringRead func()
}

func (r *racingItems) race() {
	if f := r.duringRead; f != nil {
		r.duringRead = nil
		f()
	}
}

func (r *racingItems) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	item, err := r.memItems.FindByID(ctx, id)
	r.race()
	return item, err
}

func (r *racingItems) Find(ctx context.Context, f models.ItemFilter) ([]*models.Item, int64, error) {
	items, total, err := r.memItems.Find(ctx, f)
	r.race()
	return items, total, err
}

func TestItemService_Cache(t *testing.T) {
	ctx := context.Background()
	stores := newMemStores()

	t.Run("Second read is served from the cache", func(t *testing.T) {
		existing := &models.Item{ID: primitive.NewObjectID(), Title: "Old", Email: "seller@example.com"}
		items := newMemItems(existing)
		svc := NewItemService(items, stores, &memWishlist{}, &memImages{}, newMemCache(), nil, zap.NewNop())

		_, err := svc.GetItem(ctx, existing.ID.Hex())
		require.NoError(t, err)
		delete(items.items, existing.ID)

		got, err := svc.GetItem(ctx, existing.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Old", got.Title)
	})

	t.Run("Detail refill racing an update is not served", func(t *testing.T) {
		// Arrange
		existing := &models.Item{ID: primitive.NewObjectID(), Title: "Old", Email: "seller@example.com"}
		items := &racingItems{memItems: newMemItems(existing)}
		itemCache := newMemCache()
		svc := NewItemService(items, stores, &memWishlist{}, &memImages{}, itemCache, nil, zap.NewNop())
		items.duringRead = func() {
			_, err := items.memItems.Update(ctx, existing.ID, map[string]interface{}{"title": "New"})
			require.NoError(t, err)
			itemCache.InvalidateItem(ctx, existing.ID.Hex())
		}

		// Act
		first, err := svc.GetItem(ctx, existing.ID.Hex())
		require.NoError(t, err)
		second, err := svc.GetItem(ctx, existing.ID.Hex())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Old", first.Title)
		assert.Equal(t, "New", second.Title)
	})

	t.Run("Page refill racing an update is not served", func(t *testing.T) {
		existing := &models.Item{ID: primitive.NewObjectID(), Title: "Old", Email: "seller@example.com"}
		items := &racingItems{memItems: newMemItems(existing)}
		itemCache := newMemCache()
		svc := NewItemService(items, stores, &memWishlist{}, &memImages{}, itemCache, nil, zap.NewNop())
		items.duringRead = func() {
			_, err := items.memItems.Update(ctx, existing.ID, map[string]interface{}{"title": "New"})
			require.NoError(t, err)
			itemCache.InvalidateItem(ctx, existing.ID.Hex())
		}

		_, err := svc.ListItems(ctx, models.ItemFilter{})
		require.NoError(t, err)
		page, err := svc.ListItems(ctx, models.ItemFilter{})

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "New", page.Items[0].Title)
	})
}
