package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/cache"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- In-memory repositories ---

type memItems struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Item
}

func newMemItems(items ...*models.Item) *memItems {
	m := &memItems{items: map[primitive.ObjectID]*models.Item{}}
	for _, it := range items {
		if it.ID.IsZero() {
			it.ID = primitive.NewObjectID()
		}
		m.items[it.ID] = it
	}
	return m
}

func (m *memItems) Create(_ context.Context, item *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	m.items[item.ID] = item
	return nil
}

func (m *memItems) FindByID(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memItems) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Item
	for _, id := range ids {
		if it, ok := m.items[id]; ok {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memItems) Find(_ context.Context, f models.ItemFilter) ([]*models.Item, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Item
	for _, it := range m.items {
		if (f.Category == "" || it.Category == f.Category) && (f.Email == "" || it.Email == f.Email) {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memItems) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["title"].(string); ok {
		it.Title = v
	}
	if v, ok := updates["price"].(float64); ok {
		it.Price = v
	}
	if v, ok := updates["images"].([]string); ok {
		it.Images = v
	}
	cp := *it
	return &cp, nil
}

func (m *memItems) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memItems) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok || it.Quantity < qty {
		return nil, repository.ErrOutOfStock
	}
	before := *it
	it.Quantity -= qty
	return &before, nil
}

func (m *memItems) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; ok {
		it.Quantity += qty
	}
	return nil
}

func (m *memItems) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memItems) quantity(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Quantity
}

type memOrders struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]*models.Order
	createErr error
}

func newMemOrders(orders ...*models.Order) *memOrders {
	m := &memOrders{orders: map[primitive.ObjectID]*models.Order{}}
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		m.orders[o.ID] = o
	}
	return m
}

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	o.ID = primitive.NewObjectID()
	o.OrderDate = time.Now()
	m.orders[o.ID] = o
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) filter(keep func(*models.Order) bool) []*models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Order{}
	for _, o := range m.orders {
		if keep(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}

func (m *memOrders) FindBySeller(_ context.Context, email string) ([]*models.Order, error) {
	return m.filter(func(o *models.Order) bool { return o.SellerEmail == email }), nil
}

func (m *memOrders) FindByUser(_ context.Context, email string) ([]*models.Order, error) {
	return m.filter(func(o *models.Order) bool { return o.UserEmail == email }), nil
}

func (m *memOrders) FindAll(context.Context) ([]*models.Order, error) {
	return m.filter(func(*models.Order) bool { return true }), nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.OrderStatus = status
	cp := *o
	return &cp, nil
}

func (m *memOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, id)
	return nil
}

func (m *memOrders) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type memOutbox struct {
	mu        sync.Mutex
	events    []*models.OutboxEvent
	appendErr error
}

func (m *memOutbox) Append(_ context.Context, e *models.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	e.ID = primitive.NewObjectID()
	m.events = append(m.events, e)
	return nil
}

func (m *memOutbox) FindPending(context.Context, int, int) ([]*models.OutboxEvent, error) {
	return nil, nil
}

func (m *memOutbox) MarkDispatched(context.Context, primitive.ObjectID, time.Time) error { return nil }

func (m *memOutbox) MarkFailed(context.Context, primitive.ObjectID, string) error { return nil }

func (m *memOutbox) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		out = append(out, e.EventType)
	}
	return out
}

type memSellers struct {
	apps      map[string]*models.SellerApplication
	decideErr error
}

func newMemSellers(apps ...*models.SellerApplication) *memSellers {
	m := &memSellers{apps: map[string]*models.SellerApplication{}}
	for _, a := range apps {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		m.apps[a.PersonalInfo.Email] = a
	}
	return m
}

func (m *memSellers) Create(_ context.Context, app *models.SellerApplication) error {
	if _, ok := m.apps[app.PersonalInfo.Email]; ok {
		return repository.ErrDuplicate
	}
	app.ID = primitive.NewObjectID()
	m.apps[app.PersonalInfo.Email] = app
	return nil
}

func (m *memSellers) FindByEmail(_ context.Context, email string) (*models.SellerApplication, error) {
	a, ok := m.apps[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memSellers) FindAll(_ context.Context, status models.ApplicationStatus) ([]*models.SellerApplication, error) {
	var out []*models.SellerApplication
	for _, a := range m.apps {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memSellers) Decide(_ context.Context, email string, status models.ApplicationStatus) (*models.SellerApplication, error) {
	if m.decideErr != nil {
		return nil, m.decideErr
	}
	a, ok := m.apps[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if a.Status != models.ApplicationPending {
		return nil, repository.ErrConflict
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (m *memSellers) Reopen(_ context.Context, email string) error {
	if a, ok := m.apps[email]; ok {
		a.Status = models.ApplicationPending
	}
	return nil
}

func (m *memSellers) CountByStatus(_ context.Context, status models.ApplicationStatus) (int64, error) {
	var n int64
	for _, a := range m.apps {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

type memUsers struct {
	byEmail map[string]*models.User
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{byEmail: map[string]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *memUsers) byID(id primitive.ObjectID) *models.User {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	u.ID = primitive.NewObjectID()
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u := m.byID(id)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindAll(context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range m.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	u := m.byID(id)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["name"].(string); ok {
		u.Name = v
	}
	if v, ok := updates["mobile"].(string); ok {
		for _, other := range m.byEmail {
			if other.ID != id && other.Mobile == v {
				return nil, repository.ErrDuplicate
			}
		}
		u.Mobile = v
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) SetLevel(_ context.Context, email string, level int) error {
	u, ok := m.byEmail[email]
	if !ok {
		return repository.ErrNotFound
	}
	u.UserLevel = level
	return nil
}

func (m *memUsers) RecordLoginFailure(_ context.Context, id primitive.ObjectID, attempts int, at time.Time) error {
	u := m.byID(id)
	u.LoginAttempts = attempts
	u.LastLoginAttempt = &at
	return nil
}

func (m *memUsers) ResetLoginAttempts(_ context.Context, id primitive.ObjectID) error {
	u := m.byID(id)
	u.LoginAttempts = 0
	u.LastLoginAttempt = nil
	return nil
}

func (m *memUsers) SetResetToken(_ context.Context, id primitive.ObjectID, hash string, expires time.Time) error {
	u := m.byID(id)
	u.ResetPasswordToken = hash
	u.ResetPasswordExpires = &expires
	return nil
}

func (m *memUsers) FindByActiveResetToken(_ context.Context, email string, now time.Time) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok || u.ResetPasswordExpires == nil || !u.ResetPasswordExpires.After(now) {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) CompletePasswordReset(_ context.Context, id primitive.ObjectID, hash string) error {
	u := m.byID(id)
	u.Password = hash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
	return nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	u := m.byID(id)
	if u == nil {
		return repository.ErrNotFound
	}
	delete(m.byEmail, u.Email)
	return nil
}

func (m *memUsers) CountByLevel(context.Context) (map[int]int64, error) {
	out := map[int]int64{models.LevelAdmin: 0, models.LevelSeller: 0, models.LevelBuyer: 0}
	for _, u := range m.byEmail {
		out[u.UserLevel]++
	}
	return out, nil
}

type memNotifications struct {
	notes     []*models.Notification
	createErr error
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	n.ID = primitive.NewObjectID()
	m.notes = append(m.notes, n)
	return nil
}

func (m *memNotifications) FindByRecipient(_ context.Context, recipient string, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for i := len(m.notes) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notes[i].Recipient == recipient {
			out = append(out, m.notes[i])
		}
	}
	return out, nil
}

func (m *memNotifications) CountUnread(_ context.Context, recipient string) (int64, error) {
	var n int64
	for _, note := range m.notes {
		if note.Recipient == recipient && !note.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id primitive.ObjectID, recipient string) error {
	for _, note := range m.notes {
		if note.ID == id && note.Recipient == recipient {
			note.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memNotifications) MarkAllRead(_ context.Context, recipient string) (int64, error) {
	var n int64
	for _, note := range m.notes {
		if note.Recipient == recipient && !note.IsRead {
			note.IsRead = true
			n++
		}
	}
	return n, nil
}

type memWishlist struct {
	entries []*models.WishlistEntry
}

func (m *memWishlist) Add(_ context.Context, e *models.WishlistEntry) error {
	for _, x := range m.entries {
		if x.Email == e.Email && x.ItemID == e.ItemID {
			return repository.ErrDuplicate
		}
	}
	e.ID = primitive.NewObjectID()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memWishlist) FindByEmail(_ context.Context, email string) ([]*models.WishlistEntry, error) {
	out := []*models.WishlistEntry{}
	for _, x := range m.entries {
		if x.Email == email {
			out = append(out, x)
		}
	}
	return out, nil
}

func (m *memWishlist) Exists(_ context.Context, email string, itemID primitive.ObjectID) (bool, error) {
	for _, x := range m.entries {
		if x.Email == email && x.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memWishlist) Remove(_ context.Context, email string, itemID primitive.ObjectID) error {
	for i, x := range m.entries {
		if x.Email == email && x.ItemID == itemID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memWishlist) RemoveItem(_ context.Context, itemID primitive.ObjectID) (int64, error) {
	var kept []*models.WishlistEntry
	var n int64
	for _, x := range m.entries {
		if x.ItemID == itemID {
			n++
			continue
		}
		kept = append(kept, x)
	}
	m.entries = kept
	return n, nil
}

type memStores struct {
	stores map[string]*models.Store
}

func newMemStores(stores ...*models.Store) *memStores {
	m := &memStores{stores: map[string]*models.Store{}}
	for _, s := range stores {
		m.stores[s.Email] = s
	}
	return m
}

func (m *memStores) Create(_ context.Context, s *models.Store) error {
	if _, ok := m.stores[s.Email]; ok {
		return repository.ErrDuplicate
	}
	s.ID = primitive.NewObjectID()
	m.stores[s.Email] = s
	return nil
}

func (m *memStores) FindByEmail(_ context.Context, email string) (*models.Store, error) {
	s, ok := m.stores[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (m *memStores) Update(_ context.Context, email string, updates map[string]interface{}) (*models.Store, error) {
	s, ok := m.stores[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["storeName"].(string); ok {
		s.StoreName = v
	}
	return s, nil
}

func (m *memStores) FindAll(context.Context) ([]*models.Store, error) {
	var out []*models.Store
	for _, s := range m.stores {
		out = append(out, s)
	}
	return out, nil
}

func (m *memStores) Count(context.Context) (int64, error) {
	return int64(len(m.stores)), nil
}

// memCache keeps entries under the same versioned keys the Redis cache uses.
type memCache struct {
	mu      sync.Mutex
	version int64
	entries map[string]interface{}
}

func newMemCache() *memCache {
	return &memCache{version: 1, entries: map[string]interface{}{}}
}

func (m *memCache) Version(context.Context) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version, true
}

func (m *memCache) GetItem(_ context.Context, version int64, id string) (*models.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.entries[cache.ItemCacheKey(version, id)].(*models.Item)
	if !ok {
		return nil, false
	}
	cp := *it
	return &cp, true
}

func (m *memCache) SetItemAsync(version int64, item *models.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.entries[cache.ItemCacheKey(version, item.ID.Hex())] = &cp
}

func (m *memCache) GetList(_ context.Context, version int64, f models.ItemFilter) (*models.ItemPage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.entries[cache.ListCacheKey(version, f)].(*models.ItemPage)
	return page, ok
}

func (m *memCache) SetListAsync(version int64, f models.ItemFilter, page *models.ItemPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[cache.ListCacheKey(version, f)] = page
}

func (m *memCache) InvalidateItem(context.Context, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version++
}

// --- Mocks for collaborators ---

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, template, to string, data interface{}) error {
	args := m.Called(ctx, template, to, data)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Broadcast(audience models.Audience, n *models.Notification) {
	m.Called(audience, n)
}

type MockIdempotencyStore struct{ mock.Mock }

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	args := m.Called(ctx, key, orderID)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var errBoom = errors.New("boom")
