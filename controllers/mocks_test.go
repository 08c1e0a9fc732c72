package controllers_test

import (
	"context"
	"io"
	"net/http"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/middleware"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	buyer  = services.Actor{ID: "64b000000000000000000003", Email: "buyer@example.com", Level: models.LevelBuyer}
	seller = services.Actor{ID: "64b000000000000000000002", Email: "seller@example.com", Level: models.LevelSeller}
	admin  = services.Actor{ID: "64b000000000000000000001", Email: "admin@example.com", Level: models.LevelAdmin}
)

// newRouter returns an engine that renders errors and, when actor is non-nil,
// authenticates every request as actor.
func newRouter(actor *services.Actor) *gin.Engine {
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware(zap.NewNop()))
	if actor != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ActorContextKey, *actor)
			c.Next()
		})
	}
	return r
}

// --- Mock ItemService ---

type mockItemService struct {
	createFn     func(ctx context.Context, input models.ItemInput, images []services.ImageUpload) (*models.Item, error)
	listFn       func(ctx context.Context, filter models.ItemFilter) (*models.ItemPage, error)
	getFn        func(ctx context.Context, id string) (*models.Item, error)
	listSellerFn func(ctx context.Context, email string) ([]*models.Item, error)
	updateFn     func(ctx context.Context, id, email string, input models.ItemInput, images []services.ImageUpload) (*models.Item, error)
	deleteFn     func(ctx context.Context, id, email string) error
}

func (m *mockItemService) CreateItem(ctx context.Context, input models.ItemInput, images []services.ImageUpload) (*models.Item, error) {
	return m.createFn(ctx, input, images)
}
func (m *mockItemService) ListItems(ctx context.Context, filter models.ItemFilter) (*models.ItemPage, error) {
	return m.listFn(ctx, filter)
}
func (m *mockItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return m.getFn(ctx, id)
}
func (m *mockItemService) ListSellerItems(ctx context.Context, email string) ([]*models.Item, error) {
	return m.listSellerFn(ctx, email)
}
func (m *mockItemService) UpdateItem(ctx context.Context, id, email string, input models.ItemInput, images []services.ImageUpload) (*models.Item, error) {
	return m.updateFn(ctx, id, email, input, images)
}
func (m *mockItemService) DeleteItem(ctx context.Context, id, email string) error {
	return m.deleteFn(ctx, id, email)
}

// --- Mock StoreService ---

type mockStoreService struct {
	createFn func(ctx context.Context, req *models.CreateStoreRequest) (*models.Store, error)
	checkFn  func(ctx context.Context, email string) (*models.Store, bool, error)
	getFn    func(ctx context.Context, email string) (*models.Store, error)
	updateFn func(ctx context.Context, email string, req *models.UpdateStoreRequest) (*models.Store, error)
	listFn   func(ctx context.Context) ([]*models.Store, error)
}

func (m *mockStoreService) CreateStore(ctx context.Context, req *models.CreateStoreRequest) (*models.Store, error) {
	return m.createFn(ctx, req)
}
func (m *mockStoreService) CheckStore(ctx context.Context, email string) (*models.Store, bool, error) {
	return m.checkFn(ctx, email)
}
func (m *mockStoreService) GetStore(ctx context.Context, email string) (*models.Store, error) {
	return m.getFn(ctx, email)
}
func (m *mockStoreService) UpdateStore(ctx context.Context, email string, req *models.UpdateStoreRequest) (*models.Store, error) {
	return m.updateFn(ctx, email, req)
}
func (m *mockStoreService) ListStores(ctx context.Context) ([]*models.Store, error) {
	return m.listFn(ctx)
}

// --- Mock OrderService ---

type mockOrderService struct {
	createFn     func(ctx context.Context, buyer services.Actor, req *models.CreateOrderRequest, key string) (*models.Order, bool, error)
	updateFn     func(ctx context.Context, actor services.Actor, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, error)
	listSellerFn func(ctx context.Context, email string) ([]*models.Order, error)
	listUserFn   func(ctx context.Context, email string) ([]*models.Order, error)
	getFn        func(ctx context.Context, actor services.Actor, orderID string) (*models.Order, error)
	confirmFn    func(ctx context.Context, actor services.Actor, orderID string) error
}

func (m *mockOrderService) CreateOrder(ctx context.Context, buyer services.Actor, req *models.CreateOrderRequest, key string) (*models.Order, bool, error) {
	return m.createFn(ctx, buyer, req, key)
}
func (m *mockOrderService) UpdateStatus(ctx context.Context, actor services.Actor, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	return m.updateFn(ctx, actor, orderID, req)
}
func (m *mockOrderService) ListSellerOrders(ctx context.Context, email string) ([]*models.Order, error) {
	return m.listSellerFn(ctx, email)
}
func (m *mockOrderService) ListUserOrders(ctx context.Context, email string) ([]*models.Order, error) {
	return m.listUserFn(ctx, email)
}
func (m *mockOrderService) GetOrder(ctx context.Context, actor services.Actor, orderID string) (*models.Order, error) {
	return m.getFn(ctx, actor, orderID)
}
func (m *mockOrderService) SendConfirmation(ctx context.Context, actor services.Actor, orderID string) error {
	return m.confirmFn(ctx, actor, orderID)
}

// --- Mock SellerService ---

type mockSellerService struct {
	submitFn func(ctx context.Context, actor services.Actor, req *models.SellerApplicationRequest) (*models.SellerApplication, error)
	statusFn func(ctx context.Context, email string) (*models.SellerApplication, error)
	listFn   func(ctx context.Context, status string) ([]*models.SellerApplication, error)
	decideFn func(ctx context.Context, req *models.SellerDecisionRequest) (*models.SellerApplication, error)
}

func (m *mockSellerService) Submit(ctx context.Context, actor services.Actor, req *models.SellerApplicationRequest) (*models.SellerApplication, error) {
	return m.submitFn(ctx, actor, req)
}
func (m *mockSellerService) Status(ctx context.Context, email string) (*models.SellerApplication, error) {
	return m.statusFn(ctx, email)
}
func (m *mockSellerService) List(ctx context.Context, status string) ([]*models.SellerApplication, error) {
	return m.listFn(ctx, status)
}
func (m *mockSellerService) Decide(ctx context.Context, req *models.SellerDecisionRequest) (*models.SellerApplication, error) {
	return m.decideFn(ctx, req)
}

// --- Mock NotificationService ---

type mockNotificationService struct {
	feedFn        func(ctx context.Context, audience models.Audience, recipient string) (*models.NotificationFeed, error)
	markReadFn    func(ctx context.Context, audience models.Audience, recipient, id string) error
	markAllReadFn func(ctx context.Context, audience models.Audience, recipient string) (int64, error)
}

func (m *mockNotificationService) Feed(ctx context.Context, audience models.Audience, recipient string) (*models.NotificationFeed, error) {
	return m.feedFn(ctx, audience, recipient)
}
func (m *mockNotificationService) MarkRead(ctx context.Context, audience models.Audience, recipient, id string) error {
	return m.markReadFn(ctx, audience, recipient, id)
}
func (m *mockNotificationService) MarkAllRead(ctx context.Context, audience models.Audience, recipient string) (int64, error) {
	return m.markAllReadFn(ctx, audience, recipient)
}

type mockStream struct {
	audience  models.Audience
	recipient string
}

func (m *mockStream) Serve(w http.ResponseWriter, _ *http.Request, audience models.Audience, recipient string) error {
	m.audience, m.recipient = audience, recipient
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

// --- Mock AuthService / UserService ---

type mockAuthService struct {
	registerFn func(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	loginFn    func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	sendCodeFn func(ctx context.Context, email string) error
	resetFn    func(ctx context.Context, req *models.ResetPasswordRequest) error
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	return m.registerFn(ctx, req)
}
func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	return m.loginFn(ctx, req)
}
func (m *mockAuthService) SendResetCode(ctx context.Context, email string) error {
	return m.sendCodeFn(ctx, email)
}
func (m *mockAuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	return m.resetFn(ctx, req)
}

type mockUserService struct {
	getProfileFn    func(ctx context.Context, userID string) (*models.User, error)
	updateProfileFn func(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error)
	listFn          func(ctx context.Context) ([]*models.User, error)
	deleteFn        func(ctx context.Context, actor services.Actor, userID string) error
}

func (m *mockUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return m.getProfileFn(ctx, userID)
}
func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	return m.updateProfileFn(ctx, userID, req)
}
func (m *mockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return m.listFn(ctx)
}
func (m *mockUserService) DeleteUser(ctx context.Context, actor services.Actor, userID string) error {
	return m.deleteFn(ctx, actor, userID)
}

// --- Mock WishlistService ---

type mockWishlistService struct {
	addFn    func(ctx context.Context, req *models.AddWishlistRequest) (*models.WishlistEntry, error)
	listFn   func(ctx context.Context, email string) ([]*models.WishlistView, error)
	checkFn  func(ctx context.Context, email, itemID string) (bool, error)
	removeFn func(ctx context.Context, email, itemID string) error
}

func (m *mockWishlistService) Add(ctx context.Context, req *models.AddWishlistRequest) (*models.WishlistEntry, error) {
	return m.addFn(ctx, req)
}
func (m *mockWishlistService) List(ctx context.Context, email string) ([]*models.WishlistView, error) {
	return m.listFn(ctx, email)
}
func (m *mockWishlistService) Check(ctx context.Context, email, itemID string) (bool, error) {
	return m.checkFn(ctx, email, itemID)
}
func (m *mockWishlistService) Remove(ctx context.Context, email, itemID string) error {
	return m.removeFn(ctx, email, itemID)
}

// --- Mock AnalyticsService ---

type mockAnalyticsService struct {
	sellerFn func(ctx context.Context, email string) (*models.SellerAnalytics, error)
	adminFn  func(ctx context.Context) (*models.AdminAnalytics, error)
	exportFn func(ctx context.Context, email string, w io.Writer) error
}

func (m *mockAnalyticsService) SellerAnalytics(ctx context.Context, email string) (*models.SellerAnalytics, error) {
	return m.sellerFn(ctx, email)
}
func (m *mockAnalyticsService) AdminAnalytics(ctx context.Context) (*models.AdminAnalytics, error) {
	return m.adminFn(ctx)
}
func (m *mockAnalyticsService) ExportSeller(ctx context.Context, email string, w io.Writer) error {
	return m.exportFn(ctx, email, w)
}
