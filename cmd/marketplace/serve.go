package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/cache"
	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/logger"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/controllers"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/database"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/idempotency"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/middleware"
	awspkg "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/pkg/aws"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/realtime"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/routes"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/storage"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "marketplace-api"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(ctx, serviceName)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.logger
	cfg := a.cfg

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := a.connectMongo(); err != nil {
		return err
	}
	db := database.DB

	// Repositories
	itemRepo := repository.NewMongoItemRepository(db)
	storeRepo := repository.NewMongoStoreRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	sellerRepo := repository.NewMongoSellerRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	wishlistRepo := repository.NewMongoWishlistRepository(db)
	outboxRepo := repository.NewMongoOutboxRepository(db)
	adminNotifications := repository.NewMongoNotificationRepository(db, database.NotificationsCollection)
	sellerNotifications := repository.NewMongoNotificationRepository(db, database.SellerNotificationsCollection)

	// Redis is optional; without it the catalog reads straight from MongoDB.
	var itemCache services.ItemCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Warn("Item cache disabled", zap.Error(err))
		} else {
			a.closers = append(a.closers, redisClient)
			itemCache = cache.NewItemCache(redisClient, cfg.CacheTTL, a.metrics)
		}
	}

	var images storage.ImageStore
	var uploadDir string
	switch cfg.ImageStorage {
	case "s3":
		images = storage.NewS3Store(awspkg.NewS3Client(a.awsCfg, cfg.S3Bucket), cfg.S3Prefix, cfg.S3PublicURL)
	default:
		local, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			return err
		}
		images = local
		uploadDir = local.Dir()
	}

	var idem services.IdempotencyStore
	if cfg.IdempotencyTable != "" {
		idem = idempotency.NewDynamoStore(dynamodb.NewFromConfig(a.awsCfg), cfg.IdempotencyTable, 0)
	}

	mailer, err := a.newMailer()
	if err != nil {
		return err
	}

	hub := realtime.NewHub(cfg.AllowedOrigins, log)
	tx := database.NewTxRunner(database.MongoClient, cfg.MongoTransactions)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// Services
	itemService := services.NewItemService(itemRepo, storeRepo, wishlistRepo, images, itemCache, a.metrics, log)
	storeService := services.NewStoreService(storeRepo, log)
	orderService := services.NewOrderService(services.OrderDeps{
		Items:       itemRepo,
		Orders:      orderRepo,
		Outbox:      outboxRepo,
		Tx:          tx,
		Mailer:      mailer,
		Idempotency: idem,
		Cache:       itemCache,
		Metrics:     a.metrics,
	}, log)
	sellerService := services.NewSellerService(services.SellerDeps{
		Sellers:             sellerRepo,
		Users:               userRepo,
		AdminNotifications:  adminNotifications,
		SellerNotifications: sellerNotifications,
		Outbox:              outboxRepo,
		Tx:                  tx,
		Notifier:            hub,
		Metrics:             a.metrics,
	}, log)
	notificationService := services.NewNotificationService(adminNotifications, sellerNotifications, log)
	authService := services.NewAuthService(userRepo, tokens, mailer, a.metrics, log)
	userService := services.NewUserService(userRepo, log)
	wishlistService := services.NewWishlistService(wishlistRepo, itemRepo, log)
	analyticsService := services.NewAnalyticsService(services.AnalyticsDeps{
		Orders:  orderRepo,
		Users:   userRepo,
		Sellers: sellerRepo,
		Items:   itemRepo,
		Stores:  storeRepo,
	}, log)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware(a.metrics, serviceName))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	r.Use(middleware.NewRateLimiter(limiterCtx, cfg.RateLimitPerMinute, 10*time.Minute).Middleware())
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(apperrors.ErrorMiddleware(log))

	if uploadDir != "" {
		r.Static(cfg.UploadURLPrefix, uploadDir)
	}

	routes.RegisterRoutes(r, routes.Controllers{
		Items:         controllers.NewItemController(itemService, controllers.NewRequestValidator(cfg.MaxImages, cfg.MaxImageSize), log),
		Stores:        controllers.NewStoreController(storeService),
		Orders:        controllers.NewOrderController(orderService),
		Sellers:       controllers.NewSellerController(sellerService),
		Notifications: controllers.NewNotificationController(notificationService, hub, log),
		Users:         controllers.NewUserController(authService, userService),
		Wishlist:      controllers.NewWishlistController(wishlistService),
		Analytics:     controllers.NewAnalyticsController(analyticsService),
	}, tokens)

	// Outbox dispatcher
	dispatchCtx, stopDispatcher := context.WithCancel(ctx)
	defer stopDispatcher()
	go a.newDispatcher().Run(dispatchCtx, cfg.OutboxPollInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Marketplace API started", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Marketplace API...")
	stopDispatcher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Marketplace API stopped gracefully")
	return nil
}
