package routes

import (
	"net/http"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/controllers"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/middleware"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/gin-gonic/gin"
)

// Controllers bundles every handler group mounted under /api.
type Controllers struct {
	Items         *controllers.ItemController
	Stores        *controllers.StoreController
	Orders        *controllers.OrderController
	Sellers       *controllers.SellerController
	Notifications *controllers.NotificationController
	Users         *controllers.UserController
	Wishlist      *controllers.WishlistController
	Analytics     *controllers.AnalyticsController
}

func RegisterRoutes(r *gin.Engine, ctrl Controllers, tokens middleware.TokenValidator) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	auth := middleware.AuthMiddleware(tokens)
	sellerOnly := middleware.RequireLevel(models.LevelSeller)
	adminOnly := middleware.RequireLevel(models.LevelAdmin)

	api := r.Group("/api")

	itemRoutes := api.Group("/items")
	{
		itemRoutes.GET("", ctrl.Items.ListItems)
		itemRoutes.GET("/seller", ctrl.Items.ListSellerItems)
		itemRoutes.GET("/:id", ctrl.Items.GetItem)
		itemRoutes.POST("/add", auth, sellerOnly, ctrl.Items.CreateItem)
		itemRoutes.PUT("/:id", auth, sellerOnly, ctrl.Items.UpdateItem)
		itemRoutes.DELETE("/:id", auth, sellerOnly, ctrl.Items.DeleteItem)
	}

	storeRoutes := api.Group("/stores")
	{
		storeRoutes.GET("", ctrl.Stores.GetStore)
		storeRoutes.GET("/all", ctrl.Stores.ListStores)
		storeRoutes.GET("/check", ctrl.Stores.CheckStore)
		storeRoutes.POST("/create", auth, sellerOnly, ctrl.Stores.CreateStore)
		storeRoutes.PUT("", auth, sellerOnly, ctrl.Stores.UpdateStore)
	}

	orderRoutes := api.Group("/orders", auth)
	{
		orderRoutes.POST("/create", ctrl.Orders.CreateOrder)
		orderRoutes.GET("/user", ctrl.Orders.GetUserOrders)
		orderRoutes.GET("/seller", sellerOnly, ctrl.Orders.GetSellerOrders)
		orderRoutes.GET("/:orderId", ctrl.Orders.GetOrder)
		orderRoutes.PUT("/:orderId/status", sellerOnly, ctrl.Orders.UpdateOrderStatus)
		orderRoutes.POST("/:orderId/send-confirmation", ctrl.Orders.SendConfirmation)
	}

	sellerRoutes := api.Group("/seller", auth)
	{
		sellerRoutes.POST("/register", ctrl.Sellers.RegisterSeller)
		sellerRoutes.GET("/status", ctrl.Sellers.GetStatus)
	}

	userRoutes := api.Group("/users")
	{
		userRoutes.POST("/register", ctrl.Users.Register)
		userRoutes.POST("/login", ctrl.Users.Login)
		userRoutes.POST("/forgot-password", ctrl.Users.ForgotPassword)
		userRoutes.POST("/resend-otp", ctrl.Users.ForgotPassword)
		userRoutes.POST("/reset-password", ctrl.Users.ResetPassword)
		userRoutes.GET("/profile", auth, ctrl.Users.GetProfile)
		userRoutes.PUT("/profile", auth, ctrl.Users.UpdateProfile)
	}

	adminRoutes := api.Group("/admin", auth, adminOnly)
	{
		adminRoutes.GET("/seller-requests", ctrl.Sellers.ListRequests)
		adminRoutes.PUT("/update-seller-status", ctrl.Sellers.UpdateStatus)
		adminRoutes.GET("/users", ctrl.Users.ListUsers)
		adminRoutes.DELETE("/users/:id", ctrl.Users.DeleteUser)
	}

	notificationRoutes := api.Group("/notifications", auth)
	{
		notificationRoutes.GET("/stream", sellerOnly, ctrl.Notifications.Stream)

		notificationRoutes.GET("/admin", adminOnly, ctrl.Notifications.GetAdminNotifications)
		notificationRoutes.PUT("/admin/read-all", adminOnly, ctrl.Notifications.MarkAllAdminRead)
		notificationRoutes.PUT("/admin/:id/read", adminOnly, ctrl.Notifications.MarkAdminRead)

		notificationRoutes.GET("/seller", sellerOnly, ctrl.Notifications.GetSellerNotifications)
		notificationRoutes.PUT("/seller/read-all", sellerOnly, ctrl.Notifications.MarkAllSellerRead)
		notificationRoutes.PUT("/seller/:id/read", sellerOnly, ctrl.Notifications.MarkSellerRead)
	}

	wishlistRoutes := api.Group("/wishlist", auth)
	{
		wishlistRoutes.POST("", ctrl.Wishlist.AddToWishlist)
		wishlistRoutes.GET("", ctrl.Wishlist.GetWishlist)
		wishlistRoutes.GET("/check", ctrl.Wishlist.CheckWishlist)
		wishlistRoutes.DELETE("/:itemId", ctrl.Wishlist.RemoveFromWishlist)
	}

	analyticsRoutes := api.Group("/analytics", auth)
	{
		analyticsRoutes.GET("/seller", sellerOnly, ctrl.Analytics.GetSellerAnalytics)
		analyticsRoutes.GET("/seller/export", sellerOnly, ctrl.Analytics.ExportSellerAnalytics)
		analyticsRoutes.GET("/admin", adminOnly, ctrl.Analytics.GetAdminAnalytics)
	}
}
