package controllers

import (
	"net/http"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationStream upgrades a request to a push connection and blocks until it closes.
type NotificationStream interface {
	Serve(w http.ResponseWriter, r *http.Request, audience models.Audience, recipient string) error
}

type NotificationController struct {
	notificationService services.NotificationService
	stream              NotificationStream
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationService, stream NotificationStream, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		stream:              stream,
		logger:              logger,
	}
}

func (nc *NotificationController) GetAdminNotifications(c *gin.Context) {
	feed, err := nc.notificationService.Feed(c.Request.Context(), models.AudienceAdmin, models.AdminRecipient)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (nc *NotificationController) MarkAdminRead(c *gin.Context) {
	if err := nc.notificationService.MarkRead(c.Request.Context(), models.AudienceAdmin, models.AdminRecipient, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllAdminRead(c *gin.Context) {
	updated, err := nc.notificationService.MarkAllRead(c.Request.Context(), models.AudienceAdmin, models.AdminRecipient)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": updated})
}

func (nc *NotificationController) GetSellerNotifications(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	feed, err := nc.notificationService.Feed(c.Request.Context(), models.AudienceSeller, email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (nc *NotificationController) MarkSellerRead(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	if err := nc.notificationService.MarkRead(c.Request.Context(), models.AudienceSeller, email, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllSellerRead(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	updated, err := nc.notificationService.MarkAllRead(c.Request.Context(), models.AudienceSeller, email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": updated})
}

// Stream pushes new notifications over a websocket. Admins receive the admin
// log, sellers their own entries.
func (nc *NotificationController) Stream(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	if nc.stream == nil {
		_ = c.Error(apperrors.NotFound("notification stream is disabled"))
		return
	}

	audience, recipient := models.AudienceSeller, actor.Email
	if actor.IsAdmin() {
		audience, recipient = models.AudienceAdmin, models.AdminRecipient
	}

	if err := nc.stream.Serve(c.Writer, c.Request, audience, recipient); err != nil {
		// the upgrader has already written the failure response
		nc.logger.Debug("Notification stream closed", zap.String("email", actor.Email), zap.Error(err))
	}
}
