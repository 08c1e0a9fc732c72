package controllers

import (
	"net/http"
	"strings"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 128
)

type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder places an order for the caller. A repeated Idempotency-Key
// returns the order from the first request.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	buyer, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		_ = c.Error(apperrors.Validation("Idempotency-Key is too long"))
		return
	}

	order, replayed, err := oc.orderService.CreateOrder(c.Request.Context(), buyer, &req, key)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if replayed {
		c.Header(IdempotentReplayedHeader, "true")
		c.JSON(http.StatusOK, gin.H{"message": "Order already placed", "order": order})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// UpdateOrderStatus moves an order to any allow-listed status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.orderService.UpdateStatus(c.Request.Context(), actor, c.Param("orderId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

func (oc *OrderController) GetSellerOrders(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	orders, err := oc.orderService.ListSellerOrders(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) GetUserOrders(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	orders, err := oc.orderService.ListUserOrders(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	order, err := oc.orderService.GetOrder(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// SendConfirmation emails the buyer a confirmation of the order
func (oc *OrderController) SendConfirmation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := oc.orderService.SendConfirmation(c.Request.Context(), actor, c.Param("orderId")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Confirmation email sent"})
}
