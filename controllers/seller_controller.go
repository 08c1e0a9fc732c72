package controllers

import (
	"net/http"
	"strings"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
)

type SellerController struct {
	sellerService services.SellerService
}

func NewSellerController(sellerService services.SellerService) *SellerController {
	return &SellerController{sellerService: sellerService}
}

// RegisterSeller submits a seller application for review
func (sc *SellerController) RegisterSeller(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.SellerApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := sc.sellerService.Submit(c.Request.Context(), actor, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Seller application submitted", "application": app})
}

func (sc *SellerController) GetStatus(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	app, err := sc.sellerService.Status(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": app.Status, "application": app})
}

// ListRequests returns seller applications, optionally filtered by status
func (sc *SellerController) ListRequests(c *gin.Context) {
	apps, err := sc.sellerService.List(c.Request.Context(), strings.TrimSpace(c.Query("status")))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

// UpdateStatus approves or rejects a pending application
func (sc *SellerController) UpdateStatus(c *gin.Context) {
	var req models.SellerDecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := sc.sellerService.Decide(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Seller status updated", "application": app})
}
