package controllers

import (
	"net/http"
	"strings"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
)

type StoreController struct {
	storeService services.StoreService
}

func NewStoreController(storeService services.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

func (sc *StoreController) CreateStore(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.CreateStoreRequest
	if !bindJSON(c, &req) {
		return
	}
	if !authorizeEmail(c, actor, req.Email) {
		return
	}

	store, err := sc.storeService.CreateStore(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Store created successfully", "store": store})
}

// CheckStore reports whether the seller has created a store yet
func (sc *StoreController) CheckStore(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		_ = c.Error(apperrors.Validation("email is required"))
		return
	}

	store, found, err := sc.storeService.CheckStore(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hasStore": found, "store": store})
}

func (sc *StoreController) GetStore(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		_ = c.Error(apperrors.Validation("email is required"))
		return
	}

	store, err := sc.storeService.GetStore(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, store)
}

func (sc *StoreController) UpdateStore(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	var req models.UpdateStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := sc.storeService.UpdateStore(c.Request.Context(), email, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Store updated successfully", "store": store})
}

func (sc *StoreController) ListStores(c *gin.Context) {
	stores, err := sc.storeService.ListStores(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stores)
}
