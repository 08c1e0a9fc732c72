package controllers

import (
	"net/http"
	"strings"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
)

type WishlistController struct {
	wishlistService services.WishlistService
}

func NewWishlistController(wishlistService services.WishlistService) *WishlistController {
	return &WishlistController{wishlistService: wishlistService}
}

func (wc *WishlistController) AddToWishlist(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.AddWishlistRequest
	if !bindJSON(c, &req) {
		return
	}
	if !authorizeEmail(c, actor, req.Email) {
		return
	}

	entry, err := wc.wishlistService.Add(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Item added to wishlist", "entry": entry})
}

func (wc *WishlistController) GetWishlist(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	entries, err := wc.wishlistService.List(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (wc *WishlistController) CheckWishlist(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}
	itemID := strings.TrimSpace(c.Query("itemId"))
	if itemID == "" {
		_ = c.Error(apperrors.Validation("itemId is required"))
		return
	}

	exists, err := wc.wishlistService.Check(c.Request.Context(), email, itemID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inWishlist": exists})
}

func (wc *WishlistController) RemoveFromWishlist(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	if err := wc.wishlistService.Remove(c.Request.Context(), email, c.Param("itemId")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from wishlist"})
}
