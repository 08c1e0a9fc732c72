package controllers

import (
	"net/http"
	"strings"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ItemController struct {
	itemService services.ItemService
	validator   *RequestValidator
	logger      *zap.Logger
}

func NewItemController(itemService services.ItemService, validator *RequestValidator, logger *zap.Logger) *ItemController {
	return &ItemController{
		itemService: itemService,
		validator:   validator,
		logger:      logger,
	}
}

// CreateItem handles multipart item creation for the caller's store
func (ic *ItemController) CreateItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	input, images, err := ic.validator.ParseItemForm(c, true)
	if err != nil {
		_ = c.Error(apperrors.Validation(err.Error()))
		return
	}
	if input.Email == "" {
		input.Email = actor.Email
	}
	if !authorizeEmail(c, actor, input.Email) {
		return
	}

	item, err := ic.itemService.CreateItem(c.Request.Context(), input, images)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Item created successfully", "item": item})
}

// ListItems returns a page of the catalog, newest first
func (ic *ItemController) ListItems(c *gin.Context) {
	page, limit := parsePaginationParams(c)
	filter := models.ItemFilter{
		Category:    strings.TrimSpace(c.Query("category")),
		ListingType: strings.TrimSpace(c.Query("listingType")),
		Page:        page,
		Limit:       limit,
	}

	result, err := ic.itemService.ListItems(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ic *ItemController) GetItem(c *gin.Context) {
	item, err := ic.itemService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListSellerItems returns every item listed by the seller in the email query
func (ic *ItemController) ListSellerItems(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		_ = c.Error(apperrors.Validation("email is required"))
		return
	}

	items, err := ic.itemService.ListSellerItems(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateItem replaces the item fields and, when images are sent, its image set
func (ic *ItemController) UpdateItem(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	input, images, err := ic.validator.ParseItemForm(c, false)
	if err != nil {
		_ = c.Error(apperrors.Validation(err.Error()))
		return
	}
	input.Email = email

	item, err := ic.itemService.UpdateItem(c.Request.Context(), c.Param("id"), email, input, images)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	if err := ic.itemService.DeleteItem(c.Request.Context(), c.Param("id"), email); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
