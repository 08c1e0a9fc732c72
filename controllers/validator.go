package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validation constants
const (
	DefaultMaxImages    = 3
	DefaultMaxImageSize = 5 * 1024 * 1024 // 5MB
	maxMultipartMemory  = 32 << 20
)

// Allowed file types
var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
	}
)

// ItemForm defines the expected structure of the item create/update form
type ItemForm struct {
	Title          string  `form:"title" validate:"required,max=200"`
	Category       string  `form:"category" validate:"required,max=100"`
	Condition      string  `form:"condition" validate:"required,max=50"`
	Description    string  `form:"description" validate:"required,max=5000"`
	Price          float64 `form:"price" validate:"required,gt=0"`
	Quantity       int     `form:"quantity" validate:"gte=0"`
	ListingType    string  `form:"listingType" validate:"required,oneof=Fixed Auction"`
	StartingBid    float64 `form:"startingBid" validate:"required_if=ListingType Auction,gte=0"`
	ShippingCost   float64 `form:"shippingCost" validate:"gte=0"`
	ShippingMethod string  `form:"shippingMethod" validate:"max=100"`
	HandlingTime   string  `form:"handlingTime" validate:"max=100"`
	ReturnPolicy   string  `form:"returnPolicy" validate:"max=500"`
	Location       string  `form:"location" validate:"max=200"`
	Email          string  `form:"email" validate:"omitempty,email"`
}

func (f ItemForm) toInput() models.ItemInput {
	return models.ItemInput{
		Title:          strings.TrimSpace(f.Title),
		Category:       f.Category,
		Condition:      f.Condition,
		Description:    f.Description,
		Price:          f.Price,
		Quantity:       f.Quantity,
		ListingType:    models.ListingType(f.ListingType),
		StartingBid:    f.StartingBid,
		ShippingCost:   f.ShippingCost,
		ShippingMethod: f.ShippingMethod,
		HandlingTime:   f.HandlingTime,
		ReturnPolicy:   f.ReturnPolicy,
		Location:       f.Location,
		Email:          f.Email,
	}
}

// RequestValidator handles multipart item validation
type RequestValidator struct {
	validate     *validator.Validate
	maxImages    int
	maxImageSize int64
}

func NewRequestValidator(maxImages int, maxImageSize int64) *RequestValidator {
	if maxImages < 1 {
		maxImages = DefaultMaxImages
	}
	if maxImageSize < 1 {
		maxImageSize = DefaultMaxImageSize
	}
	return &RequestValidator{
		validate:     validator.New(),
		maxImages:    maxImages,
		maxImageSize: maxImageSize,
	}
}

// ParseItemForm validates the item fields and images of a multipart request.
// At least one image is required when requireImages is set.
func (rv *RequestValidator) ParseItemForm(c *gin.Context, requireImages bool) (models.ItemInput, []services.ImageUpload, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return models.ItemInput{}, nil, errors.New("expected multipart form data")
	}

	var form ItemForm
	if err := c.ShouldBind(&form); err != nil {
		return models.ItemInput{}, nil, fmt.Errorf("invalid form data: %w", err)
	}
	if err := rv.validate.Struct(&form); err != nil {
		return models.ItemInput{}, nil, fmt.Errorf("validation failed: %w", err)
	}

	files := c.Request.MultipartForm.File["images"]
	if requireImages && len(files) == 0 {
		return models.ItemInput{}, nil, errors.New("at least one image is required")
	}
	if len(files) > rv.maxImages {
		return models.ItemInput{}, nil, fmt.Errorf("at most %d images are allowed", rv.maxImages)
	}

	uploads := make([]services.ImageUpload, 0, len(files))
	for _, file := range files {
		if !rv.IsValidImageType(file) {
			return models.ItemInput{}, nil, fmt.Errorf("invalid image type for file %s. Allowed: jpeg, jpg, png", file.Filename)
		}
		if file.Size > rv.maxImageSize {
			return models.ItemInput{}, nil, fmt.Errorf("image %s exceeds the %d MB limit", file.Filename, rv.maxImageSize/(1024*1024))
		}
		uploads = append(uploads, toUpload(file))
	}

	return form.toInput(), uploads, nil
}

// IsValidImageType accepts jpeg and png files by extension, and by content type
// when the client sent one.
func (rv *RequestValidator) IsValidImageType(file *multipart.FileHeader) bool {
	if _, ok := storage.AllowedExtensions[strings.ToLower(filepath.Ext(file.Filename))]; !ok {
		return false
	}
	contentType := file.Header.Get("Content-Type")
	return contentType == "" || contentType == "application/octet-stream" || allowedImageTypes[contentType]
}

func toUpload(file *multipart.FileHeader) services.ImageUpload {
	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		contentType = storage.AllowedExtensions[strings.ToLower(filepath.Ext(file.Filename))]
	}
	return services.ImageUpload{
		Filename:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		Open: func() (io.ReadCloser, error) {
			return file.Open()
		},
	}
}
