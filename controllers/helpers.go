package controllers

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/middleware"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// parsePaginationParams extracts and validates pagination parameters
func parsePaginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}

// bindJSON binds the request body, attaching a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(apperrors.New(http.StatusBadRequest, "Invalid request", err))
		return false
	}
	return true
}

// currentActor returns the authenticated caller, attaching a 401 when absent.
func currentActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized("authentication required"))
		return services.Actor{}, false
	}
	return actor, true
}

// actingFor resolves the email a request targets. The email query parameter
// defaults to the caller's own; a different email requires admin.
func actingFor(c *gin.Context) (services.Actor, string, bool) {
	actor, ok := currentActor(c)
	if !ok {
		return actor, "", false
	}
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		email = actor.Email
	}
	if !actor.CanActFor(email) {
		_ = c.Error(apperrors.Forbidden("you can only access your own data"))
		return actor, "", false
	}
	return actor, email, true
}

// authorizeEmail checks that the caller may act for email.
func authorizeEmail(c *gin.Context, actor services.Actor, email string) bool {
	if !actor.CanActFor(email) {
		_ = c.Error(apperrors.Forbidden("you can only access your own data"))
		return false
	}
	return true
}
