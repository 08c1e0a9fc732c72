package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

func (ac *AnalyticsController) GetSellerAnalytics(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	stats, err := ac.analyticsService.SellerAnalytics(c.Request.Context(), email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (ac *AnalyticsController) GetAdminAnalytics(c *gin.Context) {
	stats, err := ac.analyticsService.AdminAnalytics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportSellerAnalytics downloads the seller rollup and order list as a workbook
func (ac *AnalyticsController) ExportSellerAnalytics(c *gin.Context) {
	_, email, ok := actingFor(c)
	if !ok {
		return
	}

	// buffered so a failed export still gets a JSON error
	var buf bytes.Buffer
	if err := ac.analyticsService.ExportSeller(c.Request.Context(), email, &buf); err != nil {
		_ = c.Error(err)
		return
	}

	filename := fmt.Sprintf("sales-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
