package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func analyticsOrders() []*models.Order {
	lamp, chair := primitive.NewObjectID(), primitive.NewObjectID()
	jan := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	return []*models.Order{
		{SellerEmail: "s@example.com", ItemID: lamp, ItemDetails: models.ItemSnapshot{Title: "Lamp", Quantity: 2}, TotalAmount: 25.10, OrderStatus: models.OrderDelivered, OrderDate: jan},
		{SellerEmail: "s@example.com", ItemID: lamp, ItemDetails: models.ItemSnapshot{Title: "Lamp", Quantity: 1}, TotalAmount: 12.55, OrderStatus: models.OrderShipped, OrderDate: feb},
		{SellerEmail: "s@example.com", ItemID: chair, ItemDetails: models.ItemSnapshot{Title: "Chair", Quantity: 1}, TotalAmount: 40.00, OrderStatus: models.OrderPending, OrderDate: feb},
		{SellerEmail: "s@example.com", ItemID: chair, ItemDetails: models.ItemSnapshot{Title: "Chair", Quantity: 1}, TotalAmount: 99.00, OrderStatus: models.OrderCancelled, OrderDate: feb},
	}
}

func TestSummarize(t *testing.T) {
	// Act
	s := Summarize(analyticsOrders())

	// Assert
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 77.65, s.TotalRevenue)
	assert.Equal(t, 25.88, s.AverageOrderValue)
	assert.Equal(t, 1, s.OrdersByStatus[models.OrderCancelled])
	assert.Equal(t, 0, s.OrdersByStatus[models.OrderProcessing])

	require.Len(t, s.TopItems, 2)
	assert.Equal(t, "Chair", s.TopItems[0].Title)
	assert.Equal(t, 40.0, s.TopItems[0].Revenue)
	assert.Equal(t, "Lamp", s.TopItems[1].Title)
	assert.Equal(t, 3, s.TopItems[1].Units)
	assert.Equal(t, 37.65, s.TopItems[1].Revenue)

	require.Len(t, s.MonthlySales, 2)
	assert.Equal(t, models.MonthlySales{Month: "2024-01", Orders: 1, Revenue: 25.10}, s.MonthlySales[0])
	assert.Equal(t, models.MonthlySales{Month: "2024-02", Orders: 2, Revenue: 52.55}, s.MonthlySales[1])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.TotalRevenue)
	assert.Zero(t, s.AverageOrderValue)
	assert.NotNil(t, s.TopItems)
	assert.NotNil(t, s.MonthlySales)
}

func TestAnalyticsService(t *testing.T) {
	ctx := context.Background()
	svc := NewAnalyticsService(AnalyticsDeps{
		Orders:  newMemOrders(analyticsOrders()...),
		Users:   newMemUsers(&models.User{Email: "a@example.com", UserLevel: models.LevelAdmin}, &models.User{Email: "b@example.com", UserLevel: models.LevelBuyer}),
		Sellers: newMemSellers(application("p@example.com", models.ApplicationPending)),
		Items:   newMemItems(&models.Item{Title: "Lamp"}),
		Stores:  newMemStores(&models.Store{Email: "s@example.com"}),
	}, zap.NewNop())

	t.Run("Admin rollup", func(t *testing.T) {
		out, err := svc.AdminAnalytics(ctx)

		require.NoError(t, err)
		assert.Equal(t, 4, out.TotalOrders)
		assert.Equal(t, int64(1), out.UsersByLevel[models.LevelAdmin])
		assert.Equal(t, int64(0), out.UsersByLevel[models.LevelSeller])
		assert.Equal(t, int64(1), out.PendingApplications)
		assert.Equal(t, int64(1), out.TotalItems)
		assert.Equal(t, int64(1), out.TotalStores)
	})

	t.Run("Seller export is a readable workbook", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer

		// Act
		err := svc.ExportSeller(ctx, "s@example.com", &buf)

		// Assert
		require.NoError(t, err)
		file, err := xlsx.OpenBinary(buf.Bytes())
		require.NoError(t, err)
		require.Len(t, file.Sheets, 3)
		orders := file.Sheet["Orders"]
		require.NotNil(t, orders)
		assert.Len(t, orders.Rows, 5)
		assert.Equal(t, "Order ID", orders.Rows[0].Cells[0].String())
	})
}
