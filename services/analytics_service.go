package services

import (
	"context"
	"io"
	"sort"

	apperrors "github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/common/errors"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

const topItemsLimit = 5

// AnalyticsService computes read-only rollups over the order ledger on demand.
type AnalyticsService interface {
	SellerAnalytics(ctx context.Context, email string) (*models.SellerAnalytics, error)
	AdminAnalytics(ctx context.Context) (*models.AdminAnalytics, error)
	ExportSeller(ctx context.Context, email string, w io.Writer) error
}

type AnalyticsDeps struct {
	Orders  repository.OrderRepository
	Users   repository.UserRepository
	Sellers repository.SellerRepository
	Items   repository.ItemRepository
	Stores  repository.StoreRepository
}

type analyticsServiceImpl struct {
	AnalyticsDeps
	logger *zap.Logger
}

func NewAnalyticsService(deps AnalyticsDeps, logger *zap.Logger) AnalyticsService {
	return &analyticsServiceImpl{AnalyticsDeps: deps, logger: logger}
}

func (s *analyticsServiceImpl) SellerAnalytics(ctx context.Context, email string) (*models.SellerAnalytics, error) {
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}
	orders, err := s.Orders.FindBySeller(ctx, email)
	if err != nil {
		return nil, apperrors.Internal("failed to load orders", err)
	}
	return &models.SellerAnalytics{Email: email, SalesSummary: Summarize(orders)}, nil
}

func (s *analyticsServiceImpl) AdminAnalytics(ctx context.Context) (*models.AdminAnalytics, error) {
	orders, err := s.Orders.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to load orders", err)
	}
	byLevel, err := s.Users.CountByLevel(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count users", err)
	}
	pending, err := s.Sellers.CountByStatus(ctx, models.ApplicationPending)
	if err != nil {
		return nil, apperrors.Internal("failed to count seller applications", err)
	}

	out := &models.AdminAnalytics{
		SalesSummary:        Summarize(orders),
		UsersByLevel:        byLevel,
		PendingApplications: pending,
	}
	if s.Items != nil {
		if out.TotalItems, err = s.Items.Count(ctx); err != nil {
			return nil, apperrors.Internal("failed to count items", err)
		}
	}
	if s.Stores != nil {
		if out.TotalStores, err = s.Stores.Count(ctx); err != nil {
			return nil, apperrors.Internal("failed to count stores", err)
		}
	}
	return out, nil
}

// Summarize rolls orders up. Cancelled orders count toward totals by status but
// never toward revenue, item rankings or monthly sales.
func Summarize(orders []*models.Order) models.SalesSummary {
	summary := models.SalesSummary{
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[models.OrderStatus]int, len(models.OrderStatuses)),
		TopItems:       []models.ItemSales{},
		MonthlySales:   []models.MonthlySales{},
	}
	for _, st := range models.OrderStatuses {
		summary.OrdersByStatus[st] = 0
	}

	type itemAcc struct {
		sales   models.ItemSales
		revenue decimal.Decimal
	}
	type monthAcc struct {
		orders  int
		revenue decimal.Decimal
	}

	revenue := decimal.Zero
	billable := 0
	items := map[string]*itemAcc{}
	months := map[string]*monthAcc{}

	for _, o := range orders {
		summary.OrdersByStatus[o.OrderStatus]++
		if o.OrderStatus == models.OrderCancelled {
			continue
		}
		amount := decimal.NewFromFloat(o.TotalAmount)
		revenue = revenue.Add(amount)
		billable++

		id := o.ItemID.Hex()
		acc, ok := items[id]
		if !ok {
			acc = &itemAcc{sales: models.ItemSales{ItemID: id, Title: o.ItemDetails.Title}}
			items[id] = acc
		}
		acc.sales.Orders++
		acc.sales.Units += o.ItemDetails.Quantity
		acc.revenue = acc.revenue.Add(amount)

		key := o.OrderDate.UTC().Format("2006-01")
		m, ok := months[key]
		if !ok {
			m = &monthAcc{}
			months[key] = m
		}
		m.orders++
		m.revenue = m.revenue.Add(amount)
	}

	summary.TotalRevenue = toMoney(revenue)
	if billable > 0 {
		summary.AverageOrderValue = toMoney(revenue.Div(decimal.NewFromInt(int64(billable))))
	}

	for _, acc := range items {
		acc.sales.Revenue = toMoney(acc.revenue)
		summary.TopItems = append(summary.TopItems, acc.sales)
	}
	sort.Slice(summary.TopItems, func(i, j int) bool {
		if summary.TopItems[i].Revenue != summary.TopItems[j].Revenue {
			return summary.TopItems[i].Revenue > summary.TopItems[j].Revenue
		}
		return summary.TopItems[i].ItemID < summary.TopItems[j].ItemID
	})
	if len(summary.TopItems) > topItemsLimit {
		summary.TopItems = summary.TopItems[:topItemsLimit]
	}

	for key, m := range months {
		summary.MonthlySales = append(summary.MonthlySales, models.MonthlySales{Month: key, Orders: m.orders, Revenue: toMoney(m.revenue)})
	}
	sort.Slice(summary.MonthlySales, func(i, j int) bool {
		return summary.MonthlySales[i].Month < summary.MonthlySales[j].Month
	})
	return summary
}

func toMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// ExportSeller writes the seller rollup and order list as an xlsx workbook.
func (s *analyticsServiceImpl) ExportSeller(ctx context.Context, email string, w io.Writer) error {
	if email == "" {
		return apperrors.Validation("email is required")
	}
	orders, err := s.Orders.FindBySeller(ctx, email)
	if err != nil {
		return apperrors.Internal("failed to load orders", err)
	}
	summary := Summarize(orders)

	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return apperrors.Internal("failed to create summary sheet", err)
	}
	addRow(sheet, "Seller", email)
	addRow(sheet, "Total orders", summary.TotalOrders)
	addRow(sheet, "Total revenue", summary.TotalRevenue)
	addRow(sheet, "Average order value", summary.AverageOrderValue)
	for _, st := range models.OrderStatuses {
		addRow(sheet, string(st), summary.OrdersByStatus[st])
	}

	monthly, err := file.AddSheet("Monthly")
	if err != nil {
		return apperrors.Internal("failed to create monthly sheet", err)
	}
	addRow(monthly, "Month", "Orders", "Revenue")
	for _, m := range summary.MonthlySales {
		addRow(monthly, m.Month, m.Orders, m.Revenue)
	}

	list, err := file.AddSheet("Orders")
	if err != nil {
		return apperrors.Internal("failed to create orders sheet", err)
	}
	addRow(list, "Order ID", "Date", "Buyer", "Item", "Quantity", "Unit Price", "Shipping", "Total", "Status")
	for _, o := range orders {
		addRow(list,
			o.ID.Hex(),
			o.OrderDate.UTC().Format("2006-01-02 15:04:05"),
			o.UserEmail,
			o.ItemDetails.Title,
			o.ItemDetails.Quantity,
			o.ItemDetails.Price,
			o.ShippingCost,
			o.TotalAmount,
			string(o.OrderStatus),
		)
	}

	if err := file.Write(w); err != nil {
		return apperrors.Internal("failed to write workbook", err)
	}
	s.logger.Info("Seller analytics exported", zap.String("email", email), zap.Int("orders", len(orders)))
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...interface{}) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetValue(v)
	}
}
