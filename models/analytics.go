package models

// SalesSummary is the rollup shared by the seller and admin dashboards.
type SalesSummary struct {
	TotalOrders       int                 `json:"totalOrders"`
	TotalRevenue      float64             `json:"totalRevenue"`
	AverageOrderValue float64             `json:"averageOrderValue"`
	OrdersByStatus    map[OrderStatus]int `json:"ordersByStatus"`
	TopItems          []ItemSales         `json:"topItems"`
	MonthlySales      []MonthlySales      `json:"monthlySales"`
}

type ItemSales struct {
	ItemID  string  `json:"itemId"`
	Title   string  `json:"title"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// MonthlySales is keyed by YYYY-MM.
type MonthlySales struct {
	Month   string  `json:"month"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type SellerAnalytics struct {
	Email string `json:"email"`
	SalesSummary
}

type AdminAnalytics struct {
	SalesSummary
	UsersByLevel        map[int]int64 `json:"usersByLevel"`
	PendingApplications int64         `json:"pendingApplications"`
	TotalItems          int64         `json:"totalItems"`
	TotalStores         int64         `json:"totalStores"`
}
