package models

type DashboardStats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	OrdersToday       int     `json:"orders_today"`
	ActiveStaff       int     `json:"active_staff"`
	ReservationsToday int     `json:"reservations_today"`
	RevenueChange     float64 `json:"revenue_change"` // % vs hier
	OrdersChange      float64 `json:"orders_change"`  // % vs hier
}

type SalesPoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}
