package domain

// DashboardStats aggregates the counters shown on the landing dashboard.
// Admins see system-wide numbers, customers only their own slice.
type DashboardStats struct {
	TotalCustomers    int     `json:"total_customers"`
	ActiveCustomers   int     `json:"active_customers"`
	TodayDeliveries   int     `json:"today_deliveries"`
	PendingDeliveries int     `json:"pending_deliveries"`
	TodayRevenue      float64 `json:"today_revenue"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	PendingPayments   float64 `json:"pending_payments"`
}
