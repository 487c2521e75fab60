package models

type ShipmentStats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	PickedUp       int `json:"picked_up"`
	InTransit      int `json:"in_transit"`
	OutForDelivery int `json:"out_for_delivery"`
	Delivered      int `json:"delivered"`
	Failed         int `json:"failed"`
	Returned       int `json:"returned"`
	TodayCount     int `json:"today_count"`
	ThisWeekCount  int `json:"this_week_count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type RouteData struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Count       int    `json:"count"`
}

type StatusDistribution struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

type RecentActivity struct {
	ID            int64  `json:"id"`
	TrackingCode  string `json:"tracking_code"`
	ShipmentID    int64  `json:"shipment_id"`
	Status        Status `json:"status"`
	StatusDisplay string `json:"status_display"`
	Location      string `json:"location"`
	Notes         string `json:"notes"`
	CreatedAt     string `json:"created_at"`
}

// AnalyticsData is the dashboard payload for a window of days.
type AnalyticsData struct {
	DailyCounts        []DailyCount         `json:"daily_counts"`
	StatusDistribution []StatusDistribution `json:"status_distribution"`
	TopRoutes          []RouteData          `json:"top_routes"`
	AvgDeliveryHours   float64              `json:"avg_delivery_hours"`
	SuccessRate        float64              `json:"success_rate"`
	ThisMonthCount     int                  `json:"this_month_count"`
	LastMonthCount     int                  `json:"last_month_count"`
	RecentActivity     []RecentActivity     `json:"recent_activity"`
}
