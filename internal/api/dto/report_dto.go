package dto

// AgentRankingRow is one row of the top-agents report.
type AgentRankingRow struct {
	AgentID        int64   `json:"agent_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	TotalResolved  int64   `json:"total_resolved"`
	TotalAssigned  int64   `json:"total_assigned"`
	ResolutionRate float64 `json:"resolution_rate"`
}

// CategoryPerformanceRow is one row of the category performance report.
type CategoryPerformanceRow struct {
	CategoryID           int64   `json:"category_id"`
	CategoryName         string  `json:"category_name"`
	ClosedTickets        int64   `json:"closed_tickets"`
	AvgResolutionMinutes float64 `json:"avg_resolution_minutes"`
}

// VolumeRow is one row of the monthly volume report.
type VolumeRow struct {
	Day          string `json:"day"`
	CategoryName string `json:"category_name"`
	Count        int64  `json:"count"`
}
