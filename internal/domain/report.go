package domain

import "time"

// AgentRanking is one row of the top-agents report.
type AgentRanking struct {
	AgentID        int64
	Name           string
	Email          string
	TotalResolved  int64
	TotalAssigned  int64
	ResolutionRate float64
}

// CategoryPerformance is one row of the category performance report: the
// average minutes from creation to close over closed tickets in a category.
type CategoryPerformance struct {
	CategoryID           int64
	CategoryName         string
	ClosedTickets        int64
	AvgResolutionMinutes float64
}

// VolumeEntry is one row of the monthly volume report: tickets created on a
// given calendar day within one category.
type VolumeEntry struct {
	Day          time.Time
	CategoryName string
	Count        int64
}

// AgentPerformance is the single-agent metrics view with derived values.
type AgentPerformance struct {
	Agent          Agent
	Metrics        AgentMetrics
	ResolutionRate float64
	AvgHandleTime  float64
}
