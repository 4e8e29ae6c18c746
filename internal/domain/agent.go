package domain

import (
	"math"
	"time"
)

// Agent is a support staff member who handles tickets.
type Agent struct {
	ID            int64
	Name          string
	Email         string
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	CreatedAt     time.Time
}

// AvailableAt reports whether now falls inside the agent's availability
// window. Open-ended bounds count as always satisfied.
func (a *Agent) AvailableAt(now time.Time) bool {
	if a.AvailableFrom != nil && now.Before(*a.AvailableFrom) {
		return false
	}
	if a.AvailableTo != nil && now.After(*a.AvailableTo) {
		return false
	}
	return true
}

// AgentMetrics keeps running per-agent counters. One row exists per agent,
// created and deleted together with it. Counters are only ever incremented,
// inside the same transaction as the ticket transition that caused them.
type AgentMetrics struct {
	AgentID                int64
	TotalAssigned          int64
	TotalResolved          int64
	TotalHandleTimeMinutes int64
	IsAvailable            bool
}

// ResolutionRate derives the percentage of assigned tickets resolved,
// rounded to two decimals. Zero when nothing was assigned yet.
func (m *AgentMetrics) ResolutionRate() float64 {
	if m.TotalAssigned <= 0 {
		return 0
	}
	return round2(float64(m.TotalResolved) * 100.0 / float64(m.TotalAssigned))
}

// AvgHandleTimeMinutes derives mean minutes between assignment and
// resolution. Zero when nothing was resolved yet.
func (m *AgentMetrics) AvgHandleTimeMinutes() float64 {
	if m.TotalResolved <= 0 {
		return 0
	}
	return round2(float64(m.TotalHandleTimeMinutes) / float64(m.TotalResolved))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
