package dto

import "time"

// RegisterAgentRequest payload.
type RegisterAgentRequest struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	AvailableFrom *time.Time `json:"available_from"`
	AvailableTo   *time.Time `json:"available_to"`
}

// AgentResponse response.
type AgentResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	AvailableFrom *time.Time `json:"available_from"`
	AvailableTo   *time.Time `json:"available_to"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SkillRequest payload.
type SkillRequest struct {
	CategoryID int64 `json:"category_id"`
}

// SkillResponse response.
type SkillResponse struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// AvailabilityRequest payload.
type AvailabilityRequest struct {
	Available bool `json:"available"`
}

// AgentPerformanceResponse carries counters plus derived values.
type AgentPerformanceResponse struct {
	AgentID                int64   `json:"agent_id"`
	Name                   string  `json:"name"`
	Email                  string  `json:"email"`
	TotalAssigned          int64   `json:"total_assigned"`
	TotalResolved          int64   `json:"total_resolved"`
	TotalHandleTimeMinutes int64   `json:"total_handle_time_minutes"`
	IsAvailable            bool    `json:"is_available"`
	ResolutionRate         float64 `json:"resolution_rate"`
	AvgHandleTimeMinutes   float64 `json:"avg_handle_time_minutes"`
}
