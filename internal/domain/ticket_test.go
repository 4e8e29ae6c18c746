package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Open", StatusOpen.String())
	assert.Equal(t, "Assigned", StatusAssigned.String())
	assert.Equal(t, "Resolved", StatusResolved.String())
	assert.Equal(t, "Closed", StatusClosed.String())
	assert.Equal(t, "Unknown", Status(0).String())
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"open to assigned", StatusOpen, StatusAssigned, true},
		{"open to closed", StatusOpen, StatusClosed, true},
		{"open to resolved skips assignment", StatusOpen, StatusResolved, false},
		{"assigned to resolved", StatusAssigned, StatusResolved, true},
		{"assigned re-assignment", StatusAssigned, StatusAssigned, true},
		{"assigned to closed", StatusAssigned, StatusClosed, true},
		{"assigned back to open", StatusAssigned, StatusOpen, false},
		{"resolved reopened by assignment", StatusResolved, StatusAssigned, true},
		{"resolved to closed", StatusResolved, StatusClosed, true},
		{"resolved to resolved", StatusResolved, StatusResolved, false},
		{"closed is terminal for assign", StatusClosed, StatusAssigned, false},
		{"closed is terminal for resolve", StatusClosed, StatusResolved, false},
		{"closed is terminal for close", StatusClosed, StatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusOpen.Terminal())
	assert.False(t, StatusAssigned.Terminal())
	assert.False(t, StatusResolved.Terminal())
	assert.True(t, StatusClosed.Terminal())
}

func TestAgentAvailableAt(t *testing.T) {
	nine := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	five := time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	noon := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	windowed := &Agent{AvailableFrom: &nine, AvailableTo: &five}
	assert.True(t, windowed.AvailableAt(noon))
	assert.True(t, windowed.AvailableAt(nine))
	assert.False(t, windowed.AvailableAt(nine.Add(-time.Minute)))
	assert.False(t, windowed.AvailableAt(five.Add(time.Minute)))

	open := &Agent{}
	assert.True(t, open.AvailableAt(noon))
}

func TestAgentMetricsDerivations(t *testing.T) {
	tests := []struct {
		name     string
		metrics  AgentMetrics
		wantRate float64
		wantAvg  float64
	}{
		{"fresh agent", AgentMetrics{}, 0, 0},
		{"assigned but unresolved", AgentMetrics{TotalAssigned: 4}, 0, 0},
		{"all resolved", AgentMetrics{TotalAssigned: 1, TotalResolved: 1, TotalHandleTimeMinutes: 30}, 100, 30},
		{"two thirds resolved", AgentMetrics{TotalAssigned: 3, TotalResolved: 2, TotalHandleTimeMinutes: 45}, 66.67, 22.5},
		{"one of seven", AgentMetrics{TotalAssigned: 7, TotalResolved: 1, TotalHandleTimeMinutes: 10}, 14.29, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantRate, tt.metrics.ResolutionRate(), 0.0001)
			assert.InDelta(t, tt.wantAvg, tt.metrics.AvgHandleTimeMinutes(), 0.0001)
		})
	}
}
