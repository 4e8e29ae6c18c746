package domain

import "time"

// Status enumerates lifecycle states for tickets. Values match the
// ticket_statuses lookup table.
type Status int

const (
	StatusOpen     Status = 1
	StatusAssigned Status = 2
	StatusResolved Status = 3
	StatusClosed   Status = 4
)

// String returns the lookup name for a status.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusAssigned:
		return "Assigned"
	case StatusResolved:
		return "Resolved"
	case StatusClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusClosed
}

// Assignment is allowed from any pre-Closed state (re-assignment included),
// resolution only from Assigned, closing from any pre-Closed state.
var lifecycleTransitions = map[Status][]Status{
	StatusOpen:     {StatusAssigned, StatusClosed},
	StatusAssigned: {StatusAssigned, StatusResolved, StatusClosed},
	StatusResolved: {StatusAssigned, StatusClosed},
	StatusClosed:   {},
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range lifecycleTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for customer support requests.
type Ticket struct {
	ID          int64
	Reference   string
	CustomerID  int64
	AgentID     *int64
	Status      Status
	CategoryID  int64
	PriorityID  int64
	IsEscalated bool
	CreatedAt   time.Time
	AssignedAt  *time.Time
	ClosedAt    *time.Time
}

// TicketDetail carries a ticket with resolved lookup and party names.
type TicketDetail struct {
	Ticket
	CustomerName string
	AgentName    *string
	StatusName   string
	CategoryName string
	PriorityName string
}
