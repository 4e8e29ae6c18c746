package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketAssigned EventType = "ticket_assigned"
	EventTicketResolved EventType = "ticket_resolved"
	EventTicketClosed   EventType = "ticket_closed"
	EventMessageAdded   EventType = "ticket_message_added"
)

// Actor identifies who triggered an event.
type Actor struct {
	CustomerID *int64 `json:"customer_id,omitempty"`
	AgentID    *int64 `json:"agent_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Reference  string `json:"reference"`
	CustomerID int64  `json:"customer_id"`
	CategoryID int64  `json:"category_id"`
	PriorityID int64  `json:"priority_id"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AgentID         int64  `json:"agent_id"`
	PreviousAgentID *int64 `json:"previous_agent_id,omitempty"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	AgentID           int64 `json:"agent_id"`
	HandleTimeMinutes int64 `json:"handle_time_minutes"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ClosedAt time.Time `json:"closed_at"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	MessageID     int64  `json:"message_id"`
	SenderIsAgent bool   `json:"sender_is_agent"`
	SenderID      int64  `json:"sender_id"`
	BodyPreview   string `json:"body_preview"`
}
