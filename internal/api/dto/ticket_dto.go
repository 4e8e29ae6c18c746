package dto

import "time"

// CreateTicketRequest payload. Message is the required initial customer
// message.
type CreateTicketRequest struct {
	CustomerID int64  `json:"customer_id"`
	CategoryID int64  `json:"category_id"`
	PriorityID int64  `json:"priority_id"`
	Message    string `json:"message"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID int64 `json:"agent_id"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	AgentID    int64  `json:"agent_id"`
	Resolution string `json:"resolution"`
}

// EscalateTicketRequest payload.
type EscalateTicketRequest struct {
	Escalated bool `json:"escalated"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Body          string `json:"body"`
	SenderIsAgent bool   `json:"sender_is_agent"`
	SenderID      int64  `json:"sender_id"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          int64      `json:"id"`
	Reference   string     `json:"reference"`
	CustomerID  int64      `json:"customer_id"`
	AgentID     *int64     `json:"agent_id"`
	Status      string     `json:"status"`
	CategoryID  int64      `json:"category_id"`
	PriorityID  int64      `json:"priority_id"`
	IsEscalated bool       `json:"is_escalated"`
	CreatedAt   time.Time  `json:"created_at"`
	AssignedAt  *time.Time `json:"assigned_at"`
	ClosedAt    *time.Time `json:"closed_at"`
}

// TicketDetailResponse provides full ticket info with conversation.
type TicketDetailResponse struct {
	TicketSummary
	CustomerName string            `json:"customer_name"`
	AgentName    *string           `json:"agent_name"`
	CategoryName string            `json:"category_name"`
	PriorityName string            `json:"priority_name"`
	Messages     []MessageResponse `json:"messages"`
}

// MessageResponse represents one conversation entry.
type MessageResponse struct {
	ID            int64     `json:"id"`
	TicketID      int64     `json:"ticket_id"`
	Body          string    `json:"body"`
	SenderIsAgent bool      `json:"sender_is_agent"`
	SenderID      int64     `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	SentAt        time.Time `json:"sent_at"`
}
