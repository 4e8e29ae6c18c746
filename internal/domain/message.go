package domain

import "time"

// Message is one entry in a ticket's conversation. Messages are append-only
// and immutable once written; SenderID resolves against agents or customers
// depending on SenderIsAgent.
type Message struct {
	ID            int64
	TicketID      int64
	Body          string
	SenderIsAgent bool
	SenderID      int64
	SenderName    string
	SentAt        time.Time
}
