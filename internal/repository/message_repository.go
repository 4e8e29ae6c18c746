package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// MessageRepository manages the append-only conversation ledger. Messages are
// never updated or deleted.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Message, error)
}

type messageRepository struct {
	db Querier
}

// NewMessageRepository builds repository.
func NewMessageRepository(db Querier) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO ticket_messages (ticket_id, body, sender_is_agent, sender_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, sent_at`
	return r.db.QueryRow(ctx, query,
		msg.TicketID,
		msg.Body,
		msg.SenderIsAgent,
		msg.SenderID,
	).Scan(&msg.ID, &msg.SentAt)
}

// ListByTicket returns the conversation ordered by sent_at ascending, with
// the message id as a stable tie-break for identical timestamps.
func (r *messageRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Message, error) {
	const query = `
        SELECT m.id, m.ticket_id, m.body, m.sender_is_agent, m.sender_id, m.sent_at,
               CASE WHEN m.sender_is_agent THEN a.name ELSE c.name END
        FROM ticket_messages m
        LEFT JOIN agents a ON m.sender_is_agent = true AND m.sender_id = a.id
        LEFT JOIN customers c ON m.sender_is_agent = false AND m.sender_id = c.id
        WHERE m.ticket_id=$1
        ORDER BY m.sent_at ASC, m.id ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		var senderName *string
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.Body,
			&msg.SenderIsAgent,
			&msg.SenderID,
			&msg.SentAt,
			&senderName,
		); err != nil {
			return nil, err
		}
		if senderName != nil {
			msg.SenderName = *senderName
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
