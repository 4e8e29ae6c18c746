package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrStaleTicket signals a guarded status update that matched no row: the
// ticket either vanished or changed status concurrently.
var ErrStaleTicket = errors.New("ticket status changed concurrently")

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error)
	// Transition writes the ticket's mutable lifecycle fields guarded by the
	// expected current status; returns ErrStaleTicket when no row matched.
	Transition(ctx context.Context, ticket *domain.Ticket, expected domain.Status) error
	SetEscalated(ctx context.Context, id int64, escalated bool) error
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Ticket, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
	CountByAgent(ctx context.Context, agentID int64) (int64, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (reference, customer_id, agent_id, status_id, category_id, priority_id, is_escalated)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		ticket.Reference,
		ticket.CustomerID,
		ticket.AgentID,
		ticket.Status,
		ticket.CategoryID,
		ticket.PriorityID,
		ticket.IsEscalated,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, reference, customer_id, agent_id, status_id, category_id, priority_id,
               is_escalated, created_at, assigned_at, closed_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Reference,
		&ticket.CustomerID,
		&ticket.AgentID,
		&ticket.Status,
		&ticket.CategoryID,
		&ticket.PriorityID,
		&ticket.IsEscalated,
		&ticket.CreatedAt,
		&ticket.AssignedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	const query = `
        SELECT t.id, t.reference, t.customer_id, t.agent_id, t.status_id, t.category_id,
               t.priority_id, t.is_escalated, t.created_at, t.assigned_at, t.closed_at,
               c.name, a.name, ts.name, tc.name, tp.name
        FROM tickets t
        JOIN customers c ON t.customer_id = c.id
        LEFT JOIN agents a ON t.agent_id = a.id
        JOIN ticket_statuses ts ON t.status_id = ts.id
        JOIN ticket_categories tc ON t.category_id = tc.id
        JOIN ticket_priorities tp ON t.priority_id = tp.id
        WHERE t.id=$1`
	var detail domain.TicketDetail
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.Reference,
		&detail.CustomerID,
		&detail.AgentID,
		&detail.Status,
		&detail.CategoryID,
		&detail.PriorityID,
		&detail.IsEscalated,
		&detail.CreatedAt,
		&detail.AssignedAt,
		&detail.ClosedAt,
		&detail.CustomerName,
		&detail.AgentName,
		&detail.StatusName,
		&detail.CategoryName,
		&detail.PriorityName,
	); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *ticketRepository) Transition(ctx context.Context, ticket *domain.Ticket, expected domain.Status) error {
	const query = `
        UPDATE tickets SET agent_id=$1, status_id=$2, assigned_at=$3, closed_at=$4
        WHERE id=$5 AND status_id=$6`
	cmd, err := r.db.Exec(ctx, query,
		ticket.AgentID,
		ticket.Status,
		ticket.AssignedAt,
		ticket.ClosedAt,
		ticket.ID,
		expected,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleTicket
	}
	return nil
}

func (r *ticketRepository) SetEscalated(ctx context.Context, id int64, escalated bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE tickets SET is_escalated=$1 WHERE id=$2`, escalated, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	const query = `
        SELECT id, reference, customer_id, agent_id, status_id, category_id, priority_id,
               is_escalated, created_at, assigned_at, closed_at
        FROM tickets WHERE customer_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Reference,
			&ticket.CustomerID,
			&ticket.AgentID,
			&ticket.Status,
			&ticket.CategoryID,
			&ticket.PriorityID,
			&ticket.IsEscalated,
			&ticket.CreatedAt,
			&ticket.AssignedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tickets WHERE customer_id=$1`, customerID)
}

func (r *ticketRepository) CountByAgent(ctx context.Context, agentID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM tickets WHERE agent_id=$1`, agentID)
}

func (r *ticketRepository) count(ctx context.Context, query string, arg any) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query, arg).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
