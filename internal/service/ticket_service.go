package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle. Every state-changing
// operation runs in one transaction covering the ticket row, its agent's
// metrics counters and any conversation message, so a crash never leaves a
// transition half applied.
type TicketService struct {
	repos      repository.Repositories
	tx         repository.TxRunner
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Repos      repository.Repositories
	Tx         repository.TxRunner
	Dispatcher events.Dispatcher
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TicketCreateInput describes ticket creation payload. Message carries the
// required initial customer message; a ticket without one is invalid.
type TicketCreateInput struct {
	CustomerID int64
	CategoryID int64
	PriorityID int64
	Message    string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		repos:      deps.Repos,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// Create opens a new ticket with its initial customer message.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	body := strings.TrimSpace(input.Message)
	if body == "" {
		return nil, apperrors.NewValidationError("initial message required", nil)
	}
	if _, err := s.repos.Customers.GetByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": input.CustomerID})
		}
		return nil, apperrors.MapError(err)
	}

	var ticket *domain.Ticket
	err := s.tx.InTx(ctx, func(r repository.Repositories) error {
		t := &domain.Ticket{
			Reference:  generateTicketReference(),
			CustomerID: input.CustomerID,
			Status:     domain.StatusOpen,
			CategoryID: input.CategoryID,
			PriorityID: input.PriorityID,
		}
		if err := r.Tickets.Create(ctx, t); err != nil {
			return err
		}
		m := &domain.Message{
			TicketID:      t.ID,
			Body:          body,
			SenderIsAgent: false,
			SenderID:      input.CustomerID,
		}
		if err := r.Messages.Create(ctx, m); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    customerActor(input.CustomerID),
		Payload: events.TicketCreatedPayload{
			Reference:  ticket.Reference,
			CustomerID: ticket.CustomerID,
			CategoryID: ticket.CategoryID,
			PriorityID: ticket.PriorityID,
		},
	})
	return ticket, nil
}

// Assign routes a ticket to an agent. Valid from any pre-Closed state;
// re-assignment is allowed. The agent's assigned counter moves in the same
// transaction as the status change.
func (s *TicketService) Assign(ctx context.Context, ticketID, agentID int64) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	var previousAgent *int64
	err := s.tx.InTx(ctx, func(r repository.Repositories) error {
		t, err := r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return err
		}
		if _, err := r.Agents.GetByID(ctx, agentID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
			}
			return err
		}
		if !t.Status.CanTransitionTo(domain.StatusAssigned) {
			return apperrors.NewPreconditionFailed("ticket cannot be assigned in its current status",
				map[string]any{"status": t.Status.String()})
		}

		expected := t.Status
		previousAgent = t.AgentID
		now := s.now()
		t.AgentID = &agentID
		t.AssignedAt = &now
		t.Status = domain.StatusAssigned
		if err := r.Tickets.Transition(ctx, t, expected); err != nil {
			return mapTransitionErr(err)
		}
		if err := r.Metrics.IncrementAssigned(ctx, agentID); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    agentActor(agentID),
		Payload: events.TicketAssignedPayload{
			AgentID:         agentID,
			PreviousAgentID: previousAgent,
		},
	})
	return ticket, nil
}

// Resolve marks an assigned ticket resolved, appending the agent's
// resolution message and crediting handle time (whole minutes, truncated)
// to the resolving agent. The resolving agent must be the assigned one.
func (s *TicketService) Resolve(ctx context.Context, ticketID int64, resolutionText string, agentID int64) (*domain.Ticket, error) {
	body := strings.TrimSpace(resolutionText)
	if body == "" {
		return nil, apperrors.NewValidationError("resolution message required", nil)
	}

	var ticket *domain.Ticket
	var handleTime int64
	err := s.tx.InTx(ctx, func(r repository.Repositories) error {
		t, err := r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return err
		}
		if t.Status != domain.StatusAssigned || t.AgentID == nil || t.AssignedAt == nil {
			return apperrors.NewPreconditionFailed("ticket is not assigned",
				map[string]any{"status": t.Status.String()})
		}
		if *t.AgentID != agentID {
			return apperrors.NewPreconditionFailed("resolving agent does not match assigned agent",
				map[string]any{"assigned_agent_id": *t.AgentID, "agent_id": agentID})
		}

		handleTime = int64(s.now().Sub(*t.AssignedAt) / time.Minute)
		if handleTime < 0 {
			handleTime = 0
		}

		m := &domain.Message{
			TicketID:      t.ID,
			Body:          body,
			SenderIsAgent: true,
			SenderID:      agentID,
		}
		if err := r.Messages.Create(ctx, m); err != nil {
			return err
		}

		expected := t.Status
		t.Status = domain.StatusResolved
		if err := r.Tickets.Transition(ctx, t, expected); err != nil {
			return mapTransitionErr(err)
		}
		if err := r.Metrics.IncrementResolved(ctx, agentID, handleTime); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		Actor:    agentActor(agentID),
		Payload: events.TicketResolvedPayload{
			AgentID:           agentID,
			HandleTimeMinutes: handleTime,
		},
	})
	return ticket, nil
}

// Close moves a ticket to the terminal Closed state from any pre-Closed
// state. Closing an already-closed ticket fails the precondition.
func (s *TicketService) Close(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	err := s.tx.InTx(ctx, func(r repository.Repositories) error {
		t, err := r.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return err
		}
		if !t.Status.CanTransitionTo(domain.StatusClosed) {
			return apperrors.NewPreconditionFailed("ticket already closed",
				map[string]any{"status": t.Status.String()})
		}

		expected := t.Status
		now := s.now()
		t.Status = domain.StatusClosed
		t.ClosedAt = &now
		if err := r.Tickets.Transition(ctx, t, expected); err != nil {
			return mapTransitionErr(err)
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		Payload:  events.TicketClosedPayload{ClosedAt: *ticket.ClosedAt},
	})
	return ticket, nil
}

// AddMessage appends a message to a ticket's conversation. The sender must
// exist as an agent or customer depending on senderIsAgent.
func (s *TicketService) AddMessage(ctx context.Context, ticketID int64, body string, senderIsAgent bool, senderID int64) (*domain.Message, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("message body required", nil)
	}
	if _, err := s.repos.Tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if senderIsAgent {
		if _, err := s.repos.Agents.GetByID(ctx, senderID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": senderID})
			}
			return nil, apperrors.MapError(err)
		}
	} else {
		if _, err := s.repos.Customers.GetByID(ctx, senderID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": senderID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	msg := &domain.Message{
		TicketID:      ticketID,
		Body:          trimmed,
		SenderIsAgent: senderIsAgent,
		SenderID:      senderID,
	}
	if err := s.repos.Messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	actor := customerActor(senderID)
	if senderIsAgent {
		actor = agentActor(senderID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventMessageAdded,
		TicketID: ticketID,
		Actor:    actor,
		Payload: events.MessageAddedPayload{
			MessageID:     msg.ID,
			SenderIsAgent: senderIsAgent,
			SenderID:      senderID,
			BodyPreview:   stringPreview(trimmed, 120),
		},
	})
	return msg, nil
}

// Conversation returns a ticket's messages in sent order with sender names
// resolved. Re-reading yields the same sequence unless new messages arrived.
func (s *TicketService) Conversation(ctx context.Context, ticketID int64) ([]domain.Message, error) {
	if _, err := s.repos.Tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	msgs, err := s.repos.Messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

// Detail returns a ticket with resolved names plus its conversation.
func (s *TicketService) Detail(ctx context.Context, ticketID int64) (*domain.TicketDetail, []domain.Message, error) {
	detail, err := s.repos.Tickets.GetDetail(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	msgs, err := s.repos.Messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return detail, msgs, nil
}

// ListForCustomer returns a customer's tickets, newest first.
func (s *TicketService) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	if _, err := s.repos.Customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": customerID})
		}
		return nil, apperrors.MapError(err)
	}
	tickets, err := s.repos.Tickets.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// SetEscalated flags or unflags a ticket as escalated.
func (s *TicketService) SetEscalated(ctx context.Context, ticketID int64, escalated bool) error {
	if err := s.repos.Tickets.SetEscalated(ctx, ticketID, escalated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func mapTransitionErr(err error) error {
	if errors.Is(err, repository.ErrStaleTicket) {
		return apperrors.NewPreconditionFailed("ticket changed concurrently", nil)
	}
	return err
}

func generateTicketReference() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func customerActor(customerID int64) events.Actor {
	return events.Actor{CustomerID: &customerID}
}

func agentActor(agentID int64) events.Actor {
	return events.Actor{AgentID: &agentID}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
