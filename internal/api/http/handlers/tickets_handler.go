package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler exposes ticket lifecycle and conversation endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID <= 0 || req.CategoryID <= 0 || req.PriorityID <= 0 {
		return apperrors.NewValidationError("customer_id, category_id, priority_id required", nil)
	}
	ticket, err := h.tickets.Create(c.Context(), service.TicketCreateInput{
		CustomerID: req.CustomerID,
		CategoryID: req.CategoryID,
		PriorityID: req.PriorityID,
		Message:    req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	detail, msgs, err := h.tickets.Detail(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail, msgs)})
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AgentID <= 0 {
		return apperrors.NewValidationError("agent_id required", nil)
	}
	ticket, err := h.tickets.Assign(c.Context(), id, req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Resolve POST /tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AgentID <= 0 {
		return apperrors.NewValidationError("agent_id required", nil)
	}
	ticket, err := h.tickets.Resolve(c.Context(), id, req.Resolution, req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Close POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Close(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Escalate PUT /tickets/:id/escalate.
func (h *TicketsHandler) Escalate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.EscalateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.tickets.SetEscalated(c.Context(), id, req.Escalated); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SenderID <= 0 {
		return apperrors.NewValidationError("sender_id required", nil)
	}
	msg, err := h.tickets.AddMessage(c.Context(), id, req.Body, req.SenderIsAgent, req.SenderID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}

// Messages GET /tickets/:id/messages.
func (h *TicketsHandler) Messages(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	msgs, err := h.tickets.Conversation(c.Context(), id)
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:          ticket.ID,
		Reference:   ticket.Reference,
		CustomerID:  ticket.CustomerID,
		AgentID:     ticket.AgentID,
		Status:      ticket.Status.String(),
		CategoryID:  ticket.CategoryID,
		PriorityID:  ticket.PriorityID,
		IsEscalated: ticket.IsEscalated,
		CreatedAt:   ticket.CreatedAt,
		AssignedAt:  ticket.AssignedAt,
		ClosedAt:    ticket.ClosedAt,
	}
}

func ticketDetail(detail *domain.TicketDetail, msgs []domain.Message) dto.TicketDetailResponse {
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResponse(&msgs[i]))
	}
	return dto.TicketDetailResponse{
		TicketSummary: ticketSummary(&detail.Ticket),
		CustomerName:  detail.CustomerName,
		AgentName:     detail.AgentName,
		CategoryName:  detail.CategoryName,
		PriorityName:  detail.PriorityName,
		Messages:      items,
	}
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:            msg.ID,
		TicketID:      msg.TicketID,
		Body:          msg.Body,
		SenderIsAgent: msg.SenderIsAgent,
		SenderID:      msg.SenderID,
		SenderName:    msg.SenderName,
		SentAt:        msg.SentAt,
	}
}
