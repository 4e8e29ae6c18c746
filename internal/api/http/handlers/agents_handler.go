package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AgentsHandler exposes agent directory and performance endpoints.
type AgentsHandler struct {
	agents *service.AgentService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agents *service.AgentService) *AgentsHandler {
	return &AgentsHandler{agents: agents}
}

// Register POST /agents.
func (h *AgentsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	agent, err := h.agents.Register(c.Context(), service.AgentRegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": agentResponse(agent)})
}

// List GET /agents.
func (h *AgentsHandler) List(c *fiber.Ctx) error {
	agents, err := h.agents.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponses(agents)})
}

// ListAvailable GET /agents/available.
func (h *AgentsHandler) ListAvailable(c *fiber.Ctx) error {
	agents, err := h.agents.ListAvailable(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponses(agents)})
}

// Get GET /agents/:id.
func (h *AgentsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	agent, err := h.agents.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponse(agent)})
}

// Update PUT /agents/:id.
func (h *AgentsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RegisterAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	agent, err := h.agents.Update(c.Context(), id, service.AgentRegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponse(agent)})
}

// Delete DELETE /agents/:id.
func (h *AgentsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.agents.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddSkill POST /agents/:id/skills.
func (h *AgentsHandler) AddSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CategoryID <= 0 {
		return apperrors.NewValidationError("category_id required", nil)
	}
	if err := h.agents.AddSkill(c.Context(), id, req.CategoryID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RemoveSkill DELETE /agents/:id/skills/:categoryId.
func (h *AgentsHandler) RemoveSkill(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	categoryID, err := parseID(c, "categoryId")
	if err != nil {
		return err
	}
	if err := h.agents.RemoveSkill(c.Context(), id, categoryID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Skills GET /agents/:id/skills.
func (h *AgentsHandler) Skills(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	skills, err := h.agents.Skills(c.Context(), id)
	if err != nil {
		return err
	}
	items := make([]dto.SkillResponse, 0, len(skills))
	for _, skill := range skills {
		items = append(items, dto.SkillResponse{CategoryID: skill.ID, Name: skill.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetAvailability PUT /agents/:id/availability.
func (h *AgentsHandler) SetAvailability(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.agents.SetAvailability(c.Context(), id, req.Available); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Performance GET /agents/:id/performance.
func (h *AgentsHandler) Performance(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	perf, err := h.agents.Performance(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AgentPerformanceResponse{
		AgentID:                perf.Agent.ID,
		Name:                   perf.Agent.Name,
		Email:                  perf.Agent.Email,
		TotalAssigned:          perf.Metrics.TotalAssigned,
		TotalResolved:          perf.Metrics.TotalResolved,
		TotalHandleTimeMinutes: perf.Metrics.TotalHandleTimeMinutes,
		IsAvailable:            perf.Metrics.IsAvailable,
		ResolutionRate:         perf.ResolutionRate,
		AvgHandleTimeMinutes:   perf.AvgHandleTime,
	}})
}

func agentResponse(agent *domain.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:            agent.ID,
		Name:          agent.Name,
		Email:         agent.Email,
		AvailableFrom: agent.AvailableFrom,
		AvailableTo:   agent.AvailableTo,
		CreatedAt:     agent.CreatedAt,
	}
}

func agentResponses(agents []domain.Agent) []dto.AgentResponse {
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, agentResponse(&agents[i]))
	}
	return items
}
