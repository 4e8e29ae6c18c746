package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AgentService manages the agent directory and per-agent metrics views.
// Agent and metrics rows are created and deleted together.
type AgentService struct {
	repos repository.Repositories
	tx    repository.TxRunner
	now   func() time.Time
}

// AgentDependencies bundles collaborators for the agent service.
type AgentDependencies struct {
	Repos repository.Repositories
	Tx    repository.TxRunner
	Now   func() time.Time
}

// AgentRegisterInput describes agent registration payload.
type AgentRegisterInput struct {
	Name          string
	Email         string
	AvailableFrom *time.Time
	AvailableTo   *time.Time
}

// NewAgentService constructs the service.
func NewAgentService(deps AgentDependencies) *AgentService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AgentService{repos: deps.Repos, tx: deps.Tx, now: now}
}

// Register creates an agent together with its zeroed metrics record.
func (s *AgentService) Register(ctx context.Context, input AgentRegisterInput) (*domain.Agent, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	exists, err := s.repos.Agents.EmailExists(ctx, email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("agent email already registered", map[string]any{"email": email})
	}

	agent := &domain.Agent{
		Name:          name,
		Email:         email,
		AvailableFrom: input.AvailableFrom,
		AvailableTo:   input.AvailableTo,
	}
	err = s.tx.InTx(ctx, func(r repository.Repositories) error {
		if err := r.Agents.Create(ctx, agent); err != nil {
			return err
		}
		return r.Metrics.Init(ctx, agent.ID)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// Get fetches an agent by id.
func (s *AgentService) Get(ctx context.Context, id int64) (*domain.Agent, error) {
	agent, err := s.repos.Agents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// List returns all agents ordered by name.
func (s *AgentService) List(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.repos.Agents.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// ListAvailable returns agents currently inside their availability window
// and flagged available.
func (s *AgentService) ListAvailable(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.repos.Agents.ListAvailable(ctx, s.now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// Update edits an agent's profile and availability window.
func (s *AgentService) Update(ctx context.Context, id int64, input AgentRegisterInput) (*domain.Agent, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	agent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	agent.Name = name
	agent.Email = email
	agent.AvailableFrom = input.AvailableFrom
	agent.AvailableTo = input.AvailableTo
	if err := s.repos.Agents.Update(ctx, agent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// Delete removes an agent and its metrics record together. Agents with
// tickets assigned cannot be removed.
func (s *AgentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repos.Tickets.CountByAgent(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewPreconditionFailed("agent has assigned tickets",
			map[string]any{"agent_id": id, "ticket_count": count})
	}
	err = s.tx.InTx(ctx, func(r repository.Repositories) error {
		if err := r.Metrics.Delete(ctx, id); err != nil {
			return err
		}
		return r.Agents.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// AddSkill associates an agent with a ticket category.
func (s *AgentService) AddSkill(ctx context.Context, agentID, categoryID int64) error {
	if _, err := s.Get(ctx, agentID); err != nil {
		return err
	}
	if err := s.repos.Agents.AddSkill(ctx, agentID, categoryID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// RemoveSkill removes a category association from an agent.
func (s *AgentService) RemoveSkill(ctx context.Context, agentID, categoryID int64) error {
	if _, err := s.Get(ctx, agentID); err != nil {
		return err
	}
	if err := s.repos.Agents.RemoveSkill(ctx, agentID, categoryID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Skills lists categories an agent can handle.
func (s *AgentService) Skills(ctx context.Context, agentID int64) ([]domain.Category, error) {
	if _, err := s.Get(ctx, agentID); err != nil {
		return nil, err
	}
	skills, err := s.repos.Agents.ListSkills(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return skills, nil
}

// SetAvailability toggles the agent's availability flag.
func (s *AgentService) SetAvailability(ctx context.Context, agentID int64, available bool) error {
	if err := s.repos.Metrics.SetAvailability(ctx, agentID, available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Performance returns an agent with its counters and derived resolution
// rate and average handle time. Derived values are never stored.
func (s *AgentService) Performance(ctx context.Context, agentID int64) (*domain.AgentPerformance, error) {
	agent, err := s.Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	metrics, err := s.repos.Metrics.GetByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent metrics", map[string]any{"agent_id": agentID})
		}
		return nil, apperrors.MapError(err)
	}
	return &domain.AgentPerformance{
		Agent:          *agent,
		Metrics:        *metrics,
		ResolutionRate: metrics.ResolutionRate(),
		AvgHandleTime:  metrics.AvgHandleTimeMinutes(),
	}, nil
}
