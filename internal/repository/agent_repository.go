package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AgentRepository encapsulates agent persistence, including the skills
// association table.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id int64) (*domain.Agent, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.Agent, error)
	ListAvailable(ctx context.Context, at time.Time) ([]domain.Agent, error)
	Update(ctx context.Context, agent *domain.Agent) error
	Delete(ctx context.Context, id int64) error
	AddSkill(ctx context.Context, agentID, categoryID int64) error
	RemoveSkill(ctx context.Context, agentID, categoryID int64) error
	ListSkills(ctx context.Context, agentID int64) ([]domain.Category, error)
}

type agentRepository struct {
	db Querier
}

// NewAgentRepository instantiates repository.
func NewAgentRepository(db Querier) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (name, email, available_from, available_to)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		agent.Name,
		agent.Email,
		agent.AvailableFrom,
		agent.AvailableTo,
	).Scan(&agent.ID, &agent.CreatedAt)
}

func (r *agentRepository) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	const query = `
        SELECT id, name, email, available_from, available_to, created_at
        FROM agents WHERE id=$1`
	var agent domain.Agent
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Email,
		&agent.AvailableFrom,
		&agent.AvailableTo,
		&agent.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM agents WHERE email=$1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *agentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	const query = `
        SELECT id, name, email, available_from, available_to, created_at
        FROM agents ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgents(rows)
}

func (r *agentRepository) ListAvailable(ctx context.Context, at time.Time) ([]domain.Agent, error) {
	const query = `
        SELECT a.id, a.name, a.email, a.available_from, a.available_to, a.created_at
        FROM agents a
        JOIN agent_metrics am ON a.id = am.agent_id
        WHERE am.is_available = true
          AND (a.available_from IS NULL OR a.available_from <= $1)
          AND (a.available_to IS NULL OR a.available_to >= $1)
        ORDER BY a.name`
	rows, err := r.db.Query(ctx, query, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgents(rows)
}

func (r *agentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	const query = `
        UPDATE agents SET name=$1, email=$2, available_from=$3, available_to=$4
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		agent.Name,
		agent.Email,
		agent.AvailableFrom,
		agent.AvailableTo,
		agent.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) Delete(ctx context.Context, id int64) error {
	// Skills go first; agent_metrics is removed by its own repository inside
	// the same transaction before this is called.
	if _, err := r.db.Exec(ctx, `DELETE FROM agent_skills WHERE agent_id=$1`, id); err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM agents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) AddSkill(ctx context.Context, agentID, categoryID int64) error {
	const query = `
        INSERT INTO agent_skills (agent_id, category_id)
        VALUES ($1,$2)
        ON CONFLICT (agent_id, category_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, agentID, categoryID)
	return err
}

func (r *agentRepository) RemoveSkill(ctx context.Context, agentID, categoryID int64) error {
	const query = `DELETE FROM agent_skills WHERE agent_id=$1 AND category_id=$2`
	_, err := r.db.Exec(ctx, query, agentID, categoryID)
	return err
}

func (r *agentRepository) ListSkills(ctx context.Context, agentID int64) ([]domain.Category, error) {
	const query = `
        SELECT c.id, c.name
        FROM ticket_categories c
        JOIN agent_skills s ON s.category_id = c.id
        WHERE s.agent_id=$1
        ORDER BY c.name`
	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func scanAgents(rows pgx.Rows) ([]domain.Agent, error) {
	var result []domain.Agent
	for rows.Next() {
		var agent domain.Agent
		if err := rows.Scan(
			&agent.ID,
			&agent.Name,
			&agent.Email,
			&agent.AvailableFrom,
			&agent.AvailableTo,
			&agent.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, agent)
	}
	return result, rows.Err()
}
