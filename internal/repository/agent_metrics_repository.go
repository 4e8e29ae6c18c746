package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AgentMetricsRepository manages per-agent running counters. Increments are
// expected to run inside the same transaction as the ticket transition that
// triggered them.
type AgentMetricsRepository interface {
	Init(ctx context.Context, agentID int64) error
	GetByAgent(ctx context.Context, agentID int64) (*domain.AgentMetrics, error)
	IncrementAssigned(ctx context.Context, agentID int64) error
	IncrementResolved(ctx context.Context, agentID int64, handleTimeMinutes int64) error
	SetAvailability(ctx context.Context, agentID int64, available bool) error
	Delete(ctx context.Context, agentID int64) error
}

type agentMetricsRepository struct {
	db Querier
}

// NewAgentMetricsRepository instantiates repository.
func NewAgentMetricsRepository(db Querier) AgentMetricsRepository {
	return &agentMetricsRepository{db: db}
}

func (r *agentMetricsRepository) Init(ctx context.Context, agentID int64) error {
	const query = `
        INSERT INTO agent_metrics (agent_id, total_assigned, total_resolved, total_handle_time_minutes, is_available)
        VALUES ($1, 0, 0, 0, true)`
	_, err := r.db.Exec(ctx, query, agentID)
	return err
}

func (r *agentMetricsRepository) GetByAgent(ctx context.Context, agentID int64) (*domain.AgentMetrics, error) {
	const query = `
        SELECT agent_id, total_assigned, total_resolved, total_handle_time_minutes, is_available
        FROM agent_metrics WHERE agent_id=$1`
	var metrics domain.AgentMetrics
	if err := r.db.QueryRow(ctx, query, agentID).Scan(
		&metrics.AgentID,
		&metrics.TotalAssigned,
		&metrics.TotalResolved,
		&metrics.TotalHandleTimeMinutes,
		&metrics.IsAvailable,
	); err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (r *agentMetricsRepository) IncrementAssigned(ctx context.Context, agentID int64) error {
	const query = `
        UPDATE agent_metrics SET total_assigned = total_assigned + 1
        WHERE agent_id=$1`
	return r.exec(ctx, query, agentID)
}

func (r *agentMetricsRepository) IncrementResolved(ctx context.Context, agentID int64, handleTimeMinutes int64) error {
	const query = `
        UPDATE agent_metrics SET
            total_resolved = total_resolved + 1,
            total_handle_time_minutes = total_handle_time_minutes + $1
        WHERE agent_id=$2`
	return r.exec(ctx, query, handleTimeMinutes, agentID)
}

func (r *agentMetricsRepository) SetAvailability(ctx context.Context, agentID int64, available bool) error {
	const query = `UPDATE agent_metrics SET is_available=$1 WHERE agent_id=$2`
	return r.exec(ctx, query, available, agentID)
}

func (r *agentMetricsRepository) Delete(ctx context.Context, agentID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM agent_metrics WHERE agent_id=$1`, agentID)
	return err
}

func (r *agentMetricsRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
