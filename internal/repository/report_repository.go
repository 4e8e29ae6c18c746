package repository

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AgentPerformanceRow is a raw agent+metrics join row for ranking.
type AgentPerformanceRow struct {
	Agent   domain.Agent
	Metrics domain.AgentMetrics
}

// ResolutionSample is one closed ticket with its category and lifecycle
// bounds, from which resolution durations are derived.
type ResolutionSample struct {
	CategoryID   int64
	CategoryName string
	CreatedAt    time.Time
	ClosedAt     time.Time
}

// CreationSample is one ticket creation instant with its category.
type CreationSample struct {
	CreatedAt    time.Time
	CategoryName string
}

// ReportRepository fetches the raw rows the reporting engine derives its
// aggregates from. All queries are read-only.
type ReportRepository interface {
	AgentPerformanceRows(ctx context.Context) ([]AgentPerformanceRow, error)
	ClosedTicketSamples(ctx context.Context) ([]ResolutionSample, error)
	CreationSamples(ctx context.Context, from, to time.Time) ([]CreationSample, error)
}

type reportRepository struct {
	db Querier
}

// NewReportRepository instantiates repository.
func NewReportRepository(db Querier) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) AgentPerformanceRows(ctx context.Context) ([]AgentPerformanceRow, error) {
	const query = `
        SELECT a.id, a.name, a.email, a.available_from, a.available_to, a.created_at,
               am.agent_id, am.total_assigned, am.total_resolved, am.total_handle_time_minutes, am.is_available
        FROM agents a
        JOIN agent_metrics am ON a.id = am.agent_id
        WHERE am.total_assigned > 0`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AgentPerformanceRow
	for rows.Next() {
		var row AgentPerformanceRow
		if err := rows.Scan(
			&row.Agent.ID,
			&row.Agent.Name,
			&row.Agent.Email,
			&row.Agent.AvailableFrom,
			&row.Agent.AvailableTo,
			&row.Agent.CreatedAt,
			&row.Metrics.AgentID,
			&row.Metrics.TotalAssigned,
			&row.Metrics.TotalResolved,
			&row.Metrics.TotalHandleTimeMinutes,
			&row.Metrics.IsAvailable,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) ClosedTicketSamples(ctx context.Context) ([]ResolutionSample, error) {
	const query = `
        SELECT t.category_id, tc.name, t.created_at, t.closed_at
        FROM tickets t
        JOIN ticket_categories tc ON t.category_id = tc.id
        WHERE t.closed_at IS NOT NULL`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ResolutionSample
	for rows.Next() {
		var sample ResolutionSample
		if err := rows.Scan(
			&sample.CategoryID,
			&sample.CategoryName,
			&sample.CreatedAt,
			&sample.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, sample)
	}
	return result, rows.Err()
}

func (r *reportRepository) CreationSamples(ctx context.Context, from, to time.Time) ([]CreationSample, error) {
	const query = `
        SELECT t.created_at, tc.name
        FROM tickets t
        JOIN ticket_categories tc ON t.category_id = tc.id
        WHERE t.created_at >= $1 AND t.created_at < $2`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CreationSample
	for rows.Next() {
		var sample CreationSample
		if err := rows.Scan(&sample.CreatedAt, &sample.CategoryName); err != nil {
			return nil, err
		}
		result = append(result, sample)
	}
	return result, rows.Err()
}
