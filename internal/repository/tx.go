package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles the per-entity repositories over one Querier. Built
// over a pool for standalone reads, or over a pgx.Tx inside InTx so ticket,
// metrics and message writes commit or roll back as one unit.
type Repositories struct {
	Customers CustomerRepository
	Agents    AgentRepository
	Metrics   AgentMetricsRepository
	Tickets   TicketRepository
	Messages  MessageRepository
	Reports   ReportRepository
}

// NewRepositories builds the bundle over the given querier.
func NewRepositories(db Querier) Repositories {
	return Repositories{
		Customers: NewCustomerRepository(db),
		Agents:    NewAgentRepository(db),
		Metrics:   NewAgentMetricsRepository(db),
		Tickets:   NewTicketRepository(db),
		Messages:  NewMessageRepository(db),
		Reports:   NewReportRepository(db),
	}
}

// TxRunner scopes a function to a single database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Repositories) error) error
}

type pgxTxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds a TxRunner over the connection pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgxTxRunner{pool: pool}
}

func (r *pgxTxRunner) InTx(ctx context.Context, fn func(Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
