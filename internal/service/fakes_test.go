package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// fakeState is shared in-memory storage backing the fake repositories.
type fakeState struct {
	mu        sync.Mutex
	customers map[int64]domain.Customer
	agents    map[int64]domain.Agent
	metrics   map[int64]domain.AgentMetrics
	tickets   map[int64]domain.Ticket
	messages  []domain.Message
	seq       int64
	clock     *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFakeState(clock *fakeClock) *fakeState {
	return &fakeState{
		customers: make(map[int64]domain.Customer),
		agents:    make(map[int64]domain.Agent),
		metrics:   make(map[int64]domain.AgentMetrics),
		tickets:   make(map[int64]domain.Ticket),
		clock:     clock,
	}
}

func (s *fakeState) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *fakeState) repositories() repository.Repositories {
	return repository.Repositories{
		Customers: &fakeCustomerRepo{s: s},
		Agents:    &fakeAgentRepo{s: s},
		Metrics:   &fakeMetricsRepo{s: s},
		Tickets:   &fakeTicketRepo{s: s},
		Messages:  &fakeMessageRepo{s: s},
	}
}

// fakeTxRunner hands the same fake repositories to the callback; there is no
// real transaction to roll back.
type fakeTxRunner struct {
	s *fakeState
}

func (r *fakeTxRunner) InTx(_ context.Context, fn func(repository.Repositories) error) error {
	return fn(r.s.repositories())
}

type fakeCustomerRepo struct {
	s *fakeState
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	customer.ID = r.s.nextID()
	customer.CreatedAt = r.s.clock.Now()
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	customer, ok := r.s.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &customer, nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, customer := range r.s.customers {
		if customer.Email == email {
			return &customer, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, customer := range r.s.customers {
		if customer.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.Customer, 0, len(r.s.customers))
	for _, customer := range r.s.customers {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.customers, id)
	return nil
}

type fakeAgentRepo struct {
	s *fakeState
}

func (r *fakeAgentRepo) Create(_ context.Context, agent *domain.Agent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agent.ID = r.s.nextID()
	agent.CreatedAt = r.s.clock.Now()
	r.s.agents[agent.ID] = *agent
	return nil
}

func (r *fakeAgentRepo) GetByID(_ context.Context, id int64) (*domain.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agent, ok := r.s.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &agent, nil
}

func (r *fakeAgentRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, agent := range r.s.agents {
		if agent.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAgentRepo) List(_ context.Context) ([]domain.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.Agent, 0, len(r.s.agents))
	for _, agent := range r.s.agents {
		result = append(result, agent)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeAgentRepo) ListAvailable(_ context.Context, at time.Time) ([]domain.Agent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Agent
	for id, agent := range r.s.agents {
		metrics, ok := r.s.metrics[id]
		if !ok || !metrics.IsAvailable {
			continue
		}
		if agent.AvailableAt(at) {
			result = append(result, agent)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeAgentRepo) Update(_ context.Context, agent *domain.Agent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.agents[agent.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.agents[agent.ID] = *agent
	return nil
}

func (r *fakeAgentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.agents[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.agents, id)
	return nil
}

func (r *fakeAgentRepo) AddSkill(_ context.Context, _, _ int64) error {
	return nil
}

func (r *fakeAgentRepo) RemoveSkill(_ context.Context, _, _ int64) error {
	return nil
}

func (r *fakeAgentRepo) ListSkills(_ context.Context, _ int64) ([]domain.Category, error) {
	return nil, nil
}

type fakeMetricsRepo struct {
	s *fakeState
}

func (r *fakeMetricsRepo) Init(_ context.Context, agentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.metrics[agentID] = domain.AgentMetrics{AgentID: agentID, IsAvailable: true}
	return nil
}

func (r *fakeMetricsRepo) GetByAgent(_ context.Context, agentID int64) (*domain.AgentMetrics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	metrics, ok := r.s.metrics[agentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &metrics, nil
}

func (r *fakeMetricsRepo) IncrementAssigned(_ context.Context, agentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	metrics, ok := r.s.metrics[agentID]
	if !ok {
		return pgx.ErrNoRows
	}
	metrics.TotalAssigned++
	r.s.metrics[agentID] = metrics
	return nil
}

func (r *fakeMetricsRepo) IncrementResolved(_ context.Context, agentID int64, handleTimeMinutes int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	metrics, ok := r.s.metrics[agentID]
	if !ok {
		return pgx.ErrNoRows
	}
	metrics.TotalResolved++
	metrics.TotalHandleTimeMinutes += handleTimeMinutes
	r.s.metrics[agentID] = metrics
	return nil
}

func (r *fakeMetricsRepo) SetAvailability(_ context.Context, agentID int64, available bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	metrics, ok := r.s.metrics[agentID]
	if !ok {
		return pgx.ErrNoRows
	}
	metrics.IsAvailable = available
	r.s.metrics[agentID] = metrics
	return nil
}

func (r *fakeMetricsRepo) Delete(_ context.Context, agentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.metrics, agentID)
	return nil
}

type fakeTicketRepo struct {
	s *fakeState
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket.ID = r.s.nextID()
	ticket.CreatedAt = r.s.clock.Now()
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *fakeTicketRepo) GetDetail(ctx context.Context, id int64) (*domain.TicketDetail, error) {
	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	detail := &domain.TicketDetail{
		Ticket:     *ticket,
		StatusName: ticket.Status.String(),
	}
	if customer, ok := r.s.customers[ticket.CustomerID]; ok {
		detail.CustomerName = customer.Name
	}
	if ticket.AgentID != nil {
		if agent, ok := r.s.agents[*ticket.AgentID]; ok {
			name := agent.Name
			detail.AgentName = &name
		}
	}
	return detail, nil
}

func (r *fakeTicketRepo) Transition(_ context.Context, ticket *domain.Ticket, expected domain.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tickets[ticket.ID]
	if !ok || stored.Status != expected {
		return repository.ErrStaleTicket
	}
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) SetEscalated(_ context.Context, id int64, escalated bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.IsEscalated = escalated
	r.s.tickets[id] = ticket
	return nil
}

func (r *fakeTicketRepo) ListByCustomer(_ context.Context, customerID int64) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.s.tickets {
		if ticket.CustomerID == customerID {
			result = append(result, ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeTicketRepo) CountByCustomer(_ context.Context, customerID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, ticket := range r.s.tickets {
		if ticket.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeTicketRepo) CountByAgent(_ context.Context, agentID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, ticket := range r.s.tickets {
		if ticket.AgentID != nil && *ticket.AgentID == agentID {
			n++
		}
	}
	return n, nil
}

type fakeMessageRepo struct {
	s *fakeState
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msg.ID = r.s.nextID()
	msg.SentAt = r.s.clock.Now()
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Message
	for _, msg := range r.s.messages {
		if msg.TicketID != ticketID {
			continue
		}
		if msg.SenderIsAgent {
			if agent, ok := r.s.agents[msg.SenderID]; ok {
				msg.SenderName = agent.Name
			}
		} else {
			if customer, ok := r.s.customers[msg.SenderID]; ok {
				msg.SenderName = customer.Name
			}
		}
		result = append(result, msg)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].SentAt.Equal(result[j].SentAt) {
			return result[i].SentAt.Before(result[j].SentAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
