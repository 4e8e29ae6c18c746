package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type ticketFixture struct {
	svc        *TicketService
	state      *fakeState
	clock      *fakeClock
	dispatcher *recordingDispatcher
	customer   *domain.Customer
	agent      *domain.Agent
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	clock := newFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	state := newFakeState(clock)
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		Repos:      state.repositories(),
		Tx:         &fakeTxRunner{s: state},
		Dispatcher: dispatcher,
		Now:        clock.Now,
	})

	customer := &domain.Customer{Name: "Dana Fray", Email: "dana@example.com"}
	require.NoError(t, state.repositories().Customers.Create(context.Background(), customer))
	agent := &domain.Agent{Name: "Sam Oduya", Email: "sam@example.com"}
	require.NoError(t, state.repositories().Agents.Create(context.Background(), agent))
	require.NoError(t, state.repositories().Metrics.Init(context.Background(), agent.ID))

	return &ticketFixture{
		svc:        svc,
		state:      state,
		clock:      clock,
		dispatcher: dispatcher,
		customer:   customer,
		agent:      agent,
	}
}

func (f *ticketFixture) createTicket(t *testing.T) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID: f.customer.ID,
		CategoryID: 1,
		PriorityID: 2,
		Message:    "My printer is on fire",
	})
	require.NoError(t, err)
	return ticket
}

func (f *ticketFixture) metrics(t *testing.T) *domain.AgentMetrics {
	t.Helper()
	m, err := f.state.repositories().Metrics.GetByAgent(context.Background(), f.agent.ID)
	require.NoError(t, err)
	return m
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, code, de.Code)
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture(t)

	ticket := f.createTicket(t)
	assert.Equal(t, domain.StatusOpen, ticket.Status)
	assert.Equal(t, f.customer.ID, ticket.CustomerID)
	assert.Nil(t, ticket.AgentID)
	assert.Regexp(t, `^TCK-[0-9A-F]{8}$`, ticket.Reference)

	msgs, err := f.svc.Conversation(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "My printer is on fire", msgs[0].Body)
	assert.False(t, msgs[0].SenderIsAgent)
	assert.Equal(t, f.customer.ID, msgs[0].SenderID)

	assert.Len(t, f.dispatcher.byType(events.EventTicketCreated), 1)
}

func TestCreateTicketRequiresInitialMessage(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID: f.customer.ID,
		CategoryID: 1,
		PriorityID: 1,
		Message:    "   ",
	})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestCreateTicketUnknownCustomer(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.Create(context.Background(), TicketCreateInput{
		CustomerID: 999,
		CategoryID: 1,
		PriorityID: 1,
		Message:    "hello",
	})
	requireCode(t, err, "NOT_FOUND")
}

func TestAssignTicket(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	assigned, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, assigned.Status)
	require.NotNil(t, assigned.AgentID)
	assert.Equal(t, f.agent.ID, *assigned.AgentID)
	require.NotNil(t, assigned.AssignedAt)
	assert.Equal(t, f.clock.Now(), *assigned.AssignedAt)

	assert.Equal(t, int64(1), f.metrics(t).TotalAssigned)
	assert.Len(t, f.dispatcher.byType(events.EventTicketAssigned), 1)
}

func TestReassignTicketCountsBothAgents(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	other := &domain.Agent{Name: "Bea Kowalski", Email: "bea@example.com"}
	require.NoError(t, f.state.repositories().Agents.Create(context.Background(), other))
	require.NoError(t, f.state.repositories().Metrics.Init(context.Background(), other.ID))

	_, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)
	reassigned, err := f.svc.Assign(context.Background(), ticket.ID, other.ID)
	require.NoError(t, err)

	assert.Equal(t, other.ID, *reassigned.AgentID)
	assert.Equal(t, int64(1), f.metrics(t).TotalAssigned)
	otherMetrics, err := f.state.repositories().Metrics.GetByAgent(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherMetrics.TotalAssigned)
}

func TestAssignUnknownAgent(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.Assign(context.Background(), ticket.ID, 404)
	requireCode(t, err, "NOT_FOUND")
	assert.Equal(t, int64(0), f.metrics(t).TotalAssigned)
}

func TestAssignClosedTicketRejected(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	_, err := f.svc.Close(context.Background(), ticket.ID)
	require.NoError(t, err)

	_, err = f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	requireCode(t, err, "PRECONDITION_FAILED")
}

func TestResolveTicketCreditsHandleTime(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)

	f.clock.Advance(30*time.Minute + 45*time.Second)
	resolved, err := f.svc.Resolve(context.Background(), ticket.ID, "Replaced the fuser unit", f.agent.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, resolved.Status)

	m := f.metrics(t)
	assert.Equal(t, int64(1), m.TotalResolved)
	// partial minutes truncate, not round
	assert.Equal(t, int64(30), m.TotalHandleTimeMinutes)
	assert.InDelta(t, 100.0, m.ResolutionRate(), 0.0001)
	assert.InDelta(t, 30.0, m.AvgHandleTimeMinutes(), 0.0001)

	msgs, err := f.svc.Conversation(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].SenderIsAgent)
	assert.Equal(t, "Replaced the fuser unit", msgs[1].Body)

	published := f.dispatcher.byType(events.EventTicketResolved)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.TicketResolvedPayload)
	require.True(t, ok)
	assert.Equal(t, int64(30), payload.HandleTimeMinutes)
}

func TestResolveUnassignedTicketRejected(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.Resolve(context.Background(), ticket.ID, "done", f.agent.ID)
	requireCode(t, err, "PRECONDITION_FAILED")
	assert.Equal(t, int64(0), f.metrics(t).TotalResolved)
}

func TestResolveByWrongAgentRejected(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	other := &domain.Agent{Name: "Bea Kowalski", Email: "bea@example.com"}
	require.NoError(t, f.state.repositories().Agents.Create(context.Background(), other))
	require.NoError(t, f.state.repositories().Metrics.Init(context.Background(), other.ID))

	_, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), ticket.ID, "done", other.ID)
	requireCode(t, err, "PRECONDITION_FAILED")

	stored, err := f.state.repositories().Tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, stored.Status)
}

func TestResolveRequiresMessage(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	_, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), ticket.ID, "", f.agent.ID)
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestCloseTicket(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	closed, err := f.svc.Close(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	assert.Len(t, f.dispatcher.byType(events.EventTicketClosed), 1)
}

func TestCloseTwiceRejected(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.Close(context.Background(), ticket.ID)
	require.NoError(t, err)
	_, err = f.svc.Close(context.Background(), ticket.ID)
	requireCode(t, err, "PRECONDITION_FAILED")
}

func TestResolvedTicketCanBeReassigned(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)
	_, err = f.svc.Resolve(context.Background(), ticket.ID, "fixed", f.agent.ID)
	require.NoError(t, err)

	reopened, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, reopened.Status)
	assert.Equal(t, int64(2), f.metrics(t).TotalAssigned)
}

func TestAddMessageAndConversationOrder(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	_, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	_, err = f.svc.AddMessage(context.Background(), ticket.ID, "Any update?", false, f.customer.ID)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.svc.AddMessage(context.Background(), ticket.ID, "Looking into it now", true, f.agent.ID)
	require.NoError(t, err)

	msgs, err := f.svc.Conversation(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "My printer is on fire", msgs[0].Body)
	assert.Equal(t, "Any update?", msgs[1].Body)
	assert.Equal(t, "Looking into it now", msgs[2].Body)
	assert.Equal(t, "Dana Fray", msgs[0].SenderName)
	assert.Equal(t, "Sam Oduya", msgs[2].SenderName)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].SentAt.Before(msgs[i-1].SentAt))
	}
}

func TestConversationTieBreakOnID(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	// both sent within the same clock tick; ids decide the order
	_, err := f.svc.AddMessage(context.Background(), ticket.ID, "first burst", false, f.customer.ID)
	require.NoError(t, err)
	_, err = f.svc.AddMessage(context.Background(), ticket.ID, "second burst", false, f.customer.ID)
	require.NoError(t, err)

	msgs, err := f.svc.Conversation(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first burst", msgs[1].Body)
	assert.Equal(t, "second burst", msgs[2].Body)
}

func TestAddMessageUnknownSender(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	_, err := f.svc.AddMessage(context.Background(), ticket.ID, "hi", true, 404)
	requireCode(t, err, "NOT_FOUND")
}

func TestAddMessageUnknownTicket(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.AddMessage(context.Background(), 404, "hi", false, f.customer.ID)
	requireCode(t, err, "NOT_FOUND")
}

func TestSetEscalated(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)

	require.NoError(t, f.svc.SetEscalated(context.Background(), ticket.ID, true))
	stored, err := f.state.repositories().Tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsEscalated)

	requireCode(t, f.svc.SetEscalated(context.Background(), 404, true), "NOT_FOUND")
}

func TestDetailResolvesNames(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t)
	_, err := f.svc.Assign(context.Background(), ticket.ID, f.agent.ID)
	require.NoError(t, err)

	detail, msgs, err := f.svc.Detail(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Fray", detail.CustomerName)
	require.NotNil(t, detail.AgentName)
	assert.Equal(t, "Sam Oduya", *detail.AgentName)
	assert.Equal(t, "Assigned", detail.StatusName)
	assert.Len(t, msgs, 1)
}

func TestListForCustomer(t *testing.T) {
	f := newTicketFixture(t)
	first := f.createTicket(t)
	f.clock.Advance(time.Hour)
	second := f.createTicket(t)

	tickets, err := f.svc.ListForCustomer(context.Background(), f.customer.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, second.ID, tickets[0].ID)
	assert.Equal(t, first.ID, tickets[1].ID)

	_, err = f.svc.ListForCustomer(context.Background(), 404)
	requireCode(t, err, "NOT_FOUND")
}
