package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStub struct {
	counts map[string]int
}

func (c *countingStub) IncrEvent(entity string) {
	c.counts[entity]++
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	client := newMockClient("client-1", user)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(user, TransactionCreated(map[string]interface{}{"id": 42}))

	events := client.events(t)
	require.Len(t, events, 2)
	assert.Equal(t, "transaction.created", events[1].Type)
}

func TestCountingPublisher_Publish(t *testing.T) {
	hub := NewHub()
	user := uuid.New()
	client := newMockClient("client-1", user)
	hub.Register(client)

	counter := &countingStub{counts: map[string]int{}}
	publisher := NewCountingPublisher(hub, counter)

	publisher.Publish(user, BudgetUpdated(map[string]interface{}{"id": 7}))
	publisher.Publish(user, ReportInvalidated())

	assert.Equal(t, 1, counter.counts["budget"])
	assert.Equal(t, 1, counter.counts["report"])
	assert.Len(t, client.events(t), 3)
	assert.Equal(t, uint64(2), hub.Seq(user))
}

func TestNoOpPublisher_Publish(t *testing.T) {
	assert.NotPanics(t, func() {
		(&NoOpPublisher{}).Publish(uuid.New(), ReportInvalidated())
	})
}

func TestPublishers_ImplementEventPublisher(t *testing.T) {
	var _ EventPublisher = (*Hub)(nil)
	var _ EventPublisher = (*NoOpPublisher)(nil)
	var _ EventPublisher = (*CountingPublisher)(nil)
}
