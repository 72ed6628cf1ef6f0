package websocket

import "github.com/google/uuid"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all connections of the given user
	Publish(userID uuid.UUID, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}

// EventCounter counts published events by entity
type EventCounter interface {
	IncrEvent(entity string)
}

// CountingPublisher records a metric for every event before handing it on
type CountingPublisher struct {
	next    EventPublisher
	counter EventCounter
}

// NewCountingPublisher wraps next so each published event is counted
func NewCountingPublisher(next EventPublisher, counter EventCounter) *CountingPublisher {
	return &CountingPublisher{next: next, counter: counter}
}

// Publish counts the event and forwards it
func (p *CountingPublisher) Publish(userID uuid.UUID, event Event) {
	p.counter.IncrEvent(string(event.Entity))
	p.next.Publish(userID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}
