package websocket

import (
	"encoding/json"
	"time"
)

// EventType is what happened to an entity
type EventType string

const (
	EventTypeCreated     EventType = "created"
	EventTypeUpdated     EventType = "updated"
	EventTypeDeleted     EventType = "deleted"
	EventTypeSaved       EventType = "saved"
	EventTypeUnsaved     EventType = "unsaved"
	EventTypeInvalidated EventType = "invalidated"
	EventTypeReady       EventType = "ready"
)

// EntityType is what an event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeBudget      EntityType = "budget"
	EntityTypeSaving      EntityType = "saving"
	EntityTypeSaveGoal    EntityType = "save_goal"
	EntityTypeReport      EntityType = "report"
	EntityTypeSession     EntityType = "session"
)

// Event is the frame pushed to clients, e.g.
//
//	{"type":"transaction.created","entity":"transaction","seq":12,"payload":{...},"timestamp":"..."}
//
// Seq counts the events delivered to one user. A client that reconnects and
// sees a seq ahead of the last one it handled has missed changes and should
// refetch its reports.
type Event struct {
	Type      string      `json:"type"`
	Entity    EntityType  `json:"entity"`
	Seq       uint64      `json:"seq"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent builds an event named "<entity>.<type>"
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      string(entityType) + "." + string(eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// BudgetUpdated covers both upserts and edits
func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

func BudgetDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudget, payload)
}

func MoneySaved(payload interface{}) Event {
	return NewEvent(EventTypeSaved, EntityTypeSaving, payload)
}

func MoneyUnsaved(payload interface{}) Event {
	return NewEvent(EventTypeUnsaved, EntityTypeSaving, payload)
}

func SaveGoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSaveGoal, payload)
}

func SaveGoalDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeSaveGoal, payload)
}

// ReportInvalidated tells clients their dashboard and reports are stale
func ReportInvalidated() Event {
	return NewEvent(EventTypeInvalidated, EntityTypeReport, nil)
}

// sessionReady greets a new connection with the user's current seq
func sessionReady(seq uint64) Event {
	e := NewEvent(EventTypeReady, EntityTypeSession, nil)
	e.Seq = seq
	return e
}
