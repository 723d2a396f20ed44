// Package domain holds the event-capture base shared by all entities.
// State-changing operations on an entity raise domain events as a side
// effect; the unit of work serializes pending events into the outbox as
// part of the commit and clears them afterwards.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a domain event raised by an entity and held transiently
// until the surrounding transaction commits.
type Event struct {
	ID            uuid.UUID
	Name          string
	AggregateType string
	AggregateID   uuid.UUID
	OccurredAt    time.Time
	Payload       any
}

// EventCarrier is implemented by entities that accumulate domain events.
type EventCarrier interface {
	PendingEvents() []Event
	ClearEvents()
}

// Entity is embedded by domain entities to capture raised events.
type Entity struct {
	events []Event
}

// Raise records a domain event against the entity.
func (e *Entity) Raise(name, aggregateType string, aggregateID uuid.UUID, payload any) {
	e.events = append(e.events, Event{
		ID:            uuid.New(),
		Name:          name,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	})
}

func (e *Entity) PendingEvents() []Event {
	return e.events
}

func (e *Entity) ClearEvents() {
	e.events = nil
}
