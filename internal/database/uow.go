package database

import (
	"context"
	"sync"

	"chathub/internal/domain"
)

// scopeKey is a context key type for the unit-of-work scope.
type scopeKey struct{}

// Scope collects the entities touched during a unit of work. At commit
// time their pending domain events are serialized into the outbox inside
// the same transaction, then cleared.
type Scope struct {
	mu       sync.Mutex
	carriers []domain.EventCarrier
}

func (s *Scope) track(carrier domain.EventCarrier) {
	if carrier == nil {
		return
	}
	s.mu.Lock()
	s.carriers = append(s.carriers, carrier)
	s.mu.Unlock()
}

// pending gathers all uncommitted events across tracked entities.
func (s *Scope) pending() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []domain.Event
	for _, carrier := range s.carriers {
		events = append(events, carrier.PendingEvents()...)
	}
	return events
}

// clear drops pending events from tracked entities. Called only after a
// successful commit: a rolled-back transaction keeps events on the entity
// so a retried unit of work re-raises nothing stale.
func (s *Scope) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, carrier := range s.carriers {
		carrier.ClearEvents()
	}
	s.carriers = nil
}

// Track registers an entity with the active unit of work so its pending
// events are committed with the transaction. Outside a unit of work this
// is a no-op; state-changing paths must run inside one.
func Track(ctx context.Context, carrier domain.EventCarrier) {
	if scope, ok := ctx.Value(scopeKey{}).(*Scope); ok {
		scope.track(carrier)
	}
}
