// Package dispatch routes commands and queries to their single registered
// handler through an ordered behavior pipeline.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"chathub/internal/result"
)

// Command is a typed mutation request.
type Command interface {
	CommandType() string
}

// Query is a typed read request.
type Query interface {
	QueryType() string
}

// HandlerFunc executes one request. Handlers type-assert their own
// request type; registration guarantees the match.
type HandlerFunc func(ctx context.Context, req any) result.Result[any]

// Behavior wraps handler execution. It receives the request and a next
// continuation invoking the remainder of the chain, and may short-circuit
// by returning a failure without calling next.
type Behavior func(ctx context.Context, req any, next HandlerFunc) result.Result[any]

// Bus holds exactly one handler per request type. The behavior chains are
// fixed at construction and composed at registration time, so ordering is
// decided once at startup.
type Bus struct {
	mu               sync.RWMutex
	commandHandlers  map[string]HandlerFunc
	queryHandlers    map[string]HandlerFunc
	commandBehaviors []Behavior
	queryBehaviors   []Behavior
}

func NewBus(commandBehaviors, queryBehaviors []Behavior) *Bus {
	return &Bus{
		commandHandlers:  make(map[string]HandlerFunc),
		queryHandlers:    make(map[string]HandlerFunc),
		commandBehaviors: commandBehaviors,
		queryBehaviors:   queryBehaviors,
	}
}

// RegisterCommand binds a handler to a command type. Registering the same
// type twice is a wiring defect and panics.
func (b *Bus) RegisterCommand(commandType string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.commandHandlers[commandType]; exists {
		panic(fmt.Sprintf("dispatch: handler already registered for command %q", commandType))
	}
	b.commandHandlers[commandType] = Chain(b.commandBehaviors, h)
}

// RegisterQuery binds a handler to a query type. Registering the same
// type twice is a wiring defect and panics.
func (b *Bus) RegisterQuery(queryType string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.queryHandlers[queryType]; exists {
		panic(fmt.Sprintf("dispatch: handler already registered for query %q", queryType))
	}
	b.queryHandlers[queryType] = Chain(b.queryBehaviors, h)
}

// DispatchCommand runs cmd through the command pipeline. A missing
// handler is a fatal configuration error, not a runtime condition, and
// panics.
func (b *Bus) DispatchCommand(ctx context.Context, cmd Command) result.Result[any] {
	b.mu.RLock()
	h, ok := b.commandHandlers[cmd.CommandType()]
	b.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("dispatch: no handler registered for command %q", cmd.CommandType()))
	}
	return h(ctx, cmd)
}

// DispatchQuery runs q through the query pipeline. A missing handler
// panics, as for commands.
func (b *Bus) DispatchQuery(ctx context.Context, q Query) result.Result[any] {
	b.mu.RLock()
	h, ok := b.queryHandlers[q.QueryType()]
	b.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("dispatch: no handler registered for query %q", q.QueryType()))
	}
	return h(ctx, q)
}

// Chain folds behaviors around final. The first behavior is outermost:
// it runs first on entry and completes last on exit; the last behavior is
// adjacent to the handler.
func Chain(behaviors []Behavior, final HandlerFunc) HandlerFunc {
	h := final
	for i := len(behaviors) - 1; i >= 0; i-- {
		b := behaviors[i]
		next := h
		h = func(ctx context.Context, req any) result.Result[any] {
			return b(ctx, req, next)
		}
	}
	return h
}

// RequestName returns the registry key for a request, used for logging.
func RequestName(req any) string {
	switch r := req.(type) {
	case Command:
		return r.CommandType()
	case Query:
		return r.QueryType()
	default:
		return fmt.Sprintf("%T", req)
	}
}
