package reader

import (
	"fmt"
	"sync"

	"planwire/internal/wire"
)

// Handler converts one kind of wire message. The scope carries the target
// problem, the active action (if any), and the conversion stats.
type Handler func(msg wire.Message, sc *Scope) (any, error)

// Registry maps wire message kinds to their conversion handlers. Conversion
// is inherently one big kind-to-function mapping; centralizing it here keeps
// each rule independently registerable and testable. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[wire.Kind]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[wire.Kind]Handler)}
}

// Register associates a message kind with a handler. Registering a kind
// twice is an error.
func (r *Registry) Register(kind wire.Kind, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, kind)
	}
	r.handlers[kind] = h
	return nil
}

// MustRegister registers a handler and panics on error. Used for the static
// handler table built by NewReader.
func (r *Registry) MustRegister(kind wire.Kind, h Handler) {
	if err := r.Register(kind, h); err != nil {
		panic(fmt.Sprintf("register handler for %s: %v", kind, err))
	}
}

// Has reports whether a handler is registered for the kind.
func (r *Registry) Has(kind wire.Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[kind]
	return ok
}

// Count returns the number of registered handlers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Convert resolves the handler for the message's concrete kind and invokes
// it. Unknown kinds fail with ErrNoHandler naming the kind.
func (r *Registry) Convert(msg wire.Message, sc *Scope) (any, error) {
	kind := msg.MessageKind()

	r.mu.RLock()
	h, ok := r.handlers[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, kind)
	}
	return h(msg, sc)
}
