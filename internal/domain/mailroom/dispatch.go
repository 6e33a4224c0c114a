package mailroom

import (
	"context"

	"github.com/scms/backend/internal/domain/shared"
)

// Handler processes one kind of inbound email
type Handler interface {
	Handle(ctx context.Context, email *InboundEmail) error
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, email *InboundEmail) error

// Handle calls the wrapped function
func (f HandlerFunc) Handle(ctx context.Context, email *InboundEmail) error {
	return f(ctx, email)
}

// Dispatcher routes inbound emails to kind-specific handlers. The table
// is built once at startup and passed by reference; there is no ambient
// registration.
type Dispatcher struct {
	handlers map[EmailKind]Handler
	fallback Handler
}

// NewDispatcher builds a dispatcher from an explicit handler table.
// The table is copied so later mutations of the argument have no effect.
func NewDispatcher(handlers map[EmailKind]Handler) *Dispatcher {
	table := make(map[EmailKind]Handler, len(handlers))
	for kind, h := range handlers {
		table[kind] = h
	}
	return &Dispatcher{handlers: table}
}

// WithFallback sets the handler for kinds absent from the table
func (d *Dispatcher) WithFallback(h Handler) *Dispatcher {
	d.fallback = h
	return d
}

// Handles reports whether a kind has a dedicated handler
func (d *Dispatcher) Handles(kind EmailKind) bool {
	_, ok := d.handlers[kind]
	return ok
}

// Dispatch routes the email to its kind's handler
func (d *Dispatcher) Dispatch(ctx context.Context, email *InboundEmail) error {
	if email == nil {
		return shared.ErrInvalidInput
	}
	if handler, ok := d.handlers[email.Kind]; ok {
		return handler.Handle(ctx, email)
	}
	if d.fallback != nil {
		return d.fallback.Handle(ctx, email)
	}
	return shared.NewDomainError("UNHANDLED_EMAIL_KIND", "No handler for email kind "+string(email.Kind))
}
