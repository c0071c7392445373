package sink

import (
	"sync"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
)

// Scope is the deduplication window of one triggering event. Every
// notification produced while dispatching the event, whether sent directly
// by the lifecycle or by a workflow rule, claims its recipient in the scope
// first; a recipient is notified at most once per scope.
//
// A Scope is safe for concurrent use.
type Scope struct {
	eventID   kernel.UUID
	eventType order.EventType
	orderID   kernel.UUID

	mu      sync.Mutex
	claimed map[string]struct{}
}

func NewScope(event order.Event) *Scope {
	return &Scope{
		eventID:   event.ID,
		eventType: event.Type,
		orderID:   event.OrderID,
		claimed:   make(map[string]struct{}),
	}
}

// EventID identifies the event the scope belongs to.
func (s *Scope) EventID() kernel.UUID {
	return s.eventID
}

func (s *Scope) key(recipient kernel.UUID) string {
	return recipient.String() + "|" + s.orderID.String() + "|" + string(s.eventType)
}

// claim reports whether recipient was not yet notified in this scope and
// marks it as notified.
func (s *Scope) claim(recipient kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.key(recipient)
	if _, ok := s.claimed[k]; ok {
		return false
	}
	s.claimed[k] = struct{}{}
	return true
}

// release undoes a claim whose notification could not be stored.
func (s *Scope) release(recipient kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.claimed, s.key(recipient))
}
