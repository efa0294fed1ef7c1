// Package events provides in-process pub/sub for reservation lifecycle
// events. Subscribers drive side channels (metrics, spreadsheet mirror);
// the booking workflow never depends on their outcome.
package events

import (
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Well-known event types.
const (
	TypeReservationConfirmed = "reservation.confirmed"
	TypeReservationConflict  = "reservation.conflict"
)

// Event is a lightweight domain event with a JSON payload.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus is an in-process event bus.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// PublishJSON marshals payload and notifies subscribers of the event type.
// Handlers run synchronously; the caller decides the concurrency model.
func (b *Bus) PublishJSON(eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[eventType]...)
	b.mu.RUnlock()

	event := Event{Type: eventType, Payload: data, CreatedAt: time.Now()}
	for _, handler := range handlers {
		handler(event)
	}
	return nil
}
