// Package engine wraps the pure internal/book matching core with the
// ambient concerns a production deployment needs around it: structured
// logging, Prometheus metrics and an event bus trade/order subscribers can
// listen on. It is grounded on the teacher's engine.MatchingEngine, with
// the command-channel/goroutine worker pool dropped: the book's core stays
// single-threaded and lock-free, so this wrapper calls straight into it
// rather than serializing access through a worker.
package engine

import (
	"sync"
	"time"

	"github.com/yourusername/trading-engine/internal/book"
)

// EventType identifies what kind of Event was published.
type EventType string

const (
	EventTypeTrade           EventType = "Trade"
	EventTypeOrderAccepted   EventType = "OrderAccepted"
	EventTypeOrderRejected   EventType = "OrderRejected"
	EventTypeOrderCancelled  EventType = "OrderCancelled"
	EventTypeOrderbookChange EventType = "OrderbookChange"
)

// Event is a single notification published on the EventBus.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// TradeEvent is published once per trade produced by a matching pass.
type TradeEvent struct {
	Bid       book.TradeInfo
	Ask       book.TradeInfo
	Timestamp time.Time
}

// OrderEvent is published on admission, rejection or cancellation.
type OrderEvent struct {
	OrderId  book.OrderId
	Side     book.Side
	Type     book.OrderType
	Reason   book.RejectReason
	Accepted bool
}

// OrderbookChangeEvent describes a change in resting depth at one price
// level. Engine does not publish it.
type OrderbookChangeEvent struct {
	Side    book.Side
	Price   book.Price
	NewSize book.Quantity
}

// Listener receives published events. Publish dispatches to each listener
// on its own goroutine, matching the teacher's EventBus.Publish.
type Listener func(Event)

// EventBus is a simple pub-sub hub keyed by EventType.
type EventBus struct {
	mu        sync.RWMutex
	listeners map[EventType][]Listener
}

// NewEventBus builds an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[EventType][]Listener)}
}

// Subscribe registers listener for eventType.
func (b *EventBus) Subscribe(eventType EventType, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = append(b.listeners[eventType], listener)
}

// Publish fans event out to every subscriber of its type, each on its own
// goroutine so a slow listener never blocks the matching path.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	listeners := b.listeners[event.Type]
	b.mu.RUnlock()

	for _, listener := range listeners {
		go listener(event)
	}
}

// Unsubscribe drops every listener registered for eventType.
func (b *EventBus) Unsubscribe(eventType EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, eventType)
}

// ListenerCount reports how many listeners are registered for eventType.
func (b *EventBus) ListenerCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[eventType])
}
