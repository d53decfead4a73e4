package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/yourusername/trading-engine/internal/book"
)

var engineEpoch = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func TestEngineSubmitOrderMatches(t *testing.T) {
	eng := New(engineEpoch)

	eng.SubmitOrder(book.NewOrder(book.GoodTillCancel, 1, book.Sell, 100, 10), engineEpoch)
	trades := eng.SubmitOrder(book.NewOrder(book.GoodTillCancel, 2, book.Buy, 100, 10), engineEpoch)

	if len(trades) != 1 {
		t.Fatalf("expected one trade, got %d", len(trades))
	}
	if eng.CommandsProcessed() != 2 {
		t.Errorf("expected 2 commands processed, got %d", eng.CommandsProcessed())
	}
}

func TestEngineCancelOrder(t *testing.T) {
	eng := New(engineEpoch)
	eng.SubmitOrder(book.NewOrder(book.GoodTillCancel, 1, book.Buy, 100, 10), engineEpoch)

	cancelled := eng.CancelOrder(1, engineEpoch)
	if cancelled == nil {
		t.Fatalf("expected order to be cancelled")
	}
	if eng.GetOrderBook().Size() != 0 {
		t.Errorf("expected book to be empty after cancel")
	}
}

func TestEngineEventBusPublishesTrades(t *testing.T) {
	eng := New(engineEpoch)

	var mu sync.Mutex
	received := 0
	done := make(chan struct{}, 1)

	eng.EventBus().Subscribe(EventTypeTrade, func(ev Event) {
		mu.Lock()
		received++
		mu.Unlock()
		done <- struct{}{}
	})

	eng.SubmitOrder(book.NewOrder(book.GoodTillCancel, 1, book.Sell, 100, 10), engineEpoch)
	eng.SubmitOrder(book.NewOrder(book.GoodTillCancel, 2, book.Buy, 100, 10), engineEpoch)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for trade event")
	}

	mu.Lock()
	defer mu.Unlock()
	if received != 1 {
		t.Errorf("expected exactly 1 trade event, got %d", received)
	}
}

func TestEngineProcessMarketDataSnapshot(t *testing.T) {
	eng := New(engineEpoch)

	ok := eng.ProcessMarketData(book.BookSnapshotMessage{
		Bids:           []book.SnapshotLevel{{Price: 100, Quantity: 10}},
		SequenceNumber: 1,
	}, engineEpoch)

	if !ok {
		t.Fatalf("expected snapshot processing to succeed")
	}
	if eng.GetOrderBook().Size() != 1 {
		t.Errorf("expected the snapshot to populate the book, got size %d", eng.GetOrderBook().Size())
	}
}
