package book

import "time"

// MarketDataMessage is the idiomatic-Go substitute for the original's
// std::variant<NewOrderMessage, CancelOrderMessage, ModifyOrderMessage,
// TradeMessage, BookSnapshotMessage>: an interface implemented by exactly
// the five message structs below, dispatched with a type switch in
// ProcessMarketData instead of std::visit.
type MarketDataMessage interface {
	marketDataMessage()
}

// NewOrderMessage announces a new order entering the feed's book.
type NewOrderMessage struct {
	OrderId   OrderId
	Side      Side
	Price     Price
	Quantity  Quantity
	OrderType OrderType
	Timestamp time.Time
}

func (NewOrderMessage) marketDataMessage() {}

// CancelOrderMessage announces an order leaving the feed's book.
type CancelOrderMessage struct {
	OrderId   OrderId
	Timestamp time.Time
}

func (CancelOrderMessage) marketDataMessage() {}

// ModifyOrderMessage announces a price/quantity change to a resting order,
// applied internally as cancel-and-replace.
type ModifyOrderMessage struct {
	OrderId     OrderId
	Side        Side
	NewPrice    Price
	NewQuantity Quantity
	Timestamp   time.Time
}

func (ModifyOrderMessage) marketDataMessage() {}

// TradeMessage is an informational report of a trade that occurred
// upstream; the local book only counts it, it does not replay it.
type TradeMessage struct {
	BuyOrderId  OrderId
	SellOrderId OrderId
	Price       Price
	Quantity    Quantity
	Timestamp   time.Time
}

func (TradeMessage) marketDataMessage() {}

// SnapshotLevel is one aggregated price level within a BookSnapshotMessage.
// OrderCount is informational feed-quality data; the book does not attempt
// to reconstruct individual orders from it, it only knows the aggregate
// quantity at the level.
type SnapshotLevel struct {
	Price      Price
	Quantity   Quantity
	OrderCount int
}

// BookSnapshotMessage carries a full order book snapshot for recovery or
// periodic synchronization.
type BookSnapshotMessage struct {
	Bids           []SnapshotLevel
	Asks           []SnapshotLevel
	Timestamp      time.Time
	SequenceNumber uint64
}

func (BookSnapshotMessage) marketDataMessage() {}

// MarketDataStats tracks message counts, errors, sequence gaps and
// processing latency for ProcessMarketData / ProcessMarketDataBatch.
type MarketDataStats struct {
	MessagesProcessed   uint64
	NewOrders           uint64
	Cancellations       uint64
	Modifications       uint64
	Trades              uint64
	Snapshots           uint64
	Errors              uint64
	SequenceGaps        uint64
	TotalProcessingTime time.Duration
	MaxLatency          time.Duration
	MinLatency          time.Duration
}

// NewMarketDataStats returns a zeroed MarketDataStats with MinLatency
// seeded so the very first observation always becomes the new minimum.
func NewMarketDataStats() MarketDataStats {
	return MarketDataStats{MinLatency: time.Duration(1<<63 - 1)}
}

// Reset clears all counters and timing metrics back to their initial state.
func (s *MarketDataStats) Reset() {
	*s = NewMarketDataStats()
}

// AverageLatency returns TotalProcessingTime / MessagesProcessed, or zero
// if no messages have been processed yet.
func (s *MarketDataStats) AverageLatency() time.Duration {
	if s.MessagesProcessed == 0 {
		return 0
	}
	return s.TotalProcessingTime / time.Duration(s.MessagesProcessed)
}

func (s *MarketDataStats) recordLatency(d time.Duration) {
	s.TotalProcessingTime += d
	if d > s.MaxLatency {
		s.MaxLatency = d
	}
	if d < s.MinLatency {
		s.MinLatency = d
	}
}
