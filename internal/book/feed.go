package book

import "time"

// ProcessMarketData dispatches a single feed message to the matching
// internals appropriate to its concrete type, tracks processing latency and
// recovers from any panic raised deep in the call by counting it as a
// processing error instead of propagating it — mirroring the original's
// catch-all around its std::visit dispatch. Overfills and invalid type
// conversions do not panic: Order.Fill and Order.ToLimit report them by
// returning false. It reports whether the message was processed without
// error.
func (ob *Orderbook) ProcessMarketData(msg MarketDataMessage, now time.Time) (ok bool) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			ob.stats.Errors++
			ok = false
		}
		ob.stats.MessagesProcessed++
		ob.stats.recordLatency(time.Since(start))
	}()

	switch m := msg.(type) {
	case NewOrderMessage:
		ob.processNewOrder(m, now)
	case CancelOrderMessage:
		ob.processCancel(m)
	case ModifyOrderMessage:
		ob.processModify(m, now)
	case TradeMessage:
		ob.processTrade(m)
	case BookSnapshotMessage:
		ob.processSnapshot(m)
	default:
		ob.stats.Errors++
		return false
	}

	return true
}

// ProcessMarketDataBatch processes messages in order and returns how many
// were processed without error.
func (ob *Orderbook) ProcessMarketDataBatch(messages []MarketDataMessage, now time.Time) int {
	successCount := 0
	for _, msg := range messages {
		if ob.ProcessMarketData(msg, now) {
			successCount++
		}
	}
	return successCount
}

// GetMarketDataStats returns the current feed-processing statistics.
func (ob *Orderbook) GetMarketDataStats() MarketDataStats {
	return ob.stats
}

// ResetMarketDataStats zeroes all feed-processing statistics.
func (ob *Orderbook) ResetMarketDataStats() {
	ob.stats.Reset()
}

// IsInitialized reports whether a snapshot has been applied yet. Before
// that, incremental updates built on top of an empty book are unreliable.
func (ob *Orderbook) IsInitialized() bool {
	return ob.isInitialized
}

// LastSequenceNumber returns the sequence number of the most recently
// applied snapshot, for feed-gap detection by the caller.
func (ob *Orderbook) LastSequenceNumber() uint64 {
	return ob.lastSequenceNumber
}

func (ob *Orderbook) processNewOrder(msg NewOrderMessage, now time.Time) {
	order := NewOrder(msg.OrderType, msg.OrderId, msg.Side, msg.Price, msg.Quantity)
	trades := ob.AddOrder(order, now)
	ob.stats.NewOrders++
	ob.stats.Trades += uint64(len(trades))
}

func (ob *Orderbook) processCancel(msg CancelOrderMessage) {
	ob.CancelOrder(msg.OrderId)
	ob.stats.Cancellations++
}

func (ob *Orderbook) processModify(msg ModifyOrderMessage, now time.Time) {
	modify := OrderModify{Id: msg.OrderId, Side: msg.Side, Price: msg.NewPrice, Quantity: msg.NewQuantity}
	ob.MatchOrder(modify, now)
	ob.stats.Modifications++
}

func (ob *Orderbook) processTrade(msg TradeMessage) {
	ob.stats.Trades++
}

// processSnapshot rebuilds the entire book from an aggregated snapshot,
// synthesizing one resting order per level starting at id 1,000,000 to stay
// clear of any id space the live feed is using. A gap between the
// snapshot's sequence number and the last one applied is recorded but does
// not block the rebuild — the snapshot itself is authoritative.
func (ob *Orderbook) processSnapshot(msg BookSnapshotMessage) {
	if ob.isInitialized && msg.SequenceNumber > ob.lastSequenceNumber+1 {
		ob.stats.SequenceGaps++
	}

	ob.bids = newBookSide()
	ob.asks = newBookSide()
	ob.orders = make(map[OrderId]orderLocation)

	syntheticId := OrderId(1_000_000)

	for _, lvl := range msg.Bids {
		order := NewOrder(GoodTillCancel, syntheticId, Buy, lvl.Price, lvl.Quantity)
		syntheticId++
		level := ob.bids.getOrCreateLevel(lvl.Price)
		elem := level.addOrder(order)
		ob.orders[order.Id] = orderLocation{level: level, elem: elem}
	}

	for _, lvl := range msg.Asks {
		order := NewOrder(GoodTillCancel, syntheticId, Sell, lvl.Price, lvl.Quantity)
		syntheticId++
		level := ob.asks.getOrCreateLevel(lvl.Price)
		elem := level.addOrder(order)
		ob.orders[order.Id] = orderLocation{level: level, elem: elem}
	}

	ob.isInitialized = true
	ob.lastSequenceNumber = msg.SequenceNumber
	ob.stats.Snapshots++
}
