package engine

import (
	"time"

	"github.com/yourusername/trading-engine/internal/book"
	"github.com/yourusername/trading-engine/logging"
	"github.com/yourusername/trading-engine/metrics"
)

// Engine wraps a book.Orderbook with logging, metrics and an event bus. It
// exposes a SubmitOrder/CancelOrder/GetOrderBook/CommandsProcessed surface
// like the teacher's MatchingEngine, minus the command-channel worker pool:
// every call here runs synchronously on the caller's goroutine, which is
// what the book's own single-threaded design requires.
type Engine struct {
	book     *book.Orderbook
	eventBus *EventBus

	commandsProcessed uint64
}

// New builds an Engine around a fresh, empty order book seeded at now.
func New(now time.Time) *Engine {
	return &Engine{
		book:     book.NewOrderbook(now),
		eventBus: NewEventBus(),
	}
}

// SetExchangeRules configures the wrapped book's admission rules.
func (e *Engine) SetExchangeRules(rules book.ExchangeRules) {
	e.book.SetExchangeRules(rules)
}

// SetDayResetTime configures when the wrapped book sweeps GoodForDay orders.
func (e *Engine) SetDayResetTime(hour, minute int) {
	e.book.SetDayResetTime(hour, minute)
}

// EventBus exposes the engine's event bus for subscribers.
func (e *Engine) EventBus() *EventBus {
	return e.eventBus
}

// GetOrderBook exposes the wrapped book for callers that need direct
// read access (depth queries, GetOrderInfos).
func (e *Engine) GetOrderBook() *book.Orderbook {
	return e.book
}

// CommandsProcessed returns how many SubmitOrder/CancelOrder calls this
// engine has handled.
func (e *Engine) CommandsProcessed() uint64 {
	return e.commandsProcessed
}

// SubmitOrder admits order, logs and records metrics for the outcome, and
// publishes a Trade event per resulting trade plus an OrderAccepted event
// for the order itself. It publishes no OrderbookChange event.
func (e *Engine) SubmitOrder(order *book.Order, now time.Time) book.Trades {
	e.commandsProcessed++
	correlationID := logging.NewCorrelationID()

	start := time.Now()
	logging.LogOrderReceived(correlationID, uint64(order.Id), order.Side.String(), order.Type.String(), int32(order.Price), uint32(order.InitialQuantity))
	metrics.RecordOrderReceived(order.Side.String(), order.Type.String())

	sweepsBefore := e.book.DayResetSweeps()
	sizeBefore := e.book.Size()
	trades := e.book.AddOrder(order, now)
	e.logDayResetIfSwept(sweepsBefore)
	metrics.RecordOrderLatency(order.Type.String(), time.Since(start).Seconds())

	rejected := e.book.Size() == sizeBefore && len(trades) == 0 && order.RemainingQuantity > 0
	if rejected {
		// Nothing rested and nothing traded: the order was rejected on
		// admission. The book doesn't report a reason for a synchronous
		// call like this one, so we log it generically. ProcessMarketData
		// does not report one either: validateOrder's RejectReason stays
		// inside the book.
		logging.LogOrderRejected(correlationID, uint64(order.Id), "rejected_on_admission")
		metrics.RecordOrderRejected("rejected_on_admission")
	}

	for _, trade := range trades {
		logging.LogTradeExecuted(correlationID, uint64(trade.Bid.OrderId), uint64(trade.Ask.OrderId), int32(trade.Bid.Price), int32(trade.Ask.Price), uint32(trade.Bid.Quantity))
		metrics.RecordTrade(float64(trade.Bid.Quantity))
		e.eventBus.Publish(Event{Type: EventTypeTrade, Timestamp: now, Data: TradeEvent{Bid: trade.Bid, Ask: trade.Ask, Timestamp: now}})
	}

	e.updateDepthMetrics()
	e.eventBus.Publish(Event{Type: EventTypeOrderAccepted, Timestamp: now, Data: OrderEvent{OrderId: order.Id, Side: order.Side, Type: order.Type, Accepted: true}})

	return trades
}

// CancelOrder cancels id, logging and publishing an event if it existed.
func (e *Engine) CancelOrder(id book.OrderId, now time.Time) *book.Order {
	e.commandsProcessed++
	correlationID := logging.NewCorrelationID()

	cancelled := e.book.CancelOrder(id)
	if cancelled == nil {
		return nil
	}

	logging.LogOrderCancelled(correlationID, uint64(id), "client_requested")
	e.updateDepthMetrics()
	e.eventBus.Publish(Event{Type: EventTypeOrderCancelled, Timestamp: now, Data: OrderEvent{OrderId: id, Side: cancelled.Side, Type: cancelled.Type, Accepted: true}})

	return cancelled
}

// ProcessMarketData feeds a single market data message through the wrapped
// book, logging sequence gaps and feed-processing errors as they occur.
func (e *Engine) ProcessMarketData(msg book.MarketDataMessage, now time.Time) bool {
	sweepsBefore := e.book.DayResetSweeps()
	statsBefore := e.book.GetMarketDataStats()
	ok := e.book.ProcessMarketData(msg, now)
	statsAfter := e.book.GetMarketDataStats()
	e.logDayResetIfSwept(sweepsBefore)

	if statsAfter.SequenceGaps > statsBefore.SequenceGaps {
		logging.LogSequenceGapDetected(e.book.LastSequenceNumber(), statsAfter.SequenceGaps)
		metrics.RecordSequenceGap()
	}
	if !ok {
		logging.LogFeedError("process_market_data", errProcessingFailed)
	}

	e.updateDepthMetrics()
	return ok
}

// logDayResetIfSwept logs the GoodForDay sweep if one ran since sweepsBefore
// was captured. DayResetSweeps is a monotonic counter precisely so callers
// can detect this without the book needing to push the event itself.
func (e *Engine) logDayResetIfSwept(sweepsBefore uint64) {
	if e.book.DayResetSweeps() > sweepsBefore {
		logging.LogDayReset(e.book.LastDayResetCancelledCount())
	}
}

var errProcessingFailed = processingError("market data message processing failed")

type processingError string

func (e processingError) Error() string { return string(e) }

func (e *Engine) updateDepthMetrics() {
	infos := e.book.GetOrderInfos()

	metrics.UpdateOrderbookDepth("buy", float64(len(infos.Bids)))
	metrics.UpdateOrderbookDepth("sell", float64(len(infos.Asks)))

	var bestBid, bestAsk float64
	if len(infos.Bids) > 0 {
		bestBid = float64(infos.Bids[0].Price)
	}
	if len(infos.Asks) > 0 {
		bestAsk = float64(infos.Asks[0].Price)
	}
	metrics.UpdateBestPrices(bestBid, bestAsk)
}
