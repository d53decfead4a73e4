// Package metrics exposes Prometheus instruments for the matching engine.
// Adapted from the teacher's metrics/prometheus.go: same promauto
// constructors and instrument shapes, with the multi-instrument label
// dimension dropped (this book only ever serves one instrument at a time)
// and float64 price/volume labels narrowed to this book's integer domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_received_total",
			Help: "Total number of orders received by the matching engine",
		},
		[]string{"side", "type"},
	)

	OrdersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_rejected_total",
			Help: "Total number of orders rejected on admission",
		},
		[]string{"reason"},
	)

	OrderLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_latency_seconds",
			Help:    "Time taken to process an order from receipt to execution",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		},
		[]string{"type"},
	)

	CurrentOrderbookDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "current_orderbook_depth",
			Help: "Current number of price levels in the orderbook",
		},
		[]string{"side"},
	)

	BestBidPrice = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "best_bid_price",
			Help: "Current best bid price in the orderbook",
		},
	)

	BestAskPrice = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "best_ask_price",
			Help: "Current best ask price in the orderbook",
		},
	)

	OrderbookSpread = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orderbook_spread",
			Help: "Current spread between best bid and best ask",
		},
	)

	TradesExecutedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trades_executed_total",
			Help: "Total number of trades executed",
		},
	)

	TradedVolumeTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "traded_volume_total",
			Help: "Total volume traded",
		},
	)

	TradeSizeDistribution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trade_size_distribution",
			Help:    "Distribution of trade sizes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		},
	)

	SequenceGapsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sequence_gaps_total",
			Help: "Total number of sequence gaps detected in the market data feed",
		},
	)
)

// RecordOrderReceived increments the orders-received counter.
func RecordOrderReceived(side, orderType string) {
	OrdersReceivedTotal.WithLabelValues(side, orderType).Inc()
}

// RecordOrderRejected increments the orders-rejected counter.
func RecordOrderRejected(reason string) {
	OrdersRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordOrderLatency observes how long admission took.
func RecordOrderLatency(orderType string, seconds float64) {
	OrderLatencySeconds.WithLabelValues(orderType).Observe(seconds)
}

// UpdateOrderbookDepth sets the price-level-count gauge for a side.
func UpdateOrderbookDepth(side string, depth float64) {
	CurrentOrderbookDepth.WithLabelValues(side).Set(depth)
}

// UpdateBestPrices sets best bid/ask and derived spread gauges. A zero
// value on either side means that side of the book is currently empty and
// its gauges are left untouched.
func UpdateBestPrices(bestBid, bestAsk float64) {
	if bestBid > 0 {
		BestBidPrice.Set(bestBid)
	}
	if bestAsk > 0 {
		BestAskPrice.Set(bestAsk)
	}
	if bestBid > 0 && bestAsk > 0 {
		OrderbookSpread.Set(bestAsk - bestBid)
	}
}

// RecordTrade records one executed trade and its quantity.
func RecordTrade(quantity float64) {
	TradesExecutedTotal.Inc()
	TradedVolumeTotal.Add(quantity)
	TradeSizeDistribution.Observe(quantity)
}

// RecordSequenceGap increments the sequence-gap counter.
func RecordSequenceGap() {
	SequenceGapsTotal.Inc()
}
