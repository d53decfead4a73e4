// Package logging provides the structured, JSON-formatted logger the
// matching engine uses for every order-lifecycle and feed-ingress event.
// Adapted from the teacher's logging/logger.go: same logrus setup,
// correlation-id and rate-limiting machinery, re-keyed to this book's
// integer price/quantity domain and event set.
package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// ErrorRateLimiter suppresses repeated identical error log lines within a
// rolling window, so a feed stuck replaying the same malformed message
// doesn't flood the log.
type ErrorRateLimiter struct {
	mu            sync.Mutex
	errorCounts   map[string]*errorEntry
	cleanupTicker *time.Ticker
}

type errorEntry struct {
	count      int
	firstSeen  time.Time
	lastLogged time.Time
	suppressed int
}

var (
	rateLimiter     *ErrorRateLimiter
	rateLimitWindow = 1 * time.Minute
	maxErrorsPerMin = 5
)

// NewErrorRateLimiter builds a limiter and starts its background cleanup.
func NewErrorRateLimiter() *ErrorRateLimiter {
	limiter := &ErrorRateLimiter{
		errorCounts:   make(map[string]*errorEntry),
		cleanupTicker: time.NewTicker(5 * time.Minute),
	}

	go func() {
		for range limiter.cleanupTicker.C {
			limiter.cleanup()
		}
	}()

	return limiter
}

// ShouldLog reports whether an occurrence of errorKey should be logged now,
// and how many prior occurrences were suppressed since the window reset.
func (rl *ErrorRateLimiter) ShouldLog(errorKey string) (shouldLog bool, suppressedCount int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, exists := rl.errorCounts[errorKey]

	if !exists {
		rl.errorCounts[errorKey] = &errorEntry{count: 1, firstSeen: now, lastLogged: now}
		return true, 0
	}

	if now.Sub(entry.firstSeen) > rateLimitWindow {
		suppressedCount = entry.suppressed
		rl.errorCounts[errorKey] = &errorEntry{count: 1, firstSeen: now, lastLogged: now}
		return true, suppressedCount
	}

	entry.count++
	if entry.count <= maxErrorsPerMin {
		entry.lastLogged = now
		return true, 0
	}

	entry.suppressed++
	return false, 0
}

func (rl *ErrorRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, entry := range rl.errorCounts {
		if now.Sub(entry.lastLogged) > 10*time.Minute {
			delete(rl.errorCounts, key)
		}
	}
}

// InitLogger configures the global JSON structured logger.
func InitLogger() *logrus.Logger {
	log = logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	rateLimiter = NewErrorRateLimiter()

	log.WithFields(logrus.Fields{
		"event":              "logger_initialized",
		"level":              log.Level.String(),
		"rate_limit_enabled": true,
		"max_errors_per_min": maxErrorsPerMin,
	}).Info("structured logging initialized")

	return log
}

// NewCorrelationID generates an id for tracing one admission call across
// the book, the engine wrapper and the log lines it produces.
func NewCorrelationID() string {
	return uuid.New().String()
}

// GetLogger returns the process-wide logger, initializing it on first use.
func GetLogger() *logrus.Logger {
	if log == nil {
		return InitLogger()
	}
	return log
}

const (
	EventOrderReceived       = "order_received"
	EventOrderCancelled      = "order_cancelled"
	EventOrderRejected       = "order_rejected"
	EventTradeExecuted       = "trade_executed"
	EventDayReset            = "day_reset"
	EventSequenceGapDetected = "sequence_gap_detected"
	EventFeedError           = "feed_error"
)

// LogOrderReceived logs admission of a new order.
func LogOrderReceived(correlationID string, orderID uint64, side, orderType string, price int32, quantity uint32) {
	fields := logrus.Fields{
		"event":    EventOrderReceived,
		"order_id": orderID,
		"side":     side,
		"type":     orderType,
		"price":    price,
		"quantity": quantity,
	}
	if correlationID != "" {
		fields["correlation_id"] = correlationID
	}
	GetLogger().WithFields(fields).Info("order received")
}

// LogTradeExecuted logs a single resulting trade.
func LogTradeExecuted(correlationID string, bidOrderID, askOrderID uint64, bidPrice, askPrice int32, quantity uint32) {
	fields := logrus.Fields{
		"event":        EventTradeExecuted,
		"bid_order_id": bidOrderID,
		"ask_order_id": askOrderID,
		"bid_price":    bidPrice,
		"ask_price":    askPrice,
		"quantity":     quantity,
	}
	if correlationID != "" {
		fields["correlation_id"] = correlationID
	}
	GetLogger().WithFields(fields).Info("trade executed")
}

// LogOrderCancelled logs a cancellation.
func LogOrderCancelled(correlationID string, orderID uint64, reason string) {
	fields := logrus.Fields{
		"event":    EventOrderCancelled,
		"order_id": orderID,
		"reason":   reason,
	}
	if correlationID != "" {
		fields["correlation_id"] = correlationID
	}
	GetLogger().WithFields(fields).Info("order cancelled")
}

// LogOrderRejected logs an admission rejection.
func LogOrderRejected(correlationID string, orderID uint64, reason string) {
	fields := logrus.Fields{
		"event":    EventOrderRejected,
		"order_id": orderID,
		"reason":   reason,
	}
	if correlationID != "" {
		fields["correlation_id"] = correlationID
	}
	GetLogger().WithFields(fields).Warn("order rejected")
}

// LogDayReset logs that the GoodForDay sweep ran.
func LogDayReset(cancelledCount int) {
	GetLogger().WithFields(logrus.Fields{
		"event":           EventDayReset,
		"cancelled_count": cancelledCount,
	}).Info("good-for-day sweep executed")
}

// LogSequenceGapDetected logs that a book snapshot's sequence number left a
// gap relative to the last one applied.
func LogSequenceGapDetected(sequenceNumber uint64, totalGapsDetected uint64) {
	GetLogger().WithFields(logrus.Fields{
		"event":               EventSequenceGapDetected,
		"sequence_number":     sequenceNumber,
		"total_gaps_detected": totalGapsDetected,
	}).Warn("sequence gap detected in market data feed")
}

// LogFeedError logs a processing error from the market data ingress path,
// rate-limited per distinct error key.
func LogFeedError(operation string, err error) {
	GetLogger() // ensures rateLimiter is initialized
	errorKey := fmt.Sprintf("%s:%s", operation, err.Error())

	shouldLog, suppressedCount := rateLimiter.ShouldLog(errorKey)
	if !shouldLog {
		return
	}

	fields := logrus.Fields{
		"event":     EventFeedError,
		"operation": operation,
		"error":     err.Error(),
	}
	if suppressedCount > 0 {
		fields["suppressed_count"] = suppressedCount
	}
	GetLogger().WithFields(fields).Error("market data processing error")
}

// LogWithFields is an escape hatch for one-off structured log lines.
func LogWithFields(level logrus.Level, message string, fields logrus.Fields) {
	GetLogger().WithFields(fields).Log(level, message)
}
