// Command replay drives an Engine from a JSON-lines file of market data
// messages and prints the resulting depth and feed statistics. It exists to
// give the config and logging packages a real caller outside of tests; it
// is not a venue feed client — fetching and parsing upstream wire formats
// stays out of scope, and this only parses this repository's own replay
// fixture format.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trading-engine/config"
	"github.com/yourusername/trading-engine/engine"
	"github.com/yourusername/trading-engine/internal/book"
	"github.com/yourusername/trading-engine/logging"
)

// wireMessage is the on-disk JSON-lines replay record. Type selects which
// book.MarketDataMessage variant the other fields populate.
type wireMessage struct {
	Type        string             `json:"type"`
	OrderId     book.OrderId       `json:"order_id,omitempty"`
	Side        string             `json:"side,omitempty"`
	Price       book.Price         `json:"price,omitempty"`
	Quantity    book.Quantity      `json:"quantity,omitempty"`
	OrderType   string             `json:"order_type,omitempty"`
	NewPrice    book.Price         `json:"new_price,omitempty"`
	NewQuantity book.Quantity      `json:"new_quantity,omitempty"`
	BuyOrderId  book.OrderId       `json:"buy_order_id,omitempty"`
	SellOrderId book.OrderId       `json:"sell_order_id,omitempty"`
	Bids        []book.SnapshotLevel `json:"bids,omitempty"`
	Asks        []book.SnapshotLevel `json:"asks,omitempty"`
	SequenceNum uint64             `json:"sequence_number,omitempty"`
}

func parseSide(s string) book.Side {
	if s == "sell" {
		return book.Sell
	}
	return book.Buy
}

func parseOrderType(s string) book.OrderType {
	switch s {
	case "ImmediateOrCancel":
		return book.ImmediateOrCancel
	case "Market":
		return book.Market
	case "GoodForDay":
		return book.GoodForDay
	case "FillOrKill":
		return book.FillOrKill
	default:
		return book.GoodTillCancel
	}
}

func (w wireMessage) toMarketDataMessage(now time.Time) (book.MarketDataMessage, error) {
	switch w.Type {
	case "new_order":
		return book.NewOrderMessage{
			OrderId: w.OrderId, Side: parseSide(w.Side), Price: w.Price,
			Quantity: w.Quantity, OrderType: parseOrderType(w.OrderType), Timestamp: now,
		}, nil
	case "cancel_order":
		return book.CancelOrderMessage{OrderId: w.OrderId, Timestamp: now}, nil
	case "modify_order":
		return book.ModifyOrderMessage{
			OrderId: w.OrderId, Side: parseSide(w.Side), NewPrice: w.NewPrice,
			NewQuantity: w.NewQuantity, Timestamp: now,
		}, nil
	case "trade":
		return book.TradeMessage{
			BuyOrderId: w.BuyOrderId, SellOrderId: w.SellOrderId, Price: w.Price,
			Quantity: w.Quantity, Timestamp: now,
		}, nil
	case "snapshot":
		return book.BookSnapshotMessage{Bids: w.Bids, Asks: w.Asks, Timestamp: now, SequenceNumber: w.SequenceNum}, nil
	default:
		return nil, fmt.Errorf("unknown replay message type %q", w.Type)
	}
}

func main() {
	configPath := flag.String("config", "", "path to a YAML exchange config; defaults to the built-in rules")
	replayPath := flag.String("replay", "", "path to a JSON-lines replay fixture")
	flag.Parse()

	log := logging.InitLogger()

	if *replayPath == "" {
		log.Fatal("missing -replay path")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
		cfg = loaded
	}

	rules, err := cfg.ExchangeRules()
	if err != nil {
		log.WithError(err).Fatal("failed to build exchange rules")
	}

	now := time.Now()
	eng := engine.New(now)
	eng.SetExchangeRules(rules)
	eng.SetDayResetTime(cfg.DayReset.Hour, cfg.DayReset.Minute)

	file, err := os.Open(*replayPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open replay file")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var wire wireMessage
		if err := json.Unmarshal(line, &wire); err != nil {
			log.WithFields(logrus.Fields{"line": lineNum}).WithError(err).Warn("skipping malformed replay line")
			continue
		}

		msg, err := wire.toMarketDataMessage(now)
		if err != nil {
			log.WithFields(logrus.Fields{"line": lineNum}).WithError(err).Warn("skipping unsupported replay message")
			continue
		}

		eng.ProcessMarketData(msg, now)
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Fatal("failed reading replay file")
	}

	stats := eng.GetOrderBook().GetMarketDataStats()
	infos := eng.GetOrderBook().GetOrderInfos()

	log.WithFields(logrus.Fields{
		"messages_processed": stats.MessagesProcessed,
		"new_orders":         stats.NewOrders,
		"cancellations":      stats.Cancellations,
		"modifications":      stats.Modifications,
		"trades":             stats.Trades,
		"snapshots":          stats.Snapshots,
		"errors":             stats.Errors,
		"sequence_gaps":      stats.SequenceGaps,
		"avg_latency_us":     stats.AverageLatency().Microseconds(),
	}).Info("replay complete")

	for i, lvl := range topN(infos.Bids, 5) {
		log.WithFields(logrus.Fields{"rank": i + 1, "price": lvl.Price, "quantity": lvl.Quantity}).Info("bid level")
	}
	for i, lvl := range topN(infos.Asks, 5) {
		log.WithFields(logrus.Fields{"rank": i + 1, "price": lvl.Price, "quantity": lvl.Quantity}).Info("ask level")
	}
}

func topN(levels []book.LevelInfo, n int) []book.LevelInfo {
	if len(levels) < n {
		return levels
	}
	return levels[:n]
}
