package book

import (
	"container/list"
	"time"

	"github.com/google/btree"
)

// priceLevel holds every order resting at one price, in FIFO order, plus
// the level's aggregate quantity. Grounded on the teacher's
// engine.PriceLevel, with decimal.Decimal price/volume narrowed to the
// integer Price/Quantity this book uses.
type priceLevel struct {
	Price  Price
	Orders *list.List
	Volume Quantity
}

func newPriceLevel(price Price) *priceLevel {
	return &priceLevel{Price: price, Orders: list.New()}
}

func (pl *priceLevel) addOrder(order *Order) *list.Element {
	elem := pl.Orders.PushBack(order)
	pl.Volume += order.RemainingQuantity
	return elem
}

func (pl *priceLevel) removeOrder(elem *list.Element) {
	order := elem.Value.(*Order)
	pl.Volume -= order.RemainingQuantity
	pl.Orders.Remove(elem)
}

func (pl *priceLevel) isEmpty() bool {
	return pl.Orders.Len() == 0
}

// Less orders price levels ascending by price regardless of side; each
// bookSide decides whether it wants the tree's Min or Max as "best".
func (pl *priceLevel) Less(than btree.Item) bool {
	return pl.Price < than.(*priceLevel).Price
}

// bookSide is one side (bids or asks) of the book: a price-ordered tree of
// levels, each a FIFO queue of orders.
type bookSide struct {
	tree *btree.BTree
}

func newBookSide() *bookSide {
	return &bookSide{tree: btree.New(32)}
}

func (s *bookSide) getOrCreateLevel(price Price) *priceLevel {
	if item := s.tree.Get(&priceLevel{Price: price}); item != nil {
		return item.(*priceLevel)
	}
	level := newPriceLevel(price)
	s.tree.ReplaceOrInsert(level)
	return level
}

func (s *bookSide) getLevel(price Price) *priceLevel {
	if item := s.tree.Get(&priceLevel{Price: price}); item != nil {
		return item.(*priceLevel)
	}
	return nil
}

func (s *bookSide) removeLevel(price Price) {
	s.tree.Delete(&priceLevel{Price: price})
}

// bestLevel returns the highest-price level when isBid is true, the
// lowest-price level otherwise. Both sides are stored in the same ascending
// order; only the choice of Max vs Min differs.
func (s *bookSide) bestLevel(isBid bool) *priceLevel {
	var item btree.Item
	if isBid {
		item = s.tree.Max()
	} else {
		item = s.tree.Min()
	}
	if item == nil {
		return nil
	}
	return item.(*priceLevel)
}

func (s *bookSide) len() int {
	return s.tree.Len()
}

// ascend visits levels from lowest price to highest.
func (s *bookSide) ascend(f func(*priceLevel) bool) {
	s.tree.Ascend(func(item btree.Item) bool { return f(item.(*priceLevel)) })
}

// descend visits levels from highest price to lowest.
func (s *bookSide) descend(f func(*priceLevel) bool) {
	s.tree.Descend(func(item btree.Item) bool { return f(item.(*priceLevel)) })
}

// orderLocation is the O(1) position handle an order's id maps to: which
// level it rests on and its element within that level's FIFO queue.
type orderLocation struct {
	level *priceLevel
	elem  *list.Element
}

// Orderbook is a single-instrument central limit order book: two sides
// sorted by price, an id index for O(1) lookup/cancel, exchange rules, a
// day-reset clock and market-data ingress statistics. It performs no I/O
// and holds no lock — callers own serializing access to it.
type Orderbook struct {
	bids *bookSide
	asks *bookSide

	orders map[OrderId]orderLocation

	rules ExchangeRules
	clock *Clock

	stats              MarketDataStats
	isInitialized      bool
	lastSequenceNumber uint64

	dayResetSweeps        uint64
	lastDayResetCancelled int
}

// NewOrderbook creates an empty book with default exchange rules and a
// 15:59 daily reset time seeded at now.
func NewOrderbook(now time.Time) *Orderbook {
	return &Orderbook{
		bids:   newBookSide(),
		asks:   newBookSide(),
		orders: make(map[OrderId]orderLocation),
		rules:  DefaultExchangeRules(),
		clock:  NewClock(15, 59, now),
		stats:  NewMarketDataStats(),
	}
}

// SetDayResetTime reconfigures when GoodForDay orders are swept.
func (ob *Orderbook) SetDayResetTime(hour, minute int) {
	ob.clock.SetResetTime(hour, minute)
}

// SetExchangeRules replaces the rules new orders are validated against.
func (ob *Orderbook) SetExchangeRules(rules ExchangeRules) {
	ob.rules = rules
}

// GetExchangeRules returns the rules currently in effect.
func (ob *Orderbook) GetExchangeRules() ExchangeRules {
	return ob.rules
}

// Size returns the number of live orders in the book.
func (ob *Orderbook) Size() int {
	return len(ob.orders)
}

// DayResetSweeps returns how many times the daily GoodForDay sweep has run.
// Callers that need to notice a sweep (to log or publish it) compare this
// value before and after an operation that might have triggered one.
func (ob *Orderbook) DayResetSweeps() uint64 {
	return ob.dayResetSweeps
}

// LastDayResetCancelledCount returns how many GoodForDay orders the most
// recent sweep cancelled.
func (ob *Orderbook) LastDayResetCancelledCount() int {
	return ob.lastDayResetCancelled
}

func (ob *Orderbook) sideOf(side Side) *bookSide {
	if side == Buy {
		return ob.bids
	}
	return ob.asks
}

// GetOrderInfos aggregates the book into per-price-level depth, bids sorted
// best-first (highest), asks sorted best-first (lowest).
func (ob *Orderbook) GetOrderInfos() OrderbookLevelInfos {
	infos := OrderbookLevelInfos{
		Bids: make([]LevelInfo, 0, ob.bids.len()),
		Asks: make([]LevelInfo, 0, ob.asks.len()),
	}
	ob.bids.descend(func(pl *priceLevel) bool {
		infos.Bids = append(infos.Bids, LevelInfo{Price: pl.Price, Quantity: pl.Volume})
		return true
	})
	ob.asks.ascend(func(pl *priceLevel) bool {
		infos.Asks = append(infos.Asks, LevelInfo{Price: pl.Price, Quantity: pl.Volume})
		return true
	})
	return infos
}
