package book

import "time"

// CanMatch reports whether an order of the given side and price could cross
// the opposite side of the book right now: a buy crosses if its price is at
// or above the best ask, a sell crosses if its price is at or below the
// best bid.
func (ob *Orderbook) CanMatch(side Side, price Price) bool {
	if side == Buy {
		best := ob.asks.bestLevel(false)
		if best == nil {
			return false
		}
		return price >= best.Price
	}
	best := ob.bids.bestLevel(true)
	if best == nil {
		return false
	}
	return price <= best.Price
}

func (ob *Orderbook) validateOrder(order *Order) OrderValidation {
	if _, exists := ob.orders[order.Id]; exists {
		return Reject(RejectDuplicateOrderId)
	}

	isConvertedMarketOrder := order.Price == PriceMax || order.Price == PriceMin

	if !isConvertedMarketOrder && !ob.rules.IsValidPrice(order.Price) {
		return Reject(RejectInvalidPrice)
	}

	if !ob.rules.IsValidQuantity(order.RemainingQuantity) {
		switch {
		case order.RemainingQuantity < ob.rules.MinQuantity:
			return Reject(RejectBelowMinQuantity)
		case order.RemainingQuantity > ob.rules.MaxQuantity:
			return Reject(RejectAboveMaxQuantity)
		default:
			return Reject(RejectInvalidQuantity)
		}
	}

	if !isConvertedMarketOrder && !ob.rules.IsValidNotional(order.Price, order.RemainingQuantity) {
		return Reject(RejectBelowMinNotional)
	}

	return Accept()
}

// CheckAndResetDay sweeps GoodForDay orders if the configured reset time
// has passed since the last sweep. DayResetSweeps/LastDayResetCancelledCount
// let a caller notice a sweep happened and log or publish it.
func (ob *Orderbook) CheckAndResetDay(now time.Time) {
	if ob.clock.ShouldResetDay(now) {
		ob.lastDayResetCancelled = ob.cancelGoodForDayOrders()
		ob.dayResetSweeps++
		ob.clock.MarkResetOccurred(now)
	}
}

// cancelGoodForDayOrders collects ids first, then cancels: cancelling while
// ranging over ob.orders would mutate the map being iterated. It returns how
// many orders it cancelled.
func (ob *Orderbook) cancelGoodForDayOrders() int {
	toCancel := make([]OrderId, 0)
	for id, loc := range ob.orders {
		order := orderAt(loc)
		if order.Type == GoodForDay {
			toCancel = append(toCancel, id)
		}
	}
	for _, id := range toCancel {
		ob.CancelOrder(id)
	}
	return len(toCancel)
}

func orderAt(loc orderLocation) *Order {
	return loc.elem.Value.(*Order)
}

// AddOrder admits order, validates it, matches what it can and rests the
// remainder per its type. It returns the trades produced; an order that is
// rejected outright produces no trades and never touches the book.
func (ob *Orderbook) AddOrder(order *Order, now time.Time) Trades {
	ob.CheckAndResetDay(now)

	if order.Type == Market {
		if order.Side == Buy {
			if ob.asks.len() == 0 {
				return nil
			}
			order.ToLimit(PriceMax)
		} else {
			if ob.bids.len() == 0 {
				return nil
			}
			order.ToLimit(PriceMin)
		}
	}

	if validation := ob.validateOrder(order); !validation.IsValid {
		return nil
	}

	if order.Type == ImmediateOrCancel && !ob.CanMatch(order.Side, order.Price) {
		return nil
	}

	if order.Type == FillOrKill {
		return ob.matchFillOrKill(order)
	}

	side := ob.sideOf(order.Side)
	level := side.getOrCreateLevel(order.Price)
	elem := level.addOrder(order)
	ob.orders[order.Id] = orderLocation{level: level, elem: elem}

	return ob.matchOrders()
}

// CancelOrder removes order id from the book, if present. Cancelling an
// unknown id is a no-op, matching the original's tolerant behavior.
func (ob *Orderbook) CancelOrder(id OrderId) *Order {
	loc, exists := ob.orders[id]
	if !exists {
		return nil
	}
	order := orderAt(loc)

	loc.level.removeOrder(loc.elem)
	if loc.level.isEmpty() {
		ob.sideOf(order.Side).removeLevel(loc.level.Price)
	}
	delete(ob.orders, id)
	return order
}

// MatchOrder applies an OrderModify as cancel-and-replace: the existing
// order's type is preserved, everything else takes the new values.
func (ob *Orderbook) MatchOrder(modify OrderModify, now time.Time) Trades {
	ob.CheckAndResetDay(now)

	loc, exists := ob.orders[modify.Id]
	if !exists {
		return nil
	}
	existingType := orderAt(loc).Type
	ob.CancelOrder(modify.Id)
	return ob.AddOrder(modify.ToOrder(existingType), now)
}

// matchOrders repeatedly crosses the best bid against the best ask while
// their prices overlap, then sweeps any ImmediateOrCancel remainder left at
// the new best price on either side.
func (ob *Orderbook) matchOrders() Trades {
	var trades Trades

	for {
		bidLevel := ob.bids.bestLevel(true)
		askLevel := ob.asks.bestLevel(false)
		if bidLevel == nil || askLevel == nil {
			break
		}
		if bidLevel.Price < askLevel.Price {
			break
		}

		for bidLevel.Orders.Len() > 0 && askLevel.Orders.Len() > 0 {
			bidElem := bidLevel.Orders.Front()
			askElem := askLevel.Orders.Front()
			bid := bidElem.Value.(*Order)
			ask := askElem.Value.(*Order)

			quantity := minQuantity(bid.RemainingQuantity, ask.RemainingQuantity)

			trades = append(trades, Trade{
				Bid: TradeInfo{OrderId: bid.Id, Price: bid.Price, Quantity: quantity},
				Ask: TradeInfo{OrderId: ask.Id, Price: ask.Price, Quantity: quantity},
			})

			bid.Fill(quantity)
			ask.Fill(quantity)
			bidLevel.Volume -= quantity
			askLevel.Volume -= quantity

			if bid.IsFilled() {
				delete(ob.orders, bid.Id)
				bidLevel.Orders.Remove(bidElem)
			}
			if ask.IsFilled() {
				delete(ob.orders, ask.Id)
				askLevel.Orders.Remove(askElem)
			}
		}

		if bidLevel.isEmpty() {
			ob.bids.removeLevel(bidLevel.Price)
		}
		if askLevel.isEmpty() {
			ob.asks.removeLevel(askLevel.Price)
		}
	}

	ob.cancelLeadingIOCRemainder()

	return trades
}

// cancelLeadingIOCRemainder cancels any ImmediateOrCancel order left with a
// remaining quantity at the current best price on either side, once no
// further matching is possible. IOC orders never rest beyond the pass that
// admitted them.
func (ob *Orderbook) cancelLeadingIOCRemainder() {
	toCancel := make([]OrderId, 0, 2)

	if best := ob.bids.bestLevel(true); best != nil {
		for e := best.Orders.Front(); e != nil; e = e.Next() {
			order := e.Value.(*Order)
			if order.Type == ImmediateOrCancel && order.RemainingQuantity > 0 {
				toCancel = append(toCancel, order.Id)
			}
		}
	}
	if best := ob.asks.bestLevel(false); best != nil {
		for e := best.Orders.Front(); e != nil; e = e.Next() {
			order := e.Value.(*Order)
			if order.Type == ImmediateOrCancel && order.RemainingQuantity > 0 {
				toCancel = append(toCancel, order.Id)
			}
		}
	}

	for _, id := range toCancel {
		ob.CancelOrder(id)
	}
}

// matchFillOrKill matches order against the book, mutating it only when the
// order can be filled in full: it first collects enough resting quantity to
// fill order completely without touching the book, and only if that
// collection fully satisfies the order does it execute the fills and trades. This two-phase collect-then-execute sequencing is what
// keeps a failed FillOrKill from leaving partial side-effects.
func (ob *Orderbook) matchFillOrKill(order *Order) Trades {
	remaining := order.RemainingQuantity
	matches := ob.collectFillOrKillMatches(order, &remaining)

	if remaining > 0 {
		return nil
	}

	return ob.executeFillOrKillMatches(order, matches)
}

type fillOrKillMatch struct {
	order    *Order
	quantity Quantity
}

func (ob *Orderbook) collectFillOrKillMatches(order *Order, remaining *Quantity) []fillOrKillMatch {
	var matches []fillOrKillMatch

	visit := func(level *priceLevel) bool {
		for e := level.Orders.Front(); e != nil; e = e.Next() {
			resting := e.Value.(*Order)
			quantity := minQuantity(*remaining, resting.RemainingQuantity)
			matches = append(matches, fillOrKillMatch{order: resting, quantity: quantity})
			*remaining -= quantity
			if *remaining == 0 {
				return false
			}
		}
		return true
	}

	if order.Side == Buy {
		ob.asks.ascend(func(level *priceLevel) bool {
			if level.Price > order.Price {
				return false
			}
			return visit(level)
		})
	} else {
		ob.bids.descend(func(level *priceLevel) bool {
			if level.Price < order.Price {
				return false
			}
			return visit(level)
		})
	}

	return matches
}

func (ob *Orderbook) executeFillOrKillMatches(order *Order, matches []fillOrKillMatch) Trades {
	trades := make(Trades, 0, len(matches))

	for _, m := range matches {
		order.Fill(m.quantity)
		m.order.Fill(m.quantity)
		if loc, exists := ob.orders[m.order.Id]; exists {
			loc.level.Volume -= m.quantity
		}

		var trade Trade
		if order.Side == Buy {
			trade = Trade{
				Bid: TradeInfo{OrderId: order.Id, Price: order.Price, Quantity: m.quantity},
				Ask: TradeInfo{OrderId: m.order.Id, Price: m.order.Price, Quantity: m.quantity},
			}
		} else {
			trade = Trade{
				Bid: TradeInfo{OrderId: m.order.Id, Price: m.order.Price, Quantity: m.quantity},
				Ask: TradeInfo{OrderId: order.Id, Price: order.Price, Quantity: m.quantity},
			}
		}
		trades = append(trades, trade)

		if m.order.IsFilled() {
			ob.CancelOrder(m.order.Id)
		}
	}

	return trades
}

func minQuantity(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}
