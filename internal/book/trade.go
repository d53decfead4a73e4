package book

// TradeInfo describes one side's contribution to an executed trade.
type TradeInfo struct {
	OrderId  OrderId
	Price    Price
	Quantity Quantity
}

// Trade is a single match between a resting bid and a resting ask. Price on
// each side is the respective resting order's own limit price, not a single
// clearing price: the bid and ask TradeInfo.Price fields may differ when the
// aggressor crossed the spread.
type Trade struct {
	Bid TradeInfo
	Ask TradeInfo
}

// Trades is a sequence of trades produced by a single matching pass.
type Trades []Trade
