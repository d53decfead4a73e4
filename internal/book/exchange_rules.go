package book

// RejectReason explains why AddOrder refused to admit an order. It is
// returned alongside OrderValidation rather than as a Go error, since a
// rejected order is an expected outcome of admission, not a failure of the
// call itself.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectInvalidPrice
	RejectInvalidQuantity
	RejectBelowMinQuantity
	RejectAboveMaxQuantity
	RejectBelowMinNotional
	RejectDuplicateOrderId
	RejectInvalidOrderType
	RejectEmptyBook
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "None"
	case RejectInvalidPrice:
		return "InvalidPrice"
	case RejectInvalidQuantity:
		return "InvalidQuantity"
	case RejectBelowMinQuantity:
		return "BelowMinQuantity"
	case RejectAboveMaxQuantity:
		return "AboveMaxQuantity"
	case RejectBelowMinNotional:
		return "BelowMinNotional"
	case RejectDuplicateOrderId:
		return "DuplicateOrderId"
	case RejectInvalidOrderType:
		return "InvalidOrderType"
	case RejectEmptyBook:
		return "EmptyBook"
	default:
		return "Unknown"
	}
}

// OrderValidation is the result of validating an order against ExchangeRules.
type OrderValidation struct {
	IsValid bool
	Reason  RejectReason
}

// Accept builds a passing OrderValidation.
func Accept() OrderValidation { return OrderValidation{IsValid: true, Reason: RejectNone} }

// Reject builds a failing OrderValidation carrying reason.
func Reject(reason RejectReason) OrderValidation { return OrderValidation{IsValid: false, Reason: reason} }

// ExchangeRules are the trading constraints the book enforces on admission:
// tick size, lot size, quantity bounds and minimum notional.
type ExchangeRules struct {
	TickSize    Price
	LotSize     Quantity
	MinQuantity Quantity
	MaxQuantity Quantity
	MinNotional int64
}

// DefaultExchangeRules mirrors the original's permissive defaults: any
// positive price, any positive quantity up to one million units, no
// minimum notional.
func DefaultExchangeRules() ExchangeRules {
	return ExchangeRules{
		TickSize:    1,
		LotSize:     1,
		MinQuantity: 1,
		MaxQuantity: 1_000_000,
		MinNotional: 0,
	}
}

// IsValidPrice reports whether price is positive and a multiple of TickSize.
func (r ExchangeRules) IsValidPrice(price Price) bool {
	if price <= 0 {
		return false
	}
	if r.TickSize == 0 {
		return true
	}
	return price%r.TickSize == 0
}

// IsValidQuantity reports whether quantity is within [MinQuantity,
// MaxQuantity] and a multiple of LotSize.
func (r ExchangeRules) IsValidQuantity(quantity Quantity) bool {
	if quantity < r.MinQuantity || quantity > r.MaxQuantity {
		return false
	}
	if r.LotSize == 0 {
		return true
	}
	return quantity%r.LotSize == 0
}

// IsValidNotional reports whether price*quantity meets MinNotional.
func (r ExchangeRules) IsValidNotional(price Price, quantity Quantity) bool {
	notional := int64(price) * int64(quantity)
	return notional >= r.MinNotional
}

// IsValidOrder is the conjunction of all three checks above.
func (r ExchangeRules) IsValidOrder(price Price, quantity Quantity) bool {
	return r.IsValidPrice(price) && r.IsValidQuantity(quantity) && r.IsValidNotional(price, quantity)
}

// RoundToTick rounds price down to the nearest valid tick.
func (r ExchangeRules) RoundToTick(price Price) Price {
	if r.TickSize <= 1 {
		return price
	}
	return (price / r.TickSize) * r.TickSize
}

// RoundToLot rounds quantity down to the nearest valid lot.
func (r ExchangeRules) RoundToLot(quantity Quantity) Quantity {
	if r.LotSize <= 1 {
		return quantity
	}
	return (quantity / r.LotSize) * r.LotSize
}
