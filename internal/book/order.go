package book

// Order is a single resting or in-flight order. InitialQuantity never
// changes once the order is created; Remaining decreases as fills occur.
// Ported from the teacher's models.Order, with price/quantity narrowed from
// decimal.Decimal to the fixed-width integer types this book uses.
type Order struct {
	Type             OrderType
	Id               OrderId
	Side             Side
	Price            Price
	InitialQuantity  Quantity
	RemainingQuantity Quantity
}

// NewOrder creates a limit-priced order of the given type.
func NewOrder(orderType OrderType, id OrderId, side Side, price Price, quantity Quantity) *Order {
	return &Order{
		Type:              orderType,
		Id:                id,
		Side:              side,
		Price:             price,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
	}
}

// NewMarketOrder creates a Market order. Its price is meaningless until
// ToLimit pins it to PriceMax or PriceMin during admission.
func NewMarketOrder(id OrderId, side Side, quantity Quantity) *Order {
	return NewOrder(Market, id, side, 0, quantity)
}

// Fill reduces RemainingQuantity by quantity. It reports false and makes no
// change if quantity would overfill the order.
func (o *Order) Fill(quantity Quantity) bool {
	if quantity > o.RemainingQuantity {
		return false
	}
	o.RemainingQuantity -= quantity
	return true
}

// ToLimit converts a Market order into a GoodTillCancel order pinned at
// price. It is a no-op (returning false) for any other order type.
func (o *Order) ToLimit(price Price) bool {
	if o.Type != Market {
		return false
	}
	o.Price = price
	o.Type = GoodTillCancel
	return true
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// FilledQuantity returns how much of the order has executed so far.
func (o *Order) FilledQuantity() Quantity {
	return o.InitialQuantity - o.RemainingQuantity
}

// OrderModify describes a cancel-and-replace modification to an existing
// order: new price, new quantity, possibly a new side.
type OrderModify struct {
	Id       OrderId
	Side     Side
	Price    Price
	Quantity Quantity
}

// ToOrder builds the replacement order that results from applying this
// modification, preserving the original order's type.
func (m OrderModify) ToOrder(preservedType OrderType) *Order {
	return NewOrder(preservedType, m.Id, m.Side, m.Price, m.Quantity)
}
