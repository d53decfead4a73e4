package book

import "testing"

func TestOrderFill(t *testing.T) {
	order := NewOrder(GoodTillCancel, 1, Buy, 100, 10)

	if !order.Fill(3) {
		t.Fatalf("expected partial fill to succeed")
	}
	if order.RemainingQuantity != 7 {
		t.Errorf("expected remaining quantity 7, got %d", order.RemainingQuantity)
	}
	if order.FilledQuantity() != 3 {
		t.Errorf("expected filled quantity 3, got %d", order.FilledQuantity())
	}
	if order.IsFilled() {
		t.Errorf("expected order not fully filled yet")
	}

	if order.Fill(100) {
		t.Errorf("expected overfill to be rejected")
	}
	if order.RemainingQuantity != 7 {
		t.Errorf("expected remaining quantity unchanged at 7 after rejected overfill, got %d", order.RemainingQuantity)
	}

	if !order.Fill(7) {
		t.Fatalf("expected final fill to succeed")
	}
	if !order.IsFilled() {
		t.Errorf("expected order to be fully filled")
	}
}

func TestOrderToLimit(t *testing.T) {
	market := NewMarketOrder(1, Buy, 10)
	if !market.ToLimit(PriceMax) {
		t.Fatalf("expected market order conversion to succeed")
	}
	if market.Type != GoodTillCancel {
		t.Errorf("expected converted order type GoodTillCancel, got %v", market.Type)
	}
	if market.Price != PriceMax {
		t.Errorf("expected converted order price PriceMax, got %d", market.Price)
	}

	limit := NewOrder(GoodTillCancel, 2, Buy, 100, 10)
	if limit.ToLimit(PriceMax) {
		t.Errorf("expected ToLimit on a non-Market order to fail")
	}
}

func TestOrderModifyToOrder(t *testing.T) {
	modify := OrderModify{Id: 5, Side: Sell, Price: 200, Quantity: 20}
	order := modify.ToOrder(GoodForDay)

	if order.Id != 5 || order.Side != Sell || order.Price != 200 || order.InitialQuantity != 20 {
		t.Errorf("unexpected order built from modify: %+v", order)
	}
	if order.Type != GoodForDay {
		t.Errorf("expected preserved type GoodForDay, got %v", order.Type)
	}
}
