package book

import "testing"

func TestProcessMarketDataNewOrderAndCancel(t *testing.T) {
	ob := newTestBook()

	ob.ProcessMarketData(NewOrderMessage{OrderId: 1, Side: Buy, Price: 100, Quantity: 10, OrderType: GoodTillCancel}, epoch)
	if ob.Size() != 1 {
		t.Fatalf("expected one resting order, got size %d", ob.Size())
	}

	ob.ProcessMarketData(CancelOrderMessage{OrderId: 1}, epoch)
	if ob.Size() != 0 {
		t.Errorf("expected cancel message to remove the order, got size %d", ob.Size())
	}

	stats := ob.GetMarketDataStats()
	if stats.NewOrders != 1 || stats.Cancellations != 1 || stats.MessagesProcessed != 2 {
		t.Errorf("unexpected stats after new+cancel: %+v", stats)
	}
}

func TestProcessMarketDataModify(t *testing.T) {
	ob := newTestBook()
	ob.ProcessMarketData(NewOrderMessage{OrderId: 1, Side: Buy, Price: 100, Quantity: 10, OrderType: GoodTillCancel}, epoch)
	ob.ProcessMarketData(ModifyOrderMessage{OrderId: 1, Side: Buy, NewPrice: 110, NewQuantity: 20}, epoch)

	infos := ob.GetOrderInfos()
	if len(infos.Bids) != 1 || infos.Bids[0].Price != 110 || infos.Bids[0].Quantity != 20 {
		t.Fatalf("unexpected depth after modify message: %+v", infos.Bids)
	}
	if ob.GetMarketDataStats().Modifications != 1 {
		t.Errorf("expected modification to be counted")
	}
}

func TestProcessMarketDataTradeMessageIsInformational(t *testing.T) {
	ob := newTestBook()
	ob.ProcessMarketData(TradeMessage{BuyOrderId: 1, SellOrderId: 2, Price: 100, Quantity: 5}, epoch)

	if ob.Size() != 0 {
		t.Errorf("expected a standalone trade message not to touch the book, got size %d", ob.Size())
	}
	if ob.GetMarketDataStats().Trades != 1 {
		t.Errorf("expected the informational trade to be counted")
	}
}

func TestProcessSnapshotRebuildsBook(t *testing.T) {
	ob := newTestBook()
	ob.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 90, 5), epoch)

	snapshot := BookSnapshotMessage{
		Bids:           []SnapshotLevel{{Price: 100, Quantity: 10, OrderCount: 2}},
		Asks:           []SnapshotLevel{{Price: 105, Quantity: 8, OrderCount: 1}},
		SequenceNumber: 1,
	}
	ob.ProcessMarketData(snapshot, epoch)

	if !ob.IsInitialized() {
		t.Errorf("expected book to be initialized after a snapshot")
	}
	if ob.LastSequenceNumber() != 1 {
		t.Errorf("expected last sequence number 1, got %d", ob.LastSequenceNumber())
	}

	infos := ob.GetOrderInfos()
	if len(infos.Bids) != 1 || infos.Bids[0].Price != 100 || infos.Bids[0].Quantity != 10 {
		t.Fatalf("expected snapshot to replace prior book state, got %+v", infos.Bids)
	}
	if len(infos.Asks) != 1 || infos.Asks[0].Quantity != 8 {
		t.Fatalf("unexpected ask depth after snapshot: %+v", infos.Asks)
	}
}

func TestProcessSnapshotDetectsSequenceGap(t *testing.T) {
	ob := newTestBook()
	ob.ProcessMarketData(BookSnapshotMessage{SequenceNumber: 1}, epoch)
	ob.ProcessMarketData(BookSnapshotMessage{SequenceNumber: 5}, epoch)

	if ob.GetMarketDataStats().SequenceGaps != 1 {
		t.Errorf("expected a sequence gap to be detected, got stats %+v", ob.GetMarketDataStats())
	}
}

func TestMarketDataStatsResetAndAverageLatency(t *testing.T) {
	ob := newTestBook()
	ob.ProcessMarketData(NewOrderMessage{OrderId: 1, Side: Buy, Price: 100, Quantity: 10, OrderType: GoodTillCancel}, epoch)

	if ob.GetMarketDataStats().MessagesProcessed != 1 {
		t.Fatalf("expected one message processed")
	}

	ob.ResetMarketDataStats()
	stats := ob.GetMarketDataStats()
	if stats.MessagesProcessed != 0 || stats.AverageLatency() != 0 {
		t.Errorf("expected stats to be zeroed after reset, got %+v", stats)
	}
}

func TestProcessMarketDataBatchCountsSuccesses(t *testing.T) {
	ob := newTestBook()
	messages := []MarketDataMessage{
		NewOrderMessage{OrderId: 1, Side: Buy, Price: 100, Quantity: 10, OrderType: GoodTillCancel},
		NewOrderMessage{OrderId: 2, Side: Sell, Price: 100, Quantity: 5, OrderType: GoodTillCancel},
		CancelOrderMessage{OrderId: 1},
	}

	n := ob.ProcessMarketDataBatch(messages, epoch)
	if n != 3 {
		t.Errorf("expected all 3 messages to process successfully, got %d", n)
	}
}
