package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

func TestDispatcher_ForwardsAndNotifiesSubscribers(t *testing.T) {
	publisher := &capturePublisher{}
	dispatcher := NewDispatcher(publisher)

	received := make(chan domain.CanceledEvent, 1)
	dispatcher.OnCanceled(func(_ context.Context, event domain.CanceledEvent) error {
		received <- event
		return nil
	})

	event := domain.CanceledEvent{EventID: "evt_1", OrderID: "order_1", CustomerID: "cus_1"}
	require.NoError(t, dispatcher.PublishCanceled(context.Background(), event))

	// 外发不等待订阅方
	require.Len(t, publisher.canceled, 1)

	select {
	case got := <-received:
		assert.Equal(t, "order_1", got.OrderID)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was not notified")
	}
}

func TestDispatcher_SubscriberErrorDoesNotFailPublish(t *testing.T) {
	dispatcher := NewDispatcher(&capturePublisher{})

	done := make(chan struct{}, 1)
	dispatcher.OnShipmentCompleted(func(_ context.Context, _ domain.ShipmentCompletedEvent) error {
		done <- struct{}{}
		return domain.InvalidData("subscriber blew up")
	})

	err := dispatcher.PublishShipmentCompleted(context.Background(), domain.ShipmentCompletedEvent{OrderID: "order_1"})
	assert.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was not notified")
	}
}

func TestPointRefundHandler_RefundsPointDiscountsOnly(t *testing.T) {
	uow := newFakeUnitOfWork()
	order := newPendingSubOrder()
	uow.orders.put(order)
	uow.discounts.byOrder[order.ID] = []domain.Discount{
		{ID: "disc_point", Type: domain.DiscountTypePoint, RuleValue: 300},
		{ID: "disc_point_2", Type: domain.DiscountTypePoint, RuleValue: 150},
		{ID: "disc_promo", Type: domain.DiscountTypePromoCode, RuleValue: 100},
	}
	points := &fakePoints{}
	handler := NewPointRefundHandler(uow, points, testTracer)

	err := handler.Handle(context.Background(), domain.CanceledEvent{
		OrderID: order.ID, CustomerID: "cus_1",
	})
	require.NoError(t, err)

	require.Len(t, points.refunds, 2)
	assert.Equal(t, pointRefund{customerID: "cus_1", amount: 300}, points.refunds[0])
	assert.Equal(t, pointRefund{customerID: "cus_1", amount: 150}, points.refunds[1])
}
