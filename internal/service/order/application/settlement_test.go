package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

func TestSettlementService_CapturePrice(t *testing.T) {
	t.Run("miss computes and persists the snapshot", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		order := newPendingSubOrder()
		order.Discounts = []domain.Discount{
			{ID: "disc_b", Type: domain.DiscountTypeCoupon, RuleValue: 60},
			{ID: "disc_a", Type: domain.DiscountTypePromoCode, RuleValue: 40},
		}
		uow.orders.put(order)
		totals := &fakeTotals{shipping: 200, discount: 100}
		svc := NewSettlementService(uow, totals, testTracer)

		snapshot, err := svc.CapturePrice(context.Background(), order)
		require.NoError(t, err)

		assert.Equal(t, int64(1200), snapshot.Total)
		assert.Equal(t, int64(1000), snapshot.Subtotal)
		assert.Equal(t, int64(200), snapshot.ShippingTotal)
		assert.Equal(t, int64(100), snapshot.DiscountTotal)
		assert.Equal(t, []string{"disc_a", "disc_b"}, snapshot.DiscountIDs, "discount ids are stored sorted")
		assert.False(t, snapshot.CapturedAt.IsZero())

		require.NotNil(t, uow.orders.orders[order.ID].Settlement)
		assert.True(t, snapshot.Equal(*uow.orders.orders[order.ID].Settlement))
	})

	t.Run("hit returns the cached snapshot without recomputation", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		order := newPendingSubOrder()
		cached := domain.SettlementSnapshot{Total: 999, Subtotal: 900, ShippingTotal: 99}
		order.Settlement = &cached
		uow.orders.put(order)
		totals := &fakeTotals{shipping: 200, discount: 100}
		svc := NewSettlementService(uow, totals, testTracer)

		snapshot, err := svc.CapturePrice(context.Background(), order)
		require.NoError(t, err)

		assert.True(t, cached.Equal(snapshot))
		assert.Zero(t, totals.calls, "cache hit must not recompute totals")
	})

	t.Run("consecutive calls by id are identical", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		order := newPendingSubOrder()
		uow.orders.put(order)
		totals := &fakeTotals{shipping: 200, discount: 100}
		svc := NewSettlementService(uow, totals, testTracer)

		first, err := svc.CapturePriceByID(context.Background(), order.ID)
		require.NoError(t, err)
		second, err := svc.CapturePriceByID(context.Background(), order.ID)
		require.NoError(t, err)

		assert.True(t, first.Equal(second))
		assert.Equal(t, 1, totals.calls, "only the first call computes")
	})

	t.Run("line item changes do not invalidate the cache", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		order := newPendingSubOrder()
		uow.orders.put(order)
		totals := &fakeTotals{shipping: 200, discount: 0}
		svc := NewSettlementService(uow, totals, testTracer)

		first, err := svc.CapturePriceByID(context.Background(), order.ID)
		require.NoError(t, err)

		// 行项目事后变化，缓存仍然生效
		uow.orders.orders[order.ID].Items = append(uow.orders.orders[order.ID].Items,
			domain.OrderItem{ID: "item_2", VariantID: "var_2", UnitPrice: 300, Quantity: 1})

		stale, err := svc.CapturePriceByID(context.Background(), order.ID)
		require.NoError(t, err)
		assert.True(t, first.Equal(stale))

		// 显式清空后按当前行项目重算
		require.NoError(t, svc.ClearSnapshot(context.Background(), order.ID))
		fresh, err := svc.CapturePriceByID(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1300), fresh.Subtotal)
	})
}
