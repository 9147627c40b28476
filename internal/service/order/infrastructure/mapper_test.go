package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

func strPtr(s string) *string { return &s }

func TestToDomainOrder(t *testing.T) {
	now := time.Now()
	shipped := now.Add(-24 * time.Hour)
	model := &OrderModel{
		ID:                "order_1",
		ParentID:          strPtr("order_parent"),
		StoreID:           "store_1",
		CustomerID:        "cus_1",
		Status:            "canceled",
		FulfillmentStatus: "fulfilled",
		PaymentStatus:     "captured",
		CancelStatus:      strPtr("cancel_requested"),
		CancelType:        strPtr("buyer"),
		CancelReason:      "wrong size",
		Total:             1200,
		ShippingTotal:     200,
		MetadataPrice:     &domain.SettlementSnapshot{Total: 1200, Subtotal: 1000},
		CreatedAt:         now,
		ShippedAt:         &shipped,
		Items: []OrderItemModel{
			{ID: "item_1", OrderID: "order_1", VariantID: "var_1", UnitPrice: 500, Quantity: 2},
		},
		Discounts: []DiscountModel{
			{ID: "disc_1", Type: "promo_code", RuleValue: 100, UsageCount: 2, ParentDiscountID: strPtr("disc_parent")},
		},
		Payments: []PaymentModel{
			{ID: "pay_1", OrderID: "order_1", ProviderID: "stripe", Amount: 1200},
		},
		Returns: []ReturnModel{
			{ID: "ret_1", OrderID: "order_1", Status: "canceled"},
		},
	}

	order := ToDomainOrder(model)
	require.NotNil(t, order)

	assert.Equal(t, "order_1", order.ID)
	assert.True(t, order.IsSubOrder())
	assert.Equal(t, domain.StatusCanceled, order.Status)
	assert.Equal(t, domain.FulfillmentFulfilled, order.FulfillmentStatus)
	require.NotNil(t, order.CancelStatus)
	assert.Equal(t, domain.CancelRequested, *order.CancelStatus)
	require.NotNil(t, order.CancelType)
	assert.Equal(t, domain.CancelTypeBuyer, *order.CancelType)
	assert.Equal(t, domain.CancelStateRequested, order.CancelState())

	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(1000), order.Subtotal())
	require.Len(t, order.Discounts, 1)
	assert.Equal(t, domain.DiscountTypePromoCode, order.Discounts[0].Type)
	require.NotNil(t, order.Discounts[0].ParentDiscountID)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, "stripe", order.Payments[0].ProviderID)
	require.Len(t, order.Returns, 1)
	assert.Equal(t, domain.ReturnCanceled, order.Returns[0].Status)

	require.NotNil(t, order.Settlement)
	assert.Equal(t, int64(1000), order.Settlement.Subtotal)
	assert.Nil(t, order.Billing)

	// NULL 的取消字段映射为 nil
	model.CancelStatus = nil
	model.CancelType = nil
	fresh := ToDomainOrder(model)
	assert.Nil(t, fresh.CancelStatus)
	assert.Equal(t, domain.CancelStateActive, fresh.CancelState())
}

func TestToDomainStore(t *testing.T) {
	rate := 5.0
	model := &StoreModel{ID: "store_1", OwnerID: "user_1", PlanType: "prime", MarginRate: &rate}
	store := ToDomainStore(model)

	require.NotNil(t, store)
	assert.Equal(t, domain.PlanPrime, store.PlanType)
	require.NotNil(t, store.MarginRate)
	assert.Equal(t, 5.0, *store.MarginRate)
	assert.Nil(t, store.SpecRate)

	assert.Nil(t, ToDomainStore(nil))
}

func TestOrderWorkflowColumns(t *testing.T) {
	order := &domain.Order{
		ID:                "order_1",
		Status:            domain.StatusPending,
		FulfillmentStatus: domain.FulfillmentNotFulfilled,
		PaymentStatus:     domain.PaymentAwaiting,
	}

	// 撤回取消申请后，取消字段必须写回 NULL 而不是空串
	columns := orderWorkflowColumns(order)
	assert.Equal(t, "pending", columns["status"])
	assert.Nil(t, columns["cancel_status"])
	assert.Nil(t, columns["cancel_type"])

	cs := domain.CancelRequested
	ct := domain.CancelTypeBuyer
	order.Status = domain.StatusCanceled
	order.CancelStatus = &cs
	order.CancelType = &ct
	columns = orderWorkflowColumns(order)
	assert.Equal(t, "cancel_requested", columns["cancel_status"])
	assert.Equal(t, "buyer", columns["cancel_type"])
}
