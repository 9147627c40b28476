// internal/service/order/infrastructure/mapper.go
package infrastructure

import (
	"github.com/samber/lo"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// ToDomainOrder 将数据库模型转换为领域模型
func ToDomainOrder(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	var cancelStatus *domain.CancelStatus
	if model.CancelStatus != nil {
		cs := domain.CancelStatus(*model.CancelStatus)
		cancelStatus = &cs
	}
	var cancelType *domain.CancelType
	if model.CancelType != nil {
		ct := domain.CancelType(*model.CancelType)
		cancelType = &ct
	}

	return &domain.Order{
		ID:                model.ID,
		ParentID:          model.ParentID,
		StoreID:           model.StoreID,
		CustomerID:        model.CustomerID,
		Status:            domain.OrderStatus(model.Status),
		FulfillmentStatus: domain.FulfillmentStatus(model.FulfillmentStatus),
		PaymentStatus:     domain.PaymentStatus(model.PaymentStatus),
		CancelStatus:      cancelStatus,
		CancelType:        cancelType,
		CancelReason:      model.CancelReason,
		Total:             model.Total,
		ShippingTotal:     model.ShippingTotal,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
		ShippedAt:         model.ShippedAt,
		CanceledAt:        model.CanceledAt,
		Settlement:        model.MetadataPrice,
		Billing:           model.MetadataBilling,
		Items: lo.Map(model.Items, func(m OrderItemModel, _ int) domain.OrderItem {
			return domain.OrderItem{ID: m.ID, VariantID: m.VariantID, UnitPrice: m.UnitPrice, Quantity: m.Quantity}
		}),
		Discounts: lo.Map(model.Discounts, func(m DiscountModel, _ int) domain.Discount {
			return ToDomainDiscount(&m)
		}),
		Payments: lo.Map(model.Payments, func(m PaymentModel, _ int) domain.Payment {
			return domain.Payment{ID: m.ID, ProviderID: m.ProviderID, Amount: m.Amount, CanceledAt: m.CanceledAt}
		}),
		Fulfillments: lo.Map(model.Fulfillments, func(m FulfillmentModel, _ int) domain.Fulfillment {
			return domain.Fulfillment{ID: m.ID, CanceledAt: m.CanceledAt}
		}),
		Returns: lo.Map(model.Returns, func(m ReturnModel, _ int) domain.Return {
			return domain.Return{ID: m.ID, Status: domain.ReturnStatus(m.Status)}
		}),
		Claims: lo.Map(model.Claims, func(m ClaimModel, _ int) domain.Claim {
			return domain.Claim{ID: m.ID, CanceledAt: m.CanceledAt}
		}),
		Swaps: lo.Map(model.Swaps, func(m SwapModel, _ int) domain.Swap {
			return domain.Swap{ID: m.ID, CanceledAt: m.CanceledAt}
		}),
		Refunds: lo.Map(model.Refunds, func(m RefundModel, _ int) domain.Refund {
			return domain.Refund{ID: m.ID, Amount: m.Amount}
		}),
	}
}

// ToDomainDiscount 将折扣模型转换为领域模型
func ToDomainDiscount(model *DiscountModel) domain.Discount {
	return domain.Discount{
		ID:               model.ID,
		Type:             domain.DiscountType(model.Type),
		RuleValue:        model.RuleValue,
		UsageCount:       model.UsageCount,
		ParentDiscountID: model.ParentDiscountID,
	}
}

// ToDomainStore 将店铺模型转换为领域模型
func ToDomainStore(model *StoreModel) *domain.Store {
	if model == nil {
		return nil
	}
	return &domain.Store{
		ID:           model.ID,
		OwnerID:      model.OwnerID,
		PlanType:     domain.PlanType(model.PlanType),
		MarginRate:   model.MarginRate,
		SpecRate:     model.SpecRate,
		SpecStartsAt: model.SpecStartsAt,
		SpecEndsAt:   model.SpecEndsAt,
	}
}

// orderWorkflowColumns 构造订单工作流字段的更新集。
// 使用 map 以便把清空的取消字段写成 NULL。
func orderWorkflowColumns(order *domain.Order) map[string]interface{} {
	var cancelStatus, cancelType interface{}
	if order.CancelStatus != nil {
		cancelStatus = string(*order.CancelStatus)
	}
	if order.CancelType != nil {
		cancelType = string(*order.CancelType)
	}
	return map[string]interface{}{
		"status":             string(order.Status),
		"fulfillment_status": string(order.FulfillmentStatus),
		"payment_status":     string(order.PaymentStatus),
		"cancel_status":      cancelStatus,
		"cancel_type":        cancelType,
		"cancel_reason":      order.CancelReason,
		"shipped_at":         order.ShippedAt,
		"canceled_at":        order.CanceledAt,
		"updated_at":         order.UpdatedAt,
	}
}
