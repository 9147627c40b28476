// internal/service/order/domain/order.go
package domain

import "time"

// Order 是订单聚合的根实体。
// 多店铺购物车在结算时会按店铺拆分为子订单（ParentID 非空），
// 子订单才是发货、取消、结算的实际单位；父订单只是伞形占位，从不直接履约。
type Order struct {
	ID         string
	ParentID   *string
	StoreID    string
	CustomerID string

	Status            OrderStatus
	FulfillmentStatus FulfillmentStatus
	PaymentStatus     PaymentStatus
	CancelStatus      *CancelStatus
	CancelType        *CancelType
	CancelReason      string

	// Total 是下单时落库的应付总额，结算快照的 total 直接取该值
	Total         int64
	ShippingTotal int64

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ShippedAt  *time.Time
	CanceledAt *time.Time

	Items        []OrderItem
	Discounts    []Discount
	Payments     []Payment
	Fulfillments []Fulfillment
	Returns      []Return
	Claims       []Claim
	Swaps        []Swap
	Refunds      []Refund

	// Settlement / Billing 是惰性计算的快照缓存，nil 表示尚未计算。
	// 它们不是事实来源，重算会整体覆盖。
	Settlement *SettlementSnapshot
	Billing    *BillingSnapshot
}

// OrderItem 是订单行项目
type OrderItem struct {
	ID        string
	VariantID string
	UnitPrice int64
	Quantity  int
}

// Subtotal 返回行小计
func (i OrderItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Payment 是订单上的一笔支付记录
type Payment struct {
	ID         string
	ProviderID string
	Amount     int64
	CanceledAt *time.Time
}

// Fulfillment 是一次履约（发货）记录
type Fulfillment struct {
	ID         string
	CanceledAt *time.Time
}

// ReturnStatus 是退货单状态
type ReturnStatus string

const (
	ReturnRequested ReturnStatus = "requested"
	ReturnReceived  ReturnStatus = "received"
	ReturnCanceled  ReturnStatus = "canceled"
)

// Return 是一次退货记录
type Return struct {
	ID     string
	Status ReturnStatus
}

// Claim 是一次售后索赔记录
type Claim struct {
	ID         string
	CanceledAt *time.Time
}

// Swap 是一次换货记录
type Swap struct {
	ID         string
	CanceledAt *time.Time
}

// Refund 是一笔已执行的退款
type Refund struct {
	ID     string
	Amount int64
}

// IsSubOrder 判断当前订单是否为店铺子订单
func (o *Order) IsSubOrder() bool {
	return o.ParentID != nil && *o.ParentID != ""
}

// CancelState 从字段推导取消状态机的当前状态
func (o *Order) CancelState() CancelState {
	switch {
	case o.CancelStatus == nil:
		return CancelStateActive
	case *o.CancelStatus == CancelRequested:
		return CancelStateRequested
	default:
		return CancelStateConfirmed
	}
}

// Validate 校验聚合当前的组合状态是否合法
func (o *Order) Validate() error {
	if o.ID == "" {
		return InvalidData("order id is empty")
	}
	return ValidateCombination(o.Status, o.FulfillmentStatus, o.PaymentStatus, o.CancelStatus)
}

// Subtotal 返回全部行项目的小计之和
func (o *Order) Subtotal() int64 {
	var sum int64
	for _, item := range o.Items {
		sum += item.Subtotal()
	}
	return sum
}

// RequestCancel 将订单置为"已申请取消"。
// 只有待处理且尚未发货（not_fulfilled / fulfilled）的订单可以进入该流程。
func (o *Order) RequestCancel(reason string, cancelType CancelType) error {
	if !CanTransitCancel(o.CancelState(), CancelStateRequested) {
		return NotAllowed("order %s cannot request cancel in state %s", o.ID, o.CancelState())
	}
	if o.Status != StatusPending {
		return NotAllowed("order %s cannot request cancel with status %s", o.ID, o.Status)
	}
	if o.FulfillmentStatus != FulfillmentNotFulfilled && o.FulfillmentStatus != FulfillmentFulfilled {
		return NotAllowed("order %s cannot request cancel with fulfillment status %s", o.ID, o.FulfillmentStatus)
	}

	cs := CancelRequested
	ct := cancelType
	o.Status = StatusCanceled
	o.CancelStatus = &cs
	o.CancelType = &ct
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	return o.Validate()
}

// CloseCancelRequest 撤回取消申请，订单回到待处理状态。
func (o *Order) CloseCancelRequest() error {
	if !CanTransitCancel(o.CancelState(), CancelStateActive) {
		return NotAllowed("order %s has no open cancel request", o.ID)
	}
	o.Status = StatusPending
	o.CancelStatus = nil
	o.CancelType = nil
	o.CancelReason = ""
	o.UpdatedAt = time.Now()
	return o.Validate()
}

// ConfirmCancel 写入取消终态。只能由取消 saga 在补偿动作全部成功后调用。
func (o *Order) ConfirmCancel(now time.Time) error {
	if !CanTransitCancel(o.CancelState(), CancelStateConfirmed) {
		return NotAllowed("order %s cancel is not requested", o.ID)
	}
	cs := CancelCompleted
	o.Status = StatusCanceled
	o.FulfillmentStatus = FulfillmentCanceled
	o.PaymentStatus = PaymentCanceled
	o.CancelStatus = &cs
	o.CanceledAt = &now
	o.UpdatedAt = now
	return o.Validate()
}

// MarkShipped 记录整单发货并把订单推进到已完成。
// 发货时间是账单聚合选单的依据；发货前支付必须已扣款。
func (o *Order) MarkShipped(now time.Time) error {
	if o.Status != StatusPending || o.CancelStatus != nil {
		return NotAllowed("order %s cannot ship with status %s", o.ID, o.Status)
	}
	if o.FulfillmentStatus != FulfillmentFulfilled && o.FulfillmentStatus != FulfillmentPartiallyShipped {
		return NotAllowed("order %s cannot ship with fulfillment status %s", o.ID, o.FulfillmentStatus)
	}
	if o.PaymentStatus != PaymentCaptured {
		return NotAllowed("order %s cannot ship with payment status %s", o.ID, o.PaymentStatus)
	}
	o.Status = StatusCompleted
	o.FulfillmentStatus = FulfillmentShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	return o.Validate()
}
