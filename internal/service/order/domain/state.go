// internal/service/order/domain/state.go
package domain

// OrderStatus 定义了订单的主工作流状态
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusCompleted      OrderStatus = "completed"
	StatusCanceled       OrderStatus = "canceled"
	StatusArchived       OrderStatus = "archived"
	StatusRequiresAction OrderStatus = "requires_action"
)

// FulfillmentStatus 定义了订单的履约状态
type FulfillmentStatus string

const (
	FulfillmentNotFulfilled       FulfillmentStatus = "not_fulfilled"
	FulfillmentPartiallyFulfilled FulfillmentStatus = "partially_fulfilled"
	FulfillmentFulfilled          FulfillmentStatus = "fulfilled"
	FulfillmentPartiallyShipped   FulfillmentStatus = "partially_shipped"
	FulfillmentShipped            FulfillmentStatus = "shipped"
	FulfillmentPartiallyReturned  FulfillmentStatus = "partially_returned"
	FulfillmentReturned           FulfillmentStatus = "returned"
	FulfillmentCanceled           FulfillmentStatus = "canceled"
)

// PaymentStatus 定义了订单的支付状态
type PaymentStatus string

const (
	PaymentNotPaid  PaymentStatus = "not_paid"
	PaymentAwaiting PaymentStatus = "awaiting"
	PaymentCaptured PaymentStatus = "captured"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentCanceled PaymentStatus = "canceled"
)

// CancelStatus 定义了取消流程的子状态。nil 表示订单不在取消流程中。
type CancelStatus string

const (
	CancelRequested CancelStatus = "cancel_requested"
	CancelCompleted CancelStatus = "cancel_completed"
)

// CancelType 区分取消的发起方
type CancelType string

const (
	CancelTypeBuyer  CancelType = "buyer"
	CancelTypeSeller CancelType = "seller"
)

// CancelState 是取消状态机的显式视图，由订单字段推导而来。
type CancelState string

const (
	CancelStateActive    CancelState = "active"    // cancel_status 为空
	CancelStateRequested CancelState = "requested" // 已申请取消，可撤回
	CancelStateConfirmed CancelState = "confirmed" // 终态，由 saga 写入
)

// cancelTransitions 枚举了取消状态机允许的流转。
// 不在表中的流转一律拒绝，而不是依赖调用点自行判断。
var cancelTransitions = map[CancelState][]CancelState{
	CancelStateActive:    {CancelStateRequested},
	CancelStateRequested: {CancelStateActive, CancelStateConfirmed},
	CancelStateConfirmed: {},
}

// CanTransitCancel 判断取消状态机是否允许 from -> to 的流转。
func CanTransitCancel(from, to CancelState) bool {
	for _, next := range cancelTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// stateRule 描述一组合法的组合状态：某个主状态 + 取消子状态下，
// 允许出现的履约状态与支付状态集合。
type stateRule struct {
	status       OrderStatus
	cancelStatus *CancelStatus
	fulfillments []FulfillmentStatus
	payments     []PaymentStatus
}

func cancelStatusRef(s CancelStatus) *CancelStatus { return &s }

// stateTable 是组合状态的唯一事实来源。
// 曾经散落在各查询点的 status × fulfillment × payment × cancel 组合判断
// 全部收敛到这张表里；构造与每次状态变更后都会校验。
var stateTable = []stateRule{
	{
		// 整单发货即完成，pending 不会停留在 shipped
		status: StatusPending, cancelStatus: nil,
		fulfillments: []FulfillmentStatus{
			FulfillmentNotFulfilled, FulfillmentPartiallyFulfilled, FulfillmentFulfilled,
			FulfillmentPartiallyShipped,
		},
		payments: []PaymentStatus{PaymentNotPaid, PaymentAwaiting, PaymentCaptured},
	},
	{
		status: StatusCompleted, cancelStatus: nil,
		fulfillments: []FulfillmentStatus{
			FulfillmentShipped, FulfillmentPartiallyReturned, FulfillmentReturned,
		},
		payments: []PaymentStatus{PaymentCaptured, PaymentRefunded},
	},
	{
		// 系统侧取消（如支付超时），不经过取消申请流程
		status: StatusCanceled, cancelStatus: nil,
		fulfillments: []FulfillmentStatus{FulfillmentNotFulfilled, FulfillmentCanceled},
		payments:     []PaymentStatus{PaymentNotPaid, PaymentAwaiting, PaymentCanceled},
	},
	{
		// 取消申请中：主状态已翻转为 canceled，但履约/支付仍保持申请前的值
		status: StatusCanceled, cancelStatus: cancelStatusRef(CancelRequested),
		fulfillments: []FulfillmentStatus{FulfillmentNotFulfilled, FulfillmentFulfilled},
		payments:     []PaymentStatus{PaymentNotPaid, PaymentAwaiting, PaymentCaptured},
	},
	{
		// 取消完成：终态
		status: StatusCanceled, cancelStatus: cancelStatusRef(CancelCompleted),
		fulfillments: []FulfillmentStatus{FulfillmentCanceled},
		payments:     []PaymentStatus{PaymentCanceled},
	},
	{
		status: StatusArchived, cancelStatus: nil,
		fulfillments: []FulfillmentStatus{
			FulfillmentShipped, FulfillmentReturned, FulfillmentPartiallyReturned, FulfillmentCanceled,
		},
		payments: []PaymentStatus{PaymentCaptured, PaymentRefunded, PaymentCanceled},
	},
	{
		status: StatusRequiresAction, cancelStatus: nil,
		fulfillments: []FulfillmentStatus{FulfillmentNotFulfilled},
		payments:     []PaymentStatus{PaymentNotPaid, PaymentAwaiting},
	},
}

func (r stateRule) matches(status OrderStatus, cancel *CancelStatus) bool {
	if r.status != status {
		return false
	}
	if (r.cancelStatus == nil) != (cancel == nil) {
		return false
	}
	return cancel == nil || *r.cancelStatus == *cancel
}

func (r stateRule) allows(f FulfillmentStatus, p PaymentStatus) bool {
	okF, okP := false, false
	for _, v := range r.fulfillments {
		if v == f {
			okF = true
			break
		}
	}
	for _, v := range r.payments {
		if v == p {
			okP = true
			break
		}
	}
	return okF && okP
}

// ValidateCombination 校验一组状态是否在合法组合表中。
// 这里同时兜底了核心不变量：cancel_status 非空蕴含 status = canceled。
func ValidateCombination(status OrderStatus, fulfillment FulfillmentStatus, payment PaymentStatus, cancel *CancelStatus) error {
	if cancel != nil && status != StatusCanceled {
		return InvalidData("cancel_status %q requires status canceled, got %q", *cancel, status)
	}
	for _, rule := range stateTable {
		if !rule.matches(status, cancel) {
			continue
		}
		if rule.allows(fulfillment, payment) {
			return nil
		}
	}
	return InvalidData("state combination not permitted: status=%s fulfillment=%s payment=%s", status, fulfillment, payment)
}
